// Package report renders matrices, vectors, metrics and trajectories for
// the terminal.
package report
