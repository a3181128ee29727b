// Package experiment maps model and integrator names to constructors.
package experiment
