package report

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Precision is the number of significant digits printed per coefficient.
const Precision = 6

type Format int

const (
	// Default prints one bracketed row per line: "[a, b]\n[c, d]".
	Default Format = iota
	// Inline prints every coefficient in row order: "{a, b, c, d}".
	Inline
	// Plain prints space separated coefficients in row order.
	Plain
)

func (f Format) String() string {
	switch f {
	case Default:
		return "default"
	case Inline:
		return "inline"
	case Plain:
		return "plain"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return Default, nil
	case "inline":
		return Inline, nil
	case "plain", "none":
		return Plain, nil
	}
	return Default, fmt.Errorf("unknown format %q (want default, inline or plain)", s)
}

type layout struct {
	coeffSep, rowSep     string
	rowPrefix, rowSuffix string
	matPrefix, matSuffix string
}

var layouts = map[Format]layout{
	Default: {coeffSep: ", ", rowSep: "\n", rowPrefix: "[", rowSuffix: "]"},
	Inline:  {coeffSep: ", ", rowSep: ", ", matPrefix: "{", matSuffix: "}"},
	Plain:   {coeffSep: " ", rowSep: " "},
}

func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', Precision, 64)
}

func FormatMatrix(m mat.Matrix, f Format) string {
	l, ok := layouts[f]
	if !ok {
		l = layouts[Default]
	}

	r, c := m.Dims()
	var b strings.Builder
	b.WriteString(l.matPrefix)
	for i := 0; i < r; i++ {
		if i > 0 {
			b.WriteString(l.rowSep)
		}
		b.WriteString(l.rowPrefix)
		for j := 0; j < c; j++ {
			if j > 0 {
				b.WriteString(l.coeffSep)
			}
			b.WriteString(FormatFloat(m.At(i, j)))
		}
		b.WriteString(l.rowSuffix)
	}
	b.WriteString(l.matSuffix)
	return b.String()
}

// FormatVector prints v as a column vector.
func FormatVector(v []float64, f Format) string {
	if len(v) == 0 {
		return FormatMatrix(&mat.Dense{}, f)
	}
	return FormatMatrix(mat.NewVecDense(len(v), append([]float64(nil), v...)), f)
}
