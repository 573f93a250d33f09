package profile

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the classification of a single cell value.
type Kind uint8

const (
	KindText Kind = iota
	KindInteger
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// Classify trims the cell and reports whether it reads as an integer, a
// finite float, or anything else. Empty cells are text. Integers are
// base-10 and must fit in 64 bits; larger integral literals are floats.
func Classify(cell string) Kind {
	v := strings.TrimSpace(cell)
	if v == "" {
		return KindText
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return KindInteger
	}
	if isFloat(v) {
		return KindFloat
	}
	return KindText
}

func isFloat(v string) bool {
	// strconv accepts hex mantissas and underscores; plain decimal only here.
	if strings.ContainsAny(v, "xX_") {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
