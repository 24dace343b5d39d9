package runtime

import (
	"fmt"
	"strconv"

	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/registry"
)

// IsNumber reports whether s is a numeric literal.
func IsNumber(s string) bool {
	return registry.IsNumber(s)
}

// ParseNumber converts a numeric literal to its value.
// Literals outside the float64 range fail with domain.ErrNonFinite.
func ParseNumber(s string) (float64, error) {
	if !IsNumber(s) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrNonFinite, s)
	}
	return v, nil
}
