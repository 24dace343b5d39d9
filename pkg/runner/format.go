package runner

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of significant digits shown for stack values.
const DefaultPrecision = 6

// FormatValue renders v with the given number of significant digits.
// A non-positive precision prints the shortest exact representation.
func FormatValue(v float64, precision int) string {
	if precision <= 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', precision, 64)
}

// FormatStack renders at most depth levels of the stack, deepest first, numbering
// levels from the top ("1:" is the top of the stack). depth <= 0 shows everything.
func FormatStack(values []float64, precision, depth int) string {
	if len(values) == 0 {
		return "(empty)"
	}

	start := 0
	if depth > 0 && len(values) > depth {
		start = len(values) - depth
	}
	width := len(strconv.Itoa(len(values) - start))

	var b strings.Builder
	for i := start; i < len(values); i++ {
		level := len(values) - i
		fmt.Fprintf(&b, "%*d: %s\n", width, level, FormatValue(values[i], precision))
	}
	return strings.TrimRight(b.String(), "\n")
}
