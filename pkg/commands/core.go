package commands

import (
	"fmt"
	"math"

	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/registry"
)

type definition struct {
	names   []string
	help    string
	factory domain.Factory
}

func binary(name string, fn BinaryFunc) domain.Factory {
	return func() domain.Command { return NewBinary(name, fn) }
}

func unary(name string, fn UnaryFunc) domain.Factory {
	return func() domain.Command { return NewUnary(name, fn) }
}

func core() []definition {
	return []definition{
		{[]string{"swap"}, "swap the top two elements of the stack", func() domain.Command { return NewSwap() }},
		{[]string{"drop"}, "drop the top element from the stack", func() domain.Command { return NewDrop() }},
		{[]string{"dup"}, "duplicate the top element of the stack", func() domain.Command { return NewDup() }},
		{[]string{"clear"}, "clear the stack", func() domain.Command { return NewClear() }},

		{[]string{"+", "add"}, "replace the top two elements with their sum", binary("add", add)},
		{[]string{"-", "sub"}, "replace the top two elements with the second minus the first", binary("sub", sub)},
		{[]string{"*", "mul"}, "replace the top two elements with their product", binary("mul", mul)},
		{[]string{"/", "div"}, "replace the top two elements with the second divided by the first", binary("div", div)},
		{[]string{"pow"}, "raise the second element to the power of the first", binary("pow", pow)},
		{[]string{"root"}, "take the first element's root of the second element", binary("root", root)},

		{[]string{"neg"}, "negate the top element", unary("neg", neg)},
		{[]string{"abs"}, "replace the top element with its absolute value", unary("abs", abs)},
		{[]string{"sqrt"}, "replace the top element with its square root", unary("sqrt", sqrt)},
		{[]string{"exp"}, "replace the top element x with e^x", unary("exp", exp)},
		{[]string{"ln"}, "replace the top element with its natural logarithm", unary("ln", ln)},
		{[]string{"log"}, "replace the top element with its base 10 logarithm", unary("log", log10)},
		{[]string{"sin"}, "replace the top element (radians) with its sine", unary("sin", sin)},
		{[]string{"cos"}, "replace the top element (radians) with its cosine", unary("cos", cos)},
		{[]string{"tan"}, "replace the top element (radians) with its tangent", unary("tan", tan)},
		{[]string{"arcsin"}, "replace the top element with its arcsine", unary("arcsin", arcsin)},
		{[]string{"arccos"}, "replace the top element with its arccosine", unary("arccos", arccos)},
		{[]string{"arctan"}, "replace the top element with its arctangent", unary("arctan", arctan)},
	}
}

// RegisterCore registers every built-in command in reg.
func RegisterCore(reg *registry.Registry) error {
	for _, def := range core() {
		for _, name := range def.names {
			if err := reg.Register(name, def.factory, def.help); err != nil {
				return fmt.Errorf("register %s: %w", name, err)
			}
		}
	}
	return nil
}

func add(next, top float64) (float64, error) { return next + top, nil }

func sub(next, top float64) (float64, error) { return next - top, nil }

func mul(next, top float64) (float64, error) { return next * top, nil }

func div(next, top float64) (float64, error) {
	if top == 0 {
		return 0, domain.ErrDivisionByZero
	}
	return next / top, nil
}

func pow(next, top float64) (float64, error) {
	return math.Pow(next, top), nil
}

func root(next, top float64) (float64, error) {
	if top == 0 {
		return 0, fmt.Errorf("%w: zeroth root", domain.ErrDomain)
	}
	if next >= 0 {
		return math.Pow(next, 1/top), nil
	}
	// Only odd integer roots of negative numbers are real.
	if top != math.Trunc(top) || math.Mod(top, 2) == 0 {
		return 0, fmt.Errorf("%w: root %g of negative number", domain.ErrDomain, top)
	}
	return -math.Pow(-next, 1/top), nil
}

func neg(x float64) (float64, error) { return -x, nil }

func abs(x float64) (float64, error) { return math.Abs(x), nil }

func sqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, fmt.Errorf("%w: square root of negative number", domain.ErrDomain)
	}
	return math.Sqrt(x), nil
}

func exp(x float64) (float64, error) { return math.Exp(x), nil }

func ln(x float64) (float64, error) {
	if x <= 0 {
		return 0, fmt.Errorf("%w: logarithm of non-positive number", domain.ErrDomain)
	}
	return math.Log(x), nil
}

func log10(x float64) (float64, error) {
	if x <= 0 {
		return 0, fmt.Errorf("%w: logarithm of non-positive number", domain.ErrDomain)
	}
	return math.Log10(x), nil
}

func sin(x float64) (float64, error) { return math.Sin(x), nil }

func cos(x float64) (float64, error) { return math.Cos(x), nil }

func tan(x float64) (float64, error) { return math.Tan(x), nil }

func arcsin(x float64) (float64, error) {
	if x < -1 || x > 1 {
		return 0, fmt.Errorf("%w: arcsin argument must be in [-1, 1]", domain.ErrDomain)
	}
	return math.Asin(x), nil
}

func arccos(x float64) (float64, error) {
	if x < -1 || x > 1 {
		return 0, fmt.Errorf("%w: arccos argument must be in [-1, 1]", domain.ErrDomain)
	}
	return math.Acos(x), nil
}

func arctan(x float64) (float64, error) { return math.Atan(x), nil }
