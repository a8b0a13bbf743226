package function

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
)

var constants = map[string]float64{
	"pi": math.Pi,
	"PI": math.Pi,
	"e":  math.E,
	"E":  math.E,
}

var unary = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"abs":   math.Abs,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log":   math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"round": roundHalfUp,
	"sign":  sign,
}

var binary = map[string]func(a, b float64) float64{
	"min":   math.Min,
	"max":   math.Max,
	"pow":   math.Pow,
	"atan2": math.Atan2,
	"fmod":  math.Mod,
}

// builtinOptions registers the math functions with the compiler. "%" on
// floats is routed to fmod; integer operands keep expr's own modulo.
func builtinOptions() []expr.Option {
	opts := make([]expr.Option, 0, len(unary)+len(binary)+1)
	for name, fn := range unary {
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			return fn(toFloat(params[0])), nil
		}, new(func(float64) float64)))
	}
	for name, fn := range binary {
		types := []any{new(func(float64, float64) float64)}
		if name == "fmod" {
			types = append(types, new(func(float64, int) float64), new(func(int, float64) float64))
		}
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("want 2 arguments, got %d", len(params))
			}
			return fn(toFloat(params[0]), toFloat(params[1])), nil
		}, types...))
	}
	return append(opts, expr.Operator("%", "fmod"))
}

// roundHalfUp rounds halves toward positive infinity: round(-2.5) == -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x // keeps 0, -0 and NaN
}
