package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/chazu/solidviz/pkg/sample"
	"github.com/chazu/solidviz/pkg/tool"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: cross-section -> cross_section
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
//  3. Line comments: ; and ;; become //.
//
// All transformations respect string literal boundaries, so equation text
// such as "x^2-x" passes through untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only a hyphen between identifier characters is kebab-case; any
		// other hyphen is the minus operator or a negative literal.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpBounds wraps a sample.Bounds returned from `bounds`.
type sexpBounds struct {
	b sample.Bounds
}

func (s *sexpBounds) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(bounds %g %g %g %g)", s.b.Left, s.b.Right, s.b.Top, s.b.Bottom)
}
func (s *sexpBounds) Type() *zygo.RegisteredType { return nil }

// sexpToolRef is returned by the tool builtins.
type sexpToolRef struct {
	label string
}

func (r *sexpToolRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(tool %q)", r.label)
}
func (r *sexpToolRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword with no value.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer. Floats are accepted when they are whole.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean. A bare trailing keyword (nil value) counts as
// true so that `:caps` alone turns caps on.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toBounds extracts a sample.Bounds from a sexpBounds.
func toBounds(s zygo.Sexp) (sample.Bounds, error) {
	if v, ok := s.(*sexpBounds); ok {
		return v.b, nil
	}
	return sample.Bounds{}, fmt.Errorf("expected bounds, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Tool options
// ---------------------------------------------------------------------------

// option sets one keyword argument on a tool state.
type option struct {
	name string
	set  func(st *tool.State, v zygo.Sexp) error
}

func stringOption(name string, field func(*tool.State) *string) option {
	return option{name, func(st *tool.State, v zygo.Sexp) error {
		s, err := toString(v)
		if err != nil {
			return err
		}
		*field(st) = s
		return nil
	}}
}

var (
	optName       = stringOption("name", func(st *tool.State) *string { return &st.Name })
	optCurve      = stringOption("curve", func(st *tool.State) *string { return &st.Curve })
	optAxis       = stringOption("axis", func(st *tool.State) *string { return &st.Axis })
	optColor      = stringOption("color", func(st *tool.State) *string { return &st.ShapeColor })
	optCurveColor = stringOption("curve-color", func(st *tool.State) *string { return &st.CurveColor })
	optAxisColor  = stringOption("axis-color", func(st *tool.State) *string { return &st.AxisColor })

	optBounds = option{"bounds", func(st *tool.State, v zygo.Sexp) error {
		b, err := toBounds(v)
		st.Bounds = b
		return err
	}}
	optStep = option{"step", func(st *tool.State, v zygo.Sexp) error {
		f, err := toFloat64(v)
		st.Step = f
		return err
	}}
	optDetail = option{"detail", func(st *tool.State, v zygo.Sexp) error {
		n, err := toInt(v)
		st.Detail = n
		return err
	}}
	optCaps = option{"caps", func(st *tool.State, v zygo.Sexp) error {
		c, err := toBool(v)
		st.DrawCaps = c
		return err
	}}
)

var (
	revolutionOptions = []option{
		optName, optCurve, optAxis, optBounds, optStep, optDetail, optCaps,
		optColor, optCurveColor, optAxisColor,
	}
	crossSectionOptions = []option{
		optName, optCurve, optBounds, optStep, optColor, optCurveColor,
	}
	defaultsOptions = []option{
		optBounds, optStep, optDetail, optCaps, optColor, optCurveColor, optAxisColor,
	}
)

// applyOptions sets every keyword in pa on st. Keywords not listed in opts
// are rejected, in sorted order so the first error is deterministic.
func applyOptions(fn string, st *tool.State, pa kwArgs, opts []option) error {
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.name] = true
	}
	var unknown []string
	for k := range pa.kw {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%s: unknown option :%s", fn, unknown[0])
	}

	for _, o := range opts {
		v, ok := pa.kw[o.name]
		if !ok {
			continue
		}
		if err := o.set(st, v); err != nil {
			return fmt.Errorf("%s: %s: %w", fn, o.name, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// The builtins append tools to sc during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *tool.Scene) {
	// Settings applied to every tool declared after a (defaults ...) call.
	base := tool.Default(tool.KindRevolution)

	newTool := func(fn string, kind tool.Kind, opts []option, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		st := tool.Default(kind)
		st.Bounds = base.Bounds
		st.Step = base.Step
		st.Detail = base.Detail
		st.DrawCaps = base.DrawCaps
		st.ShapeColor = base.ShapeColor
		st.CurveColor = base.CurveColor
		st.AxisColor = base.AxisColor

		switch len(pa.positional) {
		case 0:
		case 1:
			name, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
			}
			st.Name = name
		default:
			return zygo.SexpNull, fmt.Errorf("%s: expected at most one positional name, got %d arguments", fn, len(pa.positional))
		}

		if err := applyOptions(fn, &st, pa, opts); err != nil {
			return zygo.SexpNull, err
		}

		sc.Add(st)
		return &sexpToolRef{label: st.Label()}, nil
	}

	// -----------------------------------------------------------------------
	// (bounds left right top bottom)
	// (bounds :left -5 :right 5 :top 5 :bottom -5)
	// -----------------------------------------------------------------------
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		b := base.Bounds

		if len(pa.positional) != 0 && len(pa.positional) != 4 {
			return zygo.SexpNull, fmt.Errorf("bounds requires 4 numbers (left right top bottom), got %d", len(pa.positional))
		}
		fields := []*float64{&b.Left, &b.Right, &b.Top, &b.Bottom}
		names := []string{"left", "right", "top", "bottom"}
		for i, p := range pa.positional {
			f, err := toFloat64(p)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: %s: %w", names[i], err)
			}
			*fields[i] = f
		}
		for i, n := range names {
			v, ok := pa.kw[n]
			if !ok {
				continue
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("bounds: %s: %w", n, err)
			}
			*fields[i] = f
		}

		return &sexpBounds{b: b}, nil
	})

	// -----------------------------------------------------------------------
	// (defaults :bounds (bounds -5 5 5 -5) :step 0.05 :detail 24 :caps false)
	// -----------------------------------------------------------------------
	env.AddFunction("defaults", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("defaults takes keyword arguments only")
		}
		next := base
		if err := applyOptions("defaults", &next, pa, defaultsOptions); err != nil {
			return zygo.SexpNull, err
		}
		base = next
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (revolution "vase" :curve "x^2" :axis "x=0" :detail 24 :caps true)
	// -----------------------------------------------------------------------
	env.AddFunction("revolution", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return newTool("revolution", tool.KindRevolution, revolutionOptions, args)
	})

	// -----------------------------------------------------------------------
	// (cross-section "ridge" :curve "10 * (1.1)^(-(x^2))")
	//
	// Registered as "cross_section" because zygomys does not support
	// hyphens in identifiers.
	// -----------------------------------------------------------------------
	env.AddFunction("cross_section", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return newTool("cross-section", tool.KindCrossSection, crossSectionOptions, args)
	})
}
