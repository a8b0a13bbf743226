package tool

import (
	"fmt"
	"regexp"

	"github.com/chazu/solidviz/pkg/function"
	"github.com/chazu/solidviz/pkg/kernel"
	"github.com/chazu/solidviz/pkg/sample"
	"github.com/chazu/solidviz/pkg/solid"
)

// ValidationSeverity indicates whether a finding blocks the build or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks the build
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Tool     string             // tool label (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Tool == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] tool %s: %s", e.Severity, e.Tool, e.Message)
}

// ValidationResult separates blocking errors from advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Thresholds past which a rebuild is allowed but flagged as slow.
const (
	MaxSamplesWarning = 100_000
	MaxDetailWarning  = 512
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks one tool. It never builds geometry.
func (s State) Validate() []ValidationError {
	var errs []ValidationError
	add := func(sev ValidationSeverity, format string, args ...any) {
		errs = append(errs, ValidationError{Tool: s.Label(), Message: fmt.Sprintf(format, args...), Severity: sev})
	}

	if err := s.Bounds.Validate(); err != nil {
		add(SeverityError, "%v", err)
	}
	if !(s.Step > 0) || !function.Finite(s.Step) {
		add(SeverityError, "step must be positive, got %v", s.Step)
	}

	curve, err := function.Parse(s.Curve)
	if err != nil {
		add(SeverityError, "curve %q: %v", s.Curve, err)
	}

	switch s.Kind {
	case KindRevolution:
		if s.Detail < kernel.MinDetail {
			add(SeverityError, "detail must be at least %d, got %d", kernel.MinDetail, s.Detail)
		} else if s.Detail > MaxDetailWarning {
			add(SeverityWarning, "detail %d is very high and will be slow", s.Detail)
		}
		if axis, err := function.Parse(s.Axis); err != nil {
			add(SeverityError, "axis %q: %v", s.Axis, err)
		} else if !solid.ResolveAxis(axis).Valid() {
			add(SeverityError, "axis %q is undefined at 0 or 1", s.Axis)
		}
	case KindCrossSection:
		if curve != nil {
			if _, err := function.Parse(solid.DiagonalText(s.Curve)); err != nil {
				add(SeverityError, "curve %q has no difference with x: %v", s.Curve, err)
			}
		}
	default:
		add(SeverityError, "unknown kind %v", s.Kind)
	}

	if curve != nil && s.Bounds.Validate() == nil && s.Step > 0 {
		if n := sample.Count(curve, s.Bounds, s.Step); n > MaxSamplesWarning {
			add(SeverityWarning, "step %v gives %d samples and will be slow", s.Step, n)
		}
	}

	for _, c := range []struct{ name, value string }{
		{"shape color", s.ShapeColor},
		{"curve color", s.CurveColor},
		{"axis color", s.AxisColor},
	} {
		if c.value != "" && !hexColor.MatchString(c.value) {
			add(SeverityWarning, "%s %q is not #rrggbb", c.name, c.value)
		}
	}
	return errs
}

// ValidateScene checks every tool and the scene as a whole: duplicate
// names are errors.
func ValidateScene(sc *Scene) ValidationResult {
	var result ValidationResult
	if sc == nil {
		return result
	}

	seen := make(map[string]bool)
	for _, st := range sc.Tools {
		if st.Name != "" {
			if seen[st.Name] {
				result.Errors = append(result.Errors, ValidationError{
					Message:  fmt.Sprintf("duplicate tool name %q", st.Name),
					Severity: SeverityError,
				})
			}
			seen[st.Name] = true
		}
		for _, e := range st.Validate() {
			if e.Severity == SeverityWarning {
				result.Warnings = append(result.Warnings, e)
			} else {
				result.Errors = append(result.Errors, e)
			}
		}
	}
	return result
}
