// Package tool holds the explicit per-tool state (curve text, axis text,
// bounds, step, detail, caps, colors) that the solid builders read, the
// scene that groups tools, and the slot that swaps a tool's displayed mesh.
package tool

import (
	"fmt"

	"github.com/chazu/solidviz/pkg/sample"
	"github.com/chazu/solidviz/pkg/solid"
)

// Kind selects the solid a tool builds.
type Kind int

const (
	KindRevolution   Kind = iota // solid of revolution
	KindCrossSection             // solid of known cross-section
)

func (k Kind) String() string {
	switch k {
	case KindRevolution:
		return "revolution"
	case KindCrossSection:
		return "cross-section"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts "revolution" or "cross-section" (also "cross_section").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "revolution":
		return KindRevolution, nil
	case "cross-section", "cross_section":
		return KindCrossSection, nil
	}
	return 0, fmt.Errorf("unknown tool kind %q, expected revolution or cross-section", s)
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Defaults shared by both tools.
const (
	DefaultStep       = 0.1
	DefaultDetail     = 12
	DefaultShapeColor = "#44aa88"
	DefaultCurveColor = "#0000ff"
	DefaultAxisColor  = "#ff0000"

	DefaultRevolutionCurve   = "x^2"
	DefaultRevolutionAxis    = "x=0"
	DefaultCrossSectionCurve = "10 * (1.1)^(-(x^2))"
)

// DefaultBounds is the initial window of both tools.
var DefaultBounds = sample.Bounds{Left: -30, Right: 30, Top: 30, Bottom: -30}

// State is everything a rebuild reads. It is a plain value: builders take
// it as a parameter and never consult globals.
type State struct {
	Name       string        `json:"name,omitempty"`
	Kind       Kind          `json:"kind"`
	Curve      string        `json:"curve"`
	Axis       string        `json:"axis,omitempty"` // revolution only
	Bounds     sample.Bounds `json:"bounds"`
	Step       float64       `json:"step"`
	Detail     int           `json:"detail"`
	DrawCaps   bool          `json:"drawCaps"`
	ShapeColor string        `json:"shapeColor"`
	CurveColor string        `json:"curveColor"`
	AxisColor  string        `json:"axisColor"`
}

// Default returns the initial state of a tool of kind k.
func Default(k Kind) State {
	s := State{
		Kind:       k,
		Bounds:     DefaultBounds,
		Step:       DefaultStep,
		Detail:     DefaultDetail,
		DrawCaps:   true,
		ShapeColor: DefaultShapeColor,
		CurveColor: DefaultCurveColor,
		AxisColor:  DefaultAxisColor,
	}
	switch k {
	case KindRevolution:
		s.Curve = DefaultRevolutionCurve
		s.Axis = DefaultRevolutionAxis
	case KindCrossSection:
		s.Curve = DefaultCrossSectionCurve
	}
	return s
}

// Window returns the sampling window of the tool.
func (s State) Window() solid.Window {
	return solid.Window{Bounds: s.Bounds, Step: s.Step}
}

// Label is the tool name, or its kind when unnamed.
func (s State) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Kind.String()
}
