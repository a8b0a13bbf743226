package tool

import (
	"fmt"

	"github.com/chazu/solidviz/pkg/kernel"
	"github.com/chazu/solidviz/pkg/kernel/lathe"
	"github.com/chazu/solidviz/pkg/solid"
)

// Build produces the solid for s. A nil kernel selects the exact lathe.
// The returned mesh carries the tool's shape color and label.
func Build(s State, k kernel.Kernel) (*kernel.Mesh, error) {
	if k == nil {
		k = lathe.New()
	}

	var (
		m   *kernel.Mesh
		err error
	)
	switch s.Kind {
	case KindRevolution:
		m, err = solid.Revolution(s.Curve, s.Axis, s.Detail, s.DrawCaps, s.Window(), k)
	case KindCrossSection:
		var cs *solid.CrossSection
		cs, err = solid.BuildCrossSection(solid.CrossSectionParams{Curve: s.Curve, DrawCaps: s.DrawCaps}, s.Window())
		if err == nil {
			m = cs.Mesh
		}
	default:
		return nil, fmt.Errorf("%s: unknown kind %v", s.Label(), s.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Label(), err)
	}

	m.Color = s.ShapeColor
	m.PartName = s.Label()
	return m, nil
}
