package tool

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/solidviz/pkg/kernel/sdfx"
	"github.com/chazu/solidviz/pkg/sample"
	"github.com/chazu/solidviz/pkg/solid"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindRevolution, "revolution"},
		{KindCrossSection, "cross-section"},
		{Kind(99), "Kind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"revolution", "cross-section", "cross_section"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("cube"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestStateJSON(t *testing.T) {
	in := Default(KindCrossSection)
	in.Name = "ridge"
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"kind":"cross-section"`) {
		t.Errorf("kind not encoded by name: %s", b)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("decoded %+v, want %+v", out, in)
	}
}

func TestDefault(t *testing.T) {
	rev := Default(KindRevolution)
	if rev.Curve != "x^2" || rev.Axis != "x=0" {
		t.Errorf("revolution defaults = %q, %q", rev.Curve, rev.Axis)
	}
	if rev.Bounds != (sample.Bounds{Left: -30, Right: 30, Top: 30, Bottom: -30}) {
		t.Errorf("bounds = %+v", rev.Bounds)
	}
	if rev.Step != 0.1 || rev.Detail != 12 || !rev.DrawCaps || rev.ShapeColor != "#44aa88" {
		t.Errorf("defaults = %+v", rev)
	}
	cs := Default(KindCrossSection)
	if cs.Curve != "10 * (1.1)^(-(x^2))" || cs.Axis != "" {
		t.Errorf("cross-section defaults = %q, %q", cs.Curve, cs.Axis)
	}
	for _, k := range []Kind{KindRevolution, KindCrossSection} {
		if errs := Default(k).Validate(); len(errs) != 0 {
			t.Errorf("Default(%v) has findings: %v", k, errs)
		}
	}
}

func TestBuild(t *testing.T) {
	for _, k := range []Kind{KindRevolution, KindCrossSection} {
		t.Run(k.String(), func(t *testing.T) {
			st := Default(k)
			st.Name = "demo"
			m, err := Build(st, nil)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if m.IsEmpty() {
				t.Fatal("expected a non-empty mesh")
			}
			if m.Color != DefaultShapeColor || m.PartName != "demo" {
				t.Errorf("Color = %q, PartName = %q", m.Color, m.PartName)
			}
		})
	}
}

func TestBuildWithSdfKernel(t *testing.T) {
	st := Default(KindRevolution)
	st.Bounds = sample.Bounds{Left: -3, Right: 3, Top: 3, Bottom: -3}
	st.Curve = "x=y/4+2"
	m, err := Build(st, sdfx.NewWithCells(24))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("expected a non-empty mesh")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*State)
		want   error
	}{
		{"banana", func(s *State) { s.Curve = "banana" }, solid.ErrNoSolid},
		{"bad axis", func(s *State) { s.Axis = "y=" }, solid.ErrNoSolid},
		{"detail", func(s *State) { s.Detail = 2 }, solid.ErrInvalidParameter},
		{"step", func(s *State) { s.Step = -1 }, solid.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Default(KindRevolution)
			tt.modify(&st)
			m, err := Build(st, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Error("expected nil mesh")
			}
		})
	}

	if _, err := Build(State{Kind: Kind(7)}, nil); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		modify   func(*State)
		errors   int
		warnings int
	}{
		{"default", KindRevolution, func(*State) {}, 0, 0},
		{"banana curve", KindRevolution, func(s *State) { s.Curve = "banana" }, 1, 0},
		{"bad axis", KindRevolution, func(s *State) { s.Axis = "x=)" }, 1, 0},
		{"undefined axis", KindRevolution, func(s *State) { s.Axis = "y=1/x" }, 1, 0},
		{"low detail", KindRevolution, func(s *State) { s.Detail = 1 }, 1, 0},
		{"high detail", KindRevolution, func(s *State) { s.Detail = 1000 }, 0, 1},
		{"zero step", KindRevolution, func(s *State) { s.Step = 0 }, 1, 0},
		{"tiny step", KindRevolution, func(s *State) { s.Step = 1e-4 }, 0, 1},
		{"vanishing step", KindRevolution, func(s *State) { s.Step = 1e-9 }, 0, 1},
		{"inverted bounds", KindRevolution, func(s *State) { s.Bounds.Left = 40 }, 1, 0},
		{"bad color", KindRevolution, func(s *State) { s.ShapeColor = "green" }, 0, 1},
		{"cross-section solved for x", KindCrossSection, func(s *State) { s.Curve = "x=y^2" }, 1, 0},
		{"cross-section ignores detail", KindCrossSection, func(s *State) { s.Detail = 0 }, 0, 0},
		{"unknown kind", Kind(5), func(*State) {}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Default(tt.kind)
			if tt.kind != KindRevolution && tt.kind != KindCrossSection {
				st = Default(KindCrossSection)
				st.Kind = tt.kind
			}
			tt.modify(&st)
			var errs, warns int
			for _, f := range st.Validate() {
				if f.Severity == SeverityError {
					errs++
				} else {
					warns++
				}
			}
			if errs != tt.errors || warns != tt.warnings {
				t.Errorf("got %d errors, %d warnings; want %d, %d: %v", errs, warns, tt.errors, tt.warnings, st.Validate())
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Tool: "vase", Message: "bad", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] tool vase: bad" {
		t.Errorf("Error() = %q", got)
	}
	e = ValidationError{Message: "dup", Severity: SeverityError}
	if got := e.Error(); got != "[error] dup" {
		t.Errorf("Error() = %q", got)
	}
}

func TestScene(t *testing.T) {
	sc := NewScene()
	a := Default(KindRevolution)
	a.Name = "a"
	b := Default(KindCrossSection)
	b.Name = "b"
	sc.Add(a)
	sc.Add(b)
	sc.Add(Default(KindCrossSection))

	if sc.Len() != 3 {
		t.Fatalf("Len() = %d", sc.Len())
	}
	if got := sc.Lookup("b"); got == nil || got.Kind != KindCrossSection {
		t.Errorf("Lookup(b) = %+v", got)
	}
	if sc.Lookup("missing") != nil {
		t.Error("Lookup(missing) should be nil")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustLookup(missing) should panic")
		}
	}()
	sc.MustLookup("missing")
}

func TestValidateScene(t *testing.T) {
	sc := NewScene()
	a := Default(KindRevolution)
	a.Name = "a"
	sc.Add(a)
	sc.Add(a)
	bad := Default(KindCrossSection)
	bad.Curve = "banana"
	bad.Step = 1e-4
	sc.Add(bad)

	r := ValidateScene(sc)
	if r.OK() {
		t.Fatal("expected errors")
	}
	if len(r.Errors) != 2 {
		t.Errorf("errors = %v, want duplicate name and banana curve", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("warnings = %v", r.Warnings)
	}
	if !ValidateScene(nil).OK() {
		t.Error("nil scene should validate")
	}
}

func TestGuides(t *testing.T) {
	st := Default(KindRevolution)
	st.Bounds = sample.Bounds{Left: -5, Right: 5, Top: 5, Bottom: -5}
	st.Step = 1
	st.Axis = "y=x"

	g := BuildGuides(st)
	if len(g.Curve) == 0 {
		t.Fatal("expected curve points")
	}
	for _, p := range g.Curve {
		if !st.Bounds.Contains(p) {
			t.Errorf("curve point %v outside bounds", p)
		}
	}
	// The axis is not clipped to the tool bounds.
	if len(g.Axis) != 1001 {
		t.Errorf("axis has %d points, want 1001", len(g.Axis))
	}
	if g.Bounds.TriangleCount() != 2 || g.Bounds.VertexCount() != 4 {
		t.Errorf("bound plane = %d vertices, %d faces", g.Bounds.VertexCount(), g.Bounds.TriangleCount())
	}
	if g.GridSize != 60 {
		t.Errorf("GridSize = %v, want 60", g.GridSize)
	}

	cs := Default(KindCrossSection)
	if BuildGuides(cs).Axis != nil {
		t.Error("cross-section should have no axis guide")
	}
	cs.Curve = "banana"
	if BuildGuides(cs).Curve != nil {
		t.Error("unparseable curve should have no guide")
	}
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		b    sample.Bounds
		want float64
	}{
		{DefaultBounds, 60},
		{sample.Bounds{Left: -1, Right: 1, Top: 1, Bottom: -1}, 60},
		{sample.Bounds{Left: -10, Right: 45, Top: 1, Bottom: -1}, 90},
		{sample.Bounds{Left: -70, Right: 1, Top: 1, Bottom: -1}, 140},
		{sample.Bounds{Left: -1, Right: 1, Top: 1, Bottom: -33.5}, 67},
	}
	for _, tt := range tests {
		if got := GridSize(tt.b); !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
			t.Errorf("GridSize(%+v) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestSlot(t *testing.T) {
	var s Slot
	if s.Load() != nil {
		t.Fatal("new slot should be empty")
	}

	st := Default(KindRevolution)
	st.Bounds = sample.Bounds{Left: -5, Right: 5, Top: 5, Bottom: -5}
	m, err := s.Rebuild(st, nil)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if s.Load() != m {
		t.Fatal("Load should return the installed mesh")
	}

	// A failed rebuild keeps the previous mesh.
	bad := st
	bad.Curve = "banana"
	if _, err := s.Rebuild(bad, nil); !errors.Is(err, solid.ErrNoSolid) {
		t.Fatalf("error = %v, want ErrNoSolid", err)
	}
	if s.Load() != m {
		t.Error("failed rebuild replaced the mesh")
	}
	if s.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", s.Generation())
	}

	s.Clear()
	if s.Load() != nil {
		t.Error("Clear should empty the slot")
	}
}

func TestSlotConcurrentRebuilds(t *testing.T) {
	var s Slot
	st := Default(KindCrossSection)
	st.Bounds = sample.Bounds{Left: -5, Right: 5, Top: 10, Bottom: -1}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Rebuild(st, nil)
			if err != nil && !errors.Is(err, ErrSuperseded) {
				t.Errorf("Rebuild: %v", err)
			}
		}()
	}
	wg.Wait()

	m := s.Load()
	if m == nil {
		t.Fatal("expected a mesh after concurrent rebuilds")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("installed mesh is invalid: %v", err)
	}
}
