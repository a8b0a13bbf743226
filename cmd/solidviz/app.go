package main

import (
	"errors"
	"log"

	"github.com/chazu/solidviz/pkg/engine"
	"github.com/chazu/solidviz/pkg/kernel"
	"github.com/chazu/solidviz/pkg/kernel/lathe"
	"github.com/chazu/solidviz/pkg/tessellate"
	"github.com/chazu/solidviz/pkg/tool"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// App ties the script engine to a lathe kernel. Single-tool builds keep
// the last good solid of each kind in a slot.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	slots  map[tool.Kind]*tool.Slot
}

// MeshData is the JSON-serializable mesh format handed to a renderer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// GuideData is the 2D reference geometry for one tool.
type GuideData struct {
	Tool       string    `json:"tool"`
	Curve      []float32 `json:"curve"`
	CurveColor string    `json:"curveColor"`
	Axis       []float32 `json:"axis,omitempty"`
	AxisColor  string    `json:"axisColor,omitempty"`
	Bounds     MeshData  `json:"bounds"`
	GridSize   float64   `json:"gridSize"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Guides   []GuideData     `json:"guides"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	solids []*kernel.Mesh
}

// NewApp creates a new App with an engine and the exact lathe kernel.
func NewApp() *App {
	return NewAppWithKernel(lathe.New())
}

// NewAppWithKernel creates a new App that revolves profiles with k.
func NewAppWithKernel(k kernel.Kernel) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: k,
		slots: map[tool.Kind]*tool.Slot{
			tool.KindRevolution:   {},
			tool.KindCrossSection: {},
		},
	}
}

func newResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Guides:   []GuideData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

// Evaluate takes scene source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	// Step 1: Evaluate and validate the source into a scene.
	er, err := a.engine.EvaluateAll(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors and warnings.
	for _, w := range er.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Tool + ": " + w.Message,
		})
	}
	if len(er.Errors) > 0 {
		for _, e := range er.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.render(er.Scene, &result)
	return result
}

// BuildTool rebuilds the solid of a single tool without going through a
// script. A failed or superseded rebuild leaves the previous solid of that
// kind in place; Shown reports it.
func (a *App) BuildTool(st tool.State) EvalResult {
	result := newResult()
	slot, ok := a.slots[st.Kind]
	if !ok {
		result.Errors = append(result.Errors, EvalErrorData{Message: "unknown tool kind " + st.Kind.String()})
		return result
	}

	for _, e := range st.Validate() {
		d := EvalErrorData{Message: e.Error()}
		if e.Severity == tool.SeverityWarning {
			result.Warnings = append(result.Warnings, d)
		} else {
			result.Errors = append(result.Errors, d)
		}
	}
	if len(result.Errors) > 0 {
		return result
	}

	m, err := slot.Rebuild(st, a.kernel)
	if err != nil {
		if !errors.Is(err, tool.ErrSuperseded) {
			log.Printf("BuildTool error: %v", err)
		}
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	result.Meshes = append(result.Meshes, meshData(m))
	result.solids = []*kernel.Mesh{m}
	result.Guides = append(result.Guides, guideData(st))
	return result
}

// Shown returns the solid currently held for kind, or nil.
func (a *App) Shown(kind tool.Kind) *kernel.Mesh {
	if slot, ok := a.slots[kind]; ok {
		return slot.Load()
	}
	return nil
}

// render tessellates sc into result.
func (a *App) render(sc *tool.Scene, result *EvalResult) {
	// Step 3: Tessellate the scene into triangle meshes.
	meshes, skips, err := tessellate.Tessellate(sc, a.kernel)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return
	}
	for _, s := range skips {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: s.Error()})
	}

	// Step 4: Convert kernel meshes and guides to the renderer format.
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, meshData(m))
	}
	result.solids = meshes
	for _, st := range sc.Tools {
		result.Guides = append(result.Guides, guideData(st))
	}
}

func meshData(m *kernel.Mesh) MeshData {
	fl := m.Flatten()
	return MeshData{
		Vertices: fl.Vertices,
		Normals:  fl.Normals,
		Indices:  fl.Indices,
		PartName: m.PartName,
		Color:    m.Color,
	}
}

func guideData(st tool.State) GuideData {
	g := tool.BuildGuides(st)
	gd := GuideData{
		Tool:       st.Label(),
		Curve:      flatPoints(g.Curve),
		CurveColor: st.CurveColor,
		Bounds:     meshData(g.Bounds),
		GridSize:   g.GridSize,
	}
	if g.Axis != nil {
		gd.Axis = flatPoints(g.Axis)
		gd.AxisColor = st.AxisColor
	}
	return gd
}

func flatPoints(pts []v3.Vec) []float32 {
	out := make([]float32, 0, len(pts)*3)
	for _, p := range pts {
		out = append(out, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return out
}
