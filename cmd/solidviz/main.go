// solidviz builds solids from plotted curves.
//
// With script arguments it evaluates each scene file and reports the
// meshes it produces. Without arguments it builds a single tool from the
// command-line flags:
//
//	solidviz -mode revolution -curve "y=sqrt(x)" -axis "y=0" -stl vase.stl
//	solidviz -mode cross-section -curve "x^2" -json
//	solidviz -stl out.stl examples/vase.solid
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/solidviz/pkg/kernel"
	"github.com/chazu/solidviz/pkg/kernel/lathe"
	"github.com/chazu/solidviz/pkg/kernel/sdfx"
	"github.com/chazu/solidviz/pkg/sample"
	"github.com/chazu/solidviz/pkg/stl"
	"github.com/chazu/solidviz/pkg/tool"
)

var (
	kernelName = flag.String("kernel", "exact", "Lathe kernel: exact or sdf")
	cells      = flag.Int("cells", 0, "Marching cubes cells along the longest side (sdf kernel only)")
	stlOut     = flag.String("stl", "", "Write all solids to this binary STL file")
	jsonOut    = flag.Bool("json", false, "Print the full result as JSON to stdout")

	mode   = flag.String("mode", "revolution", "Tool for single-tool mode: revolution or cross-section")
	curve  = flag.String("curve", "", "Curve equation (default depends on -mode)")
	axis   = flag.String("axis", tool.DefaultRevolutionAxis, "Axis of revolution")
	bounds = flag.String("bounds", "", "Sampling window as left,right,top,bottom")
	step   = flag.Float64("step", tool.DefaultStep, "Sampling step")
	detail = flag.Int("detail", tool.DefaultDetail, "Angular slices of a revolution")
	caps   = flag.Bool("caps", true, "Close the ends of the solid")
)

func main() {
	flag.Parse()

	k, err := newKernel(*kernelName, *cells)
	check("kernel: %v", err)
	app := NewAppWithKernel(k)

	var results []EvalResult
	if flag.NArg() == 0 {
		st, err := flagState()
		check("%v", err)
		log.Printf("Building %v with the %v kernel...", st.Label(), k.Name())
		results = append(results, app.BuildTool(st))
	}
	for _, arg := range flag.Args() {
		log.Printf("Evaluating scene %q...", arg)
		buf, err := os.ReadFile(arg)
		check("ReadFile: %v", err)
		results = append(results, app.Evaluate(string(buf)))
	}

	var (
		solids []*kernel.Mesh
		failed bool
	)
	for _, r := range results {
		for _, w := range r.Warnings {
			log.Printf("warning: %v", w.Message)
		}
		for _, e := range r.Errors {
			failed = true
			if e.Line > 0 {
				log.Printf("error: line %d: %v", e.Line, e.Message)
			} else {
				log.Printf("error: %v", e.Message)
			}
		}
		for _, m := range r.solids {
			log.Printf("%v: %v vertices, %v triangles", m.PartName, m.VertexCount(), m.TriangleCount())
		}
		solids = append(solids, r.solids...)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		if len(results) == 1 {
			check("json: %v", enc.Encode(results[0]))
		} else {
			check("json: %v", enc.Encode(results))
		}
	}

	if all := kernel.Merge(solids...); !all.IsEmpty() {
		lo, hi := all.BoundingBox()
		log.Printf("Extent: (%.3g, %.3g, %.3g) to (%.3g, %.3g, %.3g)", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	}

	if *stlOut != "" {
		log.Printf("Writing %v solids to %q...", len(solids), *stlOut)
		check("stl.Save: %v", stl.Save(*stlOut, solids...))
	}

	if failed {
		os.Exit(1)
	}
	log.Printf("Done.")
}

func newKernel(name string, cells int) (kernel.Kernel, error) {
	switch name {
	case "exact", "lathe":
		return lathe.New(), nil
	case "sdf", "sdfx":
		if cells > 0 {
			return sdfx.NewWithCells(cells), nil
		}
		return sdfx.New(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q", name)
}

func flagState() (tool.State, error) {
	kind, err := tool.ParseKind(*mode)
	if err != nil {
		return tool.State{}, err
	}
	st := tool.Default(kind)
	if *curve != "" {
		st.Curve = *curve
	}
	if kind == tool.KindRevolution {
		st.Axis = *axis
	}
	if *bounds != "" {
		b, err := parseBounds(*bounds)
		if err != nil {
			return tool.State{}, err
		}
		st.Bounds = b
	}
	st.Step = *step
	st.Detail = *detail
	st.DrawCaps = *caps
	return st, nil
}

// parseBounds reads "left,right,top,bottom".
func parseBounds(s string) (sample.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return sample.Bounds{}, fmt.Errorf("bounds %q: want left,right,top,bottom", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return sample.Bounds{}, fmt.Errorf("bounds %q: %w", s, err)
		}
		v[i] = f
	}
	return sample.Bounds{Left: v[0], Right: v[1], Top: v[2], Bottom: v[3]}, nil
}

func check(fmtStr string, args ...interface{}) {
	err := args[len(args)-1]
	if err != nil {
		log.Fatalf(fmtStr, args...)
	}
}
