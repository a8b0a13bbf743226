// Package tessellate walks a scene and produces triangle meshes using a
// lathe kernel. One mesh is produced per tool, in scene order.
package tessellate

import (
	"errors"
	"fmt"
	"log"

	"github.com/chazu/solidviz/pkg/kernel"
	"github.com/chazu/solidviz/pkg/solid"
	"github.com/chazu/solidviz/pkg/tool"
)

// Palette assigns distinct colors to tools that have none.
var Palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Skip records a tool that produced no mesh because its input was
// rejected.
type Skip struct {
	Tool string
	Err  error
}

func (s Skip) Error() string {
	return fmt.Sprintf("tool %s skipped: %v", s.Tool, s.Err)
}

func (s Skip) Unwrap() error { return s.Err }

// Tessellate builds every tool of sc with k. The tessellator is read-only
// and never mutates the scene.
//
// A tool whose curve or axis does not parse, or whose numeric parameters
// are invalid, is logged and reported in the skip list; the other tools
// are still built. Any other failure aborts and is returned as an error.
func Tessellate(sc *tool.Scene, k kernel.Kernel) ([]*kernel.Mesh, []Skip, error) {
	if sc == nil {
		return nil, nil, nil
	}

	var (
		meshes []*kernel.Mesh
		skips  []Skip
	)
	for i, st := range sc.Tools {
		if st.ShapeColor == "" {
			st.ShapeColor = Palette[i%len(Palette)]
		}

		m, err := tool.Build(st, k)
		if err != nil {
			if errors.Is(err, solid.ErrNoSolid) || errors.Is(err, solid.ErrInvalidParameter) {
				log.Printf("tessellate: skipping %s: %v", st.Label(), err)
				skips = append(skips, Skip{Tool: st.Label(), Err: err})
				continue
			}
			return nil, nil, fmt.Errorf("tessellate: tool %d (%s): %w", i, st.Label(), err)
		}
		meshes = append(meshes, m)
	}

	return meshes, skips, nil
}
