// Package geometry flattens polygonal meshes into per-corner triangle
// buffers.
//
// Every polygon is triangulated and every triangle corner gets its own
// position and UV slot. Vertices are never welded, so a corner's UV is
// never shared with another face.
package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scenexport/pkg/scene"
)

// Geometry errors.
var (
	ErrMissingUVLayer = errors.New("mesh has no active UV layer")
	ErrInvalidMesh    = errors.New("invalid mesh topology")
)

// Options controls Normalize.
type Options struct {
	// RequireUV makes a mesh without an active UV layer an error. When
	// false such meshes get (0,0) for every corner.
	RequireUV bool
}

// Result holds the flattened geometry of one mesh. Triangle indices are
// 0-based into Positions and UVs, local to this mesh.
type Result struct {
	Positions []mgl64.Vec3
	UVs       []mgl64.Vec2
	Triangles [][3]int
}

// Corners returns the number of emitted corners.
func (r *Result) Corners() int {
	return len(r.Positions)
}

// Normalize triangulates m, splits all of its vertices per corner and
// returns the parallel position, UV and triangle buffers.
func Normalize(m *scene.Mesh, opts Options) (*Result, error) {
	if m == nil {
		return &Result{}, nil
	}

	uvs := m.ActiveUVLayer()
	if uvs == nil && opts.RequireUV {
		return nil, ErrMissingUVLayer
	}
	if err := validate(m, uvs); err != nil {
		return nil, err
	}

	res := &Result{}
	var corner []mgl64.Vec3
	k := 0
	for _, poly := range m.Polygons {
		loops := m.Loops[poly.LoopStart : poly.LoopStart+poly.LoopTotal]

		corner = corner[:0]
		for _, vi := range loops {
			corner = append(corner, m.Vertices[vi])
		}

		for _, tri := range Triangulate(corner) {
			var face [3]int
			for c, local := range tri {
				loop := poly.LoopStart + local
				res.Positions = append(res.Positions, m.Vertices[m.Loops[loop]])
				if uvs != nil {
					res.UVs = append(res.UVs, uvs.Data[loop])
				} else {
					res.UVs = append(res.UVs, mgl64.Vec2{})
				}
				face[c] = k
				k++
			}
			res.Triangles = append(res.Triangles, face)
		}
	}
	return res, nil
}

func validate(m *scene.Mesh, uvs *scene.UVLayer) error {
	for i, vi := range m.Loops {
		if vi < 0 || vi >= len(m.Vertices) {
			return fmt.Errorf("%w: loop %d references vertex %d of %d", ErrInvalidMesh, i, vi, len(m.Vertices))
		}
	}
	for i, p := range m.Polygons {
		if p.LoopStart < 0 || p.LoopTotal < 0 || p.LoopStart+p.LoopTotal > len(m.Loops) {
			return fmt.Errorf("%w: polygon %d spans loops [%d,%d) of %d", ErrInvalidMesh, i, p.LoopStart, p.LoopStart+p.LoopTotal, len(m.Loops))
		}
	}
	if uvs != nil && len(uvs.Data) < len(m.Loops) {
		return fmt.Errorf("%w: UV layer %q has %d entries for %d loops", ErrInvalidMesh, uvs.Name, len(uvs.Data), len(m.Loops))
	}
	return nil
}

// TriangleCount returns the number of triangles Normalize emits for m.
func TriangleCount(m *scene.Mesh) int {
	if m == nil {
		return 0
	}
	n := 0
	for _, p := range m.Polygons {
		if p.LoopTotal >= 3 {
			n += p.LoopTotal - 2
		}
	}
	return n
}
