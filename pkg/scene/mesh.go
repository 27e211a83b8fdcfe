package scene

import "github.com/go-gl/mathgl/mgl64"

// Polygon is a face: a run of LoopTotal consecutive loops starting at
// LoopStart.
type Polygon struct {
	LoopStart int
	LoopTotal int
}

// UVLayer holds one texture coordinate per loop.
type UVLayer struct {
	Name string
	Data []mgl64.Vec2
}

// Mesh is polygonal geometry. Each loop (face corner) references a vertex
// by index and carries its own attributes in the UV layers.
type Mesh struct {
	Vertices []mgl64.Vec3
	Loops    []int // Vertex index per loop
	Polygons []Polygon
	UVLayers []UVLayer
	ActiveUV int // Index into UVLayers
}

// NewMesh builds a mesh from face vertex lists. uvs, when non-nil, holds
// one coordinate per face corner and becomes the active "UVMap" layer.
func NewMesh(vertices []mgl64.Vec3, faces [][]int, uvs [][]mgl64.Vec2) *Mesh {
	m := &Mesh{Vertices: vertices}
	var layer []mgl64.Vec2
	for fi, face := range faces {
		m.Polygons = append(m.Polygons, Polygon{LoopStart: len(m.Loops), LoopTotal: len(face)})
		m.Loops = append(m.Loops, face...)
		if uvs != nil {
			for ci := range face {
				var uv mgl64.Vec2
				if fi < len(uvs) && ci < len(uvs[fi]) {
					uv = uvs[fi][ci]
				}
				layer = append(layer, uv)
			}
		}
	}
	if uvs != nil {
		m.UVLayers = []UVLayer{{Name: "UVMap", Data: layer}}
	}
	return m
}

// ActiveUVLayer returns the active UV layer, or nil when the mesh has none.
func (m *Mesh) ActiveUVLayer() *UVLayer {
	if m == nil || m.ActiveUV < 0 || m.ActiveUV >= len(m.UVLayers) {
		return nil
	}
	return &m.UVLayers[m.ActiveUV]
}

// Transformed returns a deep copy with every vertex moved by mat.
func (m *Mesh) Transformed(mat mgl64.Mat4) *Mesh {
	out := &Mesh{
		Vertices: make([]mgl64.Vec3, len(m.Vertices)),
		Loops:    append([]int(nil), m.Loops...),
		Polygons: append([]Polygon(nil), m.Polygons...),
		ActiveUV: m.ActiveUV,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = mgl64.TransformCoordinate(v, mat)
	}
	for _, l := range m.UVLayers {
		out.UVLayers = append(out.UVLayers, UVLayer{
			Name: l.Name,
			Data: append([]mgl64.Vec2(nil), l.Data...),
		})
	}
	return out
}
