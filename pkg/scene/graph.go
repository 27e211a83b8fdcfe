package scene

import "github.com/go-gl/mathgl/mgl64"

type base struct {
	name  string
	world mgl64.Mat4
}

func (b *base) Name() string          { return b.name }
func (b *base) Transform() mgl64.Mat4 { return b.world }

// Camera is an in-memory CameraObject.
type Camera struct {
	base
	lens Lens
}

// NewCamera creates a camera with the given world matrix.
func NewCamera(name string, world mgl64.Mat4, lens Lens) *Camera {
	return &Camera{base: base{name, world}, lens: lens}
}

func (c *Camera) Kind() Kind { return KindCamera }
func (c *Camera) Lens() Lens { return c.lens }

// Light is an in-memory LightObject.
type Light struct {
	base
	emission Emission
}

// NewLight creates a lamp with the given world matrix.
func NewLight(name string, world mgl64.Mat4, emission Emission) *Light {
	return &Light{base: base{name, world}, emission: emission}
}

func (l *Light) Kind() Kind         { return KindLight }
func (l *Light) Emission() Emission { return l.emission }

// MeshInstance is an in-memory MeshObject. Its local geometry is evaluated
// by applying the world matrix; no modifiers are modeled.
type MeshInstance struct {
	base
	data     *Mesh
	material string
}

// NewMeshInstance creates a mesh object. material is the active material
// name, "" for none.
func NewMeshInstance(name string, world mgl64.Mat4, data *Mesh, material string) *MeshInstance {
	return &MeshInstance{base: base{name, world}, data: data, material: material}
}

func (m *MeshInstance) Kind() Kind             { return KindMesh }
func (m *MeshInstance) ActiveMaterial() string { return m.material }

// Evaluate returns the world-space geometry. An instance without data
// evaluates to an empty mesh.
func (m *MeshInstance) Evaluate() (*Mesh, error) {
	if m.data == nil {
		return &Mesh{}, nil
	}
	return m.data.Transformed(m.world), nil
}

// Empty is an object of a kind the exporter does not model.
type Empty struct {
	base
}

// NewEmpty creates a KindOther object.
func NewEmpty(name string, world mgl64.Mat4) *Empty {
	return &Empty{base: base{name, world}}
}

func (e *Empty) Kind() Kind { return KindOther }

// Graph is an in-memory Scene.
type Graph struct {
	objects   []Object
	materials []*Material
	render    RenderSettings
	world     World
}

// NewGraph creates an empty scene.
func NewGraph(render RenderSettings, world World) *Graph {
	return &Graph{render: render, world: world}
}

// AddObject appends an object to the collection.
func (g *Graph) AddObject(o Object) { g.objects = append(g.objects, o) }

// AddMaterial appends a material to the collection.
func (g *Graph) AddMaterial(m *Material) { g.materials = append(g.materials, m) }

func (g *Graph) Objects() []Object      { return g.objects }
func (g *Graph) Materials() []*Material { return g.materials }
func (g *Graph) Render() RenderSettings { return g.render }
func (g *Graph) World() World           { return g.world }
