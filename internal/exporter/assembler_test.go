package exporter

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenexport/internal/document"
	"github.com/Faultbox/scenexport/internal/geometry"
	"github.com/Faultbox/scenexport/internal/material"
	"github.com/Faultbox/scenexport/pkg/scene"
)

type stubEncoder struct{}

func (stubEncoder) Encode(img *scene.Image) (string, error) {
	return "textures/" + img.Name, nil
}

func newGraph() *scene.Graph {
	return scene.NewGraph(scene.RenderSettings{ResolutionX: 800, ResolutionY: 600}, scene.World{Background: mgl64.Vec3{0.5, 0.25, 1}})
}

func quadMesh(uvs bool) *scene.Mesh {
	var uv [][]mgl64.Vec2
	if uvs {
		uv = [][]mgl64.Vec2{{{0, 0}, {1, 0}, {1, 1}, {0, 0.25}}}
	}
	return scene.NewMesh(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[][]int{{0, 1, 2, 3}},
		uv,
	)
}

func assemble(t *testing.T, g *scene.Graph, opts Options) (*document.Scene, error) {
	t.Helper()
	res, err := material.NewResolver(stubEncoder{}).Resolve(g.Materials())
	require.NoError(t, err)
	return NewAssembler(g, res, opts).Assemble()
}

func TestAssemble_QuadWithPlainMaterial(t *testing.T) {
	g := newGraph()
	g.AddMaterial(&scene.Material{Name: "Flat"})
	g.AddObject(scene.NewMeshInstance("Quad", mgl64.Ident4(), quadMesh(true), "Flat"))

	doc, err := assemble(t, g, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, doc.Meshes, 1)
	assert.Len(t, doc.Meshes[0].Faces, 2)
	assert.Len(t, doc.VertexData, 6)
	assert.Len(t, doc.TexCoordData, 6)
	assert.Equal(t, [][3]int{{1, 2, 3}, {4, 5, 6}}, doc.Meshes[0].Faces)

	require.Len(t, doc.Materials, 1)
	assert.Equal(t, document.PlaceholderMaterial(1), doc.Materials[0])
	assert.Empty(t, doc.Textures)
	assert.Zero(t, doc.Meshes[0].Texture)
}

func TestAssemble_SceneSettings(t *testing.T) {
	g := newGraph()
	opts := DefaultOptions()
	opts.AmbientLight = mgl64.Vec3{25, 25, 25}

	doc, err := assemble(t, g, opts)
	require.NoError(t, err)

	assert.Equal(t, [3]int{127, 63, 255}, doc.BackgroundColor)
	assert.Equal(t, 1e-3, doc.ShadowRayEpsilon)
	assert.Equal(t, 6, doc.MaxRecursionDepth)
	assert.Equal(t, mgl64.Vec3{25, 25, 25}, doc.AmbientLight)
}

func TestAssemble_MeshWithoutMaterialIsSkipped(t *testing.T) {
	g := newGraph()
	g.AddMaterial(&scene.Material{Name: "M"})
	g.AddObject(scene.NewMeshInstance("First", mgl64.Ident4(), quadMesh(true), "M"))
	g.AddObject(scene.NewMeshInstance("Bare", mgl64.Ident4(), quadMesh(true), ""))
	g.AddObject(scene.NewMeshInstance("Second", mgl64.Ident4(), quadMesh(true), "M"))

	doc, err := assemble(t, g, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, doc.Meshes, 2)
	assert.Equal(t, 1, doc.Meshes[0].ID)
	assert.Equal(t, 2, doc.Meshes[1].ID)
	assert.Len(t, doc.VertexData, 12)
	// The second mesh continues right after the first one's corners.
	assert.Equal(t, [3]int{7, 8, 9}, doc.Meshes[1].Faces[0])
}

func TestAssemble_OffsetsAcrossMeshes(t *testing.T) {
	g := newGraph()
	g.AddMaterial(&scene.Material{Name: "M"})
	tri := scene.NewMesh([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, [][]int{{0, 1, 2}}, [][]mgl64.Vec2{{{0, 0}, {1, 0}, {0, 1}}})
	g.AddObject(scene.NewMeshInstance("Tri", mgl64.Translate3D(0, 0, 1), tri, "M"))
	g.AddObject(scene.NewMeshInstance("Quad", mgl64.Ident4(), quadMesh(true), "M"))
	g.AddObject(scene.NewMeshInstance("Tri2", mgl64.Ident4(), tri, "M"))

	doc, err := assemble(t, g, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	assert.Equal(t, [][3]int{{1, 2, 3}}, doc.Meshes[0].Faces)
	assert.Equal(t, [][3]int{{4, 5, 6}, {7, 8, 9}}, doc.Meshes[1].Faces)
	assert.Equal(t, [][3]int{{10, 11, 12}}, doc.Meshes[2].Faces)

	// World transform applied to the first mesh.
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, doc.VertexData[0])

	n := len(doc.VertexData)
	for _, m := range doc.Meshes {
		for _, f := range m.Faces {
			for _, idx := range f {
				assert.GreaterOrEqual(t, idx, 1)
				assert.LessOrEqual(t, idx, n)
			}
		}
	}
}

func TestAssemble_FlipsV(t *testing.T) {
	g := newGraph()
	g.AddMaterial(&scene.Material{Name: "M"})
	g.AddObject(scene.NewMeshInstance("Quad", mgl64.Ident4(), quadMesh(true), "M"))

	doc, err := assemble(t, g, DefaultOptions())
	require.NoError(t, err)

	var vs []float64
	for _, uv := range doc.TexCoordData {
		vs = append(vs, uv[1])
	}
	// Source v values of the quad corners 0,1,2 then 3,0,2 (or similar
	// fan) all come out as 1-v.
	for _, v := range vs {
		assert.Contains(t, []float64{1, 0, 0.75}, v)
	}
}

func TestFlipV(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{{0, 1}, {0.25, 0.75}, {1, 0}} {
		assert.Equal(t, mgl64.Vec2{0.5, tt.want}, FlipV(mgl64.Vec2{0.5, tt.in}))
	}
}

func TestAssemble_MaterialReferenceByPosition(t *testing.T) {
	g := newGraph()
	g.AddMaterial(&scene.Material{Name: "Unused"})
	g.AddMaterial(&scene.Material{Name: "Broken"})
	g.AddMaterial(&scene.Material{Name: "Wood", UseNodes: true, Nodes: []scene.Node{
		&scene.PrincipledBSDF{BaseColor: mgl64.Vec4{1, 1, 1, 1}},
		&scene.ImageTexture{Image: &scene.Image{Name: "wood.jpg"}, Extension: scene.ExtRepeat},
	}})
	g.AddObject(scene.NewMeshInstance("Table", mgl64.Ident4(), quadMesh(true), "Wood"))
	g.AddObject(scene.NewMeshInstance("Crate", mgl64.Ident4(), quadMesh(true), "Broken"))

	doc, err := assemble(t, g, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, doc.Materials, 3)
	require.Len(t, doc.Meshes, 2)
	assert.Equal(t, 3, doc.Meshes[0].Material)
	assert.Equal(t, 1, doc.Meshes[0].Texture)
	assert.Equal(t, 2, doc.Meshes[1].Material)
	assert.Zero(t, doc.Meshes[1].Texture)
}

func TestAssemble_UnknownMaterial(t *testing.T) {
	g := newGraph()
	g.AddObject(scene.NewMeshInstance("Orphan", mgl64.Ident4(), quadMesh(true), "Gone"))

	_, err := assemble(t, g, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestAssemble_MissingUVs(t *testing.T) {
	textured := &scene.Material{Name: "Tex", UseNodes: true, Nodes: []scene.Node{
		&scene.PrincipledBSDF{},
		&scene.ImageTexture{Image: &scene.Image{Name: "t.png"}},
	}}

	t.Run("textured material requires uvs", func(t *testing.T) {
		g := newGraph()
		g.AddMaterial(textured)
		g.AddObject(scene.NewMeshInstance("NoUV", mgl64.Ident4(), quadMesh(false), "Tex"))

		_, err := assemble(t, g, DefaultOptions())
		assert.ErrorIs(t, err, geometry.ErrMissingUVLayer)
	})

	t.Run("untextured material gets zero uvs", func(t *testing.T) {
		g := newGraph()
		g.AddMaterial(&scene.Material{Name: "Plain"})
		g.AddObject(scene.NewMeshInstance("NoUV", mgl64.Ident4(), quadMesh(false), "Plain"))

		doc, err := assemble(t, g, DefaultOptions())
		require.NoError(t, err)
		for _, uv := range doc.TexCoordData {
			assert.Equal(t, mgl64.Vec2{0, 1}, uv)
		}
	})

	t.Run("strict uv", func(t *testing.T) {
		g := newGraph()
		g.AddMaterial(&scene.Material{Name: "Plain"})
		g.AddObject(scene.NewMeshInstance("NoUV", mgl64.Ident4(), quadMesh(false), "Plain"))

		opts := DefaultOptions()
		opts.StrictUV = true
		_, err := assemble(t, g, opts)
		assert.ErrorIs(t, err, geometry.ErrMissingUVLayer)
	})
}

// Empty geometry still consumes a mesh id. This pins current behavior; a
// faceless Mesh record is arguably a defect.
func TestAssemble_EmptyMeshConsumesID(t *testing.T) {
	g := newGraph()
	g.AddMaterial(&scene.Material{Name: "M"})
	g.AddObject(scene.NewMeshInstance("Empty", mgl64.Ident4(), nil, "M"))
	g.AddObject(scene.NewMeshInstance("Quad", mgl64.Ident4(), quadMesh(true), "M"))

	doc, err := assemble(t, g, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, doc.Meshes, 2)
	assert.Equal(t, 1, doc.Meshes[0].ID)
	assert.Empty(t, doc.Meshes[0].Faces)
	assert.Equal(t, 2, doc.Meshes[1].ID)
	assert.Equal(t, [3]int{1, 2, 3}, doc.Meshes[1].Faces[0])
}

type failingMesh struct {
	*scene.MeshInstance
}

func (failingMesh) Evaluate() (*scene.Mesh, error) {
	return nil, errors.New("modifier stack failed")
}

func TestAssemble_EvaluateErrorAborts(t *testing.T) {
	g := newGraph()
	g.AddMaterial(&scene.Material{Name: "M"})
	g.AddObject(failingMesh{scene.NewMeshInstance("Bad", mgl64.Ident4(), nil, "M")})

	_, err := assemble(t, g, DefaultOptions())
	assert.ErrorContains(t, err, "modifier stack failed")
}

func TestAssemble_CamerasAndLights(t *testing.T) {
	g := newGraph()
	g.AddObject(scene.NewCamera("Cam", mgl64.Translate3D(0, 0, 5), scene.Lens{FOV: mgl64.DegToRad(45), ClipStart: 0.1}))
	g.AddObject(scene.NewEmpty("Pivot", mgl64.Ident4()))
	g.AddObject(scene.NewLight("Key", mgl64.Translate3D(1, 2, 3), scene.Emission{Type: scene.LightPoint, Color: mgl64.Vec3{1, 0.5, 0.25}, Energy: 100}))
	g.AddObject(scene.NewLight("Sun", mgl64.Ident4(), scene.Emission{Type: scene.LightSun, Color: mgl64.Vec3{1, 1, 1}, Energy: 2}))
	g.AddObject(scene.NewCamera("Cam2", mgl64.Ident4(), scene.Lens{FOV: 1, ClipStart: 1}))

	doc, err := assemble(t, g, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, doc.Cameras, 2)
	cam := doc.Cameras[0]
	assert.Equal(t, 1, cam.ID)
	assert.Equal(t, 2, doc.Cameras[1].ID)
	assert.Equal(t, "Cam.jpg", cam.ImageName)
	assert.Equal(t, [2]int{800, 600}, cam.ImageResolution)
	assert.InDelta(t, 5, cam.Position[2], 1e-12)
	assert.InDelta(t, -1, cam.Gaze[2], 1e-9)
	assert.InDelta(t, 1, cam.Up[1], 1e-9)
	assert.InDelta(t, -cam.NearPlane[1], cam.NearPlane[0], 1e-12)
	assert.InDelta(t, cam.NearPlane[1]/cam.NearPlane[3], 800.0/600.0, 1e-9)

	require.Len(t, doc.Lights, 2)
	assert.Equal(t, document.PointLight{ID: 1, Position: mgl64.Vec3{1, 2, 3}, Intensity: mgl64.Vec3{100, 50, 25}}, doc.Lights[0])
	assert.Equal(t, 2, doc.Lights[1].ID)
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, doc.Lights[1].Intensity)
}
