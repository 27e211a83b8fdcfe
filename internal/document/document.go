// Package document holds the flat scene description read by the ray tracer
// and renders it as XML.
package document

import "github.com/go-gl/mathgl/mgl64"

// Defaults for the scalar scene settings.
const (
	DefaultShadowRayEpsilon  = 1e-3
	DefaultMaxRecursionDepth = 6
	DecalReplaceKd           = "replace_kd"
)

// Interpolation is a texture filter.
type Interpolation string

const (
	InterpNearest  Interpolation = "nearest"
	InterpBilinear Interpolation = "bilinear"
)

// Appearance is a texture addressing mode.
type Appearance string

const (
	AppearanceRepeat Appearance = "repeat"
	AppearanceClamp  Appearance = "clamp"
)

// Scene is the root of the document. It owns every record; records refer
// to each other by 1-based id only.
type Scene struct {
	BackgroundColor   [3]int // 0-255
	ShadowRayEpsilon  float64
	MaxRecursionDepth int
	AmbientLight      mgl64.Vec3

	Cameras   []Camera
	Lights    []PointLight
	Materials []Material
	Textures  []Texture

	// Shared buffers. Mesh faces index both with the same 1-based index.
	VertexData   []mgl64.Vec3
	TexCoordData []mgl64.Vec2

	Meshes []Mesh
}

// New returns an empty document with default scene settings.
func New() *Scene {
	return &Scene{
		ShadowRayEpsilon:  DefaultShadowRayEpsilon,
		MaxRecursionDepth: DefaultMaxRecursionDepth,
	}
}

// Camera is a pinhole camera.
type Camera struct {
	ID              int
	Position        mgl64.Vec3
	Gaze            mgl64.Vec3
	Up              mgl64.Vec3
	NearPlane       [4]float64 // left right bottom top
	NearDistance    float64
	ImageResolution [2]int
	ImageName       string
}

// PointLight is an isotropic light.
type PointLight struct {
	ID        int
	Position  mgl64.Vec3
	Intensity mgl64.Vec3
}

// Material holds Blinn-Phong reflectances.
type Material struct {
	ID            int
	Ambient       mgl64.Vec3
	Diffuse       mgl64.Vec3
	Specular      mgl64.Vec3
	Mirror        mgl64.Vec3
	PhongExponent float64
}

// PlaceholderMaterial is emitted for materials that cannot be translated.
func PlaceholderMaterial(id int) Material {
	return Material{ID: id, PhongExponent: 1}
}

// Texture is an image map.
type Texture struct {
	ID            int
	ImageName     string // Relative to the document
	Interpolation Interpolation
	DecalMode     string
	Appearance    Appearance
}

// Mesh is a triangle list over the shared buffers.
type Mesh struct {
	ID       int
	Material int // 1-based
	Texture  int // 1-based, 0 for none
	Faces    [][3]int
}

// Validate checks that every face index addresses the shared buffers.
func (s *Scene) Validate() error {
	n := len(s.VertexData)
	if len(s.TexCoordData) != n {
		return &BufferError{Msg: "vertex and texcoord buffers differ in length", Vertices: n, TexCoords: len(s.TexCoordData)}
	}
	for _, m := range s.Meshes {
		for _, f := range m.Faces {
			for _, idx := range f {
				if idx < 1 || idx > n {
					return &BufferError{Msg: "face index out of range", Mesh: m.ID, Index: idx, Vertices: n, TexCoords: len(s.TexCoordData)}
				}
			}
		}
	}
	return nil
}
