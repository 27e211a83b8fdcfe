// Package scene describes the host scene graph consumed by the exporter.
//
// The graph is read-only and capability typed: every object reports its
// Kind and world Transform, and the kinds the exporter understands expose
// their data through the CameraObject, LightObject and MeshObject
// interfaces. Graph is an in-memory implementation used by the scene dump
// reader and by tests.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the object type reported by the host.
type Kind int

const (
	KindOther  Kind = iota // Empties, curves, armatures, ...
	KindCamera             // Perspective camera
	KindLight              // Any lamp
	KindMesh               // Polygonal mesh
)

// String returns the host name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCamera:
		return "CAMERA"
	case KindLight:
		return "LIGHT"
	case KindMesh:
		return "MESH"
	case KindOther:
		return "OTHER"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Object is a node of the scene's object collection.
type Object interface {
	Name() string
	Kind() Kind
	// Transform returns the object's world matrix.
	Transform() mgl64.Mat4
}

// Lens holds perspective camera parameters.
type Lens struct {
	FOV       float64 // Vertical field of view, radians
	ClipStart float64 // Near clip distance
}

// CameraObject is an Object of KindCamera.
type CameraObject interface {
	Object
	Lens() Lens
}

// LightType is the host lamp type. The exporter treats all of them as point
// lights.
type LightType string

const (
	LightPoint LightType = "POINT"
	LightSun   LightType = "SUN"
	LightSpot  LightType = "SPOT"
	LightArea  LightType = "AREA"
)

// Emission describes the light a lamp gives off.
type Emission struct {
	Type   LightType
	Color  mgl64.Vec3 // Linear RGB, 0-1
	Energy float64    // Scalar power
}

// LightObject is an Object of KindLight.
type LightObject interface {
	Object
	Emission() Emission
}

// MeshObject is an Object of KindMesh.
type MeshObject interface {
	Object
	// ActiveMaterial returns the name of the object's active material, or ""
	// when it has none.
	ActiveMaterial() string
	// Evaluate returns the mesh with modifiers and the world transform
	// applied. The result is owned by the caller.
	Evaluate() (*Mesh, error)
}

// RenderSettings holds the global output settings.
type RenderSettings struct {
	ResolutionX int
	ResolutionY int
}

// World holds environment settings.
type World struct {
	Background mgl64.Vec3 // Linear RGB, 0-1
}

// Scene is the read-only view of a host document.
type Scene interface {
	Objects() []Object
	// Materials returns the document's material collection in declaration
	// order. Meshes reference materials by name.
	Materials() []*Material
	Render() RenderSettings
	World() World
}

// MaterialIndex returns the 0-based position of the named material, or -1.
func MaterialIndex(materials []*Material, name string) int {
	for i, m := range materials {
		if m != nil && m.Name == name {
			return i
		}
	}
	return -1
}
