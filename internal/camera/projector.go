// Package camera derives ray tracer camera parameters from a perspective
// camera object.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/scenexport/pkg/scene"
)

// Local camera axes: the camera looks down -Z with +Y up.
var (
	localForward = mgl64.Vec3{0, 0, -1}
	localUp      = mgl64.Vec3{0, 1, 0}
)

// NearPlane is the extent of the view frustum on the near plane.
type NearPlane struct {
	Left, Right, Bottom, Top float64
}

// Projection is the world-space camera description.
type Projection struct {
	Position     mgl64.Vec3
	Gaze         mgl64.Vec3 // Unit
	Up           mgl64.Vec3 // Unit
	Near         NearPlane
	NearDistance float64
}

// Project computes the projection of a camera with the given lens and world
// matrix for a width x height image.
func Project(lens scene.Lens, world mgl64.Mat4, width, height int) Projection {
	dist, bounds := NearPlaneFor(lens, width, height)
	rot := Rotation(world)
	return Projection{
		Position:     world.Col(3).Vec3(),
		Gaze:         rot.Rotate(localForward).Normalize(),
		Up:           rot.Rotate(localUp).Normalize(),
		Near:         bounds,
		NearDistance: dist,
	}
}

// NearPlaneFor returns the near plane distance and bounds.
//
//	distance  = 0.5 * clipStart / tan(fov/2)
//	halfWidth = distance * tan(fov/2)
//
// The vertical extent is halfWidth divided by the image aspect ratio.
func NearPlaneFor(lens scene.Lens, width, height int) (float64, NearPlane) {
	t := gomath.Tan(lens.FOV / 2)
	dist := 0.5 * lens.ClipStart / t
	half := dist * t

	aspect := 1.0
	if height != 0 {
		aspect = float64(width) / float64(height)
	}
	return dist, NearPlane{
		Left:   -half,
		Right:  half,
		Bottom: -half / aspect,
		Top:    half / aspect,
	}
}

// Rotation extracts the rotation of a world matrix as a unit quaternion,
// ignoring translation and scale. A mirrored matrix keeps its Y and Z axes
// and has X flipped, so gaze and up still follow the object.
func Rotation(world mgl64.Mat4) mgl64.Quat {
	x := world.Col(0).Vec3()
	y := world.Col(1).Vec3()
	z := world.Col(2).Vec3()
	if x.Len() == 0 || y.Len() == 0 || z.Len() == 0 {
		return mgl64.QuatIdent()
	}
	if x.Cross(y).Dot(z) < 0 {
		x = x.Mul(-1)
	}
	m := mgl64.Mat3FromCols(x.Normalize(), y.Normalize(), z.Normalize())
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}
