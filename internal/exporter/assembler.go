// Package exporter turns a scene graph into a ray tracer scene document.
package exporter

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scenexport/internal/camera"
	"github.com/Faultbox/scenexport/internal/document"
	"github.com/Faultbox/scenexport/internal/geometry"
	"github.com/Faultbox/scenexport/internal/material"
	"github.com/Faultbox/scenexport/pkg/scene"
)

// ErrUnknownMaterial is returned when a mesh's active material is not part
// of the scene's material collection.
var ErrUnknownMaterial = errors.New("active material not in material collection")

// Assembler builds a document in one pass over the scene's objects. Ids of
// each record kind start at 1; meshes share the document buffers through a
// running corner offset.
type Assembler struct {
	scene     scene.Scene
	materials *material.Result
	opts      Options
	log       *zap.Logger

	doc      *document.Scene
	cameraID int
	lightID  int
	meshID   int
	offset   int
}

// NewAssembler creates an assembler for sc. materials must come from
// resolving sc.Materials().
func NewAssembler(sc scene.Scene, materials *material.Result, opts Options) *Assembler {
	return &Assembler{
		scene:     sc,
		materials: materials,
		opts:      opts,
		log:       zap.NewNop(),
	}
}

// WithLogger sets the logger used for per-object messages.
func (a *Assembler) WithLogger(log *zap.Logger) *Assembler {
	a.log = log
	return a
}

// Assemble walks the object collection and returns the finished document.
// Geometry errors abort the pass.
func (a *Assembler) Assemble() (*document.Scene, error) {
	a.reset()

	for _, obj := range a.scene.Objects() {
		switch obj.Kind() {
		case scene.KindCamera:
			if cam, ok := obj.(scene.CameraObject); ok {
				a.addCamera(cam)
				continue
			}
		case scene.KindLight:
			if light, ok := obj.(scene.LightObject); ok {
				a.addLight(light)
				continue
			}
		case scene.KindMesh:
			if mesh, ok := obj.(scene.MeshObject); ok {
				if err := a.addMesh(mesh); err != nil {
					return nil, err
				}
				continue
			}
		}
		a.log.Debug("skipping object", zap.String("object", obj.Name()), zap.Stringer("kind", obj.Kind()))
	}

	return a.doc, nil
}

func (a *Assembler) reset() {
	a.doc = document.New()
	a.doc.ShadowRayEpsilon = a.opts.ShadowRayEpsilon
	a.doc.MaxRecursionDepth = a.opts.MaxRecursionDepth
	a.doc.AmbientLight = a.opts.AmbientLight
	a.doc.BackgroundColor = BackgroundColor(a.scene.World().Background)
	if a.materials != nil {
		a.doc.Materials = a.materials.Materials
		a.doc.Textures = a.materials.Textures
	}
	a.cameraID, a.lightID, a.meshID = 1, 1, 1
	a.offset = 0
}

// BackgroundColor converts a linear 0-1 color to truncated 0-255 integers.
func BackgroundColor(c mgl64.Vec3) [3]int {
	return [3]int{int(c[0] * 255), int(c[1] * 255), int(c[2] * 255)}
}

func (a *Assembler) addCamera(obj scene.CameraObject) {
	render := a.scene.Render()
	p := camera.Project(obj.Lens(), obj.Transform(), render.ResolutionX, render.ResolutionY)

	a.doc.Cameras = append(a.doc.Cameras, document.Camera{
		ID:              a.cameraID,
		Position:        p.Position,
		Gaze:            p.Gaze,
		Up:              p.Up,
		NearPlane:       [4]float64{p.Near.Left, p.Near.Right, p.Near.Bottom, p.Near.Top},
		NearDistance:    p.NearDistance,
		ImageResolution: [2]int{render.ResolutionX, render.ResolutionY},
		ImageName:       obj.Name() + ".jpg",
	})
	a.cameraID++
}

// addLight emits every lamp as a point light.
func (a *Assembler) addLight(obj scene.LightObject) {
	e := obj.Emission()
	if e.Type != "" && e.Type != scene.LightPoint {
		a.log.Debug("exporting lamp as point light", zap.String("object", obj.Name()), zap.String("type", string(e.Type)))
	}

	a.doc.Lights = append(a.doc.Lights, document.PointLight{
		ID:        a.lightID,
		Position:  obj.Transform().Col(3).Vec3(),
		Intensity: e.Color.Mul(e.Energy),
	})
	a.lightID++
}

func (a *Assembler) addMesh(obj scene.MeshObject) error {
	matName := obj.ActiveMaterial()
	if matName == "" {
		a.log.Debug("skipping mesh without material", zap.String("object", obj.Name()))
		return nil
	}

	idx := scene.MaterialIndex(a.scene.Materials(), matName)
	if idx < 0 {
		return fmt.Errorf("mesh %q: material %q: %w", obj.Name(), matName, ErrUnknownMaterial)
	}
	matID := idx + 1

	var texID int
	if a.materials != nil {
		texID, _ = a.materials.Texture(matID)
	}

	evaluated, err := obj.Evaluate()
	if err != nil {
		return fmt.Errorf("mesh %q: evaluating: %w", obj.Name(), err)
	}

	res, err := geometry.Normalize(evaluated, geometry.Options{RequireUV: texID > 0 || a.opts.StrictUV})
	if err != nil {
		return fmt.Errorf("mesh %q: %w", obj.Name(), err)
	}

	a.doc.VertexData = append(a.doc.VertexData, res.Positions...)
	for _, uv := range res.UVs {
		a.doc.TexCoordData = append(a.doc.TexCoordData, FlipV(uv))
	}

	faces := make([][3]int, len(res.Triangles))
	for i, tri := range res.Triangles {
		faces[i] = [3]int{a.offset + tri[0] + 1, a.offset + tri[1] + 1, a.offset + tri[2] + 1}
	}

	// Meshes that evaluate to nothing still take an id.
	if len(faces) == 0 {
		a.log.Warn("mesh has no faces", zap.String("object", obj.Name()), zap.Int("id", a.meshID))
	}

	a.doc.Meshes = append(a.doc.Meshes, document.Mesh{
		ID:       a.meshID,
		Material: matID,
		Texture:  texID,
		Faces:    faces,
	})
	a.offset += res.Corners()
	a.meshID++

	a.log.Debug("mesh exported",
		zap.String("object", obj.Name()),
		zap.Int("triangles", len(faces)),
		zap.Int("material", matID),
		zap.Int("texture", texID))
	return nil
}

// FlipV converts a bottom-left origin UV to the top-left origin the ray
// tracer samples with.
func FlipV(uv mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{uv[0], 1 - uv[1]}
}
