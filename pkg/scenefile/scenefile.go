// Package scenefile reads YAML scene dumps into an in-memory scene graph.
//
// A dump lists render settings, the world background, materials with their
// shader nodes, optional shared mesh datablocks and the object collection in
// order. Object transforms are given either as location, rotation_euler
// (radians, XYZ) and scale, or as a row-major 4x4 matrix_world. Relative
// image paths are resolved against the directory of the dump.
package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenexport/pkg/scene"
)

var (
	// ErrUnknownKind is returned for object types the host does not have.
	ErrUnknownKind = errors.New("unknown object type")
	// ErrInvalid is returned for structurally broken dumps.
	ErrInvalid = errors.New("invalid scene dump")
)

// otherKinds are host object types carried as KindOther.
var otherKinds = map[string]bool{
	"EMPTY":        true,
	"CURVE":        true,
	"CURVES":       true,
	"POINTCLOUD":   true,
	"SURFACE":      true,
	"META":         true,
	"FONT":         true,
	"ARMATURE":     true,
	"LATTICE":      true,
	"SPEAKER":      true,
	"LIGHT_PROBE":  true,
	"GPENCIL":      true,
	"GREASEPENCIL": true,
	"VOLUME":       true,
}

// Image node enums keyed by their upper-cased spelling.
var (
	interpolations = map[string]scene.Interpolation{
		"LINEAR":  scene.InterpLinear,
		"CLOSEST": scene.InterpClosest,
		"CUBIC":   scene.InterpCubic,
		"SMART":   scene.InterpSmart,
	}
	extensions = map[string]scene.Extension{
		"REPEAT": scene.ExtRepeat,
		"EXTEND": scene.ExtExtend,
		"CLIP":   scene.ExtClip,
		"MIRROR": scene.ExtMirror,
	}
)

// Load reads the dump at path.
func Load(path string) (*scene.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Parse(bytes.NewReader(data), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse decodes a dump from r. Relative image paths are joined to baseDir.
// Unknown keys are rejected.
func Parse(r io.Reader, baseDir string) (*scene.Graph, error) {
	var f fileScene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return build(&f, baseDir)
}

func build(f *fileScene, baseDir string) (*scene.Graph, error) {
	render := scene.RenderSettings{ResolutionX: f.Render.ResolutionX, ResolutionY: f.Render.ResolutionY}
	if p := f.Render.Percentage; p > 0 {
		render.ResolutionX = render.ResolutionX * p / 100
		render.ResolutionY = render.ResolutionY * p / 100
	}

	bg, err := vec3(f.World.Background, mgl64.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("world.background: %w", err)
	}
	g := scene.NewGraph(render, scene.World{Background: bg})

	images := make(map[string]*scene.Image)
	for i, fm := range f.Materials {
		m, err := buildMaterial(fm, baseDir, images)
		if err != nil {
			return nil, fmt.Errorf("materials[%d] %q: %w", i, fm.Name, err)
		}
		g.AddMaterial(m)
	}

	meshes := make(map[string]*scene.Mesh, len(f.Meshes))
	for name, fm := range f.Meshes {
		m, err := buildMesh(fm)
		if err != nil {
			return nil, fmt.Errorf("meshes[%s]: %w", name, err)
		}
		meshes[name] = m
	}

	for i, fo := range f.Objects {
		obj, err := buildObject(fo, meshes)
		if err != nil {
			return nil, fmt.Errorf("objects[%d] %q: %w", i, fo.Name, err)
		}
		g.AddObject(obj)
	}
	return g, nil
}

func buildObject(fo fileObject, meshes map[string]*scene.Mesh) (scene.Object, error) {
	world, err := transform(fo)
	if err != nil {
		return nil, err
	}

	kind := strings.ToUpper(fo.Type)
	switch kind {
	case "CAMERA":
		lens := scene.Lens{FOV: 0.6911112, ClipStart: 0.1}
		if c := fo.Camera; c != nil {
			switch {
			case c.FOV != 0:
				lens.FOV = c.FOV
			case c.FOVDeg != 0:
				lens.FOV = mgl64.DegToRad(c.FOVDeg)
			}
			if c.ClipStart != 0 {
				lens.ClipStart = c.ClipStart
			}
		}
		if lens.FOV <= 0 || lens.ClipStart <= 0 {
			return nil, fmt.Errorf("%w: camera fov and clip_start must be positive", ErrInvalid)
		}
		return scene.NewCamera(fo.Name, world, lens), nil

	case "LIGHT", "LAMP":
		e := scene.Emission{Type: scene.LightPoint, Color: mgl64.Vec3{1, 1, 1}, Energy: 10}
		if l := fo.Light; l != nil {
			if l.Type != "" {
				e.Type = scene.LightType(strings.ToUpper(l.Type))
			}
			if e.Color, err = vec3(l.Color, e.Color); err != nil {
				return nil, fmt.Errorf("light.color: %w", err)
			}
			if l.Energy != 0 {
				e.Energy = l.Energy
			}
		}
		return scene.NewLight(fo.Name, world, e), nil

	case "MESH":
		var data *scene.Mesh
		switch {
		case fo.Mesh != nil && fo.Data != "":
			return nil, fmt.Errorf("%w: both mesh and data given", ErrInvalid)
		case fo.Mesh != nil:
			if data, err = buildMesh(*fo.Mesh); err != nil {
				return nil, fmt.Errorf("mesh: %w", err)
			}
		case fo.Data != "":
			var ok bool
			if data, ok = meshes[fo.Data]; !ok {
				return nil, fmt.Errorf("%w: mesh datablock %q not found", ErrInvalid, fo.Data)
			}
		}
		return scene.NewMeshInstance(fo.Name, world, data, fo.Material), nil

	default:
		if otherKinds[kind] {
			return scene.NewEmpty(fo.Name, world), nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, fo.Type)
	}
}

// transform returns the object's world matrix.
func transform(fo fileObject) (mgl64.Mat4, error) {
	if len(fo.MatrixWorld) > 0 {
		if len(fo.Location) > 0 || len(fo.RotationEuler) > 0 || len(fo.Scale) > 0 {
			return mgl64.Mat4{}, fmt.Errorf("%w: matrix_world excludes location, rotation_euler and scale", ErrInvalid)
		}
		return matrix(fo.MatrixWorld)
	}

	loc, err := vec3(fo.Location, mgl64.Vec3{})
	if err != nil {
		return mgl64.Mat4{}, fmt.Errorf("location: %w", err)
	}
	rot, err := vec3(fo.RotationEuler, mgl64.Vec3{})
	if err != nil {
		return mgl64.Mat4{}, fmt.Errorf("rotation_euler: %w", err)
	}
	scale, err := vec3(fo.Scale, mgl64.Vec3{1, 1, 1})
	if err != nil {
		return mgl64.Mat4{}, fmt.Errorf("scale: %w", err)
	}
	return Compose(loc, rot, scale), nil
}

// Compose builds translation * rotation * scale, with an XYZ euler
// rotation (X applied first).
func Compose(loc, euler, scale mgl64.Vec3) mgl64.Mat4 {
	r := mgl64.HomogRotate3DZ(euler[2]).
		Mul4(mgl64.HomogRotate3DY(euler[1])).
		Mul4(mgl64.HomogRotate3DX(euler[0]))
	return mgl64.Translate3D(loc[0], loc[1], loc[2]).
		Mul4(r).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

func matrix(rows [][]float64) (mgl64.Mat4, error) {
	if len(rows) != 4 {
		return mgl64.Mat4{}, fmt.Errorf("%w: matrix_world needs 4 rows, got %d", ErrInvalid, len(rows))
	}
	var r [4]mgl64.Vec4
	for i, row := range rows {
		if len(row) != 4 {
			return mgl64.Mat4{}, fmt.Errorf("%w: matrix_world row %d has %d values", ErrInvalid, i, len(row))
		}
		r[i] = mgl64.Vec4{row[0], row[1], row[2], row[3]}
	}
	return mgl64.Mat4FromRows(r[0], r[1], r[2], r[3]), nil
}

func buildMaterial(fm fileMaterial, baseDir string, images map[string]*scene.Image) (*scene.Material, error) {
	if fm.Name == "" {
		return nil, fmt.Errorf("%w: material without name", ErrInvalid)
	}
	m := &scene.Material{Name: fm.Name, UseNodes: fm.UseNodes}

	for i, fn := range fm.Nodes {
		switch t := scene.NodeType(strings.ToUpper(fn.Type)); t {
		case scene.NodePrincipledBSDF:
			color, err := vec4(fn.BaseColor, mgl64.Vec4{0.8, 0.8, 0.8, 1})
			if err != nil {
				return nil, fmt.Errorf("nodes[%d].base_color: %w", i, err)
			}
			m.Nodes = append(m.Nodes, &scene.PrincipledBSDF{
				BaseColor:    color,
				Metallic:     fn.Metallic,
				Specular:     fn.Specular,
				Roughness:    fn.Roughness,
				Transmission: fn.Transmission,
			})
		case scene.NodeTexImage:
			node := &scene.ImageTexture{
				Interpolation: scene.InterpLinear,
				Extension:     scene.ExtRepeat,
			}
			if fn.Interpolation != "" {
				interp, ok := interpolations[strings.ToUpper(fn.Interpolation)]
				if !ok {
					return nil, fmt.Errorf("%w: nodes[%d] interpolation %q", ErrInvalid, i, fn.Interpolation)
				}
				node.Interpolation = interp
			}
			if fn.Extension != "" {
				ext, ok := extensions[strings.ToUpper(fn.Extension)]
				if !ok {
					return nil, fmt.Errorf("%w: nodes[%d] extension %q", ErrInvalid, i, fn.Extension)
				}
				node.Extension = ext
			}
			if fn.Image != nil {
				node.Image = imageRef(fn.Image, baseDir, images)
			}
			m.Nodes = append(m.Nodes, node)
		case "":
			return nil, fmt.Errorf("%w: nodes[%d] has no type", ErrInvalid, i)
		default:
			m.Nodes = append(m.Nodes, &scene.OtherNode{Type: t})
		}
	}
	return m, nil
}

// imageRef returns the shared datablock for an image reference. Images are
// keyed by name so several nodes can point at one datablock.
func imageRef(fi *fileImage, baseDir string, images map[string]*scene.Image) *scene.Image {
	name := fi.Name
	if name == "" {
		name = filepath.Base(fi.Filepath)
	}
	if img, ok := images[name]; ok {
		return img
	}
	path := fi.Filepath
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, filepath.FromSlash(path))
	}
	img := &scene.Image{Name: name, Filepath: path}
	images[name] = img
	return img
}

func buildMesh(fm fileMesh) (*scene.Mesh, error) {
	verts := make([]mgl64.Vec3, len(fm.Vertices))
	for i, v := range fm.Vertices {
		p, err := vec3(v, mgl64.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("vertices[%d]: %w", i, err)
		}
		verts[i] = p
	}
	for i, face := range fm.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(verts) {
				return nil, fmt.Errorf("%w: faces[%d] references vertex %d of %d", ErrInvalid, i, idx, len(verts))
			}
		}
	}

	var uvs [][]mgl64.Vec2
	if fm.UVs != nil {
		if len(fm.UVs) != len(fm.Faces) {
			return nil, fmt.Errorf("%w: %d uv rows for %d faces", ErrInvalid, len(fm.UVs), len(fm.Faces))
		}
		uvs = make([][]mgl64.Vec2, len(fm.UVs))
		for i, row := range fm.UVs {
			if len(row) != len(fm.Faces[i]) {
				return nil, fmt.Errorf("%w: uvs[%d] has %d coordinates for %d corners", ErrInvalid, i, len(row), len(fm.Faces[i]))
			}
			uvs[i] = make([]mgl64.Vec2, len(row))
			for j, uv := range row {
				if len(uv) != 2 {
					return nil, fmt.Errorf("%w: uvs[%d][%d] needs 2 values", ErrInvalid, i, j)
				}
				uvs[i][j] = mgl64.Vec2{uv[0], uv[1]}
			}
		}
	}
	return scene.NewMesh(verts, fm.Faces, uvs), nil
}

func vec3(v []float64, def mgl64.Vec3) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: need 3 values, got %d", ErrInvalid, len(v))
	}
}

// vec4 accepts RGB or RGBA; alpha defaults to 1.
func vec4(v []float64, def mgl64.Vec4) (mgl64.Vec4, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl64.Vec4{v[0], v[1], v[2], 1}, nil
	case 4:
		return mgl64.Vec4{v[0], v[1], v[2], v[3]}, nil
	default:
		return mgl64.Vec4{}, fmt.Errorf("%w: need 3 or 4 values, got %d", ErrInvalid, len(v))
	}
}
