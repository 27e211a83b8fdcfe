// Package material translates host materials into ray tracer materials and
// textures.
package material

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scenexport/internal/document"
	"github.com/Faultbox/scenexport/internal/logger"
	"github.com/Faultbox/scenexport/pkg/scene"
)

// Encoder writes an image somewhere beside the document and returns the
// path the document should reference.
type Encoder interface {
	Encode(img *scene.Image) (string, error)
}

// Result is the outcome of resolving a material collection.
type Result struct {
	Materials []document.Material
	Textures  []document.Texture

	// TextureFor maps a material id to the id of its texture. When a
	// material samples several images the last one wins.
	TextureFor map[int]int
}

// Texture returns the texture id associated with a material id.
func (r *Result) Texture(materialID int) (int, bool) {
	id, ok := r.TextureFor[materialID]
	return id, ok
}

// Resolver assigns material and texture ids.
type Resolver struct {
	enc Encoder
}

// NewResolver creates a resolver that exports textures through enc.
func NewResolver(enc Encoder) *Resolver {
	return &Resolver{enc: enc}
}

// Resolve processes materials in order. Material ids are 1..len(materials)
// whatever the outcome of each material, so meshes can refer to materials
// by position. Encoder failures abort.
func (r *Resolver) Resolve(materials []*scene.Material) (*Result, error) {
	res := &Result{TextureFor: make(map[int]int)}

	for i, mat := range materials {
		id := i + 1
		bsdf, ok := recognized(mat)
		if !ok {
			logger.Warn("material has no principled shader, using placeholder",
				zap.Int("id", id), zap.String("material", materialName(mat)))
			res.Materials = append(res.Materials, document.PlaceholderMaterial(id))
			continue
		}

		res.Materials = append(res.Materials, Translate(id, bsdf))

		for _, node := range mat.ImageTextures() {
			if node.Image == nil {
				logger.Warn("image node without image",
					zap.Int("id", id), zap.String("material", mat.Name))
				continue
			}
			path, err := r.enc.Encode(node.Image)
			if err != nil {
				return nil, fmt.Errorf("material %q: texture %q: %w", mat.Name, node.Image.Name, err)
			}
			tex := document.Texture{
				ID:            len(res.Textures) + 1,
				ImageName:     path,
				Interpolation: Interpolation(node.Interpolation),
				DecalMode:     document.DecalReplaceKd,
				Appearance:    Appearance(node.Extension),
			}
			res.Textures = append(res.Textures, tex)
			res.TextureFor[id] = tex.ID

			logger.Debug("texture exported",
				zap.Int("material", id), zap.Int("texture", tex.ID), zap.String("path", path))
		}
	}
	return res, nil
}

// Textured reports whether Resolve gives mat a texture: the material must
// have a principled shader and an image node with an image.
func Textured(mat *scene.Material) bool {
	if _, ok := recognized(mat); !ok {
		return false
	}
	for _, node := range mat.ImageTextures() {
		if node.Image != nil {
			return true
		}
	}
	return false
}

func recognized(mat *scene.Material) (*scene.PrincipledBSDF, bool) {
	if mat == nil || !mat.UseNodes {
		return nil, false
	}
	return mat.PrincipledBSDF()
}

func materialName(mat *scene.Material) string {
	if mat == nil {
		return ""
	}
	return mat.Name
}

// Translate maps a principled shader onto fixed Phong reflectances.
// Ambient is always white and the Phong exponent is always 1; the shader
// has neither concept.
func Translate(id int, bsdf *scene.PrincipledBSDF) document.Material {
	spec := bsdf.Specular
	mirror := 1 - bsdf.Roughness
	return document.Material{
		ID:            id,
		Ambient:       mgl64.Vec3{1, 1, 1},
		Diffuse:       bsdf.BaseColor.Vec3(),
		Specular:      mgl64.Vec3{spec, spec, spec},
		Mirror:        mgl64.Vec3{mirror, mirror, mirror},
		PhongExponent: 1,
	}
}

// Interpolation maps an image node filter to a texture filter.
func Interpolation(i scene.Interpolation) document.Interpolation {
	if i == scene.InterpClosest {
		return document.InterpNearest
	}
	return document.InterpBilinear
}

// Appearance maps an image node extension to a texture addressing mode.
func Appearance(e scene.Extension) document.Appearance {
	if e == scene.ExtRepeat {
		return document.AppearanceRepeat
	}
	return document.AppearanceClamp
}
