package exporter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/scenexport/internal/document"
	"github.com/Faultbox/scenexport/internal/logger"
	"github.com/Faultbox/scenexport/internal/material"
	"github.com/Faultbox/scenexport/internal/texture"
	"github.com/Faultbox/scenexport/pkg/scene"
)

// Options controls an export.
type Options struct {
	ShadowRayEpsilon  float64
	MaxRecursionDepth int
	AmbientLight      mgl64.Vec3
	StrictUV          bool // Require UVs on every mesh, not only textured ones

	Textures texture.Options
	Write    document.WriteOptions
}

// DefaultOptions returns the document defaults with JPEG textures in textures/.
func DefaultOptions() Options {
	return Options{
		ShadowRayEpsilon:  document.DefaultShadowRayEpsilon,
		MaxRecursionDepth: document.DefaultMaxRecursionDepth,
		Textures:          texture.DefaultOptions(),
	}
}

// Stats summarizes a finished export.
type Stats struct {
	Cameras   int
	Lights    int
	Materials int
	Textures  int
	Meshes    int
	Triangles int
	Corners   int
}

// StatsOf counts the records of a document.
func StatsOf(doc *document.Scene) Stats {
	s := Stats{
		Cameras:   len(doc.Cameras),
		Lights:    len(doc.Lights),
		Materials: len(doc.Materials),
		Textures:  len(doc.Textures),
		Meshes:    len(doc.Meshes),
		Corners:   len(doc.VertexData),
	}
	for _, m := range doc.Meshes {
		s.Triangles += len(m.Faces)
	}
	return s
}

// Export writes sc to dest, with textures as JPEG files in a subdirectory
// beside it.
func Export(sc scene.Scene, dest string, opts Options) (Stats, error) {
	enc := texture.NewJPEGEncoder(filepath.Dir(dest), opts.Textures)
	return ExportWith(sc, dest, enc, opts)
}

// ExportWith is Export with a caller-supplied texture encoder. Texture
// files written before a failure are left in place.
func ExportWith(sc scene.Scene, dest string, enc material.Encoder, opts Options) (Stats, error) {
	log := logger.With(zap.String("run", uuid.NewString()), zap.String("dest", dest))
	start := time.Now()
	log.Info("export started",
		zap.Int("objects", len(sc.Objects())),
		zap.Int("materials", len(sc.Materials())))

	resolved, err := material.NewResolver(enc).Resolve(sc.Materials())
	if err != nil {
		log.Error("resolving materials failed", zap.Error(err))
		return Stats{}, fmt.Errorf("resolving materials: %w", err)
	}

	doc, err := NewAssembler(sc, resolved, opts).WithLogger(log).Assemble()
	if err != nil {
		log.Error("assembling scene failed", zap.Error(err))
		return Stats{}, err
	}
	if err := doc.Validate(); err != nil {
		return Stats{}, err
	}

	if err := document.WriteFile(dest, doc, opts.Write); err != nil {
		log.Error("writing document failed", zap.Error(err))
		return Stats{}, fmt.Errorf("writing %s: %w", dest, err)
	}

	stats := StatsOf(doc)
	log.Info("export finished",
		zap.Int("cameras", stats.Cameras),
		zap.Int("lights", stats.Lights),
		zap.Int("meshes", stats.Meshes),
		zap.Int("triangles", stats.Triangles),
		zap.Int("textures", stats.Textures),
		zap.Duration("elapsed", time.Since(start)))
	return stats, nil
}
