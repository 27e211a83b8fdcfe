package main

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/scenexport/internal/config"
	"github.com/Faultbox/scenexport/internal/document"
	"github.com/Faultbox/scenexport/internal/exporter"
	"github.com/Faultbox/scenexport/internal/logger"
	"github.com/Faultbox/scenexport/internal/texture"
	"github.com/Faultbox/scenexport/pkg/scenefile"
)

var exportCmd = &cobra.Command{
	Use:   "export <scene.yaml> <out.xml>",
	Short: "Export a scene dump to a ray tracer scene file",
	Long: `Export writes the scene document to <out.xml> and the textures used by
its materials into a directory beside it (textures/ by default).`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	sc, err := scenefile.Load(args[0])
	if err != nil {
		logger.Error("loading scene failed", zap.String("scene", args[0]), zap.Error(err))
		return err
	}
	logger.Info("scene loaded",
		zap.String("scene", args[0]),
		zap.Int("objects", len(sc.Objects())),
		zap.Int("materials", len(sc.Materials())))

	stats, err := exporter.Export(sc, args[1], exportOptions(cfg))
	if err != nil {
		logger.Error("export failed", zap.String("dest", args[1]), zap.Error(err))
		return fmt.Errorf("export failed: %w", err)
	}
	logger.Info("export complete",
		zap.String("dest", args[1]),
		zap.Int("meshes", stats.Meshes),
		zap.Int("triangles", stats.Triangles))

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s: %d cameras, %d lights, %d materials, %d textures, %d meshes, %d triangles\n",
		args[1], stats.Cameras, stats.Lights, stats.Materials, stats.Textures, stats.Meshes, stats.Triangles)
	return nil
}

// exportOptions maps the loaded configuration onto exporter settings.
func exportOptions(cfg *config.Config) exporter.Options {
	return exporter.Options{
		ShadowRayEpsilon:  cfg.Scene.ShadowRayEpsilon,
		MaxRecursionDepth: cfg.Scene.MaxRecursionDepth,
		AmbientLight:      mgl64.Vec3(cfg.Scene.AmbientLight),
		StrictUV:          cfg.Geometry.StrictUV,
		Textures: texture.Options{
			Dir:     cfg.Textures.Dir,
			Quality: cfg.Textures.Quality,
			MaxSize: cfg.Textures.MaxSize,
			Matte:   matte(cfg.Textures.Matte),
		},
		Write: document.WriteOptions{
			Indent: cfg.Output.Indent,
			Header: cfg.Output.Header,
		},
	}
}

// matte converts a 0-1 RGB triple to an opaque color, clamping each channel.
func matte(c [3]float64) color.Color {
	to8 := func(v float64) uint8 {
		return uint8(mgl64.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: 255}
}
