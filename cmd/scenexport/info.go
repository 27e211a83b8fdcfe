package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Faultbox/scenexport/internal/geometry"
	"github.com/Faultbox/scenexport/internal/material"
	"github.com/Faultbox/scenexport/pkg/scene"
	"github.com/Faultbox/scenexport/pkg/scenefile"
)

var infoCmd = &cobra.Command{
	Use:   "info <scene.yaml>",
	Short: "Show what a scene dump contains",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	sc, err := scenefile.Load(args[0])
	if err != nil {
		return err
	}
	return printInfo(cmd.OutOrStdout(), args[0], sc)
}

func printInfo(w io.Writer, name string, sc scene.Scene) error {
	counts := make(map[scene.Kind]int)
	var triangles, skipped int
	for _, obj := range sc.Objects() {
		counts[obj.Kind()]++
		mesh, ok := obj.(scene.MeshObject)
		if !ok {
			continue
		}
		if mesh.ActiveMaterial() == "" {
			skipped++
			continue
		}
		m, err := mesh.Evaluate()
		if err != nil {
			return fmt.Errorf("mesh %q: %w", obj.Name(), err)
		}
		triangles += geometry.TriangleCount(m)
	}

	var textured int
	for _, m := range sc.Materials() {
		if material.Textured(m) {
			textured++
		}
	}

	render := sc.Render()
	fmt.Fprintln(w, "Scene Information")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "File: %s\n", name)
	fmt.Fprintf(w, "Resolution: %dx%d\n\n", render.ResolutionX, render.ResolutionY)

	fmt.Fprintln(w, "Objects:")
	fmt.Fprintf(w, "  Cameras: %d\n", counts[scene.KindCamera])
	fmt.Fprintf(w, "  Lights: %d\n", counts[scene.KindLight])
	fmt.Fprintf(w, "  Meshes: %d (%d without material)\n", counts[scene.KindMesh], skipped)
	fmt.Fprintf(w, "  Other: %d\n\n", counts[scene.KindOther])

	fmt.Fprintln(w, "Materials:")
	fmt.Fprintf(w, "  Total: %d\n", len(sc.Materials()))
	fmt.Fprintf(w, "  Textured: %d\n\n", textured)

	fmt.Fprintf(w, "Triangles after export: %d\n", triangles)
	return nil
}
