// scenexport converts YAML scene dumps into ray tracer XML scene files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/scenexport/internal/config"
	"github.com/Faultbox/scenexport/internal/logger"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "scenexport",
	Short: "Export 3D scenes to the CENG ray tracer XML format",
	Long: `scenexport reads a scene dump (cameras, lights, materials and meshes)
and writes the flat XML scene description read by the CENG ray tracer,
together with the scene's textures as JPEG files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
}

// setup loads the configuration and starts the logger. Commands that need
// either call it first.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)
	return cfg, nil
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
