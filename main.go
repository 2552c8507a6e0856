package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/chisel-cad/chisel/pkg/config"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "chisel",
	})

	dir, err := os.UserConfigDir()
	if err != nil {
		logger.Warn("no user config dir, using cwd", "err", err)
		dir = "."
	}
	provider, err := config.NewFileProvider(filepath.Join(dir, "chisel"))
	if err != nil {
		logger.Fatal("config provider", "err", err)
	}

	app := NewApp(provider, logger)
	result := app.Rebuild()
	logger.Info("scene built",
		"bodies", len(result.Meshes),
		"errors", len(result.Errors),
		"rebuilds", result.Rebuilds)
	for id, msg := range result.Errors {
		logger.Warn("body failed", "body", id, "err", msg)
	}
}
