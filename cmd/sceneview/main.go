// Command sceneview opens a scene file in an interactive window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"scene3d/internal/viewer"
	"scene3d/internal/world"
)

func main() {
	settingsPath := flag.String("settings", "settings.toml", "engine settings file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: sceneview [flags] scene.yaml\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	settings, err := world.LoadSettings(*settingsPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Error("settings", "error", err)
			os.Exit(1)
		}
		logger.Info("no settings file, using defaults", "path", *settingsPath)
		settings = world.DefaultSettings()
	}

	v := viewer.New(flag.Arg(0), settings, logger)
	if err := v.Run(); err != nil {
		logger.Error("sceneview", "error", err)
		os.Exit(1)
	}
}
