package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/ring-visualization/internal/config"
	"github.com/iburimskiy/ring-visualization/internal/debug"
	"github.com/iburimskiy/ring-visualization/internal/game"
	"github.com/iburimskiy/ring-visualization/internal/transport"
)

func main() {
	cfg, err := config.ParseFlags(os.Args[1:], config.Load, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.Debug {
		if dir, err := config.Dir(); err == nil {
			if err := debug.Enable(filepath.Join(dir, "debug.log")); err != nil {
				fmt.Fprintln(os.Stderr, "debug log:", err)
			}
		}
		defer debug.Disable()
	}

	g, err := game.NewGame(cfg, transport.Speaker())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.File != "" {
		g.Open(cfg.File)
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Ring Visualizer - O: open, M: microphone, Space: pause, 1/2/3: resolution, Esc/Q: quit")

	err = ebiten.RunGame(g)
	g.Close()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		panic(err)
	}
}
