package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/desktop"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/game"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/status"
)

var (
	configFlag = flag.String("config", "", "TOML config file (defaults apply when empty)")
	dtFlag     = flag.Duration("dt", 0, "Initial tick period, overrides config")
	scaleFlag  = flag.Int("scale", 0, "Pixels per playfield cell, overrides config")
	muteFlag   = flag.Bool("mute", false, "Start with sound effects muted")
	debugFlag  = flag.Bool("debug", false, "Log to stderr")
)

func main() {
	flag.Parse()

	if !*debugFlag {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "breakout-desktop: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *dtFlag > 0 {
		cfg.Loop.DT = *dtFlag
	}
	if *scaleFlag > 0 {
		cfg.Desktop.Scale = *scaleFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var sounds *desktop.Sounds
	var player engine.SoundPlayer
	if cfg.Audio.Enabled {
		s, err := desktop.NewSounds(desktop.NewContext())
		if err != nil {
			log.Printf("audio: %v, continuing without sound", err)
		} else {
			s.SetMuted(*muteFlag)
			sounds, player = s, s
		}
	}

	reg := status.NewRegistry()
	session := game.NewSession(cfg, game.Deps{
		Sound:  player,
		Status: reg,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := desktop.NewGame(ctx, session, reg, sounds, float64(cfg.Desktop.Scale))
	if err != nil {
		return err
	}

	w, h := g.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(cfg.Desktop.Title)
	ebiten.SetTPS(parameter.DesktopTPS)

	session.Start(ctx)

	runErr := ebiten.RunGame(g)
	loopErr := session.Close()
	for _, line := range reg.Lines() {
		log.Printf("final %s", line)
	}
	if runErr != nil {
		return runErr
	}
	if errors.Is(loopErr, engine.ErrInterrupted) {
		log.Printf("loop interrupted: %v", loopErr)
		return nil
	}
	return loopErr
}
