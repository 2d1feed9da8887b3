package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/breakout/audio"
	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/game"
	"github.com/lixenwraith/breakout/input"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/render"
	"github.com/lixenwraith/breakout/status"
)

var (
	configFlag    = flag.String("config", "", "TOML config file (defaults apply when empty)")
	keymapFlag    = flag.String("keymap", "", "TOML keymap overrides")
	dtFlag        = flag.Duration("dt", 0, "Initial tick period, overrides config")
	maxMovesFlag  = flag.Int("max-moves", -1, "Move cap, 0 = unlimited, overrides config")
	ratioFlag     = flag.Float64("ratio", 0, "Tick period multiplier per ramp, overrides config")
	muteFlag      = flag.Bool("mute", false, "Start with sound effects muted")
	debugFlag     = flag.Bool("debug", false, "Write logs to logs/"+logFileName)
	colorModeFlag = flag.String("color", "auto", "Color mode: auto, truecolor, 256")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(); err != nil {
		log.Printf("exit: %v", err)
		fmt.Fprintf(os.Stderr, "breakout: %v\n", err)
		if logFile != nil {
			logFile.Close()
		}
		os.Exit(1)
	}
}

// loadConfig applies the config file, then command-line overrides
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if *dtFlag > 0 {
		cfg.Loop.DT = *dtFlag
	}
	if *maxMovesFlag >= 0 {
		cfg.Loop.MaxMoveCount = *maxMovesFlag
	}
	if *ratioFlag > 0 {
		cfg.Loop.SpeedIncrementRatio = *ratioFlag
	}
	return cfg, cfg.Validate()
}

func loadKeys() (*input.KeyTable, error) {
	keys := input.DefaultKeyTable()
	if *keymapFlag == "" {
		return keys, nil
	}
	data, err := os.ReadFile(*keymapFlag)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	override, err := input.LoadKeyConfig(data)
	if err != nil {
		return nil, err
	}
	keys.Merge(override)
	return keys, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	keys, err := loadKeys()
	if err != nil {
		return err
	}

	switch *colorModeFlag {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor":
		os.Setenv("COLORTERM", "truecolor")
	}

	// Initialize terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()
	core.SetCrashHook(screen.Fini)

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	// Sound is optional, the game runs silent when no device is available
	var player engine.SoundPlayer = audio.Nop{}
	var sounds *audio.SoundManager
	if cfg.Audio.Enabled {
		sounds = audio.NewSoundManager(cfg.Audio.Volume)
		if err := sounds.Initialize(); err != nil {
			log.Printf("audio: init failed, continuing without sound: %v", err)
			sounds = nil
		} else {
			sounds.SetMuted(*muteFlag)
			player = sounds
			defer sounds.Cleanup()
		}
	}

	reg := status.NewRegistry()
	repaint := render.NewSignal()
	session := game.NewSession(cfg, game.Deps{
		Sound:     player,
		Repainter: repaint,
		Status:    reg,
	})
	world := session.World()
	renderer := render.NewTerminalRenderer(screen, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		for _, line := range reg.Lines() {
			log.Printf("final %s", line)
		}
	}()

	session.Start(ctx)

	eventChan := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	frameTicker := time.NewTicker(parameter.FrameInterval)
	defer frameTicker.Stop()

	renderer.RenderFrame(world)
	dirty := false

	for {
		select {
		case ev := <-eventChan:
			ox, oy := renderer.Origin(world.Playfield())
			intent := keys.Translate(ev, ox, oy)

			switch intent.Type {
			case input.IntentQuit:
				return session.Close()
			case input.IntentRestart:
				if err := session.Restart(ctx); err != nil {
					log.Printf("restart: previous run ended with %v", err)
				}
			case input.IntentToggleMute:
				if sounds != nil {
					log.Printf("audio: muted=%v", sounds.ToggleMute())
				}
			case input.IntentPaddleLeft:
				input.NudgePaddles(world, -cfg.Paddle.Step, repaint)
			case input.IntentPaddleRight:
				input.NudgePaddles(world, cfg.Paddle.Step, repaint)
			case input.IntentPointer:
				input.TrackPointer(world, intent.X, repaint)
			case input.IntentResize:
				screen.Sync()
				repaint.Repaint()
			}

		case <-repaint.C():
			dirty = true

		case <-frameTicker.C:
			if dirty {
				renderer.RenderFrame(world)
				dirty = false
			}

		case <-ctx.Done():
			err := session.Wait()
			if errors.Is(err, engine.ErrInterrupted) {
				return fmt.Errorf("terminated by signal: %w", err)
			}
			return err
		}
	}
}
