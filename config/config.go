// Package config holds the game settings, loaded from TOML over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/toml"
)

// Config is the complete game configuration
type Config struct {
	Loop    LoopConfig    `toml:"loop"`
	Field   FieldConfig   `toml:"field"`
	Ball    BallConfig    `toml:"ball"`
	Paddle  PaddleConfig  `toml:"paddle"`
	Bricks  BrickConfig   `toml:"bricks"`
	Game    GameConfig    `toml:"game"`
	Audio   AudioConfig   `toml:"audio"`
	Desktop DesktopConfig `toml:"desktop"`
}

// LoopConfig configures move loop pacing
type LoopConfig struct {
	DT                  time.Duration `toml:"dt"`
	MaxMoveCount        int           `toml:"max_move_count"`
	SpeedIncrementRatio float64       `toml:"speed_increment_ratio"`
	RampInterval        time.Duration `toml:"ramp_interval"`
	MinDT               time.Duration `toml:"min_dt"`
}

// FieldConfig is the playfield size in cells
type FieldConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// BallConfig is the ball spawn state
type BallConfig struct {
	X    int `toml:"x"`
	Y    int `toml:"y"`
	Size int `toml:"size"`
	DX   int `toml:"dx"`
	DY   int `toml:"dy"`
}

// PaddleConfig places the paddle; Row is absolute
type PaddleConfig struct {
	Width int `toml:"width"`
	Row   int `toml:"row"`
	Step  int `toml:"step"`
}

// BrickConfig lays bricks out row-major, horizontally centered
type BrickConfig struct {
	Rows   int `toml:"rows"`
	Cols   int `toml:"cols"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Gap    int `toml:"gap"`
	Top    int `toml:"top"`
}

// GameConfig holds scoring rules
type GameConfig struct {
	BrickScore int `toml:"brick_score"`
}

// AudioConfig controls sound effects
type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// DesktopConfig controls the window frontend
type DesktopConfig struct {
	Scale int    `toml:"scale"`
	Title string `toml:"title"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Loop: LoopConfig{
			DT:                  parameter.DefaultDT,
			MaxMoveCount:        parameter.DefaultMaxMoveCount,
			SpeedIncrementRatio: parameter.DefaultSpeedIncrementRatio,
			RampInterval:        parameter.RampInterval,
			MinDT:               parameter.MinDT,
		},
		Field: FieldConfig{
			Width:  parameter.FieldWidth,
			Height: parameter.FieldHeight,
		},
		Ball: BallConfig{
			X:    parameter.FieldWidth / 2,
			Y:    parameter.FieldHeight - parameter.PaddleRowFromBottom - 4,
			Size: parameter.BallSize,
			DX:   parameter.BallDX,
			DY:   parameter.BallDY,
		},
		Paddle: PaddleConfig{
			Width: parameter.PaddleWidth,
			Row:   parameter.FieldHeight - parameter.PaddleRowFromBottom,
			Step:  parameter.PaddleStep,
		},
		Bricks: BrickConfig{
			Rows:   parameter.BrickRows,
			Cols:   parameter.BrickCols,
			Width:  parameter.BrickWidth,
			Height: parameter.BrickHeight,
			Gap:    parameter.BrickGap,
			Top:    parameter.BrickTop,
		},
		Game: GameConfig{
			BrickScore: parameter.BrickScore,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  parameter.AudioVolume,
		},
		Desktop: DesktopConfig{
			Scale: parameter.DesktopScale,
			Title: parameter.DesktopTitle,
		},
	}
}

// Load reads a TOML file over the defaults and validates the result
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// BricksWidth returns the total width of one brick row including gaps
func (c Config) BricksWidth() int {
	b := c.Bricks
	if b.Cols <= 0 {
		return 0
	}
	return b.Cols*b.Width + (b.Cols-1)*b.Gap
}

// BricksLeft returns the x of the first brick column
func (c Config) BricksLeft() int {
	return (c.Field.Width - c.BricksWidth()) / 2
}

// Validate rejects layouts the simulation cannot hold
func (c Config) Validate() error {
	var errs []error

	if c.Loop.DT <= 0 {
		errs = append(errs, fmt.Errorf("loop.dt must be positive, got %v", c.Loop.DT))
	}
	if c.Loop.MaxMoveCount < 0 {
		errs = append(errs, fmt.Errorf("loop.max_move_count must be >= 0, got %d", c.Loop.MaxMoveCount))
	}
	if c.Loop.MinDT <= 0 {
		errs = append(errs, fmt.Errorf("loop.min_dt must be positive, got %v", c.Loop.MinDT))
	}

	f := c.Field
	if f.Width <= 0 || f.Height <= 0 {
		errs = append(errs, fmt.Errorf("field must be positive, got %dx%d", f.Width, f.Height))
		return errors.Join(errs...)
	}

	b := c.Ball
	if b.Size < 0 || b.X < 0 || b.Y < 0 || b.X+b.Size > f.Width || b.Y+b.Size > f.Height {
		errs = append(errs, fmt.Errorf("ball at (%d,%d) size %d outside %dx%d field", b.X, b.Y, b.Size, f.Width, f.Height))
	}
	if b.DX == 0 && b.DY == 0 {
		errs = append(errs, errors.New("ball velocity must not be zero"))
	}
	if abs(b.DX) > f.Width || abs(b.DY) > f.Height {
		errs = append(errs, fmt.Errorf("ball velocity (%d,%d) exceeds field size", b.DX, b.DY))
	}

	p := c.Paddle
	if p.Width <= 0 || p.Width > f.Width {
		errs = append(errs, fmt.Errorf("paddle.width %d must be in [1,%d]", p.Width, f.Width))
	}
	if p.Row < 0 || p.Row >= f.Height {
		errs = append(errs, fmt.Errorf("paddle.row %d must be in [0,%d)", p.Row, f.Height))
	}

	bk := c.Bricks
	if bk.Rows < 0 || bk.Cols < 0 || bk.Gap < 0 {
		errs = append(errs, errors.New("bricks rows, cols and gap must be >= 0"))
	} else if bk.Rows > 0 && bk.Cols > 0 {
		if bk.Width <= 0 || bk.Height <= 0 {
			errs = append(errs, errors.New("bricks width and height must be positive"))
		}
		if c.BricksWidth() > f.Width {
			errs = append(errs, fmt.Errorf("brick row width %d exceeds field width %d", c.BricksWidth(), f.Width))
		}
		bottom := bk.Top + bk.Rows*bk.Height + (bk.Rows-1)*bk.Gap
		if bk.Top < 0 || bottom > p.Row {
			errs = append(errs, fmt.Errorf("bricks span rows %d..%d, must end above paddle row %d", bk.Top, bottom, p.Row))
		}
	}

	if c.Desktop.Scale <= 0 {
		errs = append(errs, fmt.Errorf("desktop.scale must be positive, got %d", c.Desktop.Scale))
	}

	return errors.Join(errs...)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
