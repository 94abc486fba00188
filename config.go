package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Level int

const (
	Easy Level = iota
	Medium
	Hard
)

var levelNames = [...]string{Easy: "easy", Medium: "medium", Hard: "hard"}

// tick interval per level
var levelSpeeds = [...]time.Duration{
	Easy:   200 * time.Millisecond,
	Medium: 150 * time.Millisecond,
	Hard:   100 * time.Millisecond,
}

var Levels = []Level{Easy, Medium, Hard}

func (l Level) Interval() time.Duration {
	return levelSpeeds[l]
}

func (l Level) String() string {
	if l < Easy || l > Hard {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, ok := ParseLevel(string(text))
	if !ok {
		return errors.Errorf("unknown level %q", text)
	}
	*l = parsed
	return nil
}

func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	}
	return 0, false
}

const minGridSize = 4

type Config struct {
	Addr          string
	GridSize      int
	Level         Level
	HighScoreFile string
	Debug         bool
	Sound         bool
	TUI           bool
}

func defaultConfig() Config {
	return Config{
		Addr:          ":4001",
		GridSize:      20,
		Level:         Medium,
		HighScoreFile: "highscore.txt",
	}
}

// LoadConfig reads .env (if present), then SNAKE_* environment variables,
// then command line flags, each overriding the previous.
func LoadConfig(args []string) (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg := defaultConfig()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.applyFlags(args); err != nil {
		return Config{}, err
	}
	if cfg.GridSize < minGridSize {
		return Config{}, errors.Errorf("grid size %d is below the minimum of %d", cfg.GridSize, minGridSize)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("SNAKE_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("SNAKE_GRID_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "SNAKE_GRID_SIZE")
		}
		c.GridSize = n
	}
	if v := getenv("SNAKE_LEVEL"); v != "" {
		if err := c.Level.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(err, "SNAKE_LEVEL")
		}
	}
	if v, ok := lookup(getenv, "SNAKE_HIGHSCORE_FILE"); ok {
		c.HighScoreFile = v
	}
	for name, dst := range map[string]*bool{"SNAKE_DEBUG": &c.Debug, "SNAKE_SOUND": &c.Sound} {
		v := getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, name)
		}
		*dst = b
	}
	return nil
}

// lookup treats the literal "-" as an explicitly empty value, which turns
// off the high score file.
func lookup(getenv func(string) string, name string) (string, bool) {
	v := getenv(name)
	if v == "" {
		return "", false
	}
	if v == "-" {
		return "", true
	}
	return v, true
}

func (c *Config) applyFlags(args []string) error {
	fs := flag.NewFlagSet("snake", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.IntVar(&c.GridSize, "grid", c.GridSize, "cells per side of the board")
	fs.TextVar(&c.Level, "level", c.Level, "starting level: easy, medium, hard")
	fs.StringVar(&c.HighScoreFile, "highscore", c.HighScoreFile, "high score file, empty keeps it in memory")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "strict board checks and verbose logging")
	fs.BoolVar(&c.Sound, "sound", c.Sound, "play a tone when food is eaten (terminal mode)")
	fs.BoolVar(&c.TUI, "tui", c.TUI, "play in the terminal instead of serving the browser client")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "parsing flags")
	}
	return nil
}
