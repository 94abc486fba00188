package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TUI {
		if logFile := setupLogging(cfg.Debug); logFile != nil {
			defer logFile.Close()
		}
	}

	scores, err := OpenHighScores(cfg.HighScoreFile)
	if err != nil {
		return err
	}
	log.Printf("Loaded high score %d", scores.Best())

	if cfg.TUI {
		return runTUI(ctx, cfg, scores)
	}
	return NewServer(ctx, cfg, scores).ListenAndServe(ctx)
}
