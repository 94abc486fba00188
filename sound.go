package main

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type sound struct {
	enabled bool
}

// newSound opens the speaker when enabled. Failing to do so only costs the
// tone, the game runs silently.
func newSound(enabled bool) *sound {
	if !enabled {
		return &sound{}
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio initialization failed: %v", err)
		return &sound{}
	}
	return &sound{enabled: true}
}

func (s *sound) playEat() {
	if s == nil || !s.enabled {
		return
	}
	sine, err := generators.SineTone(sampleRate, 880)
	if err != nil {
		log.Printf("Audio tone failed: %v", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(50*time.Millisecond), sine))
}

func (s *sound) Close() {
	if s.enabled {
		speaker.Close()
	}
}
