package main

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
)

var errSessionClosed = errors.New("session closed")

type CommandKind int

const (
	CmdSteer CommandKind = iota
	CmdStart
	CmdRestart
	CmdSetLevel
)

// Command is a player action. Keyboard keys and on-screen buttons from every
// frontend are turned into Commands and go through Session.Send.
type Command struct {
	Kind      CommandKind
	Direction Direction
	Level     Level
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Session is one game. Run is its event loop and the only goroutine that
// touches the game state; other goroutines talk to it through Send.
type Session struct {
	id       string
	state    State
	level    Level
	scores   *HighScores
	placer   FoodPlacer
	renderer Renderer
	clock    Clock

	// at most one live ticker, nil unless the game is running
	ticker Ticker

	commands chan Command
	done     chan struct{}
}

type SessionOption func(*Session)

func WithClock(c Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

func WithFoodPlacer(p FoodPlacer) SessionOption {
	return func(s *Session) { s.placer = p }
}

func NewSession(cfg Config, scores *HighScores, renderer Renderer, opts ...SessionOption) *Session {
	s := &Session{
		id:       generateSessionId(),
		state:    NewState(cfg.GridSize),
		level:    cfg.Level,
		scores:   scores,
		placer:   newRandomPlacer(),
		renderer: renderer,
		clock:    realClock{},
		commands: make(chan Command, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Send queues cmd for the event loop. It fails once Run has returned.
func (s *Session) Send(ctx context.Context, cmd Command) error {
	select {
	case <-s.done:
		return errSessionClosed
	default:
	}

	select {
	case s.commands <- cmd:
		return nil
	case <-s.done:
		return errSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run renders the initial frame and then processes ticks and commands until
// ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	s.render()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.commands:
			s.handle(cmd)
		case <-s.tickC():
			s.tick()
		}
	}
}

func (s *Session) close() {
	s.stopTicker()
	if s.state.Status == Over {
		s.submitScore()
	}
	close(s.done)
	log.Printf("Session %s closed with score %d", s.id, s.state.Score)
}

func (s *Session) handle(cmd Command) {
	switch cmd.Kind {
	case CmdSteer:
		s.state = s.state.Steer(cmd.Direction)
		return

	case CmdStart:
		if s.state.Status != NotStarted {
			log.Printf("Session %s: ignoring start while %s", s.id, s.state.Status)
			return
		}
		s.state = s.state.Start()
		s.startTicker()

	case CmdRestart:
		if s.state.Status != Over {
			log.Printf("Session %s: ignoring restart while %s", s.id, s.state.Status)
			return
		}
		s.submitScore()
		s.state = NewState(s.state.GridSize)

	case CmdSetLevel:
		if cmd.Level < Easy || cmd.Level > Hard {
			log.Printf("Session %s: ignoring unknown level %d", s.id, cmd.Level)
			return
		}
		s.level = cmd.Level
		if s.ticker != nil {
			s.stopTicker()
			s.startTicker()
		}

	default:
		log.Printf("Session %s: unknown command %d", s.id, cmd.Kind)
		return
	}
	s.render()
}

func (s *Session) tick() {
	s.state = s.state.Advance(s.placer)
	if s.state.Status != Running {
		s.stopTicker()
		log.Printf("Session %s: game over with score %d", s.id, s.state.Score)
	}
	s.render()
}

func (s *Session) tickC() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

func (s *Session) startTicker() {
	s.stopTicker()
	s.ticker = s.clock.NewTicker(s.level.Interval())
}

func (s *Session) stopTicker() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.ticker = nil
}

func (s *Session) submitScore() {
	beaten, err := s.scores.Submit(s.state.Score)
	if err != nil {
		log.Printf("Session %s: %v", s.id, err)
	}
	if beaten {
		log.Printf("Session %s: new high score %d", s.id, s.state.Score)
	}
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		GridSize:  s.state.GridSize,
		Snake:     s.state.Snake,
		Food:      s.state.Food,
		Direction: s.state.Direction,
		Score:     s.state.Score,
		HighScore: s.scores.Best(),
		Status:    s.state.Status,
		Level:     s.level,
	}
}

func (s *Session) render() {
	if err := s.renderer.Render(s.Snapshot()); err != nil {
		log.Printf("Session %s: render failed: %v", s.id, err)
	}
}
