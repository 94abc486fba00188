package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

const (
	logDir      = "logs"
	logFileName = "snake.log"
)

var cellStyles = [...]tcell.Style{
	Empty:     tcell.StyleDefault.Background(tcell.ColorDarkGray),
	SnakeBody: tcell.StyleDefault.Background(tcell.ColorGreen),
	SnakeHead: tcell.StyleDefault.Background(tcell.ColorLime),
	Food:      tcell.StyleDefault.Background(tcell.ColorRed),
}

// setupLogging keeps log output off the terminal the game is drawn on.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	return f
}

type tuiRenderer struct {
	screen    tcell.Screen
	strict    bool
	sound     *sound
	lastScore int
}

func (r *tuiRenderer) Render(s Snapshot) error {
	board := NewBoard(s, r.strict)

	r.screen.Clear()
	drawText(r.screen, 0, 0, tcell.StyleDefault.Bold(true),
		fmt.Sprintf("Score: %d  High: %d  Level: %s", s.Score, s.HighScore, s.Level))
	drawText(r.screen, 0, 1, tcell.StyleDefault, statusHint(s.Status))

	const top = 3
	for y, row := range board {
		for x, c := range row {
			// two columns per cell keeps the board roughly square
			r.screen.SetContent(2*x, top+y, ' ', nil, cellStyles[c])
			r.screen.SetContent(2*x+1, top+y, ' ', nil, cellStyles[c])
		}
	}
	r.screen.Show()

	if s.Score > r.lastScore {
		r.sound.playEat()
	}
	r.lastScore = s.Score
	return nil
}

func statusHint(status Status) string {
	switch status {
	case NotStarted:
		return "s/Enter start  arrows/hjkl steer  1-3 level  q quit"
	case Over:
		return "Game Over!  r restart  q quit"
	default:
		return "arrows/hjkl steer  1-3 level  q quit"
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// keyCommand maps a key press to a command. quit is set for the keys that
// leave the game.
func keyCommand(key tcell.Key, r rune) (cmd Command, ok bool, quit bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Command{}, false, true
	case tcell.KeyUp:
		return Command{Kind: CmdSteer, Direction: Up}, true, false
	case tcell.KeyDown:
		return Command{Kind: CmdSteer, Direction: Down}, true, false
	case tcell.KeyLeft:
		return Command{Kind: CmdSteer, Direction: Left}, true, false
	case tcell.KeyRight:
		return Command{Kind: CmdSteer, Direction: Right}, true, false
	case tcell.KeyEnter:
		return Command{Kind: CmdStart}, true, false
	case tcell.KeyRune:
	default:
		return Command{}, false, false
	}

	switch r {
	case 'q':
		return Command{}, false, true
	case 'k':
		return Command{Kind: CmdSteer, Direction: Up}, true, false
	case 'j':
		return Command{Kind: CmdSteer, Direction: Down}, true, false
	case 'h':
		return Command{Kind: CmdSteer, Direction: Left}, true, false
	case 'l':
		return Command{Kind: CmdSteer, Direction: Right}, true, false
	case 's':
		return Command{Kind: CmdStart}, true, false
	case 'r':
		return Command{Kind: CmdRestart}, true, false
	case '1':
		return Command{Kind: CmdSetLevel, Level: Easy}, true, false
	case '2':
		return Command{Kind: CmdSetLevel, Level: Medium}, true, false
	case '3':
		return Command{Kind: CmdSetLevel, Level: Hard}, true, false
	}
	return Command{}, false, false
}

func runTUI(ctx context.Context, cfg Config, scores *HighScores) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "creating screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "initializing screen")
	}
	defer screen.Fini()

	snd := newSound(cfg.Sound)
	defer snd.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := NewSession(cfg, scores, &tuiRenderer{screen: screen, strict: cfg.Debug, sound: snd})
	finished := make(chan error, 1)
	go func() {
		finished <- session.Run(ctx)
	}()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return waitSession(finished)

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				cmd, ok, quit := keyCommand(ev.Key(), ev.Rune())
				if quit {
					cancel()
					return waitSession(finished)
				}
				if ok {
					if err := session.Send(ctx, cmd); err != nil {
						return waitSession(finished)
					}
				}
			}
		}
	}
}

func waitSession(finished <-chan error) error {
	err := <-finished
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
