package main

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ClientMessage is anything the browser sends.
type ClientMessage struct {
	Event     string `json:"event"`
	Key       string `json:"key,omitempty"`
	Direction string `json:"direction,omitempty"`
	Level     string `json:"level,omitempty"`
}

type BroadcastMessage interface {
	GetEvent() string
}

type LevelInfo struct {
	Name       Level `json:"name"`
	IntervalMs int64 `json:"intervalMs"`
}

type ConfigMessage struct {
	Event     string      `json:"event"`
	GridSize  int         `json:"gridSize"`
	Levels    []LevelInfo `json:"levels"`
	HighScore int         `json:"highScore"`
}

func (m ConfigMessage) GetEvent() string {
	return m.Event
}

type StateMessage struct {
	Event string `json:"event"`
	Snapshot
	Rows []string `json:"rows"`
}

func (m StateMessage) GetEvent() string {
	return m.Event
}

type GameOverMessage struct {
	Event     string `json:"event"`
	Score     int    `json:"score"`
	HighScore int    `json:"highScore"`
}

func (m GameOverMessage) GetEvent() string {
	return m.Event
}

func newConfigMessage(gridSize, highScore int) ConfigMessage {
	levels := make([]LevelInfo, 0, len(Levels))
	for _, l := range Levels {
		levels = append(levels, LevelInfo{Name: l, IntervalMs: l.Interval().Milliseconds()})
	}
	return ConfigMessage{
		Event:     "config",
		GridSize:  gridSize,
		Levels:    levels,
		HighScore: highScore,
	}
}

var errUnknownEvent = errors.New("unknown event")

// parseCommand turns a raw client message into a session command.
func parseCommand(raw []byte) (Command, error) {
	var message ClientMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		return Command{}, errors.Wrap(err, "decoding client message")
	}

	switch message.Event {
	case "direction":
		key := message.Key
		if key == "" {
			key = message.Direction
		}
		d, ok := ParseDirection(key)
		if !ok {
			return Command{}, errors.Errorf("unknown direction %q", key)
		}
		return Command{Kind: CmdSteer, Direction: d}, nil

	case "start":
		return Command{Kind: CmdStart}, nil

	case "restart":
		return Command{Kind: CmdRestart}, nil

	case "level":
		l, ok := ParseLevel(message.Level)
		if !ok {
			return Command{}, errors.Errorf("unknown level %q", message.Level)
		}
		return Command{Kind: CmdSetLevel, Level: l}, nil
	}
	return Command{}, errors.Wrapf(errUnknownEvent, "%q", message.Event)
}
