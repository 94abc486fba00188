package main

import (
	"fmt"
	"slices"
	"strings"
)

const foodScore = 10

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Position) InBounds(gridSize int) bool {
	return p.X >= 0 && p.X < gridSize && p.Y >= 0 && p.Y < gridSize
}

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{Up: "UP", Down: "DOWN", Left: "LEFT", Right: "RIGHT"}

// grid y grows downwards, same as the browser board
var directionDeltas = [...]Position{
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) Delta() Position {
	return directionDeltas[d]
}

func (d Direction) String() string {
	if d < Up || d > Right {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("unknown direction %q", text)
	}
	*d = parsed
	return nil
}

// ParseDirection accepts the full names as well as the single letter keys
// sent by the browser client.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u", "up":
		return Up, true
	case "d", "down":
		return Down, true
	case "l", "left":
		return Left, true
	case "r", "right":
		return Right, true
	}
	return 0, false
}

type Status int

const (
	NotStarted Status = iota
	Running
	Over
)

var statusNames = [...]string{NotStarted: "not_started", Running: "running", Over: "over"}

func (s Status) String() string {
	if s < NotStarted || s > Over {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is one frame of the game. Methods return a new State and leave the
// receiver untouched, so a State can be handed to a renderer while the next
// one is computed.
type State struct {
	GridSize  int
	Snake     []Position
	Food      Position
	Direction Direction
	Pending   Direction
	Score     int
	Status    Status
}

func NewState(gridSize int) State {
	return State{
		GridSize:  gridSize,
		Snake:     []Position{{X: gridSize / 2, Y: gridSize / 2}},
		Food:      Position{X: gridSize * 3 / 4, Y: gridSize * 3 / 4},
		Direction: Right,
		Pending:   Right,
		Status:    NotStarted,
	}
}

func (s State) Head() Position {
	return s.Snake[0]
}

func (s State) Occupies(p Position) bool {
	return slices.Contains(s.Snake, p)
}

func (s State) Start() State {
	if s.Status == NotStarted {
		s.Status = Running
	}
	return s
}

// Steer records d as the direction for the next tick. A request for the
// reverse of the direction the snake is currently travelling is dropped.
func (s State) Steer(d Direction) State {
	if s.Status == Over || d == s.Direction.Opposite() {
		return s
	}
	s.Pending = d
	return s
}

// Advance moves the snake one cell. On a wall or self collision the status
// becomes Over and the snake is left as it was.
func (s State) Advance(placer FoodPlacer) State {
	if s.Status != Running {
		return s
	}

	s.Direction = s.Pending
	head := s.Head().Add(s.Direction.Delta())

	if !head.InBounds(s.GridSize) || s.Occupies(head) {
		s.Status = Over
		return s
	}

	snake := make([]Position, 0, len(s.Snake)+1)
	snake = append(snake, head)
	snake = append(snake, s.Snake...)

	if head == s.Food {
		s.Score += foodScore
		s.Snake = snake
		food, ok := placer.Place(s.GridSize, snake)
		if !ok {
			// grid is full, nothing left to eat
			s.Status = Over
			return s
		}
		s.Food = food
		return s
	}

	s.Snake = snake[:len(snake)-1]
	return s
}
