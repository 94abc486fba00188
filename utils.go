package main

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

type FoodPlacer interface {
	// Place picks a cell for the next food. ok is false when the snake
	// covers every cell of the grid.
	Place(gridSize int, snake []Position) (pos Position, ok bool)
}

type randomPlacer struct {
	rng *rand.Rand
}

func newRandomPlacer() *randomPlacer {
	return &randomPlacer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Place draws uniformly from the free cells, so food never lands on the snake.
func (p *randomPlacer) Place(gridSize int, snake []Position) (Position, bool) {
	occupied := make(map[Position]struct{}, len(snake))
	for _, segment := range snake {
		occupied[segment] = struct{}{}
	}

	free := gridSize*gridSize - len(occupied)
	if free <= 0 {
		return Position{}, false
	}

	n := p.rng.Intn(free)
	for y := range gridSize {
		for x := range gridSize {
			cell := Position{X: x, Y: y}
			if _, taken := occupied[cell]; taken {
				continue
			}
			if n == 0 {
				return cell, true
			}
			n--
		}
	}
	return Position{}, false
}

var sessionCounter atomic.Int64

func generateSessionId() string {
	return "session_" + fmt.Sprintf("%d", sessionCounter.Add(1))
}
