package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBoard(t *testing.T) {
	board := NewBoard(Snapshot{
		GridSize: 4,
		Snake:    []Position{{X: 1, Y: 1}, {X: 0, Y: 1}},
		Food:     Position{X: 3, Y: 2},
	}, true)

	assert.Equal(t, []string{
		"....",
		"sh..",
		"...f",
		"....",
	}, board.Rows())
}

func TestNewBoardOutOfRange(t *testing.T) {
	s := Snapshot{
		GridSize: 4,
		Snake:    []Position{{X: 4, Y: 1}, {X: 3, Y: 1}},
		Food:     Position{X: 0, Y: 0},
	}

	assert.Panics(t, func() { NewBoard(s, true) })

	var board Board
	assert.NotPanics(t, func() { board = NewBoard(s, false) })
	assert.Equal(t, []string{
		"f...",
		"...s",
		"....",
		"....",
	}, board.Rows())
}
