package main

import (
	"fmt"
	"log"
)

// Snapshot is what a renderer gets after every change to a session.
type Snapshot struct {
	GridSize  int        `json:"gridSize"`
	Snake     []Position `json:"snake"`
	Food      Position   `json:"food"`
	Direction Direction  `json:"direction"`
	Score     int        `json:"score"`
	HighScore int        `json:"highScore"`
	Status    Status     `json:"status"`
	Level     Level      `json:"level"`
}

type Renderer interface {
	Render(Snapshot) error
}

type Cell uint8

const (
	Empty Cell = iota
	SnakeBody
	SnakeHead
	Food
)

// Board is a row-major projection of a snapshot: Board[y][x].
type Board [][]Cell

// NewBoard lays the snapshot out on a grid. A coordinate outside the grid
// means the simulation is broken: with strict set it panics, otherwise the
// cell is logged and left out.
func NewBoard(s Snapshot, strict bool) Board {
	board := make(Board, s.GridSize)
	for y := range board {
		board[y] = make([]Cell, s.GridSize)
	}

	put := func(p Position, c Cell) {
		if !p.InBounds(s.GridSize) {
			msg := fmt.Sprintf("cell %+v outside %dx%d board", p, s.GridSize, s.GridSize)
			if strict {
				panic(msg)
			}
			log.Println("Skipping", msg)
			return
		}
		board[p.Y][p.X] = c
	}

	put(s.Food, Food)
	for i := len(s.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			put(s.Snake[i], SnakeHead)
		} else {
			put(s.Snake[i], SnakeBody)
		}
	}
	return board
}

var cellGlyphs = [...]byte{Empty: '.', SnakeBody: 's', SnakeHead: 'h', Food: 'f'}

// Rows encodes the board one byte per cell, as sent to the browser client.
func (b Board) Rows() []string {
	rows := make([]string, len(b))
	for y, row := range b {
		line := make([]byte, len(row))
		for x, c := range row {
			line[x] = cellGlyphs[c]
		}
		rows[y] = string(line)
	}
	return rows
}
