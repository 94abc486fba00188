package main

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// HighScores is the single persisted high score slot shared by all
// sessions. The file is read once when opened and rewritten whenever the
// score is beaten.
type HighScores struct {
	mu   sync.Mutex
	best int
	path string
}

// OpenHighScores loads the slot from path. A missing or unreadable value
// counts as 0. An empty path keeps the score in memory only.
func OpenHighScores(path string) (*HighScores, error) {
	h := &HighScores{path: path}
	if path == "" {
		return h, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading high score from %s", path)
	}

	h.best = parseHighScore(string(data))
	return h, nil
}

func parseHighScore(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		log.Printf("Ignoring malformed high score %q", raw)
		return 0
	}
	return n
}

func (h *HighScores) Best() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.best
}

// Submit records score if it beats the current best and reports whether it
// did. The in-memory value is updated even when writing the file fails.
func (h *HighScores) Submit(score int) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if score <= h.best {
		return false, nil
	}
	h.best = score

	if h.path == "" {
		return true, nil
	}
	if err := writeFileAtomic(h.path, []byte(strconv.Itoa(score)+"\n")); err != nil {
		return true, errors.Wrapf(err, "saving high score to %s", h.path)
	}
	return true, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
