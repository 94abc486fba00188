package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenHighScoresMissingFile(t *testing.T) {
	h, err := OpenHighScores(filepath.Join(t.TempDir(), "highscore.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, h.Best())
}

func TestOpenHighScoresMalformed(t *testing.T) {
	for _, raw := range []string{"", "abc", "-5", "12.5"} {
		path := filepath.Join(t.TempDir(), "highscore.txt")
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		h, err := OpenHighScores(path)
		require.NoError(t, err)
		assert.Equal(t, 0, h.Best(), "content %q", raw)
	}
}

func TestHighScoresSubmitPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.txt")
	require.NoError(t, os.WriteFile(path, []byte("30\n"), 0o644))

	h, err := OpenHighScores(path)
	require.NoError(t, err)
	assert.Equal(t, 30, h.Best())

	beaten, err := h.Submit(10)
	require.NoError(t, err)
	assert.False(t, beaten)
	assert.Equal(t, 30, h.Best())

	beaten, err = h.Submit(50)
	require.NoError(t, err)
	assert.True(t, beaten)
	assert.Equal(t, 50, h.Best())

	reopened, err := OpenHighScores(path)
	require.NoError(t, err)
	assert.Equal(t, 50, reopened.Best())
}

func TestHighScoresMemoryOnly(t *testing.T) {
	h, err := OpenHighScores("")
	require.NoError(t, err)

	beaten, err := h.Submit(20)
	require.NoError(t, err)
	assert.True(t, beaten)
	assert.Equal(t, 20, h.Best())
}

func TestHighScoresSubmitWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "highscore.txt")
	h, err := OpenHighScores(path)
	require.NoError(t, err)

	beaten, err := h.Submit(20)
	assert.Error(t, err)
	assert.True(t, beaten)
	assert.Equal(t, 20, h.Best())
}
