package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, context.CancelFunc) {
	t.Helper()
	scores, err := OpenHighScores("")
	require.NoError(t, err)
	_, err = scores.Submit(30)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cfg := defaultConfig()
	cfg.Debug = true
	ts := httptest.NewServer(NewServer(ctx, cfg, scores).Handler())
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})
	return ts, cancel
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn, v any) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var head struct {
		Event string `json:"event"`
	}
	require.NoError(t, json.Unmarshal(data, &head))
	if v != nil {
		require.NoError(t, json.Unmarshal(data, v))
	}
	return head.Event
}

type stateFrame struct {
	Status    string     `json:"status"`
	Level     string     `json:"level"`
	Snake     []Position `json:"snake"`
	HighScore int        `json:"highScore"`
	Rows      []string   `json:"rows"`
}

func TestServerServesPage(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<title>Snake</title>")
}

func TestServerSessionFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	var config ConfigMessage
	assert.Equal(t, "config", readEvent(t, conn, &config))
	assert.Equal(t, 20, config.GridSize)
	assert.Equal(t, 30, config.HighScore)
	assert.Len(t, config.Levels, 3)

	var frame stateFrame
	assert.Equal(t, "state", readEvent(t, conn, &frame))
	assert.Equal(t, "not_started", frame.Status)
	assert.Equal(t, []Position{{X: 10, Y: 10}}, frame.Snake)
	assert.Equal(t, 30, frame.HighScore)
	require.Len(t, frame.Rows, 20)
	assert.Equal(t, byte('h'), frame.Rows[10][10])

	// junk is logged and skipped, the session keeps going
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"dance"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`nonsense`)))

	require.NoError(t, conn.WriteJSON(ClientMessage{Event: "level", Level: "easy"}))
	assert.Equal(t, "state", readEvent(t, conn, &frame))
	assert.Equal(t, "easy", frame.Level)

	// steering is accepted before the start and used by the first tick
	require.NoError(t, conn.WriteJSON(ClientMessage{Event: "direction", Key: "u"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Event: "start"}))
	assert.Equal(t, "state", readEvent(t, conn, &frame))
	assert.Equal(t, "running", frame.Status)

	assert.Equal(t, "state", readEvent(t, conn, &frame))
	assert.Equal(t, Position{X: 10, Y: 9}, frame.Snake[0])
}

func TestServerGameOverEvent(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	readEvent(t, conn, nil) // config
	readEvent(t, conn, nil) // initial state

	require.NoError(t, conn.WriteJSON(ClientMessage{Event: "level", Level: "hard"}))
	readEvent(t, conn, nil)
	require.NoError(t, conn.WriteJSON(ClientMessage{Event: "start"}))

	// ten cells to the right wall
	var over GameOverMessage
	for {
		if readEvent(t, conn, &over) == "gameover" {
			break
		}
	}
	assert.Equal(t, 0, over.Score)
	assert.Equal(t, 30, over.HighScore)
}

func TestServerShutdownClosesSessions(t *testing.T) {
	ts, cancel := newTestServer(t)
	conn := dial(t, ts)
	readEvent(t, conn, nil)
	readEvent(t, conn, nil)

	start := time.Now()
	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second, "closed by the server, not the read deadline")
}
