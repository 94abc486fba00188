package main

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/moul/http2curl"
	"github.com/pkg/errors"
)

const writeWait = 5 * time.Second

//go:embed static
var staticFiles embed.FS

type Server struct {
	cfg      Config
	scores   *HighScores
	upgrader websocket.Upgrader
	// parent of every session context, cancelled on shutdown
	baseCtx context.Context
}

func NewServer(ctx context.Context, cfg Config, scores *HighScores) *Server {
	return &Server{
		cfg:    cfg,
		scores: scores,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all connections
			},
		},
		baseCtx: ctx,
	}
}

func (srv *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// the embed pattern guarantees the directory exists
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServerFS(static))
	mux.HandleFunc("/ws", srv.handleConnections)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (srv *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              srv.cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Println("WebSocket server started on", srv.cfg.Addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "ListenAndServe error")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return nil
}

func (srv *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	if srv.cfg.Debug {
		logCurlCommand(r)
	}

	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Error upgrading connection:", err)
		return
	}
	defer conn.Close()

	renderer := &wsRenderer{conn: conn, strict: srv.cfg.Debug}
	if err := renderer.send(newConfigMessage(srv.cfg.GridSize, srv.scores.Best())); err != nil {
		log.Println("Error sending config to client:", err)
		return
	}

	ctx, cancel := context.WithCancel(srv.baseCtx)
	defer cancel()

	session := NewSession(srv.cfg, srv.scores, renderer)
	log.Printf("Client connected, session %s", session.ID())

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Session %s stopped: %v", session.ID(), err)
		}
		// unblocks ReadMessage below when the server is shutting down
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Println("Read error or client disconnected:", err)
			break
		}

		cmd, err := parseCommand(msg)
		if err != nil {
			log.Println("Error parsing message:", err)
			continue
		}
		if err := session.Send(ctx, cmd); err != nil {
			break
		}
	}

	cancel()
	<-finished
}

func logCurlCommand(r *http.Request) {
	command, err := http2curl.GetCurlCommand(r)
	if err != nil {
		log.Println("Error building curl command:", err)
		return
	}
	log.Println("Upgrade request:", command)
}

// wsRenderer streams snapshots to one browser. Only the session goroutine
// calls Render, which keeps gorilla's single writer rule.
type wsRenderer struct {
	conn       *websocket.Conn
	strict     bool
	lastStatus Status
}

func (r *wsRenderer) Render(s Snapshot) error {
	board := NewBoard(s, r.strict)
	if err := r.send(StateMessage{Event: "state", Snapshot: s, Rows: board.Rows()}); err != nil {
		return err
	}

	if s.Status == Over && r.lastStatus != Over {
		best := max(s.HighScore, s.Score)
		if err := r.send(GameOverMessage{Event: "gameover", Score: s.Score, HighScore: best}); err != nil {
			return err
		}
	}
	r.lastStatus = s.Status
	return nil
}

func (r *wsRenderer) send(message BroadcastMessage) error {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return errors.Wrapf(err, "encoding %s message", message.GetEvent())
	}
	if err := r.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return errors.Wrap(err, "setting write deadline")
	}
	if err := r.conn.WriteMessage(websocket.TextMessage, msgBytes); err != nil {
		return errors.Wrapf(err, "sending %s message", message.GetEvent())
	}
	return nil
}
