// Package monitor serves the bridge snapshot over HTTP for external status
// displays.
//
// Endpoints:
//
//	GET /api/status              snapshot as JSON (?format=msgpack for msgpack)
//	GET /api/status/ws           websocket, pushes the snapshot when it changes
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/haivivi/cwlink/pkg/bridge"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultInterval is how often websocket clients are checked for changes.
const DefaultInterval = 100 * time.Millisecond

const writeTimeout = time.Second

// Source provides snapshots. *bridge.Bridge implements it.
type Source interface {
	Snapshot() bridge.Snapshot
}

// Server is the status HTTP server.
type Server struct {
	src      Source
	interval time.Duration
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithInterval sets the websocket polling interval.
func WithInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a status server for src.
func New(src Source, opts ...Option) *Server {
	s := &Server{
		src:      src,
		interval: DefaultInterval,
		logger:   slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Local tool; any origin may read the status.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/status/ws", s.handleWS)
	return mux
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	})
	defer stop()

	s.logger.Info("monitor: listening", "addr", ln.Addr().String())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type encoding int

const (
	encodingJSON encoding = iota
	encodingMsgpack
)

func parseFormat(r *http.Request) (encoding, bool) {
	switch r.URL.Query().Get("format") {
	case "", "json":
		return encodingJSON, true
	case "msgpack":
		return encodingMsgpack, true
	default:
		return 0, false
	}
}

func (e encoding) marshal(snap bridge.Snapshot) ([]byte, error) {
	if e == encodingMsgpack {
		return msgpack.Marshal(snap)
	}
	return json.Marshal(snap)
}

func (e encoding) contentType() string {
	if e == encodingMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

func (e encoding) messageType() int {
	if e == encodingMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	enc, ok := parseFormat(r)
	if !ok {
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}
	data, err := enc.marshal(s.src.Snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", enc.contentType())
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("monitor: write status", "error", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	enc, ok := parseFormat(r)
	if !ok {
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.logger.Debug("monitor: upgrade", "error", err)
		return
	}
	defer conn.Close()

	// Drain client frames so close and ping control messages are handled.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var (
		last bridge.Snapshot
		sent bool
	)
	for {
		if snap := s.src.Snapshot(); !sent || snap != last {
			data, err := enc.marshal(snap)
			if err != nil {
				s.logger.Error("monitor: encode snapshot", "error", err)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(enc.messageType(), data); err != nil {
				s.logger.Debug("monitor: push", "error", err)
				return
			}
			last, sent = snap, true
		}
		select {
		case <-r.Context().Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeTimeout))
			return
		case <-gone:
			return
		case <-ticker.C:
		}
	}
}
