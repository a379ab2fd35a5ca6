package proxypool

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Payload is the envelope of every websocket message.
type Payload struct {
	Kind string `json:"kind"`
	Body any    `json:"body"`
}

// StatusServer exposes Manager.Stat over HTTP (/stat) and pushes it to
// websocket clients (/ws) every Interval.
type StatusServer struct {
	Manager  *Manager
	Interval time.Duration
	Logger   *log.Logger

	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool
	m        sync.Mutex
}

func (s *StatusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stat", s.serveStat)
	mux.HandleFunc("/ws", s.wsHandler)
	return mux
}

// ListenAndServe serves on port and broadcasts until ctx is done.
func (s *StatusServer) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.Broadcast(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger().Info("status server started", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Broadcast sends the current stat to every client each Interval until ctx
// is done.
func (s *StatusServer) Broadcast(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.send(nil)
		}
	}
}

func (s *StatusServer) serveStat(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Manager.Stat()); err != nil {
		s.logger().Error("stat encode", "error", err)
	}
}

func (s *StatusServer) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger().Error("upgrade", "error", err)
		return
	}

	s.m.Lock()
	if s.clients == nil {
		s.clients = make(map[*websocket.Conn]bool)
	}
	s.clients[conn] = true
	s.m.Unlock()

	s.send(conn)
}

// send writes the stat to only, or to every client when only is nil.
func (s *StatusServer) send(only *websocket.Conn) {
	msg, err := json.Marshal(Payload{"stat", s.Manager.Stat()})
	if err != nil {
		s.logger().Error("stat encode", "error", err)
		return
	}

	s.m.Lock()
	defer s.m.Unlock()

	for c := range s.clients {
		if only != nil && c != only {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.Close()
			delete(s.clients, c)
		}
	}
}

func (s *StatusServer) closeAll() {
	s.m.Lock()
	defer s.m.Unlock()

	for c := range s.clients {
		c.Close()
		delete(s.clients, c)
	}
}

func (s *StatusServer) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}
