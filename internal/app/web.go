// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/fake_humans/internal/config"
	"github.com/relabs-tech/fake_humans/internal/humans"
	"github.com/relabs-tech/fake_humans/internal/transport"
)

const (
	wsClientBuffer = 8
	wsWriteTimeout = 2 * time.Second
)

// WebServer keeps the latest humans and marker messages and fans every
// humans message out to websocket clients.
type WebServer struct {
	mu         sync.RWMutex
	lastHumans []byte
	lastMarker []byte
	clients    map[chan []byte]struct{}

	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWebServer creates an empty viewer.
func NewWebServer(log *zap.Logger) *WebServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebServer{
		clients: make(map[chan []byte]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// HandleHumans stores a humans payload and forwards it to websocket clients.
// Payloads that do not decode are dropped.
func (s *WebServer) HandleHumans(payload []byte) {
	var msg humans.TrackedHumans
	if err := transport.Decode(payload, &msg); err != nil {
		s.log.Warn("humans unmarshal error", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.lastHumans = payload
	for ch := range s.clients {
		select {
		case ch <- payload:
		default:
			// slow client, skip this frame
		}
	}
	s.mu.Unlock()
}

// HandleMarker stores a marker payload.
func (s *WebServer) HandleMarker(payload []byte) {
	var m humans.Marker
	if err := transport.Decode(payload, &m); err != nil {
		s.log.Warn("marker unmarshal error", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.lastMarker = payload
	s.mu.Unlock()
}

// Handler returns the HTTP routes. Static files are served from staticDir
// when it is not empty.
func (s *WebServer) Handler(staticDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/humans", s.serveLatest(func() []byte { return s.lastHumans }))
	mux.HandleFunc("/api/marker", s.serveLatest(func() []byte { return s.lastMarker }))
	mux.HandleFunc("/ws", s.serveWS)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

func (s *WebServer) serveLatest(latest func() []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		payload := latest()
		s.mu.RUnlock()

		if payload == nil {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(payload); err != nil {
			s.log.Debug("write error", zap.Error(err))
		}
	}
}

func (s *WebServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ch := make(chan []byte, wsClientBuffer)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	if s.lastHumans != nil {
		ch <- s.lastHumans
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()

	// reader: only used to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case payload := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

// Clients reports the number of connected websocket clients.
func (s *WebServer) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// RunWeb subscribes to the humans topics and serves the viewer until ctx is
// cancelled.
func RunWeb(ctx context.Context, cfg *config.Config, staticDir string, log *zap.Logger) error {
	log = log.Named("web")

	client := transport.NewMQTTClient(cfg.MQTTBroker, transport.ClientID(cfg.MQTTClientIDWeb), log)
	if err := client.Connect(connectTimeout); err != nil {
		return err
	}
	defer client.Close()

	srv := NewWebServer(log)
	if err := client.Subscribe(cfg.TopicHumans, srv.HandleHumans); err != nil {
		return err
	}
	if err := client.Subscribe(cfg.TopicHumansMarker, srv.HandleMarker); err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           srv.Handler(staticDir),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("web server listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
