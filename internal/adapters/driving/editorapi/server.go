// Package editorapi receives document open/save notifications from
// editor plugins. It starts a local HTTP server; plugins POST events
// to /event and the server feeds them to the coordinator's single
// active subscription.
package editorapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
	"github.com/custodia-labs/remsync/internal/logger"
)

// Ensure Server implements the interface.
var _ driven.EventSource = (*Server)(nil)

// eventBuffer absorbs bursts of editor notifications.
const eventBuffer = 64

// Server is the editor event feed.
type Server struct {
	mu       sync.Mutex
	addr     string
	server   *http.Server
	listener net.Listener
	current  *subscription
}

// NewServer creates a server for the given listen address,
// e.g. "127.0.0.1:7634".
func NewServer(addr string) *Server {
	return &Server{addr: addr}
}

// Start begins listening. The actual address (useful when the port was
// 0) is available from Addr afterwards.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/event", s.handleEvent)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.addr = listener.Addr().String()

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Warn("Editor API server stopped: %v", err)
		}
	}()

	logger.Info("Editor API listening on %s", s.addr)
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop shuts down the server and closes any active subscription.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.close()
		s.current = nil
	}
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Subscribe installs the single active subscription, replacing and
// closing any previous one.
func (s *Server) Subscribe(_ context.Context) (driven.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.close()
	}
	s.current = newSubscription(s)
	return s.current, nil
}

// eventPayload is the wire shape of one editor notification.
type eventPayload struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	kind := domain.EventKind(payload.Kind)
	if !kind.IsValid() || payload.Path == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	sub := s.current
	s.mu.Unlock()

	if sub == nil {
		http.Error(w, "no active subscription", http.StatusServiceUnavailable)
		return
	}
	sub.deliver(domain.DocumentEvent{Kind: kind, Path: payload.Path})
	w.WriteHeader(http.StatusAccepted)
}

// removeSubscription clears the server's reference when a subscription
// is closed from the consumer side.
func (s *Server) removeSubscription(sub *subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == sub {
		s.current = nil
	}
}

// subscription is one consumer of the editor event stream.
// mu orders deliver against close so a send never hits a closed channel.
type subscription struct {
	server *Server
	events chan domain.DocumentEvent

	mu     sync.Mutex
	closed bool
}

func newSubscription(server *Server) *subscription {
	return &subscription{
		server: server,
		events: make(chan domain.DocumentEvent, eventBuffer),
	}
}

// Events returns the event channel.
func (s *subscription) Events() <-chan domain.DocumentEvent {
	return s.events
}

// Close releases the subscription.
func (s *subscription) Close() error {
	s.server.removeSubscription(s)
	s.close()
	return nil
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}

// deliver hands an event to the consumer without blocking the HTTP
// handler. Delivery after close is a no-op.
func (s *subscription) deliver(ev domain.DocumentEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		logger.Warn("Dropping editor event for %s: buffer full", ev.Path)
	}
}
