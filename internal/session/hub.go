// Package session hosts live interactive charts over websockets. Each
// session owns one engine on its own goroutine; any number of clients may
// attach to a session and they all receive its frames.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/inamate/chartgeo/internal/engine"
)

var (
	ErrHubStopped       = errors.New("session hub stopped")
	ErrSessionForbidden = errors.New("session belongs to another user")
)

type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session // sessionID -> session
	opts     engine.Options
	loader   DatasetLoader
	wg       sync.WaitGroup
	stopped  bool
}

// NewHub creates a hub whose sessions start with opts and load stored
// datasets through loader, which may be nil.
func NewHub(opts engine.Options, loader DatasetLoader) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		opts:     opts,
		loader:   loader,
	}
}

// Register attaches c to its session, starting the session if needed. A
// session only admits clients of the user who started it.
func (h *Hub) Register(c *Client) error {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return ErrHubStopped
	}
	s, ok := h.sessions[c.SessionID]
	if ok && s.Owner != c.UserID {
		h.mu.Unlock()
		slog.Warn("session join refused", "user", c.UserID, "session", c.SessionID)
		return ErrSessionForbidden
	}
	if !ok {
		s = newSession(c.SessionID, c.UserID, h.opts, h.loader)
		h.sessions[c.SessionID] = s
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			s.run()
		}()
		slog.Info("session started", "session", s.ID, "owner", s.Owner)
	}
	s.members++
	c.session = s
	h.mu.Unlock()

	// members > 0 keeps the session alive until c unregisters.
	s.post(func() { s.join(c) })
	slog.Info("client joined", "client", c.ClientID, "user", c.UserID, "session", s.ID)
	return nil
}

// Unregister detaches c, stopping its session when it was the last client.
func (h *Hub) Unregister(c *Client) {
	s := c.session
	if s == nil {
		return
	}

	s.post(func() { s.leave(c) })

	h.mu.Lock()
	s.members--
	last := s.members == 0
	if last && h.sessions[s.ID] == s {
		delete(h.sessions, s.ID)
	}
	h.mu.Unlock()

	if last {
		s.close()
	}
	slog.Info("client left", "client", c.ClientID, "session", s.ID)
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Stop shuts every session down and waits for their goroutines.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	h.wg.Wait()
}
