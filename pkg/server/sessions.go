package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-tripform/pkg/controller"
)

// ControllerFactory creates the controller backing a new session.
type ControllerFactory func() (*controller.Controller, error)

type session struct {
	id       string
	ctrl     *controller.Controller
	lastSeen time.Time
}

// SessionStore keeps one controller per browser session and closes the ones
// that stay idle longer than the TTL.
type SessionStore struct {
	factory ControllerFactory
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionStore builds a store. ttl must be positive.
func NewSessionStore(factory ControllerFactory, ttl time.Duration, now func() time.Time) (*SessionStore, error) {
	if factory == nil {
		return nil, errors.New("server: controller factory is required")
	}
	if ttl <= 0 {
		return nil, errors.New("server: session ttl must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		factory:  factory,
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]*session),
	}, nil
}

// Resolve returns the controller for id, creating a fresh session when id is
// unknown or expired. created reports whether a new id was issued.
func (s *SessionStore) Resolve(id string) (sessionID string, ctrl *controller.Controller, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok && id != "" {
		if now.Sub(sess.lastSeen) <= s.ttl {
			sess.lastSeen = now
			return sess.id, sess.ctrl, false, nil
		}
		sess.ctrl.Close()
		delete(s.sessions, id)
	}

	ctrl, err = s.factory()
	if err != nil {
		return "", nil, false, err
	}
	sess := &session{id: uuid.NewString(), ctrl: ctrl, lastSeen: now}
	s.sessions[sess.id] = sess
	return sess.id, sess.ctrl, true, nil
}

// Lookup returns the controller for an existing, live session.
func (s *SessionStore) Lookup(id string) (*controller.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.now().Sub(sess.lastSeen) > s.ttl {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.ctrl, true
}

// Sweep closes and drops idle sessions, returning how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			sess.ctrl.Close()
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Start runs the janitor until ctx is done. onSweep, when set, receives the
// number of sessions removed by each pass.
func (s *SessionStore) Start(ctx context.Context, interval time.Duration, onSweep func(int)) {
	if interval <= 0 {
		interval = s.ttl / 2
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 && onSweep != nil {
					onSweep(n)
				}
			}
		}
	}()
}

// Close closes every controller and forgets all sessions.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.ctrl.Close()
		delete(s.sessions, id)
	}
}
