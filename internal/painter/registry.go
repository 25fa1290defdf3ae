package painter

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/airdraw/internal/chrome"
	"github.com/ayusman/airdraw/internal/detector"
)

// ErrSessionNotFound is returned when no session has the requested id.
var ErrSessionNotFound = errors.New("session not found")

// Registry owns the live sessions of the snapshot server. Sessions never
// share state; the detector is the only thing they have in common.
type Registry struct {
	detector detector.Detector
	ref      chrome.Reference
	log      logrus.FieldLogger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry whose sessions use d and render
// chrome against ref.
func NewRegistry(d detector.Detector, ref chrome.Reference, logger logrus.FieldLogger) *Registry {
	return &Registry{
		detector: d,
		ref:      ref,
		log:      logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with a random id.
func (r *Registry) Create() *Session {
	s := NewSession(uuid.New().String(), r.detector, r.ref, r.log)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{"session": s.ID(), "active": n}).Info("session created")
	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session and releases its canvas.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	r.log.WithField("session", id).Info("session deleted")
	return s.Close()
}

// Each calls fn for every session, ordered by id.
func (r *Registry) Each(fn func(*Session)) {
	r.mu.RLock()
	list := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	for _, s := range list {
		fn(s)
	}
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close deletes every session.
func (r *Registry) Close() error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
