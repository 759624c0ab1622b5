package assistant

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Neerajpokala/NextWeather/internal/geocode"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("chat session not found")

// Session is a snapshot of one conversation.
type Session struct {
	ID       string         `json:"id"`
	Location *geocode.Place `json:"location,omitempty"`
	History  []Entry        `json:"history"`
	Created  time.Time      `json:"created"`
	Updated  time.Time      `json:"updated"`
}

// Sessions is a concurrency-safe in-memory session store. Each session keeps
// its most recent maxHistory entries; beyond maxSessions the least recently
// created session is dropped.
type Sessions struct {
	mu sync.Mutex

	data  map[string]*Session
	order []string

	maxHistory  int
	maxSessions int
	now         func() time.Time
}

// NewSessions creates a store. Limits <= 0 are unlimited; a nil clock uses
// time.Now.
func NewSessions(maxHistory, maxSessions int, clock func() time.Time) *Sessions {
	if clock == nil {
		clock = time.Now
	}
	return &Sessions{
		data:        make(map[string]*Session),
		maxHistory:  maxHistory,
		maxSessions: maxSessions,
		now:         clock,
	}
}

// Create starts an empty session.
func (s *Sessions) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	sess := &Session{ID: uuid.NewString(), Created: now, Updated: now}
	s.data[sess.ID] = sess
	s.order = append(s.order, sess.ID)

	for s.maxSessions > 0 && len(s.order) > s.maxSessions {
		delete(s.data, s.order[0])
		s.order = s.order[1:]
	}
	return sess.snapshot()
}

// Get returns a snapshot of the session.
func (s *Sessions) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess.snapshot(), nil
}

// Append adds entries to the session history.
func (s *Sessions) Append(id string, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.History = append(sess.History, entries...)
	if s.maxHistory > 0 && len(sess.History) > s.maxHistory {
		over := len(sess.History) - s.maxHistory
		sess.History = append([]Entry(nil), sess.History[over:]...)
	}
	sess.Updated = s.now().UTC()
	return nil
}

// SetLocation records the location the session talks about.
func (s *Sessions) SetLocation(id string, p geocode.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Location = &p
	sess.Updated = s.now().UTC()
	return nil
}

// Len returns the number of sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (sess *Session) snapshot() Session {
	cp := *sess
	cp.History = append([]Entry(nil), sess.History...)
	if sess.Location != nil {
		loc := *sess.Location
		cp.Location = &loc
	}
	return cp
}
