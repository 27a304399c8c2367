package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"valuator/internal/dialogue"
	"valuator/internal/model"
)

// ErrSessionNotFound is returned for an unknown session ID.
var ErrSessionNotFound = fmt.Errorf("session not found")

// sessionEntry pairs a session with its own lock. Messages within one
// session are processed strictly in order; sessions never share state.
type sessionEntry struct {
	mu    sync.Mutex
	state *model.SessionState
}

// SessionService owns the in-memory session registry and orchestrates one
// turn: optional slot extraction first, then the state machine.
type SessionService struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionEntry
	machine   *dialogue.Machine
	extractor *ExtractorClient
}

// NewSessionService creates a session service. extractor may be nil or
// disabled; the dialogue then runs on structured answers alone.
func NewSessionService(machine *dialogue.Machine, extractor *ExtractorClient) *SessionService {
	return &SessionService{
		sessions:  make(map[string]*sessionEntry),
		machine:   machine,
		extractor: extractor,
	}
}

// Create registers a new session and returns its ID with the greeting.
func (s *SessionService) Create() (string, string) {
	state := model.NewSessionState(uuid.New().String())
	greeting := s.machine.Start(state)

	s.mu.Lock()
	s.sessions[state.ID] = &sessionEntry{state: state}
	s.mu.Unlock()

	log.Printf("Session created: %s", state.ID)
	return state.ID, greeting
}

// Get returns a snapshot view of one session's state.
func (s *SessionService) Get(id string) (*model.SessionState, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state, nil
}

// HandleMessage runs one dialogue turn and returns the assistant reply
// with the session phase after the turn.
func (s *SessionService) HandleMessage(ctx context.Context, id, text string) (string, model.Phase, error) {
	entry, err := s.entry(id)
	if err != nil {
		return "", "", err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	var extracted map[string]any
	if s.extractor.IsEnabled() {
		extracted = s.extractor.Extract(ctx, lastAssistantMessage(entry.state), text)
	}

	reply := s.machine.HandleMessage(entry.state, text, extracted)
	return reply, entry.state.Phase, nil
}

// Reset discards all progress of one session and re-issues the greeting.
func (s *SessionService) Reset(id string) (string, error) {
	entry, err := s.entry(id)
	if err != nil {
		return "", err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.state.Reset()
	entry.state.Transcript = nil
	log.Printf("Session reset: %s", id)
	return s.machine.Start(entry.state), nil
}

func (s *SessionService) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

// lastAssistantMessage returns the question the assistant asked most
// recently, used as extraction context.
func lastAssistantMessage(state *model.SessionState) string {
	for i := len(state.Transcript) - 1; i >= 0; i-- {
		if state.Transcript[i].Role == "assistant" {
			return state.Transcript[i].Content
		}
	}
	return ""
}
