package gateway

import "sync"

// sessionState is the gateway session state owned by the Engine, valid
// only between a successful identify and the next invalid-session or
// permanent close (spec §3).
type sessionState struct {
	mu sync.Mutex

	sessionID       string
	lastSequence    int64
	hasLastSequence bool
	receivedAck     bool
	encoding        string
}

func (s *sessionState) setSequence(seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSequence = seq
	s.hasLastSequence = true
}

func (s *sessionState) sequencePtr() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasLastSequence {
		return nil
	}
	v := s.lastSequence
	return &v
}

func (s *sessionState) setAck(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receivedAck = v
}

func (s *sessionState) ack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receivedAck
}

func (s *sessionState) setSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = id
}

func (s *sessionState) getSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *sessionState) clearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = ""
	s.hasLastSequence = false
	s.lastSequence = 0
}

// canResume reports whether a resume is possible: a non-empty session_id
// must exist (spec §3: "A session may only be resumed if a non-empty
// session_id exists AND the last close code is resumable").
func (s *sessionState) canResume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID != ""
}

