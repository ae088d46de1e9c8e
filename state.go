package chatpod

import "sync"

// Exchange is one user prompt paired with the model's reply.
type Exchange struct {
	UserText  string `json:"user"`
	ModelText string `json:"model"`
}

// SessionState holds the ordered exchange history of one UI session. Oldest first.
type SessionState struct {
	mu        sync.RWMutex
	exchanges []Exchange
}

func NewSessionState() *SessionState {
	return &SessionState{
		exchanges: []Exchange{},
	}
}

// Append adds one exchange to the end of the history.
func (s *SessionState) Append(ex Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, ex)
}

// Clear drops the whole history.
func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = []Exchange{}
}

// Snapshot returns a copy of the history; callers may modify it freely.
func (s *SessionState) Snapshot() []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Exchange{}, s.exchanges...)
}

func (s *SessionState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exchanges)
}
