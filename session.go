// Package chatpod provides the per-browser chat Session, the store of its
// exchanges and the handler that talks to the remote model.
package chatpod

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/boat-builder/chatpod/llm"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/semaphore"
)

type RequestStatus string

const (
	StatusIdle      RequestStatus = "idle"
	StatusSending   RequestStatus = "sending"
	StatusSucceeded RequestStatus = "succeeded"
	StatusFailed    RequestStatus = "failed"
)

// Session owns the exchange history of one UI session. Submits are serialized:
// a second Submit waits until the one in flight has finished.
type Session struct {
	id        string
	createdAt time.Time

	handler  *Handler
	state    *SessionState
	inflight *semaphore.Weighted

	mu         sync.Mutex
	status     RequestStatus
	lastNotice string
	touched    time.Time
	closed     bool

	logger *slog.Logger
}

// NewSession creates an empty session backed by handler.
func NewSession(handler *Handler) *Session {
	sessionID, err := gonanoid.New()
	if err != nil {
		panic(err)
	}
	now := time.Now()
	return &Session{
		id:        sessionID,
		createdAt: now,
		handler:   handler,
		state:     NewSessionState(),
		inflight:  semaphore.NewWeighted(1),
		status:    StatusIdle,
		touched:   now,
		logger:    slog.Default().With("sessionID", sessionID),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Submit sends prompt to the model and, on success, appends the exchange to the
// session history. Empty prompts are rejected without touching the model or
// the request status.
func (s *Session) Submit(ctx context.Context, prompt string) (Exchange, error) {
	if s.isClosed() {
		return Exchange{}, ErrSessionClosed
	}
	s.touch()
	if !ValidPrompt(prompt) {
		return Exchange{}, &Failure{Kind: FailureValidation, Message: MessageEmptyPrompt}
	}

	if err := s.inflight.Acquire(ctx, 1); err != nil {
		s.logger.Warn("Submit abandoned while waiting for previous request", "error", err)
		return Exchange{}, classify(err)
	}
	defer s.inflight.Release(1)

	s.setStatus(StatusSending, "")
	ctx = llm.WithSessionID(ctx, s.id)
	ex, err := s.handler.Handle(ctx, prompt)
	if err != nil {
		s.setStatus(StatusFailed, Notice(err))
		return Exchange{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.status = StatusIdle
		s.mu.Unlock()
		return Exchange{}, ErrSessionClosed
	}
	s.state.Append(ex)
	s.status = StatusSucceeded
	s.lastNotice = ""
	s.mu.Unlock()

	s.logger.Info("Exchange recorded", "exchanges", s.state.Len())
	return ex, nil
}

// Clear resets the session history to empty.
func (s *Session) Clear() {
	s.touch()
	s.state.Clear()
	s.setStatus(StatusIdle, "")
	s.logger.Info("Session cleared")
}

// Snapshot returns the exchanges in display order.
func (s *Session) Snapshot() []Exchange {
	return s.state.Snapshot()
}

func (s *Session) Len() int {
	return s.state.Len()
}

func (s *Session) Status() RequestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastNotice is the notice left by the most recent failed submit, or "".
func (s *Session) LastNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNotice
}

// TakeNotice returns the pending notice and clears it, so a failure is shown
// on the next render only.
func (s *Session) TakeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	notice := s.lastNotice
	s.lastNotice = ""
	return notice
}

// Touched reports the time of the last user action on the session.
func (s *Session) Touched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Close discards the history. Further submits fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.state.Clear()
	s.logger.Info("Session closed")
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) touch() {
	s.mu.Lock()
	s.touched = time.Now()
	s.mu.Unlock()
}

func (s *Session) setStatus(status RequestStatus, notice string) {
	s.mu.Lock()
	s.status = status
	s.lastNotice = notice
	s.mu.Unlock()
}
