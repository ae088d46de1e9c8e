package chatpod

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultSessionTTL = 30 * time.Minute

// Pod keeps the live sessions of the process, one per open UI. Sessions that
// see no activity for longer than the TTL are discarded by Start's janitor.
type Pod struct {
	handler *Handler
	ttl     time.Duration
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

type PodOption func(*Pod)

// WithSessionTTL sets the idle lifetime of sessions. Zero or less disables eviction.
func WithSessionTTL(ttl time.Duration) PodOption {
	return func(p *Pod) {
		p.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) PodOption {
	return func(p *Pod) {
		p.logger = logger
	}
}

// NewPod constructs a new Pod whose sessions all call model.
func NewPod(model Model, opts ...PodOption) *Pod {
	p := &Pod{
		ttl:      DefaultSessionTTL,
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.handler = NewHandler(model).WithLogger(p.logger)
	return p
}

// NewSession creates and registers an empty session.
func (p *Pod) NewSession() *Session {
	sess := NewSession(p.handler)
	p.mu.Lock()
	p.sessions[sess.ID()] = sess
	n := len(p.sessions)
	p.mu.Unlock()
	p.logger.Info("Session started", "sessionID", sess.ID(), "sessions", n)
	return sess
}

func (p *Pod) Session(id string) (*Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sess, ok := p.sessions[id]
	return sess, ok
}

// CloseSession ends the session with the given id. Unknown ids are ignored.
func (p *Pod) CloseSession(id string) {
	p.mu.Lock()
	sess, ok := p.sessions[id]
	delete(p.sessions, id)
	p.mu.Unlock()
	if ok {
		sess.Close()
	}
}

func (p *Pod) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}

// Sweep closes every session idle since before now minus the TTL and returns
// how many were closed. Sessions with a request in flight are kept.
func (p *Pod) Sweep(now time.Time) int {
	if p.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-p.ttl)

	var expired []*Session
	p.mu.Lock()
	for id, sess := range p.sessions {
		if sess.Status() == StatusSending || !sess.Touched().Before(cutoff) {
			continue
		}
		expired = append(expired, sess)
		delete(p.sessions, id)
	}
	p.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	if len(expired) > 0 {
		p.logger.Info("Expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Start runs the eviction janitor until ctx is done or the pod is closed.
func (p *Pod) Start(ctx context.Context) {
	if p.ttl <= 0 {
		return
	}
	interval := p.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.done:
				return
			case now := <-ticker.C:
				p.Sweep(now)
			}
		}
	}()
}

// Close stops the janitor and closes every session.
func (p *Pod) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()

		p.mu.Lock()
		sessions := p.sessions
		p.sessions = make(map[string]*Session)
		p.mu.Unlock()
		for _, sess := range sessions {
			sess.Close()
		}
	})
}
