package session

import (
	"sync"

	"github.com/Volubles/gridmenu/internal/engine/sched"
	"github.com/Volubles/gridmenu/internal/logging"
	"github.com/Volubles/gridmenu/internal/shared/id"
	"go.uber.org/zap"
)

// Registry is the explicit per-owner session service. Sessions are created
// lazily on first use and torn down on Remove; the registry is safe for
// concurrent lookup, while the sessions it hands out remain owner-context
// objects.
type Registry struct {
	host  Host
	sched sched.Scheduler
	cfg   Config
	log   *logging.Logger

	sessions sync.Map // id.OwnerID -> *Session
	mu       sync.Mutex
}

// NewRegistry creates a registry producing sessions with the given
// defaults.
func NewRegistry(host Host, scheduler sched.Scheduler, cfg Config) *Registry {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Registry{
		host:  host,
		sched: scheduler,
		cfg:   cfg,
		log:   log.Named("registry"),
	}
}

// Get returns the owner's session, creating it on first use.
func (r *Registry) Get(owner id.OwnerID) *Session {
	if val, ok := r.sessions.Load(owner); ok {
		return val.(*Session)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if val, ok := r.sessions.Load(owner); ok {
		return val.(*Session)
	}

	s := New(owner, r.host, r.sched, r.cfg)
	r.sessions.Store(owner, s)
	r.cfg.Metrics.IncSessions()
	r.log.Debug("session created", zap.String("owner", owner.String()))
	return s
}

// Peek returns the owner's session without creating one.
func (r *Registry) Peek(owner id.OwnerID) (*Session, bool) {
	val, ok := r.sessions.Load(owner)
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// Remove tears down the owner's session, marshaling the shutdown onto the
// owner context so the close sweep runs single-writer.
func (r *Registry) Remove(owner id.OwnerID) {
	val, ok := r.sessions.LoadAndDelete(owner)
	if !ok {
		return
	}
	s := val.(*Session)
	r.sched.Run(owner, s.Shutdown)
	r.cfg.Metrics.DecSessions()
	r.log.Debug("session removed", zap.String("owner", owner.String()))
}

// Range calls fn for every live session until it returns false.
func (r *Registry) Range(fn func(*Session) bool) {
	r.sessions.Range(func(_, value interface{}) bool {
		return fn(value.(*Session))
	})
}

// Stats summarizes registry state for the admin surface.
type Stats struct {
	TotalSessions int `json:"total_sessions"`
	OpenViews     int `json:"open_views"`
}

// SessionInfo is one session's admin-surface snapshot.
type SessionInfo struct {
	Owner    string `json:"owner"`
	Token    uint64 `json:"token"`
	ViewOpen bool   `json:"view_open"`
}

// Stats returns current registry statistics.
func (r *Registry) Stats() Stats {
	var st Stats
	r.Range(func(s *Session) bool {
		st.TotalSessions++
		if s.ViewOpen() {
			st.OpenViews++
		}
		return true
	})
	return st
}

// Snapshot lists per-session admin info.
func (r *Registry) Snapshot() []SessionInfo {
	var out []SessionInfo
	r.Range(func(s *Session) bool {
		out = append(out, SessionInfo{
			Owner:    s.Owner().String(),
			Token:    s.Token(),
			ViewOpen: s.ViewOpen(),
		})
		return true
	})
	return out
}
