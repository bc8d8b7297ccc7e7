// Package session owns the client's authentication state. A single Session
// value is constructed at application start and injected into every consumer;
// it is the only writer of session state and the only component that mutates
// the token store.
package session

import (
	"context"
	"sync"

	"github.com/studyhub/studyhub/internal/client/api"
	"github.com/studyhub/studyhub/internal/client/token"
	"github.com/studyhub/studyhub/internal/logging"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUnresolved is the initial state before the first Resolve.
	StatusUnresolved Status = iota
	// StatusResolving means a stored token is being exchanged for a profile.
	StatusResolving
	// StatusAuthenticated means a profile was fetched for a valid token.
	StatusAuthenticated
	// StatusAnonymous means there is no token, or the last one was rejected.
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusResolving:
		return "resolving"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session. User is non-nil exactly in
// StatusAuthenticated.
type State struct {
	Status Status
	User   *api.UserProfile
}

// IsLoading reports whether the session has not settled yet: either the
// first resolve has not run, or a resolve is in flight.
func (s State) IsLoading() bool {
	return s.Status == StatusUnresolved || s.Status == StatusResolving
}

// IsAuthenticated reports whether a profile is loaded.
func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// Session is the authentication state machine. Safe for concurrent use.
//
// Every resolve attempt carries a generation number taken under the lock; a
// completion is applied only while its generation is still current, so a
// slow profile fetch that lost a race with Logout (or a newer resolve) is
// discarded instead of overwriting authoritative state.
type Session struct {
	client api.Client
	tokens token.Store
	log    logging.Logger

	mu    sync.Mutex
	state State
	gen   uint64
	subs  []func(State)
}

// New builds a Session in StatusUnresolved. Call Resolve to settle it.
func New(client api.Client, tokens token.Store, log logging.Logger) *Session {
	return &Session{
		client: client,
		tokens: tokens,
		log:    log,
		state:  State{Status: StatusUnresolved},
	}
}

// Current returns the latest settled-or-in-flight snapshot.
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every state change. Callbacks run
// outside the session lock, in registration order.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// set replaces the state and notifies subscribers.
func (s *Session) set(st State) {
	s.mu.Lock()
	s.state = st
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// beginResolve bumps the generation, moves to StatusResolving and returns
// the generation this attempt must present to apply its result.
func (s *Session) beginResolve() uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	st := State{Status: StatusResolving, User: s.state.User}
	s.state = st
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return gen
}

// finish applies st if gen is still current. Reports whether it was applied.
func (s *Session) finish(gen uint64, st State) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.state = st
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return true
}

// Resolve settles the session from the token store: with no stored token it
// lands in StatusAnonymous without any network call; with a token it fetches
// the current user and lands in StatusAuthenticated, or — on any fetch
// failure — clears the now-distrusted token and lands in StatusAnonymous.
// Fetch failures are absorbed here; they are a state transition, not an
// error the caller can act on.
func (s *Session) Resolve(ctx context.Context) {
	tok, err := s.tokens.Get()
	if err != nil {
		s.log.Warn(ctx, "token store read failed", "error", err)
		s.set(State{Status: StatusAnonymous})
		return
	}
	if tok == "" {
		s.set(State{Status: StatusAnonymous})
		return
	}

	gen := s.beginResolve()

	profile, err := s.client.GetCurrentUser(ctx)
	if err != nil {
		// Token rejected or unreachable: drop it and go anonymous, unless a
		// newer operation already took over.
		if s.finish(gen, State{Status: StatusAnonymous}) {
			if cerr := s.tokens.Clear(); cerr != nil {
				s.log.Warn(ctx, "clearing rejected token failed", "error", cerr)
			}
			s.log.Info(ctx, "session resolved anonymous", "reason", err)
		}
		return
	}

	if !s.finish(gen, State{Status: StatusAuthenticated, User: profile}) {
		s.log.Debug(ctx, "discarding stale profile fetch", "generation", gen)
	}
}

// Login exchanges credentials for a token, persists it, and re-runs the
// resolve sequence. On failure nothing is persisted and the state is left
// untouched; the error propagates to the caller for display.
func (s *Session) Login(ctx context.Context, username, password string) error {
	tok, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.tokens.Set(tok.AccessToken); err != nil {
		return err
	}
	s.Resolve(ctx)
	return nil
}

// Register creates the account and, only if that succeeded, logs in with
// the same credentials to establish a session (registration itself does not
// yield a token).
func (s *Session) Register(ctx context.Context, data api.RegisterData) error {
	if _, err := s.client.Register(ctx, data); err != nil {
		return err
	}
	return s.Login(ctx, data.Username, data.Password)
}

// Logout clears the token store and moves to StatusAnonymous synchronously.
// It also invalidates the generation so any in-flight resolve result is
// discarded on arrival.
func (s *Session) Logout() {
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn(context.Background(), "clearing token failed", "error", err)
	}

	s.mu.Lock()
	s.gen++
	st := State{Status: StatusAnonymous}
	s.state = st
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// RefreshUser re-runs the resolve sequence. Used after profile-mutating
// operations.
func (s *Session) RefreshUser(ctx context.Context) {
	s.Resolve(ctx)
}
