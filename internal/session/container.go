package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

// Phase is the coarse state of the container.
type Phase int

const (
	Anonymous Phase = iota
	Authenticating
	Authenticated
	AuthError
)

func (p Phase) String() string {
	switch p {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case AuthError:
		return "auth_error"
	default:
		return "unknown"
	}
}

var (
	ErrLoginInProgress      = errors.New("session: login already in progress")
	ErrAlreadyAuthenticated = errors.New("session: already authenticated")
	ErrNotAuthenticating    = errors.New("session: no login in progress")
	ErrNotAuthenticated     = errors.New("session: not authenticated")
	ErrProfileMismatch      = errors.New("session: profile belongs to a different user")
)

// State is an immutable snapshot of the container.
type State struct {
	Phase Phase

	// Session is set only in the Authenticated phase.
	Session Session

	// Err is the last login failure, set only in the AuthError phase.
	Err string
}

// Token returns the session token or "".
func (s State) Token() string {
	if s.Phase != Authenticated {
		return ""
	}
	return s.Session.Token
}

// Observer receives every state in transition order.
type Observer func(State)

type observerEntry struct {
	id int
	fn Observer
}

// Container is the in-memory owner of the current session. Transitions are
// serialized; observers are notified in the order transitions happened.
type Container struct {
	mu     sync.Mutex
	store  *Store
	state  State
	logger *slog.Logger

	observers   []observerEntry
	nextID      int
	pending     []State
	dispatching bool
}

// NewContainer derives the initial state from store. A complete stored
// session yields Authenticated; a partial one is cleared and yields Anonymous.
func NewContainer(ctx context.Context, store *Store, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		store:  store,
		logger: logger.With("component", "session_container"),
	}

	p := store.Read(ctx)
	if sess, ok := p.Session(); ok {
		c.state = State{Phase: Authenticated, Session: sess}
		c.logger.Info("session restored", "user_id", sess.User.ID, "role", sess.Role())
		return c
	}

	if !p.Empty() {
		c.logger.Warn("partial session found at startup, clearing",
			"has_token", p.Token != "",
			"has_profile", p.Profile != nil,
		)
		if err := store.Clear(ctx); err != nil {
			c.logger.Error("failed to clear partial session", slogx.Err(err))
		}
	}
	return c
}

// State returns the current snapshot.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn and returns a function that removes it.
func (c *Container) Subscribe(fn Observer) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, observerEntry{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, o := range c.observers {
			if o.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// BeginLogin moves Anonymous or AuthError to Authenticating.
func (c *Container) BeginLogin() error {
	c.mu.Lock()
	switch c.state.Phase {
	case Authenticating:
		c.mu.Unlock()
		return ErrLoginInProgress
	case Authenticated:
		c.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	c.setLocked(State{Phase: Authenticating})
	c.mu.Unlock()

	c.flush()
	return nil
}

// CompleteLogin persists sess and moves Authenticating to Authenticated. The
// store write finishes before the transition is published.
func (c *Container) CompleteLogin(ctx context.Context, sess Session) error {
	c.mu.Lock()
	if c.state.Phase != Authenticating {
		c.mu.Unlock()
		return ErrNotAuthenticating
	}

	if err := c.store.Write(ctx, sess); err != nil {
		// Never leave half a session behind.
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			c.logger.Error("failed to clear after write failure", slogx.Err(clearErr))
		}
		c.setLocked(State{Phase: AuthError, Err: "Unable to save your session. Please try again."})
		c.mu.Unlock()
		c.flush()
		return err
	}

	c.setLocked(State{Phase: Authenticated, Session: sess})
	c.mu.Unlock()

	c.logger.Info("login completed", "user_id", sess.User.ID, "role", sess.Role())
	c.flush()
	return nil
}

// FailLogin moves Authenticating to AuthError. The store is untouched.
func (c *Container) FailLogin(message string) {
	c.mu.Lock()
	if c.state.Phase != Authenticating {
		phase := c.state.Phase
		c.mu.Unlock()
		c.logger.Warn("login failure reported outside a login", "phase", phase.String())
		return
	}
	c.setLocked(State{Phase: AuthError, Err: message})
	c.mu.Unlock()

	c.flush()
}

// Logout clears the store and moves to Anonymous. Calling it again is a no-op
// apart from re-clearing the store.
func (c *Container) Logout(ctx context.Context) error {
	c.mu.Lock()
	err := c.store.Clear(ctx)
	changed := c.state.Phase != Anonymous
	if changed {
		c.setLocked(State{Phase: Anonymous})
	}
	c.mu.Unlock()

	if changed {
		c.logger.Info("logged out")
		c.flush()
	}
	return err
}

// UpdateProfile replaces the profile of the authenticated user and rewrites
// the snapshot. The token is unchanged.
func (c *Container) UpdateProfile(ctx context.Context, u portalsdk.User) error {
	c.mu.Lock()
	if c.state.Phase != Authenticated {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	if u.ID != c.state.Session.User.ID {
		c.mu.Unlock()
		return ErrProfileMismatch
	}

	if err := c.store.WriteProfile(ctx, u); err != nil {
		c.mu.Unlock()
		return err
	}

	next := c.state
	next.Session.User = u
	c.setLocked(next)
	c.mu.Unlock()

	c.flush()
	return nil
}

// Invalidate ends the session after the backend rejected rejectedToken. It
// does nothing when a different token is live, since that session was
// established after the rejected request was sent. A request sent without a
// token never ends a session. During a login in flight only the stale store
// contents are cleared.
func (c *Container) Invalidate(ctx context.Context, rejectedToken string) bool {
	c.mu.Lock()

	stored := c.store.Token(ctx)
	if superseded(rejectedToken, stored) || superseded(rejectedToken, c.state.Token()) {
		c.mu.Unlock()
		c.logger.Info("ignoring rejection of a superseded token")
		return false
	}

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("failed to clear session store", slogx.Err(err))
	}

	if c.state.Phase == Authenticating || c.state.Phase == Anonymous {
		c.mu.Unlock()
		return true
	}

	c.setLocked(State{Phase: Anonymous})
	c.mu.Unlock()

	c.logger.Warn("session invalidated by backend")
	c.flush()
	return true
}

// Reconcile compares memory with the store. A store holding a different but
// complete session is rewritten from memory. A partial disagreement clears
// the store and moves to Anonymous. It reports whether it healed.
func (c *Container) Reconcile(ctx context.Context) bool {
	c.mu.Lock()

	if c.state.Phase == Authenticating {
		c.mu.Unlock()
		return false
	}

	p := c.store.Read(ctx)

	if c.state.Phase == Authenticated {
		if p.Token == c.state.Session.Token && p.Profile != nil {
			c.mu.Unlock()
			return false
		}
		if _, ok := p.Session(); ok {
			err := c.store.Write(ctx, c.state.Session)
			c.mu.Unlock()
			if err != nil {
				c.logger.Error("failed to rewrite session store", slogx.Err(err))
			} else {
				c.logger.Warn("session store held another session, rewrote it")
			}
			return true
		}
	} else if p.Empty() {
		c.mu.Unlock()
		return false
	}

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("failed to clear session store", slogx.Err(err))
	}

	changed := c.state.Phase != Anonymous
	if changed {
		c.setLocked(State{Phase: Anonymous})
	}
	c.mu.Unlock()

	c.logger.Warn("session store disagreed with memory, forced logout",
		"has_token", p.Token != "",
		"has_profile", p.Profile != nil,
	)
	if changed {
		c.flush()
	}
	return true
}

// superseded reports whether live is a session token other than the
// rejected one. An empty rejected token never matches a live session.
func superseded(rejected, live string) bool {
	return live != "" && live != rejected
}

// setLocked records a new state and queues its notification. c.mu must be held.
func (c *Container) setLocked(s State) {
	c.state = s
	c.pending = append(c.pending, s)
}

// flush delivers queued states. Only one goroutine delivers at a time, so
// observers see states in transition order even when an observer triggers a
// transition itself.
func (c *Container) flush() {
	c.mu.Lock()
	if c.dispatching {
		c.mu.Unlock()
		return
	}
	c.dispatching = true

	for len(c.pending) > 0 {
		s := c.pending[0]
		c.pending = c.pending[1:]

		observers := make([]Observer, len(c.observers))
		for i, o := range c.observers {
			observers[i] = o.fn
		}

		c.mu.Unlock()
		for _, fn := range observers {
			fn(s)
		}
		c.mu.Lock()
	}

	c.dispatching = false
	c.mu.Unlock()
}
