package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

// Canonical keys, one per concept.
const (
	KeyToken         = "token"
	KeyRole          = "role"
	KeyPremiumActive = "premiumActive"
	KeyProfile       = "profile"
)

var allKeys = []string{KeyToken, KeyRole, KeyPremiumActive, KeyProfile}

// ErrIncompleteSession is returned when writing a session without a token or
// a known role.
var ErrIncompleteSession = errors.New("session: incomplete session")

// Session is an authenticated identity.
type Session struct {
	Token string
	User  portalsdk.User
}

func (s Session) Role() portalsdk.Role                   { return s.User.Role }
func (s Session) PremiumActive() bool                    { return s.User.PremiumActive }
func (s Session) AccountStatus() portalsdk.AccountStatus { return s.User.AccountStatus }

func (s Session) validate() error {
	if s.Token == "" || !s.User.Role.Valid() || s.User.ID == "" {
		return ErrIncompleteSession
	}
	return nil
}

// Partial is whatever subset of a session the store currently holds. Zero
// fields mean "absent".
type Partial struct {
	Token         string
	Role          portalsdk.Role
	PremiumActive bool
	HasPremium    bool
	Profile       *portalsdk.User
}

// Empty reports whether no session key was found.
func (p Partial) Empty() bool {
	return p.Token == "" && p.Role == "" && !p.HasPremium && p.Profile == nil
}

// Session returns the complete session, if the stored keys form one. The
// role scalar must agree with the profile snapshot.
func (p Partial) Session() (Session, bool) {
	if p.Token == "" || p.Profile == nil || !p.Profile.Role.Valid() {
		return Session{}, false
	}
	if p.Role != "" && p.Role != p.Profile.Role {
		return Session{}, false
	}
	return Session{Token: p.Token, User: *p.Profile}, true
}

// Store persists a session as independent scalar keys plus one JSON profile
// snapshot.
type Store struct {
	kv     KV
	logger *slog.Logger
}

func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger.With("component", "session_store")}
}

// Write persists every key of sess in one batch.
func (s *Store) Write(ctx context.Context, sess Session) error {
	if err := sess.validate(); err != nil {
		return err
	}

	entries, err := profileEntries(sess.User)
	if err != nil {
		return err
	}
	entries[KeyToken] = sess.Token

	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

// WriteProfile rewrites the profile snapshot and the scalars derived from it.
// The token is left untouched.
func (s *Store) WriteProfile(ctx context.Context, u portalsdk.User) error {
	entries, err := profileEntries(u)
	if err != nil {
		return err
	}
	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("session: write profile: %w", err)
	}
	return nil
}

func profileEntries(u portalsdk.User) (map[string]string, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("session: encode profile: %w", err)
	}
	return map[string]string{
		KeyRole:          string(u.Role),
		KeyPremiumActive: strconv.FormatBool(u.PremiumActive),
		KeyProfile:       string(raw),
	}, nil
}

// Read returns whatever the store holds. It never fails: backend errors and
// an unreadable profile snapshot are logged and reported as absent keys.
func (s *Store) Read(ctx context.Context) Partial {
	var p Partial

	vals, err := s.kv.GetMany(ctx, allKeys...)
	if err != nil {
		s.logger.Error("session store read failed", slogx.Err(err))
		return p
	}

	p.Token = vals[KeyToken]
	p.Role = portalsdk.Role(vals[KeyRole])

	if raw := vals[KeyPremiumActive]; raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.logger.Warn("ignoring unreadable premium flag", "value", raw)
		} else {
			p.PremiumActive, p.HasPremium = v, true
		}
	}

	if raw := vals[KeyProfile]; raw != "" {
		var u portalsdk.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.logger.Warn("profile snapshot is corrupt, treating as no session", slogx.Err(err))
		} else if u.ID == "" {
			s.logger.Warn("profile snapshot has no user id, treating as no session")
		} else {
			p.Profile = &u
		}
	}

	return p
}

// Token returns the stored bearer token or "". It satisfies
// portalsdk.TokenSource.
func (s *Store) Token(ctx context.Context) string {
	return s.get(ctx, KeyToken)
}

// Clear removes every session key in a single delete.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, allKeys...); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) string {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Error("session store read failed", "key", key, slogx.Err(err))
		return ""
	}
	if !ok {
		return ""
	}
	return v
}
