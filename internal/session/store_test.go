package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/internal/session/drivers/memory"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func studentSession(premium bool) session.Session {
	return session.Session{
		Token: "tok-student",
		User: portalsdk.User{
			ID:            "u-student",
			Username:      "student1",
			FullName:      "Student One",
			Email:         "student1@college.edu",
			Role:          portalsdk.RoleStudent,
			PremiumActive: premium,
			AccountStatus: portalsdk.AccountActive,
		},
	}
}

func staffSession() session.Session {
	return session.Session{
		Token: "tok-staff",
		User: portalsdk.User{
			ID:       "u-staff",
			Username: "staff1",
			FullName: "Staff One",
			Role:     portalsdk.RoleStaff,
		},
	}
}

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) SetMany(context.Context, map[string]string) error  { return f.err }
func (f failingKV) Delete(context.Context, ...string) error           { return f.err }

func (f failingKV) GetMany(context.Context, ...string) (map[string]string, error) {
	return nil, f.err
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	for _, sess := range []session.Session{studentSession(false), studentSession(true), staffSession()} {
		t.Run(string(sess.Role()), func(t *testing.T) {
			t.Parallel()

			ctx := t.Context()
			kv := memory.New()
			store := session.NewStore(kv, slogx.Discard())

			require.NoError(t, store.Write(ctx, sess))

			p := store.Read(ctx)
			require.Equal(t, sess.Token, p.Token)
			require.Equal(t, sess.Role(), p.Role)
			require.Equal(t, sess.PremiumActive(), p.PremiumActive)
			require.True(t, p.HasPremium)

			got, ok := p.Session()
			require.True(t, ok)
			require.Equal(t, sess, got)

			// Scalars are independent entries.
			snap := kv.Snapshot()
			require.Equal(t, sess.Token, snap[session.KeyToken])
			require.Equal(t, string(sess.Role()), snap[session.KeyRole])
			require.Contains(t, []string{"true", "false"}, snap[session.KeyPremiumActive])
			require.Len(t, snap, 4)
		})
	}
}

func TestStoreWriteRejectsIncomplete(t *testing.T) {
	t.Parallel()

	store := session.NewStore(memory.New(), slogx.Discard())

	noToken := studentSession(true)
	noToken.Token = ""
	require.ErrorIs(t, store.Write(t.Context(), noToken), session.ErrIncompleteSession)

	badRole := staffSession()
	badRole.User.Role = "JANITOR"
	require.ErrorIs(t, store.Write(t.Context(), badRole), session.ErrIncompleteSession)
}

func TestStoreReadCorruptProfile(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	kv := memory.New()
	require.NoError(t, kv.SetMany(ctx, map[string]string{
		session.KeyToken:         "tok",
		session.KeyRole:          "STUDENT",
		session.KeyPremiumActive: "maybe",
		session.KeyProfile:       "{not json",
	}))

	p := session.NewStore(kv, slogx.Discard()).Read(ctx)
	require.Nil(t, p.Profile)
	require.False(t, p.HasPremium)

	_, ok := p.Session()
	require.False(t, ok, "a corrupt snapshot is no session")
}

func TestStoreRoleMustMatchProfile(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	kv := memory.New()
	store := session.NewStore(kv, slogx.Discard())
	require.NoError(t, store.Write(ctx, studentSession(true)))
	require.NoError(t, kv.SetMany(ctx, map[string]string{session.KeyRole: "ADMIN"}))

	_, ok := store.Read(ctx).Session()
	require.False(t, ok)
}

func TestStoreClear(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	kv := memory.New()
	store := session.NewStore(kv, slogx.Discard())

	require.NoError(t, store.Write(ctx, staffSession()))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	require.True(t, store.Read(ctx).Empty())
	require.Empty(t, kv.Snapshot())
	require.Equal(t, "", store.Token(ctx))
}

func TestStoreWriteProfileKeepsToken(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := session.NewStore(memory.New(), slogx.Discard())
	sess := studentSession(false)
	require.NoError(t, store.Write(ctx, sess))

	updated := sess.User
	updated.PremiumActive = true
	require.NoError(t, store.WriteProfile(ctx, updated))

	p := store.Read(ctx)
	require.Equal(t, sess.Token, p.Token)
	require.True(t, p.PremiumActive)
	require.True(t, p.Profile.PremiumActive)
}

func TestStoreBackendErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	store := session.NewStore(failingKV{err: boom}, slogx.Discard())

	// Reads degrade to "no session".
	require.True(t, store.Read(t.Context()).Empty())
	require.ErrorIs(t, store.Write(t.Context(), staffSession()), boom)
	require.ErrorIs(t, store.Clear(t.Context()), boom)
}
