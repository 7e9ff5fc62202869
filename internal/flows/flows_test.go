package flows_test

import (
	"testing"

	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/internal/session/drivers/memory"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newSessions(t *testing.T) (*session.Container, *memory.KV) {
	t.Helper()

	kv := memory.New()
	store := session.NewStore(kv, slogx.Discard())
	return session.NewContainer(t.Context(), store, slogx.Discard()), kv
}

func signedIn(t *testing.T, u portalsdk.User) (*session.Container, *memory.KV) {
	t.Helper()

	c, kv := newSessions(t)
	require.NoError(t, c.BeginLogin())
	require.NoError(t, c.CompleteLogin(t.Context(), session.Session{Token: "tok-" + u.ID, User: u}))
	return c, kv
}

func student(premium bool) portalsdk.User {
	return portalsdk.User{
		ID:            "stu-1",
		Username:      "22b01a0501",
		FullName:      "Asha Rao",
		Email:         "asha@college.edu",
		Role:          portalsdk.RoleStudent,
		PremiumActive: premium,
		AccountStatus: portalsdk.AccountHold,
	}
}
