package flows_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/srots/portal/internal/flows"
	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/stretchr/testify/require"
)

// fakePremium activates premium only when the profile is fetched after a
// successful subscribe, like a backend that writes through a database.
type fakePremium struct {
	profile    portalsdk.User
	activate   bool
	subscribed []portalsdk.SubscribeRequest
	order      *portalsdk.OrderResponse
	err        error

	// onSubscribe runs while the backend call is in flight.
	onSubscribe func()
}

func (f *fakePremium) Subscribe(_ context.Context, req portalsdk.SubscribeRequest) (*portalsdk.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.onSubscribe != nil {
		f.onSubscribe()
	}
	f.subscribed = append(f.subscribed, req)
	if f.activate {
		exp := time.Date(2027, 10, 16, 0, 0, 0, 0, time.UTC)
		f.profile.PremiumActive = true
		f.profile.AccountStatus = portalsdk.AccountActive
		f.profile.PremiumExpiry = &exp
	}
	return &portalsdk.MessageResponse{Message: "Premium activated successfully"}, nil
}

func (f *fakePremium) CreateOrder(context.Context) (*portalsdk.OrderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func (f *fakePremium) Profile(_ context.Context, id string) (*portalsdk.User, error) {
	u := f.profile
	u.ID = id
	return &u, nil
}

func fixedNow() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }

func TestPlans(t *testing.T) {
	t.Parallel()

	plans := flows.Plans()
	require.Len(t, plans, 3)

	require.Equal(t, "Standard", plans[0].Name)
	require.Equal(t, 3, plans[0].Months)
	require.True(t, plans[0].Price.Equal(decimal.NewFromInt(199)))

	require.True(t, plans[1].Recommended)
	require.Equal(t, int64(34900), plans[1].Paise())

	require.Equal(t, "Ultimate", plans[2].Name)
	require.Equal(t, int64(59900), plans[2].Paise())

	// Callers get a copy.
	plans[0].Name = "Changed"
	require.Equal(t, "Standard", flows.Plans()[0].Name)
}

func TestSelectPlan(t *testing.T) {
	t.Parallel()

	f := &flows.Subscription{}
	require.Equal(t, "6m", f.Selected().ID)

	p, err := f.SelectPlan("12m")
	require.NoError(t, err)
	require.Equal(t, 12, p.Months)
	require.Equal(t, "12m", f.Selected().ID)

	_, err = f.SelectPlan("24m")
	require.ErrorIs(t, err, flows.ErrUnknownPlan)
	require.Equal(t, "12m", f.Selected().ID)
}

func TestSubmitManualReferencePremiumOnlyAfterRefresh(t *testing.T) {
	t.Parallel()

	c, kv := signedIn(t, student(false))
	gw := &fakePremium{profile: student(false), activate: true}
	gw.onSubscribe = func() {
		require.False(t, c.State().Session.PremiumActive(), "premium must not flip before the refresh")
	}

	f := &flows.Subscription{Gateway: gw, Sessions: c, Now: fixedNow}
	_, err := f.SelectPlan("3m")
	require.NoError(t, err)

	act, err := f.SubmitManualReference(t.Context(), "  UTR123456789 ")
	require.NoError(t, err)
	require.True(t, act.Active)
	require.Equal(t, flows.MsgPremiumActivated, act.Message)
	require.NotNil(t, act.Expiry)

	require.Equal(t, []portalsdk.SubscribeRequest{{UTRNumber: "UTR123456789", Months: 3}}, gw.subscribed)

	st := c.State()
	require.True(t, st.Session.PremiumActive())
	require.Equal(t, "tok-stu-1", st.Token())
	require.Equal(t, "true", kv.Snapshot()[session.KeyPremiumActive])
}

func TestSubmitManualReferenceNotYetActive(t *testing.T) {
	t.Parallel()

	c, kv := signedIn(t, student(false))
	gw := &fakePremium{profile: student(false)}
	f := &flows.Subscription{Gateway: gw, Sessions: c, Now: fixedNow}

	act, err := f.SubmitManualReference(t.Context(), "UTR123456789")
	require.NoError(t, err)
	require.False(t, act.Active)
	require.False(t, c.State().Session.PremiumActive())
	require.Equal(t, "false", kv.Snapshot()[session.KeyPremiumActive])
}

func TestSubmitManualReferenceRejectsBadUTR(t *testing.T) {
	t.Parallel()

	for _, utr := range []string{"", "12345", "UTR-1234567", "1234567890123456789012345"} {
		t.Run(utr, func(t *testing.T) {
			t.Parallel()

			c, _ := signedIn(t, student(false))
			gw := &fakePremium{profile: student(false), activate: true}
			f := &flows.Subscription{Gateway: gw, Sessions: c}

			_, err := f.SubmitManualReference(t.Context(), utr)

			var invalid *portalsdk.ValidationError
			require.ErrorAs(t, err, &invalid)
			require.Contains(t, invalid.Fields, "utrNumber")
			require.Empty(t, gw.subscribed)
		})
	}
}

func TestSubmitManualReferenceBackendFailure(t *testing.T) {
	t.Parallel()

	c, _ := signedIn(t, student(false))
	boom := errors.New("upstream down")
	f := &flows.Subscription{Gateway: &fakePremium{profile: student(false), err: boom}, Sessions: c}

	_, err := f.SubmitManualReference(t.Context(), "UTR123456789")
	require.ErrorIs(t, err, boom)
	require.False(t, c.State().Session.PremiumActive())
}

func TestSubscriptionRequiresStudent(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		c, _ := newSessions(t)
		f := &flows.Subscription{Gateway: &fakePremium{}, Sessions: c}

		_, err := f.InitiateOrder(t.Context())
		require.ErrorIs(t, err, session.ErrNotAuthenticated)
	})

	t.Run("staff", func(t *testing.T) {
		t.Parallel()

		c, _ := signedIn(t, portalsdk.User{ID: "stf-1", Role: portalsdk.RoleStaff})
		f := &flows.Subscription{Gateway: &fakePremium{}, Sessions: c}

		_, err := f.SubmitManualReference(t.Context(), "UTR123456789")
		require.ErrorIs(t, err, flows.ErrNotStudent)
	})
}

func TestInitiateOrder(t *testing.T) {
	t.Parallel()

	c, _ := signedIn(t, student(false))
	gw := &fakePremium{order: &portalsdk.OrderResponse{Key: "rzp_test_key", Amount: 49900, OrderID: "order_01"}}
	f := &flows.Subscription{Gateway: gw, Sessions: c}

	co, err := f.InitiateOrder(t.Context())
	require.NoError(t, err)
	require.Equal(t, &flows.Checkout{
		ProviderKey: "rzp_test_key",
		OrderID:     "order_01",
		Amount:      49900,
		Currency:    "INR",
		Name:        "SROTS",
		Description: "Premium subscription",
		Prefill:     flows.Prefill{Name: "Asha Rao", Email: "asha@college.edu"},
	}, co)

	// The handoff alone never grants premium.
	require.False(t, c.State().Session.PremiumActive())

	gw.order = &portalsdk.OrderResponse{}
	_, err = f.InitiateOrder(t.Context())
	require.ErrorIs(t, err, flows.ErrEmptyOrderID)
}

func TestConfirmCheckout(t *testing.T) {
	t.Parallel()

	c, _ := signedIn(t, student(false))
	gw := &fakePremium{profile: student(false)}
	f := &flows.Subscription{Gateway: gw, Sessions: c, Now: fixedNow}

	act, err := f.ConfirmCheckout(t.Context())
	require.NoError(t, err)
	require.False(t, act.Active, "webhook not processed yet")
	require.Empty(t, act.Message)

	exp := fixedNow().AddDate(0, 6, 0)
	gw.profile.PremiumActive = true
	gw.profile.PremiumExpiry = &exp

	act, err = f.ConfirmCheckout(t.Context())
	require.NoError(t, err)
	require.True(t, act.Active)
	require.Equal(t, flows.MsgPremiumActivated, act.Message)
	require.True(t, c.State().Session.PremiumActive())
}

func TestConfirmCheckoutExpiredPremium(t *testing.T) {
	t.Parallel()

	c, _ := signedIn(t, student(false))
	past := fixedNow().AddDate(0, 0, -1)
	u := student(true)
	u.PremiumExpiry = &past

	f := &flows.Subscription{Gateway: &fakePremium{profile: u}, Sessions: c, Now: fixedNow}

	act, err := f.ConfirmCheckout(t.Context())
	require.NoError(t, err)
	require.False(t, act.Active)
	require.False(t, c.State().Session.PremiumActive())
}

func TestUPILink(t *testing.T) {
	t.Parallel()

	link, err := flows.UPILink("srots@upi", decimal.NewFromInt(349))
	require.NoError(t, err)
	require.Equal(t, "upi://pay?pa=srots@upi&pn=SROTS&cu=INR&am=349", link)

	for _, vpa := range []string{"", "srots", "srots@upi&am=1", "a b@upi"} {
		_, err := flows.UPILink(vpa, decimal.NewFromInt(1))
		require.ErrorIs(t, err, flows.ErrInvalidVPA, vpa)
	}

	f := &flows.Subscription{}
	link, err = f.PaymentLink()
	require.NoError(t, err)
	require.Equal(t, "upi://pay?pa=srots@upi&pn=SROTS&cu=INR&am=349", link)
}

func TestWritePaymentQR(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pay.png")
	f := &flows.Subscription{VPA: "placements@okaxis"}
	_, err := f.SelectPlan("12m")
	require.NoError(t, err)

	require.NoError(t, f.WritePaymentQR(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")), "png signature")

	f.VPA = "not a vpa"
	require.ErrorIs(t, f.WritePaymentQR(filepath.Join(t.TempDir(), "x.png")), flows.ErrInvalidVPA)
}
