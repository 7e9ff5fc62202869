package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

const (
	DefaultPlanID = "6m"
	DefaultVPA    = "srots@upi"

	// PayeeName is shown by UPI apps and the checkout dialog.
	PayeeName = "SROTS"

	CurrencyINR = "INR"

	MsgPremiumActivated = "Premium activated successfully"
	MsgActivationFailed = "Activation failed. Please check your UTR and try again."
)

var (
	ErrUnknownPlan  = errors.New("flows: unknown plan")
	ErrNotStudent   = errors.New("flows: premium is only available to students")
	ErrInvalidVPA   = errors.New("flows: invalid UPI address")
	ErrEmptyOrderID = errors.New("flows: backend returned an order without an id")
)

// Plan is one premium subscription option.
type Plan struct {
	ID          string
	Name        string
	Months      int
	Price       decimal.Decimal
	Recommended bool
}

// Paise is the price in the currency's minor unit.
func (p Plan) Paise() int64 {
	return p.Price.Shift(2).Round(0).IntPart()
}

var plans = []Plan{
	{ID: "3m", Name: "Standard", Months: 3, Price: decimal.NewFromInt(199)},
	{ID: "6m", Name: "Professional", Months: 6, Price: decimal.NewFromInt(349), Recommended: true},
	{ID: "12m", Name: "Ultimate", Months: 12, Price: decimal.NewFromInt(599)},
}

// Plans returns the plan catalogue, shortest first.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID looks up a plan.
func PlanByID(id string) (Plan, error) {
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, id)
}

// Prefill seeds the payment provider's checkout form.
type Prefill struct {
	Name  string
	Email string
}

// Checkout is everything a payment-provider client needs to open its
// checkout for an order created by the backend.
type Checkout struct {
	ProviderKey string
	OrderID     string

	// Amount is in paise.
	Amount      int64
	Currency    string
	Name        string
	Description string
	Prefill     Prefill
}

// Activation reports the premium state after the profile was refreshed.
type Activation struct {
	Active  bool
	Expiry  *time.Time
	Message string
}

// PremiumGateway is the part of the backend the subscription flow needs.
type PremiumGateway interface {
	Subscribe(ctx context.Context, req portalsdk.SubscribeRequest) (*portalsdk.MessageResponse, error)
	CreateOrder(ctx context.Context) (*portalsdk.OrderResponse, error)
	Profile(ctx context.Context, userID string) (*portalsdk.User, error)
}

// Subscription activates premium for the signed-in student. The premium
// flag is never set locally: every activation path ends with a profile
// refresh pushed through the container.
type Subscription struct {
	Gateway  PremiumGateway
	Sessions *session.Container

	// VPA is the UPI address manual payments are sent to.
	VPA string

	// Now is used to judge premium expiry. Defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	selected string
}

// Plans returns the plan catalogue.
func (f *Subscription) Plans() []Plan { return Plans() }

// SelectPlan chooses the plan used by later steps.
func (f *Subscription) SelectPlan(id string) (Plan, error) {
	p, err := PlanByID(id)
	if err != nil {
		return Plan{}, err
	}

	f.mu.Lock()
	f.selected = p.ID
	f.mu.Unlock()
	return p, nil
}

// Selected returns the chosen plan, the recommended one until SelectPlan.
func (f *Subscription) Selected() Plan {
	f.mu.Lock()
	id := f.selected
	f.mu.Unlock()

	if id == "" {
		id = DefaultPlanID
	}
	p, _ := PlanByID(id)
	return p
}

// InitiateOrder creates a provider order. Completing the payment is up to
// the caller's provider client; activation happens on the backend.
func (f *Subscription) InitiateOrder(ctx context.Context) (*Checkout, error) {
	sess, err := f.student()
	if err != nil {
		return nil, err
	}

	order, err := f.Gateway.CreateOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if order.OrderID == "" {
		return nil, ErrEmptyOrderID
	}

	currency := order.Currency
	if currency == "" {
		currency = CurrencyINR
	}

	slogx.FromContext(ctx).Info("premium order created",
		slog.String("order_id", order.OrderID),
		slog.Int64("amount", order.Amount),
	)

	return &Checkout{
		ProviderKey: order.Key,
		OrderID:     order.OrderID,
		Amount:      order.Amount,
		Currency:    currency,
		Name:        PayeeName,
		Description: "Premium subscription",
		Prefill: Prefill{
			Name:  sess.User.FullName,
			Email: sess.User.Email,
		},
	}, nil
}

// ConfirmCheckout is called after the provider reports a successful payment.
// It only refreshes the profile; Activation.Active stays false until the
// backend has processed the payment.
func (f *Subscription) ConfirmCheckout(ctx context.Context) (*Activation, error) {
	if _, err := f.student(); err != nil {
		return nil, err
	}

	act, err := f.refresh(ctx)
	if err != nil {
		return nil, err
	}
	if act.Active {
		act.Message = MsgPremiumActivated
	}
	return act, nil
}

// SubmitManualReference activates premium with the UTR of a UPI payment made
// out of band. The reference is validated before anything is sent.
func (f *Subscription) SubmitManualReference(ctx context.Context, utr string) (*Activation, error) {
	req := portalsdk.SubscribeRequest{
		UTRNumber: strings.TrimSpace(utr),
		Months:    f.Selected().Months,
	}
	if err := portalsdk.Validate(req); err != nil {
		return nil, err
	}

	if _, err := f.student(); err != nil {
		return nil, err
	}

	resp, err := f.Gateway.Subscribe(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	act, err := f.refresh(ctx)
	if err != nil {
		return nil, err
	}
	act.Message = orDefault(resp.Message, MsgPremiumActivated)

	slogx.FromContext(ctx).Info("manual premium activation submitted",
		slog.Int("months", req.Months),
		slog.Bool("active", act.Active),
	)
	return act, nil
}

// refresh pulls the profile and publishes it through the container.
func (f *Subscription) refresh(ctx context.Context) (*Activation, error) {
	sess := f.Sessions.State().Session

	u, err := f.Gateway.Profile(ctx, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}

	// A lapsed subscription counts as inactive.
	u.PremiumActive = u.PremiumValidAt(f.now())
	if err := f.Sessions.UpdateProfile(ctx, *u); err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}

	return &Activation{
		Active: u.PremiumActive,
		Expiry: u.PremiumExpiry,
	}, nil
}

func (f *Subscription) student() (session.Session, error) {
	st := f.Sessions.State()
	if st.Phase != session.Authenticated {
		return session.Session{}, session.ErrNotAuthenticated
	}
	if st.Session.Role() != portalsdk.RoleStudent {
		return session.Session{}, ErrNotStudent
	}
	return st.Session, nil
}

func (f *Subscription) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// ============================================================================
// UPI
// ============================================================================

var vpaPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{2,256}@[A-Za-z]{2,64}$`)

// UPILink is the upi://pay deep link for paying price to vpa.
func UPILink(vpa string, price decimal.Decimal) (string, error) {
	if !vpaPattern.MatchString(vpa) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVPA, vpa)
	}
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&cu=%s&am=%s", vpa, PayeeName, CurrencyINR, price.String()), nil
}

// PaymentLink is the UPI link for the selected plan.
func (f *Subscription) PaymentLink() (string, error) {
	vpa := f.VPA
	if vpa == "" {
		vpa = DefaultVPA
	}
	return UPILink(vpa, f.Selected().Price)
}

// WritePaymentQR renders PaymentLink as a PNG at path.
func (f *Subscription) WritePaymentQR(path string) error {
	link, err := f.PaymentLink()
	if err != nil {
		return err
	}

	qr, err := qrcode.NewWith(link,
		qrcode.WithEncodingMode(qrcode.EncModeByte),
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart),
	)
	if err != nil {
		return fmt.Errorf("encode payment qr: %w", err)
	}

	w, err := standard.New(path,
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
		standard.WithBorderWidth(20),
	)
	if err != nil {
		return fmt.Errorf("create payment qr file: %w", err)
	}
	if err := qr.Save(w); err != nil {
		return fmt.Errorf("write payment qr: %w", err)
	}
	return nil
}
