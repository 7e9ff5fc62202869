package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/srots/portal/internal/devapi/domain"
	"github.com/srots/portal/internal/devapi/store"
	"github.com/srots/portal/pkg/cryptox"
	"github.com/srots/portal/pkg/idx"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

const (
	// OrderAmount is the provider checkout price in paise.
	OrderAmount   int64 = 49900
	OrderCurrency       = "INR"

	// DefaultManualMonths applies when a UTR activation names no plan length.
	DefaultManualMonths = 12
	// WebhookMonths is granted by a captured provider payment.
	WebhookMonths = 6

	MinUTRLength = 6

	EventPaymentCaptured = "payment.captured"
)

// PremiumService activates student subscriptions.
type PremiumService struct {
	Store store.Store

	// ProviderKey is the payment provider's public key id.
	ProviderKey   string
	WebhookSecret []byte
	Now           func() time.Time
}

// Activate records an out-of-band payment identified by its UTR and grants
// months of premium from now.
func (s *PremiumService) Activate(ctx context.Context, userID, utr string, months int) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	utr = strings.TrimSpace(utr)
	if len(utr) < MinUTRLength {
		return domain.Account{}, ErrInvalidUTR
	}
	if months <= 0 {
		months = DefaultManualMonths
	}

	now := s.now()
	acct, err := s.Store.Accounts().UpdateAccount(ctx, userID, func(a *domain.Account) error {
		if a.Role != portalsdk.RoleStudent {
			return ErrNotStudent
		}
		expiry := now.AddDate(0, months, 0)
		a.PremiumActive = true
		a.PremiumExpiry = &expiry
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	log.Info("premium activated", "user_id", userID, "source", "utr", "months", months)
	return acct, nil
}

// CreateOrder opens a provider order for the student's checkout.
func (s *PremiumService) CreateOrder(ctx context.Context, userID string) (*portalsdk.OrderResponse, error) {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct.Role != portalsdk.RoleStudent {
		return nil, ErrNotStudent
	}

	order := domain.Order{
		ID:        idx.Prefixed("order"),
		AccountID: acct.ID,
		Receipt:   "premium_" + acct.Username,
		Amount:    OrderAmount,
		Currency:  OrderCurrency,
		Status:    domain.PaymentCreated,
		CreatedAt: s.now(),
	}
	if err := s.Store.Orders().CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	slogx.FromContext(ctx).Info("order created", "user_id", acct.ID, "order_id", order.ID)
	return &portalsdk.OrderResponse{
		Key:      s.ProviderKey,
		Amount:   order.Amount,
		OrderID:  order.ID,
		Currency: order.Currency,
	}, nil
}

// WebhookEvent is the subset of the provider's webhook body the portal reads.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies and applies a provider event. Events other than
// payment.captured and repeated deliveries for a paid order are ignored.
func (s *PremiumService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	log := slogx.FromContext(ctx)

	if len(s.WebhookSecret) == 0 || !cryptox.VerifyHex(body, s.WebhookSecret, strings.TrimSpace(signature)) {
		return ErrInvalidSignature
	}

	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if ev.Event != EventPaymentCaptured {
		log.Debug("webhook ignored", "event", ev.Event)
		return nil
	}

	entity := ev.Payload.Payment.Entity
	order, err := s.Store.Orders().GetOrder(ctx, entity.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("webhook for unknown order", "order_id", entity.OrderID)
			return nil
		}
		return err
	}

	marked, err := s.Store.Orders().MarkOrderPaid(ctx, order.ID, entity.ID)
	if err != nil {
		return err
	}
	if !marked {
		log.Info("webhook duplicate", "order_id", order.ID)
		return nil
	}

	now := s.now()
	_, err = s.Store.Accounts().UpdateAccount(ctx, order.AccountID, func(a *domain.Account) error {
		if a.PremiumValidAt(now) {
			return nil
		}
		expiry := now.AddDate(0, WebhookMonths, 0)
		a.PremiumActive = true
		a.PremiumExpiry = &expiry
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("premium activated", "user_id", order.AccountID, "source", "webhook", "order_id", order.ID)
	return nil
}

func (s *PremiumService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
