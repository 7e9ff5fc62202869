// Package memory keeps the development backend's data in process memory.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/srots/portal/internal/devapi/domain"
	"github.com/srots/portal/internal/devapi/store"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	orders   map[string]domain.Order
	resets   map[string]domain.ResetToken

	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		orders:   make(map[string]domain.Order),
		resets:   make(map[string]domain.ResetToken),
		now:      time.Now,
	}
}

func (s *Store) Accounts() store.Accounts       { return accounts{s} }
func (s *Store) Orders() store.Orders           { return orders{s} }
func (s *Store) ResetTokens() store.ResetTokens { return resets{s} }

type accounts struct{ *Store }

func (r accounts) GetAccountByID(_ context.Context, id string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, store.ErrNotFound
	}
	return a, nil
}

func (r accounts) GetAccountByLogin(_ context.Context, login string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == login || (a.Email != "" && strings.EqualFold(a.Email, login)) {
			return a, nil
		}
	}
	return domain.Account{}, store.ErrNotFound
}

func (r accounts) CreateAccount(_ context.Context, a domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.ID]; ok {
		return store.ErrAlreadyExists
	}
	for _, other := range r.accounts {
		if other.Username == a.Username || (a.Email != "" && strings.EqualFold(other.Email, a.Email)) {
			return store.ErrAlreadyExists
		}
	}

	now := r.now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.accounts[a.ID] = a
	return nil
}

func (r accounts) UpdateAccount(_ context.Context, id string, fn func(*domain.Account) error) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, store.ErrNotFound
	}
	if err := fn(&a); err != nil {
		return domain.Account{}, err
	}
	a.ID = id
	a.UpdatedAt = r.now()
	r.accounts[id] = a
	return a, nil
}

func (r accounts) ListAccounts(context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b domain.Account) int { return strings.Compare(a.Username, b.Username) })
	return out, nil
}

type orders struct{ *Store }

func (r orders) CreateOrder(_ context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return store.ErrAlreadyExists
	}
	r.orders[o.ID] = o
	return nil
}

func (r orders) GetOrder(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (r orders) MarkOrderPaid(_ context.Context, id, paymentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if o.Status == domain.PaymentPaid {
		return false, nil
	}
	o.Status = domain.PaymentPaid
	o.PaymentID = paymentID
	r.orders[id] = o
	return true, nil
}

type resets struct{ *Store }

func (r resets) SaveResetToken(_ context.Context, t domain.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resets[t.Fingerprint] = t
	return nil
}

func (r resets) ConsumeResetToken(_ context.Context, fingerprint string) (domain.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.resets[fingerprint]
	if !ok {
		return domain.ResetToken{}, store.ErrNotFound
	}
	delete(r.resets, fingerprint)
	return t, nil
}
