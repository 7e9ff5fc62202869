package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srots/portal/internal/devapi/domain"
	"github.com/srots/portal/internal/devapi/store"
	"github.com/srots/portal/pkg/cryptox"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

// DemoCollegeID is the college every seeded account belongs to.
const DemoCollegeID = "clg-demo"

// DemoAccount describes one seeded login.
type DemoAccount struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Role       portalsdk.Role
	Restricted bool

	// PremiumMonths > 0 seeds an active subscription of that length.
	PremiumMonths int
}

// DemoAccounts covers every role plus the student and restriction states
// the portal routes on.
var DemoAccounts = []DemoAccount{
	{Username: "student", Email: "student@demo.srots.in", FullName: "Demo Student", Password: "student-pass-1", Role: portalsdk.RoleStudent},
	{Username: "premium", Email: "premium@demo.srots.in", FullName: "Premium Student", Password: "premium-pass-1", Role: portalsdk.RoleStudent, PremiumMonths: 12},
	{Username: "blocked", Email: "blocked@demo.srots.in", FullName: "Blocked Student", Password: "blocked-pass-1", Role: portalsdk.RoleStudent, Restricted: true},
	{Username: "staff", Email: "staff@demo.srots.in", FullName: "Placement Staff", Password: "staff-pass-1", Role: portalsdk.RoleStaff},
	{Username: "cph", Email: "cph@demo.srots.in", FullName: "Placement Head", Password: "cph-pass-1", Role: portalsdk.RoleCPH},
	{Username: "admin", Email: "admin@demo.srots.in", FullName: "Portal Admin", Password: "admin-pass-1", Role: portalsdk.RoleAdmin},
	{Username: "dev", Email: "dev@demo.srots.in", FullName: "Platform Dev", Password: "dev-pass-1", Role: portalsdk.RoleSrotsDev},
}

// Seed creates accounts, skipping usernames that already exist. Cost is the
// bcrypt cost; zero means cryptox.PasswordCost.
func Seed(ctx context.Context, st store.Store, accounts []DemoAccount, cost int, now time.Time) error {
	log := slogx.FromContext(ctx)

	if cost == 0 {
		cost = cryptox.PasswordCost
	}

	for _, d := range accounts {
		hash, err := cryptox.HashPasswordWithCost(d.Password, cost)
		if err != nil {
			return fmt.Errorf("seed %s: %w", d.Username, err)
		}

		acct := domain.Account{
			ID:           uuid.NewString(),
			Username:     d.Username,
			Email:        d.Email,
			FullName:     d.FullName,
			Role:         d.Role,
			CollegeID:    DemoCollegeID,
			PasswordHash: hash,
			Restricted:   d.Restricted,
		}
		if d.PremiumMonths > 0 {
			expiry := now.AddDate(0, d.PremiumMonths, 0)
			acct.PremiumActive = true
			acct.PremiumExpiry = &expiry
		}

		err = st.Accounts().CreateAccount(ctx, acct)
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", d.Username, err)
		}
		log.Debug("seeded account", "username", d.Username, "role", d.Role)
	}
	return nil
}
