package service

import (
	"context"
	"time"

	"github.com/srots/portal/internal/devapi/store"
	"github.com/srots/portal/pkg/portalsdk"
)

// AnalyticsService computes the dashboard aggregates served to staff and
// administrators.
type AnalyticsService struct {
	Store     store.Store
	StartedAt time.Time
	Version   string
	Now       func() time.Time
}

// Overview counts accounts by role and students by subscription state.
func (s *AnalyticsService) Overview(ctx context.Context) (portalsdk.Analytics, error) {
	accts, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	byRole := make(map[string]int)
	var premium, hold, restricted int
	for _, a := range accts {
		byRole[string(a.Role)]++
		if a.Restricted {
			restricted++
			continue
		}
		if a.Role == portalsdk.RoleStudent {
			if a.PremiumValidAt(now) {
				premium++
			} else {
				hold++
			}
		}
	}

	return portalsdk.Analytics{
		"totalUsers":      len(accts),
		"usersByRole":     byRole,
		"premiumStudents": premium,
		"holdStudents":    hold,
		"restrictedUsers": restricted,
	}, nil
}

// System reports process level figures for platform developers.
func (s *AnalyticsService) System(ctx context.Context) (portalsdk.Analytics, error) {
	accts, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	colleges := make(map[string]struct{})
	for _, a := range accts {
		if a.CollegeID != "" {
			colleges[a.CollegeID] = struct{}{}
		}
	}

	return portalsdk.Analytics{
		"version":  s.Version,
		"uptime":   s.now().Sub(s.StartedAt).Round(time.Second).String(),
		"accounts": len(accts),
		"colleges": len(colleges),
	}, nil
}

func (s *AnalyticsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
