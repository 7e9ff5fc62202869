// Package guard decides whether a requested portal path may be shown for the
// current session. It is a navigation aid for clients; the backend enforces
// authorization on every request.
package guard

import (
	"slices"

	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/pkg/portalsdk"
)

// Decision is the outcome of evaluating one navigation.
type Decision int

const (
	Proceed Decision = iota
	Wait
	RedirectLogin
	RedirectPaymentRequired
	RedirectUnauthorized
	// Redirect sends the caller to Result.Location without a guard reason,
	// used for aliases and dashboard fallbacks.
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Wait:
		return "wait"
	case RedirectLogin:
		return "redirect_login"
	case RedirectPaymentRequired:
		return "redirect_payment_required"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

const (
	PathRoot             = "/"
	PathLogin            = "/login"
	PathUnauthorized     = "/unauthorized"
	PathPremiumPayment   = "/premium-payment"
	PathPremiumRequired  = "/premium-required"
	PathPremium          = "/premium"
	PathStudentJobs      = "/student/jobs"
	PathStudentDashboard = "/student-dashboard"
	PathCPJobs           = "/cp/jobs"
	PathAdminProfile     = "/admin/profile"
)

// PaymentPaths are reachable by a student without premium.
var PaymentPaths = []string{PathPremiumPayment, PathPremiumRequired, PathPremium}

// Subject is what the guard knows about the viewer.
type Subject struct {
	Loading       bool
	Token         string
	Role          portalsdk.Role
	PremiumActive bool
}

// SubjectOf projects a container state onto a Subject.
func SubjectOf(s session.State) Subject {
	switch s.Phase {
	case session.Authenticating:
		return Subject{Loading: true}
	case session.Authenticated:
		return Subject{
			Token:         s.Session.Token,
			Role:          s.Session.Role(),
			PremiumActive: s.Session.PremiumActive(),
		}
	default:
		return Subject{}
	}
}

// Result is a Decision plus where to go.
type Result struct {
	Decision Decision

	// Location is the redirect target, empty for Proceed and Wait.
	Location string

	// ReturnTo is the originally requested path, set for RedirectLogin.
	ReturnTo string
}

// Evaluate applies the navigation rules to one path. A nil allowed list
// means any authenticated role may view the path. Rules are checked in
// order and the first match wins.
func Evaluate(sub Subject, path string, allowed []portalsdk.Role) Result {
	switch {
	case sub.Loading:
		return Result{Decision: Wait}

	case sub.Token == "":
		return Result{Decision: RedirectLogin, Location: PathLogin, ReturnTo: path}

	case sub.Role == portalsdk.RoleStudent && !sub.PremiumActive && !slices.Contains(PaymentPaths, path):
		return Result{Decision: RedirectPaymentRequired, Location: PathPremiumPayment}

	case allowed != nil && !slices.Contains(allowed, sub.Role):
		return Result{Decision: RedirectUnauthorized, Location: PathUnauthorized}
	}

	return Result{Decision: Proceed}
}

// DefaultDashboard is the landing path for role.
func DefaultDashboard(role portalsdk.Role, premium bool) string {
	switch role {
	case portalsdk.RoleStudent:
		if !premium {
			return PathPremiumPayment
		}
		return PathStudentJobs
	case portalsdk.RoleCPH, portalsdk.RoleStaff:
		return PathCPJobs
	case portalsdk.RoleAdmin, portalsdk.RoleSrotsDev:
		return PathAdminProfile
	default:
		return PathLogin
	}
}
