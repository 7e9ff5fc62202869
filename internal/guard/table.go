package guard

import (
	"strings"

	"github.com/srots/portal/pkg/portalsdk"
)

// Route is one entry of a route table. Pattern is an exact path, or a prefix
// when it ends in "/*".
type Route struct {
	Pattern string

	// Allowed restricts the route to these roles. Nil admits any
	// authenticated role.
	Allowed []portalsdk.Role

	// Public routes are shown without a session.
	Public bool

	// Alias, when set, sends the viewer to another path.
	Alias string
}

func (r Route) match(path string) bool {
	prefix, ok := strings.CutSuffix(r.Pattern, "/*")
	if !ok {
		return path == r.Pattern
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Table resolves paths against a list of routes. Exact patterns beat
// prefixes, and longer prefixes beat shorter ones.
type Table struct {
	routes []Route
}

func NewTable(routes ...Route) *Table {
	return &Table{routes: routes}
}

var (
	adminRoles   = []portalsdk.Role{portalsdk.RoleAdmin, portalsdk.RoleSrotsDev}
	cpRoles      = []portalsdk.Role{portalsdk.RoleCPH, portalsdk.RoleStaff}
	studentRoles = []portalsdk.Role{portalsdk.RoleStudent}
)

// DefaultTable is the portal's route table.
func DefaultTable() *Table {
	return NewTable(
		Route{Pattern: PathLogin, Public: true},
		Route{Pattern: PathUnauthorized, Public: true},
		Route{Pattern: PathStudentDashboard, Alias: PathStudentJobs},
		Route{Pattern: PathPremiumRequired, Alias: PathPremiumPayment},
		Route{Pattern: "/admin/*", Allowed: adminRoles},
		Route{Pattern: "/cp/*", Allowed: cpRoles},
		Route{Pattern: "/student/*", Allowed: studentRoles},
		Route{Pattern: PathPremiumPayment, Allowed: studentRoles},
		Route{Pattern: PathPremium, Allowed: studentRoles},
	)
}

// Match returns the route serving path.
func (t *Table) Match(path string) (Route, bool) {
	var (
		best  Route
		found bool
	)
	for _, r := range t.routes {
		if !r.match(path) {
			continue
		}
		if r.Pattern == path {
			return r, true
		}
		if !found || len(r.Pattern) > len(best.Pattern) {
			best, found = r, true
		}
	}
	return best, found
}

// Resolve decides what to show for path. The root and unknown paths land on
// the viewer's dashboard.
func (t *Table) Resolve(sub Subject, path string) Result {
	return t.resolve(sub, normalize(path), 0)
}

// maxAliasHops bounds alias chains in misconfigured tables.
const maxAliasHops = 4

func (t *Table) resolve(sub Subject, path string, hops int) Result {
	if sub.Loading {
		return Result{Decision: Wait}
	}

	route, ok := t.Match(path)
	if !ok {
		return t.dashboard(sub, path)
	}

	switch {
	case route.Alias != "" && hops < maxAliasHops:
		res := t.resolve(sub, route.Alias, hops+1)
		if res.Decision == Proceed {
			return Result{Decision: Redirect, Location: route.Alias}
		}
		return res

	case route.Public:
		if path == PathLogin && sub.Token != "" {
			return Result{Decision: Redirect, Location: DefaultDashboard(sub.Role, sub.PremiumActive)}
		}
		return Result{Decision: Proceed}
	}

	return Evaluate(sub, path, route.Allowed)
}

func (t *Table) dashboard(sub Subject, path string) Result {
	if sub.Token == "" {
		res := Result{Decision: RedirectLogin, Location: PathLogin}
		if path != PathRoot {
			res.ReturnTo = path
		}
		return res
	}
	return Result{Decision: Redirect, Location: DefaultDashboard(sub.Role, sub.PremiumActive)}
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return path
}
