package guard

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/slogx"
)

// ReturnToParam carries the originally requested path on login redirects.
const ReturnToParam = "returnTo"

// waitRetryAfter is sent while a login is in flight.
const waitRetryAfter = 1

// SubjectFunc reports who is making r.
type SubjectFunc func(r *http.Request) Subject

// Middleware applies t to every request for hosts that render portal pages
// server side. Redirects use 303 so that a POST is not replayed.
func Middleware(t *Table, subject SubjectFunc) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := t.Resolve(subject(r), r.URL.Path)

			switch res.Decision {
			case Proceed:
				next.ServeHTTP(w, r)
				return

			case Wait:
				w.Header().Set("Retry-After", strconv.Itoa(waitRetryAfter))
				httpx.WriteError(w, http.StatusServiceUnavailable, "Signing you in. Please wait.")
				return
			}

			slogx.FromContext(r.Context()).Debug("guard redirect",
				slog.String("path", r.URL.Path),
				slog.String("decision", res.Decision.String()),
				slog.String("location", res.Location),
			)
			http.Redirect(w, r, res.URL(), http.StatusSeeOther)
		})
	}
}

// URL renders Location with ReturnTo as a query parameter.
func (r Result) URL() string {
	if r.ReturnTo == "" {
		return r.Location
	}
	return r.Location + "?" + url.Values{ReturnToParam: {r.ReturnTo}}.Encode()
}
