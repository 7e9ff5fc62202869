package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/srots/portal/api/devapi" // Swagger docs
	"github.com/srots/portal/internal/devapi/service"
	"github.com/srots/portal/internal/guard"
	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
	httpSwagger "github.com/swaggo/http-swagger"
)

// APIPrefix is the base path of every portal endpoint.
const APIPrefix = "/api/v1"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	registry     *prometheus.Registry

	StrictLimit   httpx.Limit
	ModerateLimit httpx.Limit

	AuthService      *service.AuthService
	RecoveryService  *service.RecoveryService
	PremiumService   *service.PremiumService
	AnalyticsService *service.AnalyticsService
}

func NewRouter(buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		registry:     prometheus.NewRegistry(),

		StrictLimit:   httpx.StrictLimit,
		ModerateLimit: httpx.ModerateLimit,
	}

	metrics := NewMetrics()
	metrics.MustRegister(r.registry)

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.Middleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPremium()
	r.registerUsers()
	r.registerAnalytics()
	r.registerCompanies()
	r.registerSystem()
	r.registerPortal()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			SROTS Portal Development API
//	@version		0.1.0
//	@description	Local stand-in for the SROTS placement portal backend: login, password recovery,
//	@description	premium activation and the profile and analytics reads used by the portal client.
//
//	@contact.name				SROTS Platform Team
//
//	@host						localhost:8081
//	@BasePath					/api/v1
//
//	@schemes					http
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from /auth/login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authenticated(h http.Handler, roles ...portalsdk.Role) http.Handler {
	mws := []httpx.Middleware{httpx.AuthnMiddleware(r.AuthService)}
	if len(roles) > 0 {
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		mws = append(mws, httpx.RequireAnyRole(names...))
	}
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, RecoveryService: r.RecoveryService}

	// POST /auth/login - strict rate limit by IP (brute force)
	r.Mux.Handle("POST "+APIPrefix+"/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)

	// POST /auth/forgot-password - strict, keyed on the address being reset
	r.Mux.Handle("POST "+APIPrefix+"/auth/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			httpx.RateLimitByIPAndQuery(r.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("POST "+APIPrefix+"/auth/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIP(r.ModerateLimit),
		),
	)
}

func (r *Router) registerPremium() {
	h := &PremiumHandler{PremiumService: r.PremiumService}

	r.Mux.Handle("POST "+APIPrefix+"/premium/subscribe",
		httpx.Chain(r.authenticated(http.HandlerFunc(h.HandleSubscribe), portalsdk.RoleStudent),
			httpx.RateLimitByIP(r.ModerateLimit),
		),
	)
	r.Mux.Handle("POST "+APIPrefix+"/premium/create-order",
		httpx.Chain(r.authenticated(http.HandlerFunc(h.HandleCreateOrder), portalsdk.RoleStudent),
			httpx.RateLimitByIP(r.ModerateLimit),
		),
	)

	// Provider callback, authenticated by its signature header
	r.Mux.Handle("POST "+APIPrefix+"/premium/webhook", http.HandlerFunc(h.HandleWebhook))
}

func (r *Router) registerPortal() {
	h := &PortalHandler{AuthService: r.AuthService}

	r.Mux.Handle("GET "+PortalPrefix+"/",
		http.StripPrefix(PortalPrefix,
			guard.Middleware(guard.DefaultTable(), h.Subject)(http.HandlerFunc(h.HandlePage)),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{AuthService: r.AuthService}

	r.Mux.Handle("GET "+APIPrefix+"/users/{id}", r.authenticated(http.HandlerFunc(h.HandleGet)))
}

func (r *Router) registerAnalytics() {
	h := &AnalyticsHandler{AnalyticsService: r.AnalyticsService}

	r.Mux.Handle("GET "+APIPrefix+"/analytics/overview",
		r.authenticated(http.HandlerFunc(h.HandleOverview),
			portalsdk.RoleCPH, portalsdk.RoleStaff, portalsdk.RoleAdmin, portalsdk.RoleSrotsDev,
		),
	)
	r.Mux.Handle("GET "+APIPrefix+"/analytics/system",
		r.authenticated(http.HandlerFunc(h.HandleSystem), portalsdk.RoleAdmin, portalsdk.RoleSrotsDev),
	)
}

func (r *Router) registerCompanies() {
	h := &CompaniesHandler{AuthService: r.AuthService}

	r.Mux.Handle("GET "+APIPrefix+"/companies", r.authenticated(http.HandlerFunc(h.HandleList)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
