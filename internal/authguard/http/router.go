package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/authguard/internal/authguard/metrics"
	"github.com/aussiebroadwan/authguard/internal/authguard/service"
	"github.com/aussiebroadwan/authguard/internal/authguard/store"
	"github.com/aussiebroadwan/authguard/pkg/httpx"
	"github.com/aussiebroadwan/authguard/pkg/jwtx"
	"github.com/aussiebroadwan/authguard/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/aussiebroadwan/authguard/api/authguard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	gatherer     prometheus.Gatherer

	store       store.Store
	AuthService *service.AuthService
	MFAService  *service.MFAService
}

// NewRouter builds a router. m may be nil to disable metrics; gatherer may
// be nil to leave /metrics unregistered.
func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		gatherer:     gatherer,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger, m.ObserveHTTP),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMFA()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			authguard API
//	@version		0.1.0
//	@description	Password login, JWT sessions and TOTP multi-factor authentication with single-use backup codes.
//	@description
//	@description				Tokens are HS256 JWTs. Temporary tokens returned by login for MFA users are only accepted by /v1/auth/mfa/verify.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.HandleFunc("POST /v1/auth/register", h.HandleRegister)
	r.Mux.HandleFunc("POST /v1/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /v1/auth/mfa/verify", h.HandleVerifyMFA)
	r.Mux.HandleFunc("POST /v1/auth/refresh", h.HandleRefresh)

	r.Mux.Handle("GET /v1/auth/me", httpx.Chain(http.HandlerFunc(h.HandleMe),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireMFAVerified,
	))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	// Enrollment only needs a session: before MFA is on there is no second
	// factor to demand.
	session := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.AuthnMiddleware(r.verifier))
	}
	verified := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.AuthnMiddleware(r.verifier), httpx.RequireMFAVerified)
	}

	r.Mux.Handle("GET /v1/auth/mfa/status", session(h.HandleStatus))
	r.Mux.Handle("POST /v1/auth/mfa/setup", session(h.HandleSetup))
	r.Mux.Handle("POST /v1/auth/mfa/enable", session(h.HandleEnable))
	r.Mux.Handle("POST /v1/auth/mfa/disable", verified(h.HandleDisable))
	r.Mux.Handle("POST /v1/auth/mfa/backup-codes/regenerate", verified(h.HandleRegenerateBackupCodes))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.gatherer))
	}
}
