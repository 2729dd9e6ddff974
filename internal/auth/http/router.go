package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Jexxer/warframe-checklist/api/docs" // Swagger docs
	"github.com/Jexxer/warframe-checklist/internal/auth/revocation"
	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
	"github.com/Jexxer/warframe-checklist/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	cookies *httpx.CookieTransport

	AuthService *service.AuthService
	Resolver    *service.IdentityResolver
	Codec       *jwtx.Codec
	Revocations revocation.List

	// Optional. Nil limiters leave the endpoint unthrottled.
	LoginLimiter    *httpx.RateLimiter
	RegisterLimiter *httpx.RateLimiter
	// SessionLimiter runs after identity resolution, so it can key on the user.
	SessionLimiter *httpx.RateLimiter

	// CORSOrigins lists browser origins allowed to send the session cookie.
	CORSOrigins []string

	// IsDevelopment relaxes the security headers for local work.
	IsDevelopment bool
}

func NewRouter(
	buildVersion string,
	st store.Store,
	cookies *httpx.CookieTransport,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookies:      cookies,
		logger:       logger,
		Revocations:  revocation.Noop{},
	}
}

// ApplyRoutes registers every endpoint and builds the global middleware
// chain. Call it once, after the exported fields are set.
func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.SecureHeaders(r.IsDevelopment),
	}
	if len(r.CORSOrigins) > 0 {
		r.middlewares = append(r.middlewares, httpx.CORS(r.CORSOrigins))
	}

	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Warframe Checklist API
//	@version		0.1.0
//	@description	Account and session endpoints for the Warframe checklist app.
//	@description
//	@description	Sessions are HS256 JWTs carried in the HttpOnly access_token cookie as "Bearer <token>".
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	conn := ConnMiddleware(r.store)
	identity := IdentityMiddleware(r.cookies, r.Resolver)

	login := &LoginHandler{AuthService: r.AuthService, Cookies: r.cookies}
	loginChain := httpx.Chain(login, r.limit(r.LoginLimiter), conn)
	r.Mux.Handle("POST /token", loginChain)
	r.Mux.Handle("POST /token/{$}", loginChain)

	r.Mux.Handle("GET /token/{$}",
		httpx.Chain(http.HandlerFunc(TokenCheckHandler), conn, identity, r.limit(r.SessionLimiter)),
	)

	register := &RegisterHandler{AuthService: r.AuthService, Cookies: r.cookies}
	registerChain := httpx.Chain(register, r.limit(r.RegisterLimiter), conn)
	r.Mux.Handle("POST /register", registerChain)
	r.Mux.Handle("POST /register/{$}", registerChain)

	logout := &LogoutHandler{AuthService: r.AuthService, Codec: r.Codec, Cookies: r.cookies}
	r.Mux.Handle("POST /logout", logout)
}

func (r *Router) registerUsers() {
	r.Mux.Handle("GET /users/me/{$}",
		httpx.Chain(http.HandlerFunc(UsersMeHandler),
			ConnMiddleware(r.store),
			IdentityMiddleware(r.cookies, r.Resolver),
			r.limit(r.SessionLimiter),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Revocations))
}

func (r *Router) limit(rl *httpx.RateLimiter) httpx.Middleware {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware()
}
