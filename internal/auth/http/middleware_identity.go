package http

import (
	"context"
	"net/http"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
	"github.com/Jexxer/warframe-checklist/pkg/slogx"
)

type identityKey struct{}

// IdentityFromContext returns the user resolved by IdentityMiddleware.
func IdentityFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(identityKey{}).(domain.User)
	return user, ok
}

// IdentityMiddleware requires an active session. The cookie token is
// resolved through the request connection; failures end the request with
// 401 or 403.
func IdentityMiddleware(cookies *httpx.CookieTransport, resolver *service.IdentityResolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token, err := cookies.Extract(r)
			if err != nil {
				authsdk.ErrInvalidCredentials.WriteError(w)
				return
			}

			conn, ok := requestConn(w, r)
			if !ok {
				return
			}

			user, err := resolver.Resolve(ctx, conn.Users(), token)
			if err != nil {
				log.Info("identity rejected", "err", err)
				writeServiceError(w, r, err)
				return
			}

			ctx = context.WithValue(ctx, identityKey{}, user)
			ctx = httpx.WithUserID(ctx, user.Username)
			ctx = slogx.WithAttrs(ctx, "user_id", user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
