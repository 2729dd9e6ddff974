package http

import (
	"net/http"

	"github.com/Jexxer/warframe-checklist/internal/auth/store"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
	"github.com/Jexxer/warframe-checklist/pkg/slogx"
)

// ConnMiddleware checks a connection out of st for the lifetime of the
// request and releases it on every exit path, panics included.
func ConnMiddleware(st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := st.Acquire(r.Context())
			if err != nil {
				slogx.FromContext(r.Context()).Error("acquire connection", "err", err)
				authsdk.ErrServerError.WriteError(w)
				return
			}
			defer conn.Release()

			next.ServeHTTP(w, r.WithContext(store.WithConn(r.Context(), conn)))
		})
	}
}

// requestConn returns the connection installed by ConnMiddleware.
func requestConn(w http.ResponseWriter, r *http.Request) (store.Conn, bool) {
	conn, ok := store.ConnFromContext(r.Context())
	if !ok {
		slogx.FromContext(r.Context()).Error("no connection on request context")
		authsdk.ErrServerError.WriteError(w)
		return nil, false
	}
	return conn, true
}
