package httpx

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS lets the listed browser origins call the API with credentials so the
// session cookie travels on cross-origin requests.
func CORS(allowedOrigins []string) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler
}
