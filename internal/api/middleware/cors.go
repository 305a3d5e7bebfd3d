package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// devOrigins are the local UI dev servers allowed outside production
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS allows the alert UI to call the API with the access token cookie.
// Only the methods the API routes use are allowed.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			RequestIDHeader,
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// CORSForEnvironment builds the origin list from a comma-separated
// frontendURLs value, adding the local dev servers unless running in
// production.
func CORSForEnvironment(frontendURLs, environment string) func(http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(frontendURLs, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if environment != "production" {
		origins = append(origins, devOrigins...)
	}
	return CORS(origins)
}
