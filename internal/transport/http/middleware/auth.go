package middleware

import (
	"context"
	"net/http"
	"strings"

	"timetrack/internal/auth"
	"timetrack/internal/requestctx"
)

// Auth resolves a bearer token into the request identity. Requests without a
// valid token pass through anonymous; the role gates decide what needs one.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithIdentity(r.Context(), requestctx.Identity{
				UserID: claims.UserID,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetIdentity(ctx context.Context) (requestctx.Identity, bool) {
	return requestctx.GetIdentity(ctx)
}
