package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	CustomerIDKey  contextKey = "customerID"
	TokenClaimsKey contextKey = "jwtClaims"
)

var jwtKey = []byte(os.Getenv("SECRET_KEY"))

// AuthMiddleware resolves the authenticated customer from a bearer token.
// Requests without a valid token pass through anonymously; the card and
// subscription handlers reject them individually.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})

		if err != nil || !token.Valid {
			next.ServeHTTP(w, r)
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			ctx := context.WithValue(r.Context(), TokenClaimsKey, claims)
			if customerID, ok := claims["customer_id"].(float64); ok {
				ctx = context.WithValue(ctx, CustomerIDKey, uint(customerID))
			}
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// CustomerIDFromContext returns the authenticated customer id, if any.
func CustomerIDFromContext(ctx context.Context) (uint, bool) {
	customerID, ok := ctx.Value(CustomerIDKey).(uint)
	return customerID, ok
}
