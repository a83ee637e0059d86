package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type contextKey string

const subjectKey contextKey = "subject"

// RequireAuth rejects requests without a valid HS256 bearer token signed
// with secret. The token subject is stored on the request context.
func RequireAuth(secret []byte) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "Authorization header required"})
				return
			}
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "Bearer token required"})
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "Invalid token"})
				return
			}

			subject, _ := token.Claims.GetSubject()
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
		})
	}
}

// Subject returns the authenticated token subject, if any.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}
