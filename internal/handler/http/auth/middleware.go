package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"tnsystems-site/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSecretEnv names the environment variable holding the HS256 signing key.
const JWTSecretEnv = "JWT_SECRET"

type ctxKey string

const (
	ctxUser ctxKey = "user"
	ctxRole ctxKey = "role"
)

// UserFromContext returns the authenticated subject and role set by Authz.
func UserFromContext(ctx context.Context) (user, role string, ok bool) {
	user, ok = ctx.Value(ctxUser).(string)
	if !ok {
		return "", "", false
	}
	role, _ = ctx.Value(ctxRole).(string)
	return user, role, true
}

// Authz guards an admin route. It requires a valid bearer JWT whose role may
// call the request's method and path, and stores the subject and role in the
// request context. Public routes are registered without it.
func Authz(next http.Handler) http.Handler {
	secret := []byte(os.Getenv(JWTSecretEnv))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		user, role, err := validateJWT(r.Header.Get("Authorization"), secret)
		if err != nil {
			observeAuthz("", r.Method, decisionNoToken, start)
			w.Header().Set("WWW-Authenticate", `Bearer realm="tnsystems-site"`)
			respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
			return
		}

		if !checkRolePermission(role, r.Method, r.URL.Path) {
			observeAuthz(role, r.Method, decisionForbid, start)
			slog.Default().Warn("forbidden request",
				slog.String("user", user),
				slog.String("role", role),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))
			respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
			return
		}

		observeAuthz(role, r.Method, decisionAllow, start)
		ctx := context.WithValue(r.Context(), ctxUser, user)
		ctx = context.WithValue(ctx, ctxRole, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validateJWT(authz string, secret []byte) (string, string, error) {
	tokenString, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || tokenString == "" {
		return "", "", errors.New("missing bearer token")
	}
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", errors.New("token expired")
		}
		return "", "", errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", "", errors.New("invalid sub claim")
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", "", errors.New("invalid role claim")
	}
	return sub, role, nil
}
