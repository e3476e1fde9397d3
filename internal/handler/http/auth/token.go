package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"tnsystems-site/internal/handler/http/requestid"
	"tnsystems-site/internal/handler/http/respond"
	authservice "tnsystems-site/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL applies when TokenHandler is given a non-positive TTL.
const DefaultTokenTTL = time.Hour

type loginRequest struct {
	Email    string `json:"email" example:"editor@tnsystems.example"`
	Password string `json:"password" example:"your_password"`
}

type tokenResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Role      string `json:"role" example:"editor"`
	ExpiresAt int64  `json:"expires_at" example:"1735689600"`
}

// TokenHandler exchanges email and password for a signed HS256 JWT.
//
// @Summary      Issue JWT
// @Description  Authenticates an admin or editor and returns a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credentials"
// @Success      200 {object} tokenResponse
// @Failure      400 {object} map[string]string "Malformed request"
// @Failure      401 {object} map[string]string "Invalid credentials"
// @Failure      429 {object} map[string]string "Too many attempts"
// @Router       /auth/token [post]
func TokenHandler(authService *authservice.Service, ttl time.Duration) http.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		fail := func(outcome, reason string, code int, msg string) {
			logger.Warn("authentication failed",
				slog.String("reason", reason),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			observeToken("", outcome, start)
			respond.JSON(w, code, map[string]string{"error": msg})
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(outcomeInvalid, "invalid_request", http.StatusBadRequest, "invalid request")
			return
		}

		id, err := authService.Login(r.Context(), authservice.Credentials{Username: req.Email, Password: req.Password})
		if err != nil {
			reason := "invalid_credentials"
			if errors.Is(err, authservice.ErrNoRole) {
				reason = "role_identification_failed"
			}
			fail(outcomeDenied, reason, http.StatusUnauthorized, "unauthorized")
			return
		}
		role := id.Role

		expiresAt := time.Now().Add(ttl)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  id.Subject,
			"role": role,
			"iat":  time.Now().Unix(),
			"exp":  expiresAt.Unix(),
		})
		signed, err := token.SignedString([]byte(os.Getenv(JWTSecretEnv)))
		if err != nil {
			logger.Error("token generation failed", slog.Any("error", err))
			observeToken(role, outcomeError, start)
			respond.JSON(w, http.StatusInternalServerError, map[string]string{"error": "token generation failed"})
			return
		}

		logger.Info("authentication successful",
			slog.String("user", id.Subject),
			slog.String("role", role),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		observeToken(role, outcomeIssued, start)

		respond.JSON(w, http.StatusOK, tokenResponse{Token: signed, Role: role, ExpiresAt: expiresAt.Unix()})
	}
}
