package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/donan22/shortlink-service/internal/config"
	"github.com/donan22/shortlink-service/internal/delivery/http/middleware"
	"github.com/donan22/shortlink-service/internal/infrastructure/metrics"
	"github.com/donan22/shortlink-service/internal/usecase"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters for the stored admin password hash.
const (
	argonMemory  = 64 * 1024
	argonTime    = 4
	argonThreads = 1
	argonSaltLen = 16
	argonKeyLen  = 32
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type AuthHandler struct {
	securityUsecase usecase.SecurityUsecase
	admin           config.Admin
	metrics         *metrics.LinkMetrics
	logger          *slog.Logger
}

func NewAuthHandler(securityUsecase usecase.SecurityUsecase, admin config.Admin, linkMetrics *metrics.LinkMetrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		securityUsecase: securityUsecase,
		admin:           admin,
		metrics:         linkMetrics,
		logger:          logger,
	}
}

// Login handles POST /admin/login. The soft throttle runs before
// credentials are verified; the hard ban list is enforced by the
// IPBan middleware ahead of this handler.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := middleware.ClientIP(r)

	allowed, _ := h.securityUsecase.CheckLoginAttempts(r.Context(), ip)
	if !allowed {
		h.countLogin("throttled")
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many failed attempts"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	success := h.verifyCredentials(req.Username, req.Password)
	if err := h.securityUsecase.LogLoginAttempt(r.Context(), ip, req.Username, success, r.UserAgent()); err != nil {
		h.logger.Error("failed to record login attempt", "ip", ip, "error", err.Error())
	}

	if !success {
		h.handleFailedLogin(r, ip)
		h.countLogin("failure")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	token, err := middleware.IssueAdminToken(req.Username, h.admin.JWTSecret, h.admin.TokenTTL)
	if err != nil {
		h.logger.Error("failed to issue admin token", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "login failed"})
		return
	}

	h.countLogin("success")
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *AuthHandler) verifyCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.admin.Username)) == 1
	passOK := verifyPassword(password, h.admin.PasswordHash)
	return userOK && passOK
}

// HashAdminPassword produces an encoded argon2id hash for the admin
// password_hash config value.
func HashAdminPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// verifyPassword checks a password against an encoded argon2id hash.
// Anything malformed simply fails verification.
func verifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// handleFailedLogin consults the auto-ban engine after a failure and
// escalates to a hard ban once the threshold is crossed.
func (h *AuthHandler) handleFailedLogin(r *http.Request, ip string) {
	ctx := r.Context()

	settings := h.securityUsecase.GetSettings(ctx)
	if !settings.Enabled {
		return
	}

	check, err := h.securityUsecase.CheckAutoBan(ctx, ip)
	if err != nil || !check.ShouldBan {
		return
	}

	if err := h.securityUsecase.AutoBanIP(ctx, ip, ""); err == nil {
		if h.metrics != nil {
			h.metrics.AutoBansTotal.Inc()
		}
	}
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}
