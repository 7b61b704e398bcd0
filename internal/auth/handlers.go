package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/cookies"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleLogin starts the OAuth flow by redirecting to the provider.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "oauth_login")

	if !h.service.Provider().Configured() {
		response.Error(w, r, logger, errors.External("OAuth is not properly configured"))
		return
	}

	redirectURI := resolveRedirectURI(r.URL.Query().Get("redirect_uri"))

	state, err := GenerateOAuthState(r.UserAgent(), redirectURI)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to initialize OAuth flow", err))
		return
	}

	http.Redirect(w, r, h.service.Provider().AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow, issues the session cookie
// and redirects back to the frontend.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	logger := slog.With(
		"handler", "oauth_callback",
		"user_agent", r.UserAgent(),
		"ip", r.RemoteAddr,
		"has_code", code != "",
		"has_state", state != "",
	)

	// Recover the redirect URI from state even in early-exit cases;
	// falls back to the frontend URL when state is missing or invalid.
	redirectURI := ""
	if state != "" {
		if entry, err := ValidateOAuthState(state, r.UserAgent()); err == nil {
			redirectURI = entry.RedirectURI
		}
	}

	if errorParam != "" {
		logger.Warn("OAuth authorization denied",
			"oauth_error", errorParam,
			"error_description", r.URL.Query().Get("error_description"))
		redirectWithError(w, r, redirectURI, "oauth_denied")
		return
	}

	if code == "" {
		logger.Error("OAuth callback missing authorization code")
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	user, err := h.service.Authenticate(ctx, code)
	if err != nil {
		logger.Error("OAuth authentication failed", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	token, err := GenerateJWT(user)
	if err != nil {
		logger.Error("Failed to generate JWT token", "error", err, "user_id", user.ID)
		redirectWithError(w, r, redirectURI, "auth_error")
		return
	}

	cookies.SetAuthCookie(w, token)

	logger.Info("OAuth authentication successful",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role)

	successURL := fmt.Sprintf("%s/auth/callback?success=true", resolveRedirectURI(redirectURI))
	http.Redirect(w, r, successURL, http.StatusTemporaryRedirect)
}

// HandleLogout clears the session cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "logout")

	cookies.ClearAuthCookie(w)
	logger.Debug("Auth cookie cleared")

	response.Success(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// HandleMe returns the authenticated user's account.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request, claims *Claims) {
	logger := slog.With("handler", "me", "user_id", claims.UserID)

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, user)
}

// resolveRedirectURI only honors redirect targets on the configured
// frontend origin; anything else falls back to the frontend URL.
func resolveRedirectURI(requested string) string {
	frontendURL := config.GlobalConfig.Frontend.URL
	if requested == "" || !strings.HasPrefix(requested, frontendURL) {
		return frontendURL
	}
	return requested
}

// redirectWithError redirects to frontend with error parameters
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	errorURL := fmt.Sprintf("%s/auth/error?error=%s",
		resolveRedirectURI(redirectURI), errorType)

	http.Redirect(w, r, errorURL, http.StatusTemporaryRedirect)
}
