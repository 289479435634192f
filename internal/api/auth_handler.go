package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/service/auth"
	"github.com/famsync/famsync-api/internal/store"
)

// refreshCookieName is the cookie carrying the opaque refresh token.
const refreshCookieName = "refresh_token"

// refreshCookiePath scopes the cookie to the auth endpoints so it never
// rides along on ordinary API calls.
const refreshCookiePath = "/api/auth"

// AuthHandler serves registration, login, token refresh, logout, and the
// session check.
type AuthHandler struct {
	sessions     *auth.SessionService
	users        store.UserStore
	validate     *validator.Validate
	cookieSecure bool
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(sessions *auth.SessionService, users store.UserStore, validate *validator.Validate, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		users:        users,
		validate:     validate,
		cookieSecure: cookieSecure,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	user, err := h.sessions.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, user, "user registered")
}

// Login handles POST /api/auth/login. The access token goes in the body,
// the refresh token in an HTTP-only cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	_, pair, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair)
	shared.RespondWithData(w, r, http.StatusOK, newTokenResponse(pair), "login successful")
}

// Refresh handles POST /api/auth/refresh. The presented refresh token is
// rotated: revoked and replaced in one step.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "missing refresh token")
		return
	}

	pair, err := h.sessions.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.clearRefreshCookie(w)
		respondServiceError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair)
	shared.RespondWithData(w, r, http.StatusOK, newTokenResponse(pair), "token refreshed")
}

// Logout handles POST /api/auth/logout. Logging out without a cookie, or
// twice with the same one, still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}

	if err := h.sessions.Logout(r.Context(), token); err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.clearRefreshCookie(w)
	shared.RespondWithData(w, r, http.StatusOK, nil, "logged out")
}

// Session handles GET /api/auth/session-check. It runs behind the auth
// middleware, so reaching it proves the access token; the body carries the
// account it belongs to.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, user, "session valid")
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, pair *auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     refreshCookiePath,
		Expires:  pair.ExpiresAt,
		MaxAge:   int(time.Until(pair.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
