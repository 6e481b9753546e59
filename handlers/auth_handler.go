package handlers

import (
	"net/http"
	"time"

	"github.com/maxesports/esports-hub/contract"
	"github.com/maxesports/esports-hub/middleware"
	"github.com/maxesports/esports-hub/models"
	"github.com/maxesports/esports-hub/services"
)

type AuthHandler struct {
	authService   services.AuthService
	secureCookies bool
}

func NewAuthHandler(as services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: as, secureCookies: secureCookies}
}

// LoginHandler handles POST /api/login: exchanges credentials for a session
// cookie.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if fieldErr := contract.Validate(&creds); fieldErr != nil {
		failedValidationResponse(w, r, fieldErr)
		return
	}

	user, token, err := h.authService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LogoutHandler handles POST /api/logout: clears the session cookie.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// GetUserHandler handles GET /api/auth/user: the identity behind the
// current session.
func (h *AuthHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	user, err := h.authService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
