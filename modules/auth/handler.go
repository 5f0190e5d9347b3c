package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukaanhq/dukaan/pkg/binder"
	"github.com/dukaanhq/dukaan/pkg/responder"
)

// Handler exposes the authentication endpoints. All routes are public; the
// rest of the API sits behind RequireAuth.
type Handler struct {
	svc *Service
}

// NewHandler creates the auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	if svc == nil {
		panic("auth: service is required")
	}
	return &Handler{svc: svc}
}

// Routes mounts the auth endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/google", h.google)
	r.Post("/refresh", h.refresh)
	r.Post("/logout", h.logout)
	return r
}

type authResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	User         *Account `json:"user"`
}

func toAuthResponse(result *Result) authResponse {
	return authResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		User:         result.Account,
	}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := binder.BindJSON(r, &req); err != nil {
		responder.BindError(w, err)
		return
	}

	result, err := h.svc.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	switch {
	case errors.Is(err, ErrEmailTaken):
		responder.Error(w, http.StatusConflict, "email_taken", "email already registered")
	case err != nil:
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not register account")
	default:
		responder.JSON(w, http.StatusCreated, toAuthResponse(result))
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := binder.BindJSON(r, &req); err != nil {
		responder.BindError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrPasswordSignInUnavailable):
		responder.Error(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
	case err != nil:
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not sign in")
	default:
		responder.JSON(w, http.StatusOK, toAuthResponse(result))
	}
}

type googleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

func (h *Handler) google(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := binder.BindJSON(r, &req); err != nil {
		responder.BindError(w, err)
		return
	}

	result, err := h.svc.GoogleSignIn(r.Context(), req.IDToken)
	switch {
	case errors.Is(err, ErrInvalidGoogleToken):
		responder.Error(w, http.StatusUnauthorized, "invalid_google_token", "google token failed validation")
	case err != nil:
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not sign in")
	default:
		responder.JSON(w, http.StatusOK, toAuthResponse(result))
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := binder.BindJSON(r, &req); err != nil {
		responder.BindError(w, err)
		return
	}

	result, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	switch {
	case errors.Is(err, ErrInvalidRefreshToken), errors.Is(err, ErrAccountNotFound):
		responder.Error(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token is unknown or expired")
	case err != nil:
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not refresh session")
	default:
		responder.JSON(w, http.StatusOK, toAuthResponse(result))
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := binder.BindJSON(r, &req); err != nil {
		responder.BindError(w, err)
		return
	}

	if err := h.svc.Logout(r.Context(), req.RefreshToken); err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not log out")
		return
	}
	responder.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
