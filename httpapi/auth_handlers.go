package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wayanadconnect/auth"
	"wayanadconnect/incident"
)

// authHandler owns the credential and session endpoints. It composes the auth
// service with incident stats because login, me, and profile responses all
// carry a freshly computed stats snapshot.
type authHandler struct {
	auth      *auth.Service
	incidents *incident.Service
}

// accountResponse is the public wire shape of an account. Token and Stats are
// attached only by the endpoints that issue them.
type accountResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	Location    *string         `json:"location,omitempty"`
	Role        auth.Role       `json:"role"`
	Token       string          `json:"token,omitempty"`
	Stats       *incident.Stats `json:"stats,omitempty"`
}

func newAccountResponse(account auth.Account) accountResponse {
	return accountResponse{
		ID:          account.ID,
		Name:        account.Name,
		Email:       account.Email,
		PhoneNumber: account.PhoneNumber,
		Location:    account.Location,
		Role:        account.Role,
	}
}

func (h *authHandler) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/v1/auth/me", requireAuth(h.auth, h.handleMe))
	mux.HandleFunc("PUT /api/v1/auth/profile", requireAuth(h.auth, h.handleUpdateProfile))
	mux.HandleFunc("PUT /api/v1/auth/update-password", requireAuth(h.auth, h.handleUpdatePassword))
}

func (h *authHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.auth.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, auth.ErrInvalidUserData):
			writeError(w, http.StatusBadRequest, "Invalid user data")
		default:
			slog.Error("register", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to register")
		}
		return
	}

	resp := newAccountResponse(session.Account)
	resp.Token = session.Token
	writeJSON(w, http.StatusCreated, resp)
}

func (h *authHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		slog.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	stats, err := h.incidents.StatsFor(r.Context(), session.Account.ID)
	if err != nil {
		slog.Error("login stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	resp := newAccountResponse(session.Account)
	resp.Token = session.Token
	resp.Stats = &stats
	writeJSON(w, http.StatusOK, resp)
}

func (h *authHandler) handleMe(w http.ResponseWriter, r *http.Request, caller auth.Account) {
	stats, err := h.incidents.StatsFor(r.Context(), caller.ID)
	if err != nil {
		slog.Error("me stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	resp := newAccountResponse(caller)
	resp.Stats = &stats
	writeJSON(w, http.StatusOK, resp)
}

func (h *authHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request, caller auth.Account) {
	var update auth.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.auth.UpdateProfile(r.Context(), caller.ID, update)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordImmutable):
			writeError(w, http.StatusBadRequest, "Password cannot be updated here")
		case errors.Is(err, auth.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, auth.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User already exists")
		default:
			slog.Error("update profile", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	stats, err := h.incidents.StatsFor(r.Context(), session.Account.ID)
	if err != nil {
		slog.Error("profile stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	resp := newAccountResponse(session.Account)
	resp.Token = session.Token
	resp.Stats = &stats
	writeJSON(w, http.StatusOK, resp)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *authHandler) handleUpdatePassword(w http.ResponseWriter, r *http.Request, caller auth.Account) {
	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), caller.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid current password")
		case errors.Is(err, auth.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			slog.Error("update password", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update password")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Password updated successfully")
}
