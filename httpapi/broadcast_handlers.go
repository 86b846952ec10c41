package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"wayanadconnect/auth"
	"wayanadconnect/broadcast"
)

type broadcastHandler struct {
	auth       *auth.Service
	broadcasts *broadcast.Service
}

type broadcastResponse struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Severity    broadcast.Severity `json:"severity"`
	Location    string             `json:"location"`
	Message     string             `json:"message"`
	IsAuthority bool               `json:"isAuthority"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func newBroadcastResponse(alert broadcast.Alert) broadcastResponse {
	return broadcastResponse{
		ID:          alert.ID,
		Type:        alert.Type,
		Severity:    alert.Severity,
		Location:    alert.Location,
		Message:     alert.Message,
		IsAuthority: alert.IsAuthority,
		CreatedAt:   alert.CreatedAt,
	}
}

func (h *broadcastHandler) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/broadcasts", h.handleList)
	mux.HandleFunc("POST /api/v1/broadcasts", requireAuth(h.auth, h.handleCreate))
}

type createBroadcastRequest struct {
	Type     string             `json:"type"`
	Severity broadcast.Severity `json:"severity"`
	Location string             `json:"location"`
	Message  string             `json:"message"`
}

func (h *broadcastHandler) handleCreate(w http.ResponseWriter, r *http.Request, caller auth.Account) {
	var req createBroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	alert, err := h.broadcasts.Create(r.Context(), caller.Role, broadcast.CreateParams{
		Type:     req.Type,
		Severity: req.Severity,
		Location: req.Location,
		Message:  req.Message,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, newBroadcastResponse(alert))
}

func (h *broadcastHandler) handleList(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.broadcasts.List(r.Context())
	if err != nil {
		slog.Error("list broadcasts", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch broadcasts")
		return
	}

	out := make([]broadcastResponse, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, newBroadcastResponse(alert))
	}
	writeJSON(w, http.StatusOK, out)
}
