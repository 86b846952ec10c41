package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"wayanadconnect/auth"
	"wayanadconnect/incident"
)

type incidentHandler struct {
	auth      *auth.Service
	incidents *incident.Service
}

type incidentResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Location    *string         `json:"location,omitempty"`
	Image       *string         `json:"image,omitempty"`
	Status      incident.Status `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func newIncidentResponse(report incident.Report) incidentResponse {
	return incidentResponse{
		ID:          report.ID,
		UserID:      report.OwnerID,
		Title:       report.Title,
		Description: report.Description,
		Category:    report.Category,
		Location:    report.Location,
		Image:       report.Image,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
	}
}

func (h *incidentHandler) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/incidents", requireAuth(h.auth, h.handleList))
	mux.HandleFunc("POST /api/v1/incidents", requireAuth(h.auth, h.handleCreate))
	mux.HandleFunc("GET /api/v1/incidents/{id}", h.handleGet)
	mux.HandleFunc("PATCH /api/v1/incidents/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/v1/incidents/{id}", h.handleDelete)
}

type createIncidentRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
}

func (h *incidentHandler) handleCreate(w http.ResponseWriter, r *http.Request, caller auth.Account) {
	var req createIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The owner is always the authenticated caller; any owner field in the
	// body is ignored by construction.
	report, err := h.incidents.Create(r.Context(), caller.ID, incident.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Image:       req.Image,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, newIncidentResponse(report))
}

func (h *incidentHandler) handleList(w http.ResponseWriter, r *http.Request, caller auth.Account) {
	reports, err := h.incidents.ListForOwner(r.Context(), caller.ID)
	if err != nil {
		slog.Error("list incidents", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch incidents")
		return
	}

	out := make([]incidentResponse, 0, len(reports))
	for _, report := range reports {
		out = append(out, newIncidentResponse(report))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *incidentHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	report, err := h.incidents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, incident.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Cannot find incident")
			return
		}
		slog.Error("get incident", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch incident")
		return
	}

	writeJSON(w, http.StatusOK, newIncidentResponse(report))
}

type updateIncidentRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Location    *string          `json:"location"`
	Image       *string          `json:"image"`
	Status      *incident.Status `json:"status"`
}

func (h *incidentHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.incidents.Update(r.Context(), r.PathValue("id"), incident.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Image:       req.Image,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, incident.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Cannot find incident")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newIncidentResponse(report))
}

func (h *incidentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.incidents.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, incident.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Cannot find incident")
			return
		}
		slog.Error("delete incident", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete incident")
		return
	}

	writeMessage(w, http.StatusOK, "Deleted Incident")
}
