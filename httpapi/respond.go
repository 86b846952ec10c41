package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// messageBody is the wire shape of every failure and of bare acknowledgements:
// {"message": "..."}.
type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("httpapi: encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageBody{Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeMessage(w, status, message)
}
