package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	contentTypeHeader = "Content-Type"
	applicationJSON   = "application/json"
)

// ErrorResponse is the wire shape of every non-2xx body.
type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set(contentTypeHeader, applicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSONResponse(w, status, ErrorResponse{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
