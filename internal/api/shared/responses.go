package shared

import (
	"encoding/json"
	"net/http"

	"github.com/famsync/famsync-api/internal/platform/logger"
)

// Envelope is the uniform response body: the payload under data, a
// human-readable message, and a success flag.
type Envelope struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Success bool        `json:"success"`
}

// PaginatedEnvelope extends Envelope with pagination metadata for list
// endpoints.
type PaginatedEnvelope struct {
	Envelope
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// NewPaginatedEnvelope builds the pagination metadata from the total row
// count and the skip/limit window that produced the page.
func NewPaginatedEnvelope(data interface{}, message string, total, skip, limit int) PaginatedEnvelope {
	if limit <= 0 {
		limit = 1
	}
	return PaginatedEnvelope{
		Envelope: Envelope{Data: data, Message: message, Success: true},
		Total:    total,
		Page:     (skip / limit) + 1,
		Size:     limit,
		Pages:    (total + limit - 1) / limit,
	}
}

// RespondWithJSON writes the payload as JSON with the given status.
// Encoding failures are logged; by then the header is already out, so
// nothing else can be done for the client.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log := logger.FromContextOrDefault(r.Context())
		log.Error("failed to encode response", "error", err, "trace_id", TraceID(r.Context()))
	}
}

// RespondWithData wraps the payload in a success Envelope.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	RespondWithJSON(w, r, status, Envelope{Data: data, Message: message, Success: true})
}

// RespondWithError writes a failure Envelope with the given message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, r, status, Envelope{Message: message, Success: false})
}

// RespondWithErrorData writes a failure Envelope carrying structured detail
// under data alongside the message.
func RespondWithErrorData(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	RespondWithJSON(w, r, status, Envelope{Data: data, Message: message, Success: false})
}

// RespondWithErrorAndLog logs the underlying error with the trace ID and
// writes a failure Envelope carrying only the safe message.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	log := logger.FromContextOrDefault(r.Context())
	logCtx := r.Context()
	if status >= http.StatusInternalServerError {
		log.ErrorContext(logCtx, "request failed", "error", err, "status", status, "trace_id", TraceID(logCtx))
	} else {
		log.WarnContext(logCtx, "request rejected", "error", err, "status", status, "trace_id", TraceID(logCtx))
	}
	RespondWithError(w, r, status, message)
}
