package httpapi

import (
	"errors"
	"net/http"

	"engage-a2p/internal/domain"
)

// errorBody JSON error envelope. Existing carries the conflicting record on
// 409s so callers can self-heal; Fields lists offending inputs on 400s.
type errorBody struct {
	Code             string   `json:"code"`
	Message          string   `json:"message"`
	Fields           []string `json:"fields,omitempty"`
	CurrentStatus    string   `json:"current_status,omitempty"`
	ConflictCampaign string   `json:"conflict_campaign,omitempty"`
	Existing         any      `json:"existing,omitempty"`
	UpstreamStatus   int      `json:"upstream_status,omitempty"`
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:    "validation_error",
			Message: validation.Error(),
			Fields:  validation.Fields,
		})
		return
	}

	var precondition *domain.PreconditionError
	if errors.As(err, &precondition) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:          "precondition_failed",
			Message:       precondition.Error(),
			CurrentStatus: precondition.Current,
		})
		return
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		writeJSON(w, http.StatusNotFound, errorBody{
			Code:    "not_found",
			Message: notFound.Error(),
		})
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, errorBody{
			Code:             "conflict",
			Message:          conflict.Error(),
			ConflictCampaign: conflict.ConflictKey,
			Existing:         conflict.Existing,
		})
		return
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		// Registrar rejected the request (4xx) vs registrar/transport broken.
		status := http.StatusBadGateway
		if upstream.StatusCode >= 400 && upstream.StatusCode < 500 {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorBody{
			Code:           "upstream_error",
			Message:        upstream.Error(),
			UpstreamStatus: upstream.StatusCode,
		})
		return
	}

	var persistence *domain.PersistenceError
	if errors.As(err, &persistence) {
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Code:    "persistence_error",
			Message: persistence.Error(),
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorBody{
		Code:    "internal_error",
		Message: err.Error(),
	})
}
