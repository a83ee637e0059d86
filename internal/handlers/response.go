package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
)

const maxBodyBytes = 1 << 20

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Field   string      `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Message: message, Data: data})
}

// writeError maps err to a status code. Storage details stay in the log.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	resp := apiResponse{Message: err.Error()}

	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Field = verr.Field
	case errors.Is(err, apperrors.ErrNotFound):
		resp.Message = "transaction not found"
	case apperrors.IsAdapter(err):
		logger.Warn("provider call failed", zap.Error(err))
		resp.Message = "payment provider rejected or could not process the request: " + err.Error()
	default:
		logger.Error("request failed", zap.Error(err))
		resp.Message = "internal error, the request may have reached the provider; check its status before retrying"
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON body into v. Unknown fields are allowed.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Invalid("", "request body is required")
		}
		return apperrors.Invalid("", "invalid request body: "+err.Error())
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}
