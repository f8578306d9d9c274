package handle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"user-auth/internal/auth-service/core/myerrors"
)

// WaitTime bounds every request's work, in seconds.
const WaitTime = 10

const maxBodyBytes = 1 << 20

var ErrMalformedJSON = myerrors.NewValidation("failed to parse JSON", nil)

type errorPayload struct {
	Error  string              `json:"error"`
	Code   int                 `json:"code"`
	Kind   myerrors.Kind       `json:"kind"`
	Field  string              `json:"field,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// jsonResponse writes data as JSON with the specified HTTP status code.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}

	payload := errorPayload{
		Error: err.Error(),
		Code:  code,
		Kind:  myerrors.KindOf(err),
	}

	var e *myerrors.Error
	if errors.As(err, &e) {
		// the cause stays in the logs
		payload.Error = e.Message
		payload.Field = e.Field
		payload.Fields = e.Fields
	} else if code >= http.StatusInternalServerError {
		payload.Error = "internal server error"
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError picks the status from the error's kind.
func WriteError(w http.ResponseWriter, err error) {
	JsonError(w, StatusFor(err), err)
}

func StatusFor(err error) int {
	switch myerrors.KindOf(err) {
	case myerrors.KindValidation, myerrors.KindConflict, myerrors.KindAuthentication:
		return http.StatusBadRequest
	case myerrors.KindInvalidToken:
		return http.StatusUnauthorized
	case myerrors.KindAuthorization:
		return http.StatusForbidden
	case myerrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return ErrMalformedJSON.Wrap(err)
	}
	return nil
}
