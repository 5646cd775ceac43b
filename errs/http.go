package errs

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"socialFeed/logging"
)

// codes maps application error codes to HTTP status codes.
// The GraphQL facade reports the same codes in the extensions of its errors.
var codes = map[string]int{
	EINVALID:          http.StatusBadRequest,
	EUNAUTHENTICATED:  http.StatusUnauthorized,
	EUNAUTHORIZED:     http.StatusUnauthorized,
	ENOTFOUND:         http.StatusNotFound,
	ECONFLICT:         http.StatusConflict,
	EMETHODNOTALLOWED: http.StatusMethodNotAllowed,
	ETIMEOUT:          http.StatusGatewayTimeout,
	EUNAVAILABLE:      http.StatusServiceUnavailable,
	EINTERNAL:         http.StatusInternalServerError,
}

// StatusCode returns the HTTP status code for an application error code.
func StatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the json body of every failed REST request.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// ReturnError writes an error as json, with the status code matching the error's code.
// Internal errors are logged, since their details are hidden from the client.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	if code == EINTERNAL {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(code))
	if err := json.NewEncoder(w).Encode(&ErrorResponse{Code: code, Detail: message}); err != nil {
		LogError(r, err)
	}
}

// LogError logs an error with the request's logger.
func LogError(r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("request error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}
