package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"socialFeed/errs"
)

// maxBodySize caps the size of request bodies.
const maxBodySize = 1 << 20

// decodeJSON parses the request's json body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		return errs.Errorf(errs.EINVALID, "Invalid json body.")
	}
	return nil
}

// writeJSON writes v as the json response body with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		errs.LogError(r, err)
	}
}

// parseID parses the positive integer route parameter "id".
func parseID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, errs.IDInvalid
	}
	return id, nil
}
