package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"socialFeed/errs"
)

// maxBodySize caps the size of a POST body.
const maxBodySize = 1 << 20

// request is the body of a GraphQL POST request.
type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes GraphQL requests against a schema. It accepts a JSON body on
// POST and the query, variables and operationName parameters on GET.
type Handler struct {
	schema graphql.Schema
}

// NewHandler returns a Handler for schema.
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the request, either from the query string or from the json body.
	var req request
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Variables are invalid JSON."))
				return
			}
		}
	case http.MethodPost:
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		errs.ReturnError(w, r, errs.Errorf(errs.EMETHODNOTALLOWED, "Only GET and POST are supported."))
		return
	}
	if req.Query == "" {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Must provide query string."))
		return
	}

	// Execute the query. Resolver errors end up in the result, next to the data.
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		errs.LogError(r, err)
	}
}
