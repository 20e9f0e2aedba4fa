package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/hlog"

	"projecthub/internal/pkg/errors"
)

type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler executes queries against the schema with the caller's identity in context.
type GraphQLHandler struct {
	schema graphql.Schema
}

func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

func (h *GraphQLHandler) Serve(w http.ResponseWriter, r *http.Request) {
	var params GraphQLRequest
	switch r.Method {
	case http.MethodGet:
		params.Query = r.URL.Query().Get("query")
		params.OperationName = r.URL.Query().Get("operationName")
		if raw := r.URL.Query().Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &params.Variables); err != nil {
				errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid variables", nil)
				return
			}
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
			return
		}
	}

	if params.Query == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Missing query", nil)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  params.Query,
		VariableValues: params.Variables,
		OperationName:  params.OperationName,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		hlog.FromRequest(r).Debug().Interface("errors", result.Errors).Msg("graphql errors")
	}

	writeJSON(w, http.StatusOK, result)
}
