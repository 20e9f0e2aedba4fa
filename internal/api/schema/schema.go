// Package schema builds the GraphQL schema over the domain services.
package schema

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/log"

	"projecthub/internal/engine/accounts"
	"projecthub/internal/engine/invites"
	"projecthub/internal/engine/organizations"
	"projecthub/internal/engine/projects"
	"projecthub/internal/engine/tasks"
	apperrors "projecthub/internal/pkg/errors"
)

// Services are the domain entry points the resolvers call.
type Services struct {
	Accounts      *accounts.Service
	Organizations *organizations.Service
	Invites       *invites.Ledger
	Projects      *projects.Service
	Tasks         *tasks.Service
}

// errInternal hides unexpected failures from clients; the cause is logged.
var errInternal = errors.New("internal error")

func New(svc Services) (graphql.Schema, error) {
	t := newTypes(svc)

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields(svc, t),
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutationFields(svc, t),
		}),
	})
}

// payload shapes a mutation result as {<key>, success, error}. Domain failures are data,
// not GraphQL errors, so clients can show the message as-is.
func payload(key string, value interface{}, err error) (interface{}, error) {
	if err != nil {
		if domainErr, ok := apperrors.AsDomain(err); ok {
			log.Debug().Str("field", key).Str("kind", domainErr.Kind.String()).Msg("graphql mutation rejected")
			return map[string]interface{}{key: nil, "success": false, "error": domainErr.Message}, nil
		}
		log.Error().Err(err).Str("field", key).Msg("graphql mutation failed")
		return nil, errInternal
	}
	return map[string]interface{}{key: value, "success": true, "error": nil}, nil
}

// single resolves a query to null on any domain failure, so callers cannot tell a missing
// resource from one they may not see.
func single(value interface{}, err error) (interface{}, error) {
	if err != nil {
		if _, ok := apperrors.AsDomain(err); ok {
			return nil, nil
		}
		log.Error().Err(err).Msg("graphql query failed")
		return nil, errInternal
	}
	return value, nil
}

// list is single for list queries: domain failures become an empty list.
func list(value interface{}, err error) (interface{}, error) {
	if err != nil {
		if _, ok := apperrors.AsDomain(err); ok {
			return []interface{}{}, nil
		}
		log.Error().Err(err).Msg("graphql query failed")
		return nil, errInternal
	}
	return value, nil
}

func payloadType(name, key string, output graphql.Output, extra graphql.Fields) *graphql.Object {
	fields := graphql.Fields{
		key:       &graphql.Field{Type: output},
		"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"error":   &graphql.Field{Type: graphql.String},
	}
	for k, f := range extra {
		fields[k] = f
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: name, Fields: fields})
}

func str(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// optional returns nil when the argument was not supplied.
func optional(args map[string]interface{}, key string) *string {
	s, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func input(args map[string]interface{}) map[string]interface{} {
	in, _ := args["input"].(map[string]interface{})
	if in == nil {
		return map[string]interface{}{}
	}
	return in
}
