package schema

import (
	"github.com/graphql-go/graphql"

	"projecthub/internal/platform/auth"
)

func idArg() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
}

func queryFields(svc Services, t *types) graphql.Fields {
	return graphql.Fields{
		"me": &graphql.Field{
			Type: t.user,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return single(svc.Accounts.Me(p.Context, auth.FromContext(p.Context)))
			},
		},
		"organizations": &graphql.Field{
			Type: graphql.NewList(t.organization),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return list(svc.Organizations.ListForMember(p.Context, auth.FromContext(p.Context)))
			},
		},
		"organization": &graphql.Field{
			Type: t.organization,
			Args: graphql.FieldConfigArgument{"id": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return single(svc.Organizations.Get(p.Context, auth.FromContext(p.Context), str(p.Args, "id")))
			},
		},
		"memberships": &graphql.Field{
			Type: graphql.NewList(t.member),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return list(svc.Organizations.Memberships(p.Context, auth.FromContext(p.Context)))
			},
		},
		"members": &graphql.Field{
			Type: graphql.NewList(t.member),
			Args: graphql.FieldConfigArgument{"organizationId": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return list(svc.Organizations.Members(p.Context, auth.FromContext(p.Context), str(p.Args, "organizationId")))
			},
		},
		"invites": &graphql.Field{
			Type: graphql.NewList(t.invite),
			Args: graphql.FieldConfigArgument{"organizationId": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return list(svc.Invites.List(p.Context, auth.FromContext(p.Context), str(p.Args, "organizationId")))
			},
		},
		"projects": &graphql.Field{
			Type: graphql.NewList(t.project),
			Args: graphql.FieldConfigArgument{"organizationId": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return list(svc.Projects.List(p.Context, auth.FromContext(p.Context), str(p.Args, "organizationId")))
			},
		},
		"project": &graphql.Field{
			Type: t.project,
			Args: graphql.FieldConfigArgument{"id": idArg(), "organizationId": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return single(svc.Projects.Get(p.Context, auth.FromContext(p.Context), str(p.Args, "id"), str(p.Args, "organizationId")))
			},
		},
		"projectStatistics": &graphql.Field{
			Type: t.statistics,
			Args: graphql.FieldConfigArgument{"projectId": idArg(), "organizationId": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return single(svc.Projects.Statistics(p.Context, auth.FromContext(p.Context), str(p.Args, "projectId"), str(p.Args, "organizationId")))
			},
		},
		"tasks": &graphql.Field{
			Type: graphql.NewList(t.task),
			Args: graphql.FieldConfigArgument{"projectId": idArg(), "organizationId": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return list(svc.Tasks.List(p.Context, auth.FromContext(p.Context), str(p.Args, "projectId"), str(p.Args, "organizationId")))
			},
		},
		"task": &graphql.Field{
			Type: t.task,
			Args: graphql.FieldConfigArgument{"id": idArg(), "organizationId": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return single(svc.Tasks.Get(p.Context, auth.FromContext(p.Context), str(p.Args, "id"), str(p.Args, "organizationId")))
			},
		},
		"taskComments": &graphql.Field{
			Type: graphql.NewList(t.comment),
			Args: graphql.FieldConfigArgument{"taskId": idArg(), "organizationId": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return list(svc.Tasks.Comments(p.Context, auth.FromContext(p.Context), str(p.Args, "taskId"), str(p.Args, "organizationId")))
			},
		},
	}
}
