package schema

import (
	"github.com/graphql-go/graphql"

	"projecthub/internal/engine/accounts"
	"projecthub/internal/engine/organizations"
	"projecthub/internal/engine/projects"
	"projecthub/internal/engine/tasks"
	"projecthub/internal/platform/auth"
)

func stringArg() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.String}
}

func requiredString() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
}

func mutationFields(svc Services, t *types) graphql.Fields {
	return graphql.Fields{
		"register": &graphql.Field{
			Type: payloadType("RegisterPayload", "user", t.user, nil),
			Args: graphql.FieldConfigArgument{
				"username": requiredString(),
				"email":    requiredString(),
				"password": requiredString(),
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				user, err := svc.Accounts.Register(p.Context, accounts.RegisterInput{
					Username: str(p.Args, "username"),
					Email:    str(p.Args, "email"),
					Password: str(p.Args, "password"),
				})
				return payload("user", user, err)
			},
		},
		"login": &graphql.Field{
			Type: payloadType("LoginPayload", "user", t.user, graphql.Fields{
				"accessToken":  &graphql.Field{Type: graphql.String},
				"refreshToken": &graphql.Field{Type: graphql.String},
			}),
			Args: graphql.FieldConfigArgument{
				"username": requiredString(),
				"password": requiredString(),
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				session, err := svc.Accounts.Login(p.Context, accounts.LoginInput{
					Username: str(p.Args, "username"),
					Password: str(p.Args, "password"),
				})
				if err != nil {
					return payload("user", nil, err)
				}
				return map[string]interface{}{
					"user":         session.User,
					"accessToken":  session.AccessToken,
					"refreshToken": session.RefreshToken,
					"success":      true,
					"error":        nil,
				}, nil
			},
		},
		"createOrganization": &graphql.Field{
			Type: payloadType("CreateOrganizationPayload", "organization", t.organization, nil),
			Args: graphql.FieldConfigArgument{
				"name":         requiredString(),
				"description":  stringArg(),
				"contactEmail": stringArg(),
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				org, err := svc.Organizations.Create(p.Context, auth.FromContext(p.Context), organizations.CreateInput{
					Name:         str(p.Args, "name"),
					Description:  str(p.Args, "description"),
					ContactEmail: str(p.Args, "contactEmail"),
				})
				return payload("organization", org, err)
			},
		},
		"deactivateOrganization": &graphql.Field{
			Type: payloadType("DeactivateOrganizationPayload", "organization", t.organization, nil),
			Args: graphql.FieldConfigArgument{"id": idArg()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				org, err := svc.Organizations.Deactivate(p.Context, auth.FromContext(p.Context), str(p.Args, "id"))
				return payload("organization", org, err)
			},
		},
		"sendInvite": &graphql.Field{
			Type: payloadType("SendInvitePayload", "invite", t.invite, graphql.Fields{
				"emailSent": &graphql.Field{Type: graphql.Boolean},
			}),
			Args: graphql.FieldConfigArgument{
				"organizationId": idArg(),
				"email":          requiredString(),
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				result, err := svc.Invites.Issue(p.Context, auth.FromContext(p.Context), str(p.Args, "organizationId"), str(p.Args, "email"))
				if err != nil {
					return payload("invite", nil, err)
				}
				return map[string]interface{}{
					"invite":    result.Invite,
					"emailSent": result.EmailSent,
					"success":   true,
					"error":     nil,
				}, nil
			},
		},
		"joinOrganization": &graphql.Field{
			Type: payloadType("JoinOrganizationPayload", "organization", t.organization, nil),
			Args: graphql.FieldConfigArgument{"code": requiredString()},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				org, err := svc.Invites.Redeem(p.Context, auth.FromContext(p.Context), str(p.Args, "code"))
				return payload("organization", org, err)
			},
		},
		"createProject": &graphql.Field{
			Type: payloadType("CreateProjectPayload", "project", t.project, nil),
			Args: graphql.FieldConfigArgument{
				"organizationId": idArg(),
				"input":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.projectInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := input(p.Args)
				project, err := svc.Projects.Create(p.Context, auth.FromContext(p.Context), projects.CreateInput{
					OrganizationID: str(p.Args, "organizationId"),
					Name:           str(in, "name"),
					Description:    str(in, "description"),
					Status:         str(in, "status"),
					DueDate:        optional(in, "dueDate"),
				})
				return payload("project", project, err)
			},
		},
		"updateProject": &graphql.Field{
			Type: payloadType("UpdateProjectPayload", "project", t.project, nil),
			Args: graphql.FieldConfigArgument{
				"id":             idArg(),
				"organizationId": idArg(),
				"input":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.projectInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := input(p.Args)
				project, err := svc.Projects.Update(p.Context, auth.FromContext(p.Context), str(p.Args, "id"), str(p.Args, "organizationId"), projects.UpdateInput{
					Name:        optional(in, "name"),
					Description: optional(in, "description"),
					Status:      optional(in, "status"),
					DueDate:     optional(in, "dueDate"),
				})
				return payload("project", project, err)
			},
		},
		"createTask": &graphql.Field{
			Type: payloadType("CreateTaskPayload", "task", t.task, nil),
			Args: graphql.FieldConfigArgument{
				"organizationId": idArg(),
				"projectId":      idArg(),
				"input":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.taskInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := input(p.Args)
				task, err := svc.Tasks.Create(p.Context, auth.FromContext(p.Context), str(p.Args, "organizationId"), tasks.CreateInput{
					ProjectID:     str(p.Args, "projectId"),
					Title:         str(in, "title"),
					Description:   str(in, "description"),
					Status:        str(in, "status"),
					Priority:      str(in, "priority"),
					AssigneeEmail: str(in, "assigneeEmail"),
					DueDate:       optional(in, "dueDate"),
				})
				return payload("task", task, err)
			},
		},
		"updateTask": &graphql.Field{
			Type: payloadType("UpdateTaskPayload", "task", t.task, nil),
			Args: graphql.FieldConfigArgument{
				"id":             idArg(),
				"organizationId": idArg(),
				"input":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.taskInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := input(p.Args)
				task, err := svc.Tasks.Update(p.Context, auth.FromContext(p.Context), str(p.Args, "id"), str(p.Args, "organizationId"), tasks.UpdateInput{
					Title:         optional(in, "title"),
					Description:   optional(in, "description"),
					Status:        optional(in, "status"),
					Priority:      optional(in, "priority"),
					AssigneeEmail: optional(in, "assigneeEmail"),
					DueDate:       optional(in, "dueDate"),
				})
				return payload("task", task, err)
			},
		},
		"addTaskComment": &graphql.Field{
			Type: payloadType("AddTaskCommentPayload", "comment", t.comment, nil),
			Args: graphql.FieldConfigArgument{
				"organizationId": idArg(),
				"taskId":         idArg(),
				"input":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(t.commentInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				in := input(p.Args)
				comment, err := svc.Tasks.AddComment(p.Context, auth.FromContext(p.Context), str(p.Args, "organizationId"), tasks.CommentInput{
					TaskID:      str(p.Args, "taskId"),
					Content:     str(in, "content"),
					AuthorName:  str(in, "authorName"),
					AuthorEmail: str(in, "authorEmail"),
				})
				return payload("comment", comment, err)
			},
		},
	}
}
