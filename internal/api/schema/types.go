package schema

import (
	"time"

	"github.com/graphql-go/graphql"

	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/models"
)

type types struct {
	user         *graphql.Object
	organization *graphql.Object
	member       *graphql.Object
	invite       *graphql.Object
	project      *graphql.Object
	statistics   *graphql.Object
	task         *graphql.Object
	comment      *graphql.Object
	projectInput *graphql.InputObject
	taskInput    *graphql.InputObject
	commentInput *graphql.InputObject
}

var projectStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "ProjectStatus",
	Values: graphql.EnumValueConfigMap{
		"PLANNING":  &graphql.EnumValueConfig{Value: models.ProjectPlanning},
		"ACTIVE":    &graphql.EnumValueConfig{Value: models.ProjectActive},
		"ON_HOLD":   &graphql.EnumValueConfig{Value: models.ProjectOnHold},
		"COMPLETED": &graphql.EnumValueConfig{Value: models.ProjectCompleted},
		"ARCHIVED":  &graphql.EnumValueConfig{Value: models.ProjectArchived},
	},
})

var taskStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "TaskStatus",
	Values: graphql.EnumValueConfigMap{
		"TODO":        &graphql.EnumValueConfig{Value: models.TaskTodo},
		"IN_PROGRESS": &graphql.EnumValueConfig{Value: models.TaskInProgress},
		"IN_REVIEW":   &graphql.EnumValueConfig{Value: models.TaskInReview},
		"DONE":        &graphql.EnumValueConfig{Value: models.TaskDone},
	},
})

var taskPriorityEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "TaskPriority",
	Values: graphql.EnumValueConfigMap{
		"LOW":    &graphql.EnumValueConfig{Value: models.PriorityLow},
		"MEDIUM": &graphql.EnumValueConfig{Value: models.PriorityMedium},
		"HIGH":   &graphql.EnumValueConfig{Value: models.PriorityHigh},
		"URGENT": &graphql.EnumValueConfig{Value: models.PriorityUrgent},
	},
})

// Scalar fields resolve by the default resolver, which matches struct field names
// case-insensitively (createdAt -> CreatedAt). Timestamps are unix seconds.
func newTypes(svc Services) *types {
	t := &types{}

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username":  &graphql.Field{Type: graphql.String},
			"email":     &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.Int},
		},
	})

	t.organization = graphql.NewObject(graphql.ObjectConfig{
		Name: "Organization",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":         &graphql.Field{Type: graphql.String},
			"slug":         &graphql.Field{Type: graphql.String},
			"description":  &graphql.Field{Type: graphql.String},
			"contactEmail": &graphql.Field{Type: graphql.String},
			"isActive":     &graphql.Field{Type: graphql.Boolean},
			"createdAt":    &graphql.Field{Type: graphql.Int},
			"updatedAt":    &graphql.Field{Type: graphql.Int},
		},
	})

	t.member = graphql.NewObject(graphql.ObjectConfig{
		Name: "Member",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"userId":         &graphql.Field{Type: graphql.ID},
			"organizationId": &graphql.Field{Type: graphql.ID},
			"username":       &graphql.Field{Type: graphql.String},
			"email":          &graphql.Field{Type: graphql.String},
			"createdAt":      &graphql.Field{Type: graphql.Int},
			"role": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if m, ok := p.Source.(*models.Membership); ok {
						return m.Role.String(), nil
					}
					return nil, nil
				},
			},
		},
	})

	t.invite = graphql.NewObject(graphql.ObjectConfig{
		Name: "Invite",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"organizationId": &graphql.Field{Type: graphql.ID},
			"email":          &graphql.Field{Type: graphql.String},
			"code":           &graphql.Field{Type: graphql.String},
			"invitedBy":      &graphql.Field{Type: graphql.ID},
			"expiresAt":      &graphql.Field{Type: graphql.Int},
			"used":           &graphql.Field{Type: graphql.Boolean},
			"usedBy":         &graphql.Field{Type: graphql.ID},
			"createdAt":      &graphql.Field{Type: graphql.Int},
			"state": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if inv, ok := p.Source.(*models.Invite); ok {
						return string(inv.State(time.Now())), nil
					}
					return nil, nil
				},
			},
			"joinUrl": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if inv, ok := p.Source.(*models.Invite); ok {
						return svc.Invites.JoinURL(inv.Code), nil
					}
					return nil, nil
				},
			},
		},
	})

	t.comment = graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskComment",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"taskId":      &graphql.Field{Type: graphql.ID},
			"content":     &graphql.Field{Type: graphql.String},
			"authorName":  &graphql.Field{Type: graphql.String},
			"authorEmail": &graphql.Field{Type: graphql.String},
			"createdAt":   &graphql.Field{Type: graphql.Int},
			"updatedAt":   &graphql.Field{Type: graphql.Int},
		},
	})

	t.task = graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"projectId":     &graphql.Field{Type: graphql.ID},
			"title":         &graphql.Field{Type: graphql.String},
			"description":   &graphql.Field{Type: graphql.String},
			"status":        &graphql.Field{Type: taskStatusEnum},
			"priority":      &graphql.Field{Type: taskPriorityEnum},
			"assigneeEmail": &graphql.Field{Type: graphql.String},
			"dueDate":       &graphql.Field{Type: graphql.String},
			"order":         &graphql.Field{Type: graphql.Int},
			"createdAt":     &graphql.Field{Type: graphql.Int},
			"updatedAt":     &graphql.Field{Type: graphql.Int},
			"comments": &graphql.Field{
				Type: graphql.NewList(t.comment),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					task, ok := p.Source.(*models.Task)
					if !ok {
						return nil, nil
					}
					return list(svc.Tasks.Comments(p.Context, auth.FromContext(p.Context), task.ID, task.OrganizationID))
				},
			},
		},
	})

	t.statistics = graphql.NewObject(graphql.ObjectConfig{
		Name: "ProjectStatistics",
		Fields: graphql.Fields{
			"totalTasks":           &graphql.Field{Type: graphql.Int},
			"completedTasks":       &graphql.Field{Type: graphql.Int},
			"pendingTasks":         &graphql.Field{Type: graphql.Int},
			"completionPercentage": &graphql.Field{Type: graphql.Float},
		},
	})

	t.project = graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"organizationId": &graphql.Field{Type: graphql.ID},
			"name":           &graphql.Field{Type: graphql.String},
			"description":    &graphql.Field{Type: graphql.String},
			"status":         &graphql.Field{Type: projectStatusEnum},
			"dueDate":        &graphql.Field{Type: graphql.String},
			"createdAt":      &graphql.Field{Type: graphql.Int},
			"updatedAt":      &graphql.Field{Type: graphql.Int},
			"tasks": &graphql.Field{
				Type: graphql.NewList(t.task),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					project, ok := p.Source.(*models.Project)
					if !ok {
						return nil, nil
					}
					return list(svc.Tasks.List(p.Context, auth.FromContext(p.Context), project.ID, project.OrganizationID))
				},
			},
			"statistics": &graphql.Field{
				Type: t.statistics,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					project, ok := p.Source.(*models.Project)
					if !ok {
						return nil, nil
					}
					return single(svc.Projects.Statistics(p.Context, auth.FromContext(p.Context), project.ID, project.OrganizationID))
				},
			},
		},
	})

	// Enum-like inputs are plain strings so invalid values reach the services and come
	// back as "Invalid status: X" rather than a schema error.
	t.projectInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProjectInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"dueDate":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	t.taskInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"priority":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"assigneeEmail": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"dueDate":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	t.commentInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CommentInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"content":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"authorName":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"authorEmail": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	return t
}
