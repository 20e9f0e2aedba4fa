package models

import (
	"fmt"
	"time"
)

type Organization struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Role is ordered: a higher value grants everything a lower one does.
type Role int

const (
	RoleMember Role = iota + 1
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	}
	return "unknown"
}

func (r Role) AtLeast(required Role) bool {
	return r >= required
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "member":
		return RoleMember, nil
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

type Membership struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           Role   `json:"role"`
	CreatedAt      int64  `json:"created_at"`

	// Populated by member listings.
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type InviteState string

const (
	InviteIssued  InviteState = "ISSUED"
	InviteUsed    InviteState = "USED"
	InviteExpired InviteState = "EXPIRED"
)

type Invite struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	Email          string  `json:"email"`
	Code           string  `json:"code"`
	InvitedBy      string  `json:"invited_by"`
	ExpiresAt      int64   `json:"expires_at"`
	Used           bool    `json:"used"`
	UsedBy         *string `json:"used_by,omitempty"`
	CreatedAt      int64   `json:"created_at"`
	UpdatedAt      int64   `json:"updated_at"`
}

// IsValid reports whether the invite can still be redeemed at now.
func (i *Invite) IsValid(now time.Time) bool {
	return !i.Used && now.Unix() < i.ExpiresAt
}

// State is terminal once USED or EXPIRED; a used invite stays USED after it would have expired.
func (i *Invite) State(now time.Time) InviteState {
	if i.Used {
		return InviteUsed
	}
	if now.Unix() >= i.ExpiresAt {
		return InviteExpired
	}
	return InviteIssued
}

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "PLANNING"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type Project struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organization_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Status         ProjectStatus `json:"status"`
	DueDate        *string       `json:"due_date,omitempty"` // YYYY-MM-DD
	CreatedAt      int64         `json:"created_at"`
	UpdatedAt      int64         `json:"updated_at"`

	// Loaded with the project on reads.
	OrganizationActive bool `json:"-"`
}

func (p *Project) OwningOrganizationID() string {
	return p.OrganizationID
}

func (p *Project) OwningOrganizationActive() bool {
	return p.OrganizationActive
}

type ProjectStatistics struct {
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	PendingTasks         int     `json:"pending_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskInReview   TaskStatus = "IN_REVIEW"
	TaskDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskInReview, TaskDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID            string       `json:"id"`
	ProjectID     string       `json:"project_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Status        TaskStatus   `json:"status"`
	Priority      TaskPriority `json:"priority"`
	AssigneeEmail string       `json:"assignee_email,omitempty"`
	DueDate       *string      `json:"due_date,omitempty"`
	Order         int          `json:"order"`
	CreatedAt     int64        `json:"created_at"`
	UpdatedAt     int64        `json:"updated_at"`

	// Loaded from the owning project in the same query; not columns of tasks.
	OrganizationID     string `json:"organization_id"`
	OrganizationActive bool   `json:"-"`
}

func (t *Task) OwningOrganizationID() string {
	return t.OrganizationID
}

func (t *Task) OwningOrganizationActive() bool {
	return t.OrganizationActive
}

type Comment struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	Content     string `json:"content"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}
