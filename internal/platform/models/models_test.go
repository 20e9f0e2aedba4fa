package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	require.True(t, RoleOwner.AtLeast(RoleOwner))
	require.True(t, RoleOwner.AtLeast(RoleMember))
	require.False(t, RoleAdmin.AtLeast(RoleOwner))
	require.False(t, RoleMember.AtLeast(RoleAdmin))
}

func TestParseRole(t *testing.T) {
	for _, role := range []Role{RoleMember, RoleAdmin, RoleOwner} {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		require.Equal(t, role, parsed)
	}

	_, err := ParseRole("superuser")
	require.Error(t, err)
}

func TestInviteValidityAndState(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	usedBy := "usr_1"

	tests := []struct {
		name   string
		invite Invite
		valid  bool
		state  InviteState
	}{
		{"fresh", Invite{ExpiresAt: now.Add(time.Hour).Unix()}, true, InviteIssued},
		{"expired", Invite{ExpiresAt: now.Add(-time.Second).Unix()}, false, InviteExpired},
		{"expires exactly now", Invite{ExpiresAt: now.Unix()}, false, InviteExpired},
		{"used", Invite{ExpiresAt: now.Add(time.Hour).Unix(), Used: true, UsedBy: &usedBy}, false, InviteUsed},
		{"used then expired", Invite{ExpiresAt: now.Add(-time.Hour).Unix(), Used: true, UsedBy: &usedBy}, false, InviteUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, tt.invite.IsValid(now))
			require.Equal(t, tt.state, tt.invite.State(now))
		})
	}
}

func TestEnumValidation(t *testing.T) {
	require.True(t, ProjectOnHold.Valid())
	require.False(t, ProjectStatus("DONE").Valid())
	require.True(t, TaskInReview.Valid())
	require.False(t, TaskStatus("PLANNING").Valid())
	require.True(t, PriorityUrgent.Valid())
	require.False(t, TaskPriority("CRITICAL").Valid())
}
