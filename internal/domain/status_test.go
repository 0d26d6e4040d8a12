package domain

import (
	"errors"
	"testing"

	"shelterconnect/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shelterID   uint = 1
	otherShelID uint = 2
	supporterID uint = 10
)

func TestSupporterClaim(t *testing.T) {
	plan, err := Transition(RequestSnapshot{Status: StatusPending, CreatorID: shelterID}, supporterID, RoleSupporter, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, TransitionPlan{From: StatusPending, To: StatusInProgress, Assignee: AssigneeSetActor}, plan)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name    string
		from    RequestStatus
		actor   uint
		role    Role
		target  RequestStatus
		wantErr error
		want    TransitionPlan
	}{
		{"supporter claims in-progress request", StatusInProgress, supporterID, RoleSupporter, StatusInProgress, apperrors.ErrInvalidTransition, TransitionPlan{}},
		{"supporter claims completed request", StatusCompleted, supporterID, RoleSupporter, StatusInProgress, apperrors.ErrInvalidTransition, TransitionPlan{}},
		{"supporter completes", StatusInProgress, supporterID, RoleSupporter, StatusCompleted, apperrors.ErrForbidden, TransitionPlan{}},
		{"supporter archives", StatusPending, supporterID, RoleSupporter, StatusArchived, apperrors.ErrForbidden, TransitionPlan{}},
		{"other shelter archives", StatusPending, otherShelID, RoleShelter, StatusArchived, apperrors.ErrForbidden, TransitionPlan{}},
		{"creator completes", StatusInProgress, shelterID, RoleShelter, StatusCompleted, nil, TransitionPlan{StatusInProgress, StatusCompleted, AssigneeKeep}},
		{"creator archives pending", StatusPending, shelterID, RoleShelter, StatusArchived, nil, TransitionPlan{StatusPending, StatusArchived, AssigneeKeep}},
		{"creator archives in progress", StatusInProgress, shelterID, RoleShelter, StatusArchived, nil, TransitionPlan{StatusInProgress, StatusArchived, AssigneeClear}},
		{"creator archives archived", StatusArchived, shelterID, RoleShelter, StatusArchived, apperrors.ErrInvalidTransition, TransitionPlan{}},
		{"creator archives completed", StatusCompleted, shelterID, RoleShelter, StatusArchived, apperrors.ErrInvalidTransition, TransitionPlan{}},
		{"creator completes pending", StatusPending, shelterID, RoleShelter, StatusCompleted, apperrors.ErrInvalidTransition, TransitionPlan{}},
		{"creator claims own request", StatusPending, shelterID, RoleShelter, StatusInProgress, apperrors.ErrInvalidTransition, TransitionPlan{}},
		{"creator reopens", StatusCompleted, shelterID, RoleShelter, StatusPending, apperrors.ErrInvalidTransition, TransitionPlan{}},
		{"unknown role", StatusPending, 99, Role("ADMIN"), StatusArchived, apperrors.ErrForbidden, TransitionPlan{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := Transition(RequestSnapshot{Status: tc.from, CreatorID: shelterID}, tc.actor, tc.role, tc.target)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, plan)
		})
	}
}

func TestPlansKeepAssigneeInvariant(t *testing.T) {
	// Walk every permitted plan and check assigned_to_id is set iff the target status needs it.
	statuses := []RequestStatus{StatusPending, StatusInProgress, StatusCompleted, StatusArchived}
	for _, from := range statuses {
		hadAssignee := from.HasAssignee()
		for _, to := range statuses {
			for _, actor := range []struct {
				id   uint
				role Role
			}{{shelterID, RoleShelter}, {supporterID, RoleSupporter}} {
				plan, err := Transition(RequestSnapshot{Status: from, CreatorID: shelterID}, actor.id, actor.role, to)
				if err != nil {
					continue
				}
				hasAssignee := hadAssignee
				switch plan.Assignee {
				case AssigneeSetActor:
					hasAssignee = true
				case AssigneeClear:
					hasAssignee = false
				}
				assert.Equal(t, to.HasAssignee(), hasAssignee, "%s -> %s by %s", from, to, actor.role)
			}
		}
	}
}

func TestParseEnums(t *testing.T) {
	_, ok := ParseRequestType("SUPPLIES")
	assert.True(t, ok)
	_, ok = ParseRequestType("supplies")
	assert.False(t, ok)
	_, ok = ParseUrgency("CRITICAL")
	assert.False(t, ok)
	st, ok := ParseRequestStatus("IN_PROGRESS")
	assert.True(t, ok)
	assert.True(t, st.HasAssignee())
	r, ok := ParseRole("supporter")
	assert.True(t, ok)
	assert.Equal(t, RoleSupporter, r)
}
