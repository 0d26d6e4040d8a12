package domain

import "shelterconnect/internal/apperrors"

// AssigneeChange says what a transition does to assigned_to_id.
type AssigneeChange int

const (
	AssigneeKeep AssigneeChange = iota
	AssigneeSetActor
	AssigneeClear
)

// TransitionPlan is the outcome of a permitted transition. Repositories apply it as a
// conditional update guarded by From.
type TransitionPlan struct {
	From     RequestStatus
	To       RequestStatus
	Assignee AssigneeChange
}

// RequestSnapshot is the part of a request the status machine looks at.
type RequestSnapshot struct {
	Status    RequestStatus
	CreatorID uint
}

// Transition decides whether actor may move the request to target.
func Transition(req RequestSnapshot, actorID uint, actorRole Role, target RequestStatus) (TransitionPlan, error) {
	switch actorRole {
	case RoleSupporter:
		if target != StatusInProgress {
			return TransitionPlan{}, apperrors.Forbidden("Forbidden: supporters can only take requests in progress")
		}
		if req.Status != StatusPending {
			return TransitionPlan{}, apperrors.InvalidTransition("Request is no longer pending")
		}
		return TransitionPlan{From: StatusPending, To: StatusInProgress, Assignee: AssigneeSetActor}, nil

	case RoleShelter:
		if actorID != req.CreatorID {
			return TransitionPlan{}, apperrors.Forbidden("Forbidden: You do not have permission to update this request")
		}
		return shelterTransition(req.Status, target)

	default:
		return TransitionPlan{}, apperrors.Forbidden("Forbidden: unknown role")
	}
}

func shelterTransition(from, to RequestStatus) (TransitionPlan, error) {
	switch {
	case from == StatusInProgress && to == StatusCompleted:
		return TransitionPlan{From: from, To: to, Assignee: AssigneeKeep}, nil
	case from == StatusPending && to == StatusArchived:
		return TransitionPlan{From: from, To: to, Assignee: AssigneeKeep}, nil
	case from == StatusInProgress && to == StatusArchived:
		return TransitionPlan{From: from, To: to, Assignee: AssigneeClear}, nil
	}
	return TransitionPlan{}, apperrors.InvalidTransition("Cannot change status from " + string(from) + " to " + string(to))
}
