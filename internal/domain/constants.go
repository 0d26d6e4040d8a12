package domain

import "strings"

// MaxMessageRunes bounds a chat message's text after trimming, on every send path.
const MaxMessageRunes = 4000

type Role string

const (
	RoleShelter   Role = "SHELTER"
	RoleSupporter Role = "SUPPORTER"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(s)); r {
	case RoleShelter, RoleSupporter:
		return r, true
	}
	return "", false
}

type RequestType string

const (
	RequestTypeSupplies   RequestType = "SUPPLIES"
	RequestTypeServices   RequestType = "SERVICES"
	RequestTypeVolunteers RequestType = "VOLUNTEERS"
)

func ParseRequestType(s string) (RequestType, bool) {
	switch t := RequestType(s); t {
	case RequestTypeSupplies, RequestTypeServices, RequestTypeVolunteers:
		return t, true
	}
	return "", false
}

type Urgency string

const (
	UrgencyHigh   Urgency = "HIGH"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyLow    Urgency = "LOW"
)

func ParseUrgency(s string) (Urgency, bool) {
	switch u := Urgency(s); u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return u, true
	}
	return "", false
}

type RequestStatus string

const (
	StatusPending    RequestStatus = "PENDING"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusCompleted  RequestStatus = "COMPLETED"
	StatusArchived   RequestStatus = "ARCHIVED"
)

func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return st, true
	}
	return "", false
}

// HasAssignee reports whether a request in this status must carry an assignee.
func (s RequestStatus) HasAssignee() bool {
	return s == StatusInProgress || s == StatusCompleted
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)
