package service

import (
	"context"
	"math"
	"strings"
	"time"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/logger"
	"shelterconnect/internal/models"
	"shelterconnect/internal/repository"
)

type RequestService struct {
	repo *repository.RequestRepository
}

func NewRequestService(repo *repository.RequestRepository) *RequestService {
	return &RequestService{repo: repo}
}

type CreateRequestInput struct {
	Title    string
	Type     string
	Urgency  string
	DueDate  *time.Time
	Details  string
	Location string
}

// Create stores a new PENDING request owned by the calling shelter.
func (s *RequestService) Create(ctx context.Context, actorID uint, role domain.Role, in CreateRequestInput) (*models.Request, error) {
	if role != domain.RoleShelter {
		return nil, apperrors.Forbidden("Only shelters can create requests")
	}
	req := &models.Request{
		Title:     strings.TrimSpace(in.Title),
		Details:   strings.TrimSpace(in.Details),
		Location:  strings.TrimSpace(in.Location),
		DueDate:   in.DueDate,
		Status:    domain.StatusPending,
		CreatorID: actorID,
	}
	for _, f := range []struct{ name, value string }{
		{"title", req.Title}, {"details", req.Details}, {"location", req.Location},
	} {
		if f.value == "" {
			return nil, apperrors.Validation(f.name, f.name+" is required")
		}
	}
	var err error
	if req.Type, err = parseType(in.Type); err != nil {
		return nil, err
	}
	if req.Urgency, err = parseUrgency(in.Urgency); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "request created", "request_id", req.ID, "type", req.Type, "urgency", req.Urgency)
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, id uint) (*models.Request, error) {
	if id == 0 {
		return nil, apperrors.Validation("id", "id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateRequestInput carries a partial update; nil fields are left alone.
type UpdateRequestInput struct {
	ID       uint
	Title    *string
	Type     *string
	Urgency  *string
	Details  *string
	Location *string
	DueDate  *string // YYYY-MM-DD or RFC3339
	Status   *string
}

func (in UpdateRequestInput) hasFieldEdits() bool {
	return in.Title != nil || in.Type != nil || in.Urgency != nil ||
		in.Details != nil || in.Location != nil || in.DueDate != nil
}

// Update applies field edits and an optional status transition. Supporters may only claim a
// pending request; creators may edit any field and move the status along the allowed
// transitions, all in one transaction.
func (s *RequestService) Update(ctx context.Context, actorID uint, role domain.Role, in UpdateRequestInput) (*models.Request, error) {
	if in.ID == 0 {
		return nil, apperrors.Validation("id", "id is required")
	}
	switch role {
	case domain.RoleSupporter:
		if in.hasFieldEdits() || in.Status == nil {
			return nil, apperrors.Forbidden("Supporters can only take requests")
		}
	case domain.RoleShelter:
		if !in.hasFieldEdits() && in.Status == nil {
			return nil, apperrors.Validation("", "No changes provided")
		}
	default:
		return nil, apperrors.Forbidden("Unknown role")
	}

	fields, err := in.fieldUpdates()
	if err != nil {
		return nil, err
	}
	var target domain.RequestStatus
	if in.Status != nil {
		if target, err = parseStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	current, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleShelter && current.CreatorID != actorID {
		return nil, apperrors.Forbidden("Only the creator can edit this request")
	}
	if len(fields) > 0 && current.Status == domain.StatusArchived {
		return nil, apperrors.InvalidTransition("Archived requests cannot be edited")
	}

	var plan *domain.TransitionPlan
	if in.Status != nil && !(target == current.Status && len(fields) > 0) {
		p, err := domain.Transition(current.Snapshot(), actorID, role, target)
		if err != nil {
			return nil, err
		}
		plan = &p
	}

	err = s.repo.Transaction(ctx, func(tx *repository.RequestRepository) error {
		if len(fields) > 0 {
			if err := tx.UpdateFields(ctx, current.ID, current.Status, fields); err != nil {
				return err
			}
		}
		if plan != nil {
			return tx.ApplyTransition(ctx, current.ID, actorID, *plan)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if plan != nil {
		logger.CtxInfo(ctx, "request status changed",
			"request_id", current.ID, "from", plan.From, "to", plan.To, "actor_id", actorID)
	}
	return s.repo.GetByID(ctx, current.ID)
}

func (in UpdateRequestInput) fieldUpdates() (map[string]any, error) {
	fields := map[string]any{}
	text := []struct {
		name  string
		value *string
	}{{"title", in.Title}, {"details", in.Details}, {"location", in.Location}}
	for _, f := range text {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, apperrors.Validation(f.name, f.name+" cannot be empty")
		}
		fields[f.name] = v
	}
	if in.Type != nil {
		t, err := parseType(*in.Type)
		if err != nil {
			return nil, err
		}
		fields["type"] = t
	}
	if in.Urgency != nil {
		u, err := parseUrgency(*in.Urgency)
		if err != nil {
			return nil, err
		}
		fields["urgency"] = u
	}
	if in.DueDate != nil {
		due, err := ParseDate("due_date", *in.DueDate)
		if err != nil {
			return nil, err
		}
		if due == nil {
			return nil, apperrors.Validation("due_date", "due_date cannot be empty")
		}
		fields["due_date"] = *due
	}
	return fields, nil
}

// Archive moves a request to ARCHIVED. Only its creator may do so.
func (s *RequestService) Archive(ctx context.Context, actorID uint, role domain.Role, id uint) (*models.Request, error) {
	if id == 0 {
		return nil, apperrors.Validation("id", "id is required")
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	plan, err := domain.Transition(current.Snapshot(), actorID, role, domain.StatusArchived)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApplyTransition(ctx, id, actorID, plan); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "request archived", "request_id", id, "from", plan.From)
	return s.repo.GetByID(ctx, id)
}

type ListRequestsInput struct {
	Page        int
	Limit       int
	Type        domain.RequestType
	Urgency     domain.Urgency
	Status      domain.RequestStatus
	Location    string
	Text        string
	DueFrom     *time.Time
	DueTo       *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// RequestListItem is a request row with its shelter's display name.
type RequestListItem struct {
	models.Request
	ShelterName string `json:"shelter_name"`
}

type Pagination struct {
	CurrentPage   int   `json:"current_page"`
	Limit         int   `json:"limit"`
	TotalRequests int64 `json:"total_requests"`
	TotalPages    int64 `json:"total_pages"`
}

type RequestPage struct {
	Requests   []RequestListItem `json:"requests"`
	Pagination Pagination        `json:"pagination"`
}

// List returns the requests visible to the viewer, newest first.
func (s *RequestService) List(ctx context.Context, viewerID uint, role domain.Role, in ListRequestsInput) (*RequestPage, error) {
	if role != domain.RoleShelter && role != domain.RoleSupporter {
		return nil, apperrors.Forbidden("Unknown role")
	}
	if err := validatePage(in.Page, in.Limit); err != nil {
		return nil, err
	}
	rows, total, err := s.repo.List(ctx, repository.RequestFilter{
		Type:        in.Type,
		Urgency:     in.Urgency,
		Status:      in.Status,
		Location:    strings.TrimSpace(in.Location),
		Text:        strings.TrimSpace(in.Text),
		DueFrom:     in.DueFrom,
		DueTo:       in.DueTo,
		CreatedFrom: in.CreatedFrom,
		CreatedTo:   in.CreatedTo,
		ViewerID:    viewerID,
		ViewerRole:  role,
		Limit:       in.Limit,
		Offset:      (in.Page - 1) * in.Limit,
	})
	if err != nil {
		return nil, err
	}
	items := make([]RequestListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, RequestListItem{Request: r, ShelterName: r.Creator.Name})
	}
	return &RequestPage{
		Requests: items,
		Pagination: Pagination{
			CurrentPage:   in.Page,
			Limit:         in.Limit,
			TotalRequests: total,
			TotalPages:    totalPages(total, in.Limit),
		},
	}, nil
}

func (s *RequestService) Locations(ctx context.Context) ([]string, error) {
	return s.repo.Locations(ctx)
}

func validatePage(page, limit int) error {
	if page < 1 {
		return apperrors.Validation("page", "page must be a positive integer")
	}
	if limit < 1 {
		return apperrors.Validation("limit", "limit must be a positive integer")
	}
	if page-1 > math.MaxInt/limit {
		return apperrors.Validation("page", "page is out of range")
	}
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate accepts RFC3339 timestamps and YYYY-MM-DD dates. Empty input yields nil.
func ParseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation(field, "Invalid "+field+", expected YYYY-MM-DD or RFC3339")
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

func parseType(s string) (domain.RequestType, error) {
	t, ok := domain.ParseRequestType(s)
	if !ok {
		return "", apperrors.Validation("type", "Invalid type. Must be one of: SUPPLIES, SERVICES, VOLUNTEERS")
	}
	return t, nil
}

func parseUrgency(s string) (domain.Urgency, error) {
	u, ok := domain.ParseUrgency(s)
	if !ok {
		return "", apperrors.Validation("urgency", "Invalid urgency. Must be one of: HIGH, MEDIUM, LOW")
	}
	return u, nil
}

func parseStatus(s string) (domain.RequestStatus, error) {
	st, ok := domain.ParseRequestStatus(s)
	if !ok {
		return "", apperrors.Validation("status", "Invalid status. Must be one of: PENDING, IN_PROGRESS, COMPLETED, ARCHIVED")
	}
	return st, nil
}
