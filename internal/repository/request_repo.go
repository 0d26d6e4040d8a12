package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Transaction runs fn with a repository bound to a single database transaction.
func (r *RequestRepository) Transaction(ctx context.Context, fn func(tx *RequestRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RequestRepository{db: tx})
	})
}

func (r *RequestRepository) Create(ctx context.Context, req *models.Request) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var req models.Request
	err := r.db.WithContext(ctx).First(&req, id).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Request not found")
	}
	return &req, nil
}

func (r *RequestRepository) Participants(ctx context.Context, id uint) (models.Participants, error) {
	var p models.Participants
	err := r.db.WithContext(ctx).Model(&models.Request{}).
		Select("creator_id, assigned_to_id").
		Where("id = ?", id).
		Take(&p).Error
	if err != nil {
		return models.Participants{}, apperrors.FromDB(err, "Request not found")
	}
	return p, nil
}

// ApplyTransition writes plan as one conditional update guarded by the observed status, so
// of two racing claims only one matches a row. A miss is reported as NotFound or
// InvalidTransition depending on whether the request still exists.
func (r *RequestRepository) ApplyTransition(ctx context.Context, id, actorID uint, plan domain.TransitionPlan) error {
	q := r.db.WithContext(ctx).Model(&models.Request{}).Where("id = ? AND status = ?", id, plan.From)
	updates := map[string]any{"status": plan.To}
	switch plan.Assignee {
	case domain.AssigneeSetActor:
		q = q.Where("assigned_to_id IS NULL")
		updates["assigned_to_id"] = actorID
	case domain.AssigneeClear:
		updates["assigned_to_id"] = nil
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.staleOrMissing(ctx, id, "Request status changed, reload and try again")
	}
	return nil
}

// UpdateFields applies creator edits while the request is still in expected status.
func (r *RequestRepository) UpdateFields(ctx context.Context, id uint, expected domain.RequestStatus, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Request{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(fields)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.staleOrMissing(ctx, id, "Request changed while editing, reload and try again")
	}
	return nil
}

func (r *RequestRepository) staleOrMissing(ctx context.Context, id uint, msg string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Request{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Internal(err)
	}
	if count == 0 {
		return apperrors.NotFound("Request not found")
	}
	return apperrors.InvalidTransition(msg)
}

// RequestFilter narrows List. Zero values mean "no filter".
type RequestFilter struct {
	Type        domain.RequestType
	Urgency     domain.Urgency
	Status      domain.RequestStatus
	Location    string
	Text        string
	DueFrom     *time.Time
	DueTo       *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	// Role scoping: shelters see their own requests, supporters see pending ones plus
	// the ones assigned to them.
	ViewerID   uint
	ViewerRole domain.Role

	Limit  int
	Offset int
}

func (r *RequestRepository) List(ctx context.Context, f RequestFilter) ([]models.Request, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Request{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Urgency != "" {
		q = q.Where("urgency = ?", f.Urgency)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Text != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Text)+"%")
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", *f.DueTo)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}
	switch f.ViewerRole {
	case domain.RoleShelter:
		q = q.Where("creator_id = ?", f.ViewerID)
	case domain.RoleSupporter:
		q = q.Where("(status = ? OR assigned_to_id = ?)", domain.StatusPending, f.ViewerID)
	default:
		return nil, 0, errors.New("list requests: viewer role required")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	var list []models.Request
	err := q.Preload("Creator").
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return list, total, nil
}

// Locations returns the distinct request locations, sorted.
func (r *RequestRepository) Locations(ctx context.Context) ([]string, error) {
	locations := []string{}
	err := r.db.WithContext(ctx).Model(&models.Request{}).
		Distinct("location").
		Order("location ASC").
		Pluck("location", &locations).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return locations, nil
}
