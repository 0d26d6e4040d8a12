package repository

import (
	"context"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found")
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, apperrors.FromDB(err, "User not found")
	}
	return &u, nil
}

// GetByIDs returns the users found among ids; missing ids are skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var list []models.User
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

func (r *UserRepository) UpdateName(ctx context.Context, id uint, name string) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, apperrors.Internal(res.Error)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdatePushToken(ctx context.Context, id uint, token string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("push_token", token)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero when the token is unchanged.
		_, err := r.GetByID(ctx, id)
		return err
	}
	return nil
}
