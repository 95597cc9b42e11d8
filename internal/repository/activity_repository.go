package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todolist/internal/domain"
)

// ActivityRepository handles CRUD for activities.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) FindAll(ctx context.Context) ([]domain.Activity, error) {
	activities := make([]domain.Activity, 0)
	if err := r.db.WithContext(ctx).Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id uint) (*domain.Activity, error) {
	var activity domain.Activity
	if err := r.db.WithContext(ctx).First(&activity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find activity %d: %w", id, err)
	}
	return &activity, nil
}

func (r *ActivityRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Activity, error) {
	activities := make([]domain.Activity, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list activities for user %d: %w", userID, err)
	}
	return activities, nil
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// Update replaces the full row.
func (r *ActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	if err := r.db.WithContext(ctx).Save(activity).Error; err != nil {
		return fmt.Errorf("update activity %d: %w", activity.ID, err)
	}
	return nil
}

// Delete removes an activity by id; a missing row is a no-op.
func (r *ActivityRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Activity{}, id).Error; err != nil {
		return fmt.Errorf("delete activity %d: %w", id, err)
	}
	return nil
}
