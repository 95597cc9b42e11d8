package service

import (
	"context"
	"time"

	"todolist/internal/domain"
	"todolist/internal/repository"
)

// ActivityService wraps activity-related business logic.
type ActivityService struct {
	activities *repository.ActivityRepository
}

func NewActivityService(activities *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

func (s *ActivityService) List(ctx context.Context) ([]domain.Activity, error) {
	return s.activities.FindAll(ctx)
}

func (s *ActivityService) ListByUser(ctx context.Context, userID uint) ([]domain.Activity, error) {
	return s.activities.FindByUserID(ctx, userID)
}

// Get returns the activity or repository.ErrNotFound.
func (s *ActivityService) Get(ctx context.Context, id uint) (*domain.Activity, error) {
	return s.activities.FindByID(ctx, id)
}

// Add creates an activity from the caller-supplied fields. The id and
// timestamps are store-assigned and the status always starts as ToDo, no
// matter what the caller sent.
func (s *ActivityService) Add(ctx context.Context, input *domain.Activity) (*domain.Activity, error) {
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	activity := &domain.Activity{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      domain.StatusToDo,
		UserID:      input.UserID,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Update overwrites the title unconditionally and description/priority
// only when they changed, then stamps the updated time. Status and the
// creation time are left untouched.
func (s *ActivityService) Update(ctx context.Context, input *domain.Activity) error {
	activity, err := s.activities.FindByID(ctx, input.ID)
	if err != nil {
		return err
	}
	activity.Title = input.Title
	if input.Description != activity.Description {
		activity.Description = input.Description
	}
	if input.Priority != activity.Priority {
		if !input.Priority.Valid() {
			return ErrInvalidPriority
		}
		activity.Priority = input.Priority
	}
	activity.UpdatedAt = time.Now().UTC()
	return s.activities.Update(ctx, activity)
}

// MarkAsDone forces the status to Done and stamps the updated time.
func (s *ActivityService) MarkAsDone(ctx context.Context, id uint) error {
	activity, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return err
	}
	activity.Status = domain.StatusDone
	activity.UpdatedAt = time.Now().UTC()
	return s.activities.Update(ctx, activity)
}

// Delete removes an activity by id.
func (s *ActivityService) Delete(ctx context.Context, id uint) error {
	return s.activities.Delete(ctx, id)
}
