package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todolist/internal/domain"
	"todolist/internal/repository"
)

func newTestActivityService(t *testing.T, db *gorm.DB) *ActivityService {
	t.Helper()
	return NewActivityService(repository.NewActivityRepository(db))
}

func seedOwner(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()
	user := &domain.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestActivityServiceAddForcesToDo(t *testing.T) {
	db := newTestDB(t)
	svc := newTestActivityService(t, db)
	ctx := context.Background()
	owner := seedOwner(t, db)

	stale := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Add(ctx, &domain.Activity{
		ID:        42, // caller-supplied id must be ignored
		Title:     "Write report",
		Priority:  domain.PriorityHigh,
		Status:    domain.StatusDone, // caller-supplied status must be ignored
		CreatedAt: stale,
		UpdatedAt: stale,
		UserID:    owner.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uint(42), created.ID)
	assert.Equal(t, domain.StatusToDo, created.Status)
	assert.True(t, created.CreatedAt.After(stale))

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusToDo, stored.Status)
}

func TestActivityServiceAddInvalidPriority(t *testing.T) {
	db := newTestDB(t)
	svc := newTestActivityService(t, db)
	owner := seedOwner(t, db)

	_, err := svc.Add(context.Background(), &domain.Activity{Title: "x", Priority: "Urgent", UserID: owner.ID})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestActivityServiceUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestActivityService(t, db)
	ctx := context.Background()
	owner := seedOwner(t, db)

	created, err := svc.Add(ctx, &domain.Activity{Title: "Write report", Description: "draft", Priority: domain.PriorityLow, UserID: owner.ID})
	require.NoError(t, err)
	require.NoError(t, svc.MarkAsDone(ctx, created.ID))
	before, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	err = svc.Update(ctx, &domain.Activity{
		ID:          created.ID,
		Title:       "Ship report",
		Description: "final",
		Priority:    domain.PriorityHigh,
	})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship report", stored.Title)
	assert.Equal(t, "final", stored.Description)
	assert.Equal(t, domain.PriorityHigh, stored.Priority)
	assert.Equal(t, domain.StatusDone, stored.Status, "update must leave the status untouched")
	assert.True(t, stored.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.CreatedAt.Unix(), stored.CreatedAt.Unix(), "the creation time never changes")
}

func TestActivityServiceUpdateMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestActivityService(t, db)

	err := svc.Update(context.Background(), &domain.Activity{ID: 999, Title: "ghost", Priority: domain.PriorityLow})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivityServiceMarkAsDone(t *testing.T) {
	db := newTestDB(t)
	svc := newTestActivityService(t, db)
	ctx := context.Background()
	owner := seedOwner(t, db)

	created, err := svc.Add(ctx, &domain.Activity{Title: "Write report", Priority: domain.PriorityLow, UserID: owner.ID})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, svc.MarkAsDone(ctx, created.ID))

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, stored.Status)
	assert.True(t, stored.UpdatedAt.After(created.UpdatedAt), "mark-as-done must stamp a strictly later updated time")
}

func TestActivityServiceMarkAsDoneMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestActivityService(t, db)

	err := svc.MarkAsDone(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
