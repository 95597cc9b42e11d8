package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library

	"todolist/internal/domain"
	"todolist/internal/repository"
	"todolist/internal/service"
	"todolist/internal/utils"
)

const (
	cacheKeyActivities   = "activities:all"
	cacheKeyActivityUser = "activities:user:" // + user id
	listCacheTTL         = 60 * time.Second
)

func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(v), true
}

// ListActivitiesHandler returns all activities
func ListActivitiesHandler(svc *service.ActivityService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []domain.Activity
		if found, err := utils.GetCache(ctx, rdb, cacheKeyActivities, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		activities, err := svc.List(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKeyActivities, activities, listCacheTTL)
		c.JSON(http.StatusOK, activities)
	}
}

// GetActivityHandler returns a single activity by id
func GetActivityHandler(svc *service.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		activity, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
			return
		}
		c.JSON(http.StatusOK, activity)
	}
}

// ListActivitiesByUserHandler returns all activities owned by a user
func ListActivitiesByUserHandler(svc *service.ActivityService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "userId")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := cacheKeyActivityUser + strconv.Itoa(int(userID))
		var cached []domain.Activity
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		activities, err := svc.ListByUser(ctx, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, activities, listCacheTTL)
		c.JSON(http.StatusOK, activities)
	}
}

// CreateActivityHandler creates a new activity. The status always starts
// as ToDo regardless of the request body.
func CreateActivityHandler(svc *service.ActivityService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Activity
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ctx := c.Request.Context()
		activity, err := svc.Add(ctx, &req)
		if err != nil {
			if errors.Is(err, service.ErrInvalidPriority) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": req.UserID,
				"error":   err.Error(),
			}).Error("Failed to create activity")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
			return
		}
		invalidateActivityCaches(c, rdb, activity.UserID)
		c.JSON(http.StatusCreated, activity)
	}
}

// UpdateActivityHandler overwrites an existing activity
func UpdateActivityHandler(svc *service.ActivityService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req domain.Activity
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		req.ID = id
		ctx := c.Request.Context()
		existing, err := svc.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
			return
		}
		switch err := svc.Update(ctx, &req); {
		case errors.Is(err, service.ErrInvalidPriority):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
		default:
			invalidateActivityCaches(c, rdb, existing.UserID)
			c.Status(http.StatusNoContent)
		}
	}
}

// MarkActivityDoneHandler forces the status to Done
func MarkActivityDoneHandler(svc *service.ActivityService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		activity, err := svc.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
			return
		}
		if err := svc.MarkAsDone(ctx, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
			return
		}
		invalidateActivityCaches(c, rdb, activity.UserID)
		c.Status(http.StatusNoContent)
	}
}

// DeleteActivityHandler removes an activity by id
func DeleteActivityHandler(svc *service.ActivityService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		activity, err := svc.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity"})
			return
		}
		invalidateActivityCaches(c, rdb, activity.UserID)
		c.Status(http.StatusNoContent)
	}
}

func invalidateActivityCaches(c *gin.Context, rdb *redis.Client, userID uint) {
	_ = utils.DeleteCache(c.Request.Context(), rdb,
		cacheKeyActivities,
		cacheKeyActivityUser+strconv.Itoa(int(userID)),
	)
}
