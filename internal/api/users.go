package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library

	"todolist/internal/domain"
	"todolist/internal/repository"
	"todolist/internal/service"
	"todolist/internal/utils"
)

const cacheKeyUsers = "users:all"

// Request struct for user creation and update; the plaintext password only
// exists on the wire, never in a serialized response.
type UserRequest struct {
	ID        uint   `json:"id"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for registration
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`       // Username must be provided
	Email     string `json:"email" binding:"required,email"`    // Email must be provided and well-formed
	Password  string `json:"password" binding:"required,min=8"` // Password must be at least 8 characters
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r UserRequest) toDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// ListUsersHandler returns all users
func ListUsersHandler(svc *service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []domain.User
		if found, err := utils.GetCache(ctx, rdb, cacheKeyUsers, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		users, err := svc.List(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKeyUsers, users, listCacheTTL)
		c.JSON(http.StatusOK, users)
	}
}

// GetUserHandler returns a single user by id
func GetUserHandler(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		user, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// CreateUserHandler creates a user directly
func CreateUserHandler(svc *service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user := req.toDomain()
		user.ID = 0
		if err := svc.Add(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = utils.DeleteCache(c.Request.Context(), rdb, cacheKeyUsers)
		c.JSON(http.StatusCreated, user)
	}
}

// UpdateUserHandler overwrites an existing user
func UpdateUserHandler(svc *service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req UserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.ID != 0 && req.ID != id {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Id mismatch"})
			return
		}
		user := req.toDomain()
		user.ID = id
		switch err := svc.Update(c.Request.Context(), user); {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = utils.DeleteCache(c.Request.Context(), rdb, cacheKeyUsers)
			c.Status(http.StatusNoContent)
		}
	}
}

// DeleteUserHandler removes a user and, through the cascade, its activities
func DeleteUserHandler(svc *service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		if _, err := svc.Get(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		_ = utils.DeleteCache(ctx, rdb, cacheKeyUsers, cacheKeyActivities, cacheKeyActivityUser+c.Param("id"))
		c.Status(http.StatusNoContent)
	}
}

// LoginHandler validates credentials and returns the stored user record
func LoginHandler(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := svc.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// RegisterHandler registers a user at the identity provider and mirrors it
// into the local store
func RegisterHandler(svc *service.UserService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := svc.Register(c.Request.Context(), service.RegisterInput{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"username": req.Username,
				"error":    err.Error(),
			}).Error("Registration failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		_ = utils.DeleteCache(c.Request.Context(), rdb, cacheKeyUsers)
		c.JSON(http.StatusCreated, user)
	}
}
