package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"todolist/internal/middleware"
	"todolist/internal/service"
)

// NewRouter mounts all routes. Everything except login and registration
// sits behind the auth middleware.
func NewRouter(users *service.UserService, activities *service.ActivityService, rdb *redis.Client, auth gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	userGroup := r.Group("/users")
	userGroup.POST("/login", LoginHandler(users))
	userGroup.POST("/register", RegisterHandler(users, rdb))

	userProtected := userGroup.Group("", auth)
	userProtected.GET("", ListUsersHandler(users, rdb))
	userProtected.GET("/:id", GetUserHandler(users))
	userProtected.POST("", CreateUserHandler(users, rdb))
	userProtected.PUT("/:id", UpdateUserHandler(users, rdb))
	userProtected.DELETE("/:id", DeleteUserHandler(users, rdb))

	activityGroup := r.Group("/activities", auth)
	activityGroup.GET("", ListActivitiesHandler(activities, rdb))
	activityGroup.GET("/:id", GetActivityHandler(activities))
	activityGroup.GET("/user/:userId", ListActivitiesByUserHandler(activities, rdb))
	activityGroup.POST("", CreateActivityHandler(activities, rdb))
	activityGroup.PUT("/:id", UpdateActivityHandler(activities, rdb))
	activityGroup.PUT("/:id/mark-as-done", MarkActivityDoneHandler(activities, rdb))
	activityGroup.DELETE("/:id", DeleteActivityHandler(activities, rdb))

	return r
}
