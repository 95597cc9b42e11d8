package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library

	"todolist/internal/api"
	"todolist/internal/config"
	"todolist/internal/keycloak"
	"todolist/internal/middleware"
	"todolist/internal/repository"
	"todolist/internal/service"
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client for the list-endpoint cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire repositories, identity provider client and services
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	identity := keycloak.NewClient(cfg)
	userService := service.NewUserService(userRepo, identity)
	activityService := service.NewActivityService(activityRepo)

	// Bearer tokens are validated against the identity provider's key set
	keySet := middleware.NewKeySet(cfg)
	if err := keySet.Refresh(); err != nil {
		logrus.Warnf("could not prime identity provider key set: %v", err)
	}

	r := api.NewRouter(userService, activityService, redisClient, middleware.Auth(keySet))
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	log.Println("Server running on " + cfg.AppPort)
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
