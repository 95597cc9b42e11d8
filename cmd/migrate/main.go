package main

import (
	"todolist/internal/config"
	"todolist/internal/db"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())
}
