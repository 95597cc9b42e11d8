package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	// Identity provider (Keycloak) settings
	KeycloakAdminURL      string // Base URL of the admin REST API
	KeycloakTokenURL      string // Base URL for token requests
	KeycloakRealm         string // Realm users are registered into
	KeycloakAdminUsername string // Admin account for the admin-cli client
	KeycloakAdminPassword string // Admin account password
	KeycloakAuthority     string // Expected token issuer
	KeycloakAudience      string // Expected token audience
	KeycloakMetadataAddr  string // OIDC metadata document address
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    os.Getenv("APP_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBName:     os.Getenv("DB_NAME"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		RedisPass:  os.Getenv("REDIS_PASS"),
		RedisDB:    redisDB,
		IsProd:     os.Getenv("IS_PROD") == "true",

		KeycloakAdminURL:      os.Getenv("KEYCLOAK_ADMIN_URL"),
		KeycloakTokenURL:      os.Getenv("KEYCLOAK_TOKEN_URL"),
		KeycloakRealm:         os.Getenv("KEYCLOAK_REALM"),
		KeycloakAdminUsername: os.Getenv("KEYCLOAK_ADMIN_USERNAME"),
		KeycloakAdminPassword: os.Getenv("KEYCLOAK_ADMIN_PASSWORD"),
		KeycloakAuthority:     os.Getenv("KEYCLOAK_AUTHORITY"),
		KeycloakAudience:      os.Getenv("KEYCLOAK_AUDIENCE"),
		KeycloakMetadataAddr:  os.Getenv("KEYCLOAK_METADATA_ADDRESS"),
	}
}

// DSN builds the MySQL data source name from the database settings
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}
