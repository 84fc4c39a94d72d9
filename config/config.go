package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service. It is loaded exactly once at
// process start; nothing else reads environment variables directly.
type Config struct {
	ServerPort       string
	MongoURI         string
	MongoDBName      string
	JWTSecret        string
	AdminInviteToken string
	AllowedOrigins   []string
	UploadDir        string
	LogDir           string
}

const (
	defaultServerPort  = "5000"
	defaultMongoDBName = "task_manager_db"
	defaultUploadDir   = "uploads"
	defaultLogDir      = "logs"
)

// Load reads the optional .env file and builds the configuration from environment
// variables, applying defaults where a variable is unset.
func Load() (*Config, error) {
	// A missing .env file is fine in containerized deployments, where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", defaultServerPort),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDBName:      getEnv("MONGO_DB_NAME", defaultMongoDBName),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		AdminInviteToken: os.Getenv("ADMIN_INVITE_TOKEN"),
		AllowedOrigins:   splitOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		UploadDir:        getEnv("UPLOAD_DIR", defaultUploadDir),
		LogDir:           getEnv("LOG_DIR", defaultLogDir),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
