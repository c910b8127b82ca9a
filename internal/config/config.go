package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the optional YAML file layered under the environment
const ConfigPathEnv = "CONTENTEVAL_CONFIG"

// Config holds service-wide settings
type Config struct {
	MongoURI        string `yaml:"mongoUri"`
	MongoDatabase   string `yaml:"mongoDatabase"`
	MongoCollection string `yaml:"mongoCollection"`
	RedisAddr       string `yaml:"redisAddr"`
	HTTPPort        string `yaml:"httpPort"`

	// RecordCacheTTL bounds how long a normalized record set is reused
	RecordCacheTTL time.Duration `yaml:"recordCacheTtl"`
	// SessionTTL is how long an idle evaluator session survives in Redis
	SessionTTL time.Duration `yaml:"sessionTtl"`

	Scoring ScoringConfig `yaml:"scoring"`
	Auth    AuthConfig    `yaml:"auth"`
}

// AuthConfig holds operator login settings
type AuthConfig struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	JWTSecret string `yaml:"jwtSecret"`
}

// Default returns the built-in configuration. It carries no credentials.
func Default() *Config {
	return &Config{
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "LA_writing-database",
		MongoCollection: "Describe-image-remarks",
		RedisAddr:       "localhost:6379",
		HTTPPort:        "8080",
		RecordCacheTTL:  300 * time.Second,
		SessionTTL:      12 * time.Hour,
		Scoring:         *DefaultScoringConfig(),
		Auth: AuthConfig{
			Username: "operator",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or at
// $CONTENTEVAL_CONFIG when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.MongoCollection = getEnv("MONGO_COLLECTION", cfg.MongoCollection)
	cfg.RedisAddr = strings.TrimPrefix(getEnv("REDIS_URI", cfg.RedisAddr), "redis://")
	cfg.HTTPPort = getEnv("PORT", cfg.HTTPPort)
	cfg.RecordCacheTTL = getEnvDuration("RECORD_CACHE_TTL", cfg.RecordCacheTTL)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)

	cfg.Scoring.BaseURL = getEnv("SCORING_API_URL", cfg.Scoring.BaseURL)
	cfg.Scoring.Token = getEnv("SCORING_API_TOKEN", cfg.Scoring.Token)
	cfg.Scoring.TimeoutMS = getEnvInt("SCORING_TIMEOUT_MS", cfg.Scoring.TimeoutMS)
	cfg.Scoring.InsecureSkipVerify = getEnvBool("SCORING_INSECURE_SKIP_VERIFY", cfg.Scoring.InsecureSkipVerify)

	cfg.Auth.Username = getEnv("OPERATOR_USERNAME", cfg.Auth.Username)
	cfg.Auth.Password = getEnv("OPERATOR_PASSWORD", cfg.Auth.Password)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)

	if cfg.RecordCacheTTL <= 0 {
		return nil, fmt.Errorf("record cache ttl must be positive, got %s", cfg.RecordCacheTTL)
	}
	if cfg.Scoring.TimeoutMS <= 0 {
		return nil, fmt.Errorf("scoring timeout must be positive, got %dms", cfg.Scoring.TimeoutMS)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}
