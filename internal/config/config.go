package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/hyprland-community/Hyprmaid/internal/validation"
)

// Config holds the application configuration
type Config struct {
	// Server configuration (health endpoint)
	Server ServerConfig

	// GitHub configuration
	GitHub GitHubConfig

	// Discord configuration
	Discord DiscordConfig

	// Reconciliation configuration
	Reconcile ReconcileConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host            string
	Port            int  // 0 disables the health server
	RateLimit       int  // requests per minute per client, 0 disables
	TrustProxy      bool // take the client address from X-Forwarded-For / X-Real-IP
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// GitHubConfig holds source-control provider configuration
type GitHubConfig struct {
	Org    string
	Token  string // optional; unauthenticated requests get lower rate limits
	APIURL string // optional GitHub Enterprise API base URL
}

// DiscordConfig holds chat platform configuration
type DiscordConfig struct {
	Token        string
	GuildID      string
	ShowInviteQR bool
}

// ReconcileConfig holds reconciliation loop configuration
type ReconcileConfig struct {
	Schedule         string // robfig/cron expression, e.g. "@every 10s"
	Blacklist        []string
	WebhookName      string
	WebhookURLSuffix string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// DefaultBlacklist lists repositories that never get a channel group
var DefaultBlacklist = []string{".github", "submissions", "community"}

// Load loads configuration from .env and environment variables
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile loads configuration from envFile, if present, and environment
// variables with sensible defaults. Variables already set in the
// environment win over the file.
func LoadFile(envFile string) (*Config, error) {
	// the file is optional
	_ = godotenv.Load(envFile)

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", ""),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			RateLimit:       getEnvAsInt("SERVER_RATE_LIMIT", 60),
			TrustProxy:      getEnvAsBool("SERVER_TRUST_PROXY", false),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		GitHub: GitHubConfig{
			Org:    getEnv("GITHUB_ORG", ""),
			Token:  getEnv("GITHUB_TOKEN", ""),
			APIURL: getEnv("GITHUB_API_URL", ""),
		},
		Discord: DiscordConfig{
			Token:        getEnv("DISCORD_TOKEN", ""),
			GuildID:      getEnv("DISCORD_SERVER_ID", ""),
			ShowInviteQR: getEnvAsBool("SHOW_INVITE_QR", false),
		},
		Reconcile: ReconcileConfig{
			Schedule:         getEnv("RECONCILE_SCHEDULE", "@every 10s"),
			Blacklist:        getEnvAsSlice("BLACKLISTED_REPOS", DefaultBlacklist),
			WebhookName:      getEnv("WEBHOOK_NAME", "GitHub"),
			WebhookURLSuffix: getEnv("WEBHOOK_URL_SUFFIX", "/github"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	v := validation.New()

	// Health server
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("SERVER_RATE_LIMIT must not be negative: %d", c.Server.RateLimit)
	}

	// Required credentials and identifiers
	if appErr := v.ValidateOrg(c.GitHub.Org); appErr != nil {
		return fmt.Errorf("GITHUB_ORG: %w", appErr)
	}

	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}

	if appErr := v.ValidateGuildID(c.Discord.GuildID); appErr != nil {
		return fmt.Errorf("DISCORD_SERVER_ID: %w", appErr)
	}

	// Reconciliation
	if _, err := c.Reconcile.ParseSchedule(); err != nil {
		return fmt.Errorf("invalid RECONCILE_SCHEDULE %q: %w", c.Reconcile.Schedule, err)
	}

	if c.Reconcile.WebhookName == "" {
		return fmt.Errorf("WEBHOOK_NAME must not be empty")
	}

	return nil
}

// ParseSchedule parses the reconciliation schedule
func (r *ReconcileConfig) ParseSchedule() (cron.Schedule, error) {
	return cron.ParseStandard(r.Schedule)
}

// Address returns the server address in the format host:port
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Enabled reports whether the health server should be started
func (s *ServerConfig) Enabled() bool {
	return s.Port != 0
}

// Helper functions to get environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	values := make([]string, 0)
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	return values
}
