package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration. It is loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	Port        string `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`
	LogLevel    string `yaml:"log_level"`

	Auth       AuthConfig       `yaml:"auth"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Database   DatabaseConfig   `yaml:"database"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	S3         S3Config         `yaml:"s3"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Service    ServiceConfig    `yaml:"summary_service"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// SummarizerConfig points at the external summarization endpoint.
type SummarizerConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RateLimitConfig configures the global edge limiter. An empty RedisAddr selects
// the in-memory limiter.
type RateLimitConfig struct {
	Max           int           `yaml:"max"`
	Window        time.Duration `yaml:"window"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

// KafkaConfig enables ItemCreated events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Prefix       string `yaml:"prefix"`
	Profile      string `yaml:"profile"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type YouTubeConfig struct {
	APIKey string `yaml:"api_key"`
}

// ServiceConfig configures the summarization microservice.
type ServiceConfig struct {
	Port          string `yaml:"port"`
	Backend       string `yaml:"backend"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`
	CohereAPIKey  string `yaml:"cohere_api_key"`
	CohereModel   string `yaml:"cohere_model"`
}

var (
	ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required")
	ErrMissingLLMKey    = errors.New("config: an API key for the selected LLM backend is required")
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// Load builds the configuration. When path is non-empty the YAML file is read
// first; environment variables override file values; defaults fill the rest.
// Validation is left to the caller because each subcommand needs a different
// subset (see ValidateAPI and ValidateService).
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.FrontendURL = getEnvOrDefault("FRONTEND_URL", cfg.FrontendURL)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)

	cfg.Auth.JWTSecret = getEnvOrDefault("JWT_SECRET", cfg.Auth.JWTSecret)

	// PYTHON_BACKEND_URL is the legacy base URL; SUMMARIZER_URL is the full endpoint.
	if base := os.Getenv("PYTHON_BACKEND_URL"); base != "" {
		cfg.Summarizer.URL = strings.TrimRight(base, "/") + "/scrape"
	}
	cfg.Summarizer.URL = getEnvOrDefault("SUMMARIZER_URL", cfg.Summarizer.URL)

	cfg.Database.Path = getEnvOrDefault("DATABASE_PATH", cfg.Database.Path)

	cfg.RateLimit.RedisAddr = getEnvOrDefault("REDIS_ADDR", cfg.RateLimit.RedisAddr)
	cfg.RateLimit.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", cfg.RateLimit.RedisPassword)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.Topic = getEnvOrDefault("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.GroupID = getEnvOrDefault("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	cfg.S3.Bucket = getEnvOrDefault("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = getEnvOrDefault("S3_REGION", cfg.S3.Region)
	cfg.S3.Prefix = getEnvOrDefault("S3_PREFIX", cfg.S3.Prefix)
	cfg.S3.Profile = getEnvOrDefault("S3_PROFILE", cfg.S3.Profile)
	cfg.S3.Endpoint = getEnvOrDefault("S3_ENDPOINT", cfg.S3.Endpoint)
	if v := os.Getenv("S3_USE_PATH_STYLE"); v != "" {
		cfg.S3.UsePathStyle = strings.EqualFold(strings.TrimSpace(v), "true")
	}

	cfg.YouTube.APIKey = getEnvOrDefault("YOUTUBE_API_KEY", cfg.YouTube.APIKey)

	cfg.Service.Port = getEnvOrDefault("SUMMARY_PORT", cfg.Service.Port)
	cfg.Service.Backend = getEnvOrDefault("LLM_BACKEND", cfg.Service.Backend)
	cfg.Service.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", cfg.Service.OpenAIAPIKey)
	cfg.Service.OpenAIBaseURL = getEnvOrDefault("OPENAI_BASE_URL", cfg.Service.OpenAIBaseURL)
	cfg.Service.OpenAIModel = getEnvOrDefault("OPENAI_MODEL", cfg.Service.OpenAIModel)
	cfg.Service.CohereAPIKey = getEnvOrDefault("COHERE_API_KEY", cfg.Service.CohereAPIKey)
	cfg.Service.CohereModel = getEnvOrDefault("COHERE_MODEL", cfg.Service.CohereModel)

	var err error
	if cfg.Auth.TokenTTL, err = getEnvDurationOrDefault("TOKEN_TTL", cfg.Auth.TokenTTL); err != nil {
		return err
	}
	if cfg.Summarizer.Timeout, err = getEnvDurationOrDefault("SUMMARIZER_TIMEOUT", cfg.Summarizer.Timeout); err != nil {
		return err
	}
	if cfg.RateLimit.Window, err = getEnvDurationOrDefault("RATE_LIMIT_WINDOW", cfg.RateLimit.Window); err != nil {
		return err
	}
	if cfg.RateLimit.Max, err = getEnvIntOrDefault("RATE_LIMIT_MAX", cfg.RateLimit.Max); err != nil {
		return err
	}
	if cfg.RateLimit.RedisDB, err = getEnvIntOrDefault("REDIS_DB", cfg.RateLimit.RedisDB); err != nil {
		return err
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = DefaultFrontendURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}
	if cfg.Summarizer.URL == "" {
		cfg.Summarizer.URL = DefaultSummarizerURL
	}
	if cfg.Summarizer.Timeout == 0 {
		cfg.Summarizer.Timeout = DefaultSummarizerTimeout
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.RateLimit.Max == 0 {
		cfg.RateLimit.Max = DefaultRateLimitMax
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = DefaultRateLimitWindow
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = DefaultS3Region
	}
	if cfg.S3.Prefix != "" {
		cfg.S3.Prefix = strings.Trim(cfg.S3.Prefix, "/") + "/"
	}
	if cfg.Service.Port == "" {
		cfg.Service.Port = DefaultSummaryPort
	}
	if cfg.Service.Backend == "" {
		cfg.Service.Backend = DefaultLLMBackend
	}
	if cfg.Service.OpenAIModel == "" {
		cfg.Service.OpenAIModel = DefaultOpenAIModel
	}
	if cfg.Service.CohereModel == "" {
		cfg.Service.CohereModel = DefaultCohereModel
	}
}

// ValidateAPI checks the settings required by the API server and token tooling.
func (c *Config) ValidateAPI() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.Summarizer.Timeout < 0 {
		return fmt.Errorf("config: summarizer timeout must be positive, got %s", c.Summarizer.Timeout)
	}
	if c.RateLimit.Max < 0 {
		return fmt.Errorf("config: rate limit max must be positive, got %d", c.RateLimit.Max)
	}
	return nil
}

// ValidateService checks the settings required by the summarization microservice.
func (c *Config) ValidateService() error {
	switch c.Service.Backend {
	case "openai":
		// A base URL without a key is a local OpenAI-compatible server.
		if c.Service.OpenAIAPIKey == "" && c.Service.OpenAIBaseURL == "" {
			return ErrMissingLLMKey
		}
	case "cohere":
		if c.Service.CohereAPIKey == "" {
			return ErrMissingLLMKey
		}
	default:
		return fmt.Errorf("config: unsupported LLM backend %q (supported: openai, cohere)", c.Service.Backend)
	}
	return nil
}

// ArchiveEnabled reports whether both Kafka and S3 are configured.
func (c *Config) ArchiveEnabled() bool {
	return len(c.Kafka.Brokers) > 0 && c.S3.Bucket != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("config: invalid integer for %s: %w", key, err)
	}
	return n, nil
}

// getEnvDurationOrDefault accepts Go durations ("90s") or a bare number of seconds.
func getEnvDurationOrDefault(key string, defaultVal time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("config: invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
