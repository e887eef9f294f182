package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"

	ObjectStoreNone  = "none"
	ObjectStoreLocal = "local"
	ObjectStoreS3    = "s3"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"8080"`
	Env             string   `env:"ENV" envDefault:"dev"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimitPerMin int      `env:"RATE_LIMIT_PER_MIN" envDefault:"30" validate:"gte=0"`

	// Provider settings for the /api/ai proxy.
	AIURL           string        `env:"AI_URL" envDefault:"https://api.openai.com/v1/chat/completions" validate:"omitempty,url"`
	AIAPIKey        string        `env:"AI_API_KEY"`
	AIModel         string        `env:"AI_MODEL" envDefault:"gpt-4o"`
	UseMockData     bool          `env:"USE_MOCK_DATA" envDefault:"false"`
	AITimeout       time.Duration `env:"AI_TIMEOUT" envDefault:"120s"`
	AnalysisTimeout time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"0s"`

	SessionStore string        `env:"SESSION_STORE" envDefault:"memory" validate:"oneof=memory redis postgres"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"2h" validate:"gt=0"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" validate:"required_if=SessionStore redis"`
	DatabaseURL  string        `env:"DATABASE_URL" validate:"required_if=SessionStore postgres"`
	DB           DBConfig      `envPrefix:"DB_"`

	ObjectStoreType string `env:"OBJECT_STORE" envDefault:"none" validate:"oneof=none local s3"`
	LocalStoreDir   string `env:"LOCAL_STORE_DIR" envDefault:"./data"`
	AWSRegion       string `env:"AWS_REGION"`
	S3Bucket        string `env:"S3_BUCKET" validate:"required_if=ObjectStoreType s3"`
	S3Prefix        string `env:"S3_PREFIX"`
	SSEKMSKeyID     string `env:"SSE_KMS_KEY_ID"`
}

// DBConfig overrides the Postgres pool defaults. Zero values keep the default.
type DBConfig struct {
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" validate:"gte=0"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" validate:"gte=0"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" validate:"gte=0"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" validate:"gte=0"`
	PingTimeout     time.Duration `env:"PING_TIMEOUT" validate:"gte=0"`
	ConnectWait     time.Duration `env:"CONNECT_WAIT" validate:"gte=0"`
}

// Load reads configuration from environment variables, after a best-effort
// load of local .env files.
func Load() (Config, error) {
	// Missing files are fine; existing process env always wins.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsDev reports whether the process runs in a development-like environment.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "local"
}

func (c *Config) normalize() {
	c.Env = normalizeEnv(c.Env)
	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	c.ObjectStoreType = strings.ToLower(strings.TrimSpace(c.ObjectStoreType))
	c.AIAPIKey = strings.TrimSpace(c.AIAPIKey)
	c.AIURL = strings.TrimSpace(c.AIURL)
	if strings.TrimSpace(c.AIModel) == "" {
		c.AIModel = "gpt-4o"
	}
	var origins []string
	for _, o := range c.CORSAllowOrigin {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORSAllowOrigin = origins
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
