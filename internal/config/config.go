package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Env       string          `mapstructure:"env"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	LLM       LLMConfig       `mapstructure:"llm"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
	CORSOrigins       []string      `mapstructure:"cors_origins"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	URI            string        `mapstructure:"uri"`
	Name           string        `mapstructure:"name"`
	Collection     string        `mapstructure:"collection"`
	TLS            bool          `mapstructure:"tls"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	Timezone       string        `mapstructure:"timezone"`
}

// Scheme returns the URI scheme that selects the store implementation
func (c DatabaseConfig) Scheme() string {
	scheme, _, ok := strings.Cut(c.URI, "://")
	if !ok {
		return ""
	}
	return strings.ToLower(scheme)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
	AdminUsername     string        `mapstructure:"admin_username"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
}

// Enabled reports whether dashboard routes require a bearer token
func (c AuthConfig) Enabled() bool {
	return c.AdminPasswordHash != ""
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	APIKey2     string        `mapstructure:"api_key2"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	TopP        float64       `mapstructure:"top_p"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type AdminConfig struct {
	ExportLimit int `mapstructure:"export_limit"`
}

type LoggingConfig struct {
	Level        string        `mapstructure:"level"`
	Format       string        `mapstructure:"format"`
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	var errs []error

	if c.Database.URI == "" {
		errs = append(errs, errors.New("MONGODB_URI is not set"))
	}
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is not set"))
	}
	if c.LLM.APIKey2 == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY2 is not set"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("OPENAI_MODEL is not set"))
	}
	if c.LLM.Provider == "openai" && c.LLM.Endpoint == "" {
		errs = append(errs, errors.New("OPENAI_ENDPOINT is not set"))
	}
	if c.Auth.Enabled() && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when ADMIN_PASSWORD_HASH is set"))
	}

	return errors.Join(errs...)
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file path
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	// Override with environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyTimeoutFloors()

	return &cfg, nil
}

// timeoutHeadroom is the margin kept between nested request deadlines
const timeoutHeadroom = 10 * time.Second

// applyTimeoutFloors keeps the request deadlines above the worst case chat
// call, which is the primary completion plus the fallback completion.
func (c *Config) applyTimeoutFloors() {
	if c.LLM.Timeout <= 0 {
		return
	}
	if floor := 2*c.LLM.Timeout + timeoutHeadroom; c.Server.MiddlewareTimeout < floor {
		c.Server.MiddlewareTimeout = floor
	}
	if floor := c.Server.MiddlewareTimeout + timeoutHeadroom; c.Server.WriteTimeout < floor {
		c.Server.WriteTimeout = floor
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "140s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "130s")
	v.SetDefault("server.cors_origins", []string{"*"})

	// Database
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("database.collection", "chatlogs")
	v.SetDefault("database.tls", false)
	v.SetDefault("database.max_pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.write_timeout", "10s")
	v.SetDefault("database.timezone", "Asia/Manila")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Auth
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.admin_username", "admin")

	// LLM
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "openai/gpt-4.1")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 1.0)
	v.SetDefault("llm.timeout", "60s")

	// Rate limiting
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_minute", 20)
	v.SetDefault("rate_limit.burst", 5)

	// Admin
	v.SetDefault("admin.export_limit", 5000)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_age", "168h") // 7 days
	v.SetDefault("logging.rotation_time", "24h")

	// Telemetry
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "ajs-portfolio")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("env", "ENV")

	// Database
	v.BindEnv("database.uri", "MONGODB_URI")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.admin_username", "ADMIN_USERNAME")
	v.BindEnv("auth.admin_password_hash", "ADMIN_PASSWORD_HASH")

	// LLM
	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("llm.endpoint", "OPENAI_ENDPOINT")
	v.BindEnv("llm.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.api_key2", "OPENAI_API_KEY2")
	v.BindEnv("llm.model", "OPENAI_MODEL")
}
