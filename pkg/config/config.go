package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig     `envconfig:"SERVER"`
	Database   DatabaseConfig   `envconfig:"DB"`
	Redis      RedisConfig      `envconfig:"REDIS"`
	Storage    StorageConfig    `envconfig:"STORAGE"`
	Assembly   AssemblyAIConfig `envconfig:"ASSEMBLYAI"`
	Groq       GroqConfig       `envconfig:"GROQ"`
	Gemini     GeminiConfig     `envconfig:"GEMINI"`
	Pipeline   PipelineConfig   `envconfig:"PIPELINE"`
	Queue      QueueConfig      `envconfig:"QUEUE"`
	Auth       AuthConfig       `envconfig:"AUTH"`
	Log        LogConfig        `envconfig:"LOG"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	MaxUploadBytes  int64         `envconfig:"MAX_UPLOAD_BYTES" default:"26214400"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver      string `envconfig:"DRIVER" default:"postgres"` // "postgres" or "sqlite"
	Host        string `envconfig:"HOST" default:"localhost"`
	Port        string `envconfig:"PORT" default:"5432"`
	User        string `envconfig:"USER" default:"postgres"`
	Password    string `envconfig:"PASSWORD" default:"postgres"`
	Name        string `envconfig:"NAME" default:"meetings"`
	SSLMode     string `envconfig:"SSLMODE" default:"disable"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"meetings.db"`
	MaxConns    int    `envconfig:"MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// StorageConfig holds artifact storage configuration
type StorageConfig struct {
	Type            string `envconfig:"TYPE" default:"local"` // "local" or "minio"
	LocalDir        string `envconfig:"LOCAL_DIR" default:"./data/artifacts"`
	Endpoint        string `envconfig:"ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"BUCKET" default:"meeting-recordings"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"false"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey       string        `envconfig:"API_KEY"`
	BaseURL      string        `envconfig:"BASE_URL"`
	LanguageCode string        `envconfig:"LANGUAGE_CODE" default:"en"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"3s"`
}

// GroqConfig holds Groq (OpenAI-compatible) configuration
type GroqConfig struct {
	APIKey             string `envconfig:"API_KEY"`
	BaseURL            string `envconfig:"BASE_URL" default:"https://api.groq.com"`
	ChatModel          string `envconfig:"CHAT_MODEL" default:"llama-3.3-70b-versatile"`
	TranscriptionModel string `envconfig:"TRANSCRIPTION_MODEL" default:"whisper-large-v3"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey string `envconfig:"API_KEY"`
	Model  string `envconfig:"MODEL" default:"gemini-2.0-flash"`
}

// PipelineConfig holds meeting pipeline configuration
type PipelineConfig struct {
	TranscriptionProvider string        `envconfig:"TRANSCRIPTION_PROVIDER" default:"groq"` // "groq" or "assemblyai"
	SummarizationProvider string        `envconfig:"SUMMARIZATION_PROVIDER" default:"groq"` // "groq" or "gemini"
	AcceptThreshold       float64       `envconfig:"ACCEPT_THRESHOLD" default:"0.6"`
	MaxArtifactBytes      int64         `envconfig:"MAX_ARTIFACT_BYTES" default:"26214400"`
	MaxDuration           time.Duration `envconfig:"MAX_DURATION" default:"2h"`
	StageTimeout          time.Duration `envconfig:"STAGE_TIMEOUT" default:"10m"`
	JobTimeout            time.Duration `envconfig:"JOB_TIMEOUT" default:"30m"`
	Workers               int           `envconfig:"WORKERS" default:"2"`
	QueueSize             int           `envconfig:"QUEUE_SIZE" default:"100"`
	FFProbePath           string        `envconfig:"FFPROBE_PATH" default:"ffprobe"`
}

// QueueConfig selects the job dispatcher
type QueueConfig struct {
	Driver      string        `envconfig:"DRIVER" default:"memory"` // "memory" or "redis"
	Key         string        `envconfig:"KEY" default:"meetings:pipeline:jobs"`
	PollTimeout time.Duration `envconfig:"POLL_TIMEOUT" default:"5s"`
	NotifyTopic string        `envconfig:"NOTIFY_TOPIC" default:"meetings:notifications"`
}

// AuthConfig holds bearer token verification configuration
type AuthConfig struct {
	AccessSecret string        `envconfig:"ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	Issuer       string        `envconfig:"ISSUER" default:"synkro"`
	AccessExpiry time.Duration `envconfig:"ACCESS_EXPIRY" default:"15m"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read loads configuration without validating it. Database tooling uses it
// so migrations run without provider credentials.
func Read() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}

	switch c.Storage.Type {
	case "local", "minio":
	default:
		return fmt.Errorf("STORAGE_TYPE must be local or minio, got %q", c.Storage.Type)
	}

	switch c.Queue.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("QUEUE_DRIVER must be memory or redis, got %q", c.Queue.Driver)
	}

	switch c.Pipeline.TranscriptionProvider {
	case "groq":
		if c.Groq.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for groq transcription")
		}
	case "assemblyai":
		if c.Assembly.APIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required for assemblyai transcription")
		}
	default:
		return fmt.Errorf("PIPELINE_TRANSCRIPTION_PROVIDER must be groq or assemblyai, got %q", c.Pipeline.TranscriptionProvider)
	}

	switch c.Pipeline.SummarizationProvider {
	case "groq":
		if c.Groq.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for groq summarization")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for gemini summarization")
		}
	default:
		return fmt.Errorf("PIPELINE_SUMMARIZATION_PROVIDER must be groq or gemini, got %q", c.Pipeline.SummarizationProvider)
	}

	if c.Pipeline.AcceptThreshold < 0 || c.Pipeline.AcceptThreshold > 1 {
		return fmt.Errorf("PIPELINE_ACCEPT_THRESHOLD must be within [0,1], got %v", c.Pipeline.AcceptThreshold)
	}
	if c.Pipeline.MaxArtifactBytes <= 0 {
		return fmt.Errorf("PIPELINE_MAX_ARTIFACT_BYTES must be positive")
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("PIPELINE_WORKERS must be positive")
	}
	if c.IsProduction() && strings.Contains(c.Auth.AccessSecret, "change-in-production") {
		return fmt.Errorf("AUTH_ACCESS_SECRET must be set in production")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// DSN returns the database connection string for the configured driver
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr returns the Redis address
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
