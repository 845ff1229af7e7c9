package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting. Field tags are the lower-cased
// environment variable names, so SERVER_PORT binds to server_port.
type Config struct {
	AppEnv    string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	ServerPort     string   `mapstructure:"server_port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	DatabaseURL string `mapstructure:"database_url"`
	DBHost      string `mapstructure:"db_host"`
	DBPort      string `mapstructure:"db_port"`
	DBUser      string `mapstructure:"db_user"`
	DBPassword  string `mapstructure:"db_password"`
	DBName      string `mapstructure:"db_name"`
	DBSSLMode   string `mapstructure:"db_sslmode"`

	RedisURL string `mapstructure:"redis_url"`

	SessionDriver   string        `mapstructure:"session_driver"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	SessionMaxTurns int           `mapstructure:"session_max_turns"`
	AudioTTL        time.Duration `mapstructure:"audio_ttl"`

	MaxImageSizeMB      int64         `mapstructure:"max_image_size_mb"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
	AlertRadiusKM       float64       `mapstructure:"alert_radius_km"`
	AlertCooldown       time.Duration `mapstructure:"alert_cooldown"`

	UseMockInference bool          `mapstructure:"use_mock_inference"`
	InferenceURL     string        `mapstructure:"inference_url"`
	InferenceTimeout time.Duration `mapstructure:"inference_timeout"`

	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	OpenAIChatModel string `mapstructure:"openai_chat_model"`
	OpenAISTTModel  string `mapstructure:"openai_stt_model"`
	OpenAITTSModel  string `mapstructure:"openai_tts_model"`
	OpenAITTSVoice  string `mapstructure:"openai_tts_voice"`

	OverpassURLs    []string      `mapstructure:"overpass_urls"`
	OverpassTimeout time.Duration `mapstructure:"overpass_timeout"`
	StoreRadiusM    int           `mapstructure:"store_radius_m"`
	StoreMaxResults int           `mapstructure:"store_max_results"`
	StoreCacheTTL   time.Duration `mapstructure:"store_cache_ttl"`

	PushProvider   string `mapstructure:"push_provider"`
	FCMProjectID   string `mapstructure:"fcm_project_id"`
	FCMClientEmail string `mapstructure:"fcm_client_email"`
	FCMPrivateKey  string `mapstructure:"fcm_private_key"`

	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
	S3Bucket          string `mapstructure:"s3_bucket"`
	S3PublicURL       string `mapstructure:"s3_public_url"`

	AlertQueue   string `mapstructure:"alert_queue"`
	AlertWorkers int    `mapstructure:"alert_workers"`
}

var defaultOverpassURLs = []string{
	"https://overpass-api.de/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
	"https://overpass.nchc.org.tw/api/interpreter",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("server_port", "8000")
	v.SetDefault("allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:8000",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8000",
	})

	v.SetDefault("database_url", "")
	v.SetDefault("db_host", "")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "arogyakrishi")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("redis_url", "")

	v.SetDefault("session_driver", "memory")
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("session_max_turns", 20)
	v.SetDefault("audio_ttl", time.Hour)

	v.SetDefault("max_image_size_mb", 10)
	v.SetDefault("confidence_threshold", 0.5)
	v.SetDefault("alert_radius_km", 10.0)
	v.SetDefault("alert_cooldown", 6*time.Hour)

	v.SetDefault("use_mock_inference", true)
	v.SetDefault("inference_url", "")
	v.SetDefault("inference_timeout", 30*time.Second)

	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_chat_model", "gpt-4o-mini")
	v.SetDefault("openai_stt_model", "whisper-1")
	v.SetDefault("openai_tts_model", "tts-1")
	v.SetDefault("openai_tts_voice", "alloy")

	v.SetDefault("overpass_urls", defaultOverpassURLs)
	v.SetDefault("overpass_timeout", 12*time.Second)
	v.SetDefault("store_radius_m", 5000)
	v.SetDefault("store_max_results", 3)
	v.SetDefault("store_cache_ttl", 10*time.Minute)

	v.SetDefault("push_provider", "log")
	v.SetDefault("fcm_project_id", "")
	v.SetDefault("fcm_client_email", "")
	v.SetDefault("fcm_private_key", "")

	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key_id", "")
	v.SetDefault("s3_secret_access_key", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_public_url", "")

	v.SetDefault("alert_queue", "inline")
	v.SetDefault("alert_workers", 2)
}

// LoadConfig reads .env (if present), the optional config file at path and
// the process environment, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)
	cfg.OverpassURLs = splitList(cfg.OverpassURLs)
	if len(cfg.OverpassURLs) == 0 {
		cfg.OverpassURLs = defaultOverpassURLs
	}
	if cfg.SessionMaxTurns <= 0 {
		cfg.SessionMaxTurns = 20
	}
	if cfg.MaxImageSizeMB <= 0 {
		cfg.MaxImageSizeMB = 10
	}

	return &cfg, nil
}

// splitList flattens entries that still carry commas (env values bound to a
// slice default arrive as a single element) and drops blanks.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// MaxImageSizeBytes is the upload ceiling for image endpoints.
func (c *Config) MaxImageSizeBytes() int64 {
	return c.MaxImageSizeMB * 1024 * 1024
}

// DatabaseConfigured reports whether any database location was provided.
func (c *Config) DatabaseConfigured() bool {
	return c.DatabaseURL != "" || c.DBHost != ""
}

// DSN returns the lib/pq connection string. DATABASE_URL wins over the
// discrete DB_* settings.
func (c *Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		u, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return "", fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
		}
		return c.DatabaseURL, nil
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode), nil
}

// StorageConfigured reports whether image archiving to object storage is enabled.
func (c *Config) StorageConfigured() bool {
	return c.S3Endpoint != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != "" && c.S3Bucket != ""
}

// OpenAIEnabled reports whether the hosted language model is configured.
func (c *Config) OpenAIEnabled() bool {
	return c.OpenAIAPIKey != ""
}
