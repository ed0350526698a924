package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultGeminiBaseURL is the Gemini REST base used when a model override is supplied.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	// DefaultGeminiModel is the model used when neither a request nor the server names one.
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Gemini GeminiConfig
	Upload UploadConfig
	Log    LogConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	StaticDir    string        `mapstructure:"static_dir"`
}

// GeminiConfig holds the server-default provider settings. Request headers may
// override APIKey and DefaultModel per call.
type GeminiConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	APIURL          string  `mapstructure:"api_url"`
	BaseURL         string  `mapstructure:"base_url"`
	DefaultModel    string  `mapstructure:"default_model"`
	TimeoutSecs     int     `mapstructure:"timeout_secs"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
	StrictSchema    bool    `mapstructure:"strict_schema"`
}

// Timeout returns the provider call timeout, defaulting to 90s.
func (g *GeminiConfig) Timeout() time.Duration {
	if g.TimeoutSecs <= 0 {
		return 90 * time.Second
	}
	return time.Duration(g.TimeoutSecs) * time.Second
}

// DefaultEndpoint returns the endpoint used when the caller does not pick a model.
// An explicit APIURL wins over the base URL + default model combination.
func (g *GeminiConfig) DefaultEndpoint() string {
	if g.APIURL != "" {
		return g.APIURL
	}
	return g.ModelEndpoint(g.Model())
}

// ModelEndpoint builds the generateContent URL for model. The model is
// path-escaped so it always stays a single segment.
func (g *GeminiConfig) ModelEndpoint(model string) string {
	base := strings.TrimRight(g.BaseURL, "/")
	if base == "" {
		base = DefaultGeminiBaseURL
	}
	return fmt.Sprintf("%s/%s:generateContent", base, url.PathEscape(model))
}

// Model returns the configured default model name.
func (g *GeminiConfig) Model() string {
	if g.DefaultModel == "" {
		return DefaultGeminiModel
	}
	return g.DefaultModel
}

// UploadConfig holds ingress size limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxBodySizeMB int64 `mapstructure:"max_body_size_mb"`
}

// MaxFileBytes returns the per-document ceiling in bytes.
func (u *UploadConfig) MaxFileBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// MaxBodyBytes returns the raw request body ceiling in bytes.
func (u *UploadConfig) MaxBodyBytes() int64 {
	return u.MaxBodySizeMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the MEDOCR_ prefix.
// GEMINI_API_KEY and GEMINI_API_URL are honoured as fallbacks for the provider settings.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDOCR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":3000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.static_dir", "public")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.api_url", "")
	v.SetDefault("gemini.base_url", DefaultGeminiBaseURL)
	v.SetDefault("gemini.default_model", DefaultGeminiModel)
	v.SetDefault("gemini.timeout_secs", 90)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.max_output_tokens", 4096)
	v.SetDefault("gemini.strict_schema", false)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("upload.max_body_size_mb", 28)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "*")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string][]string{
		"server.port":              {"MEDOCR_SERVER_PORT"},
		"server.read_timeout":      {"MEDOCR_SERVER_READ_TIMEOUT"},
		"server.write_timeout":     {"MEDOCR_SERVER_WRITE_TIMEOUT"},
		"server.environment":       {"MEDOCR_SERVER_ENVIRONMENT"},
		"server.static_dir":        {"MEDOCR_SERVER_STATIC_DIR"},
		"gemini.api_key":           {"MEDOCR_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"gemini.api_url":           {"MEDOCR_GEMINI_API_URL", "GEMINI_API_URL"},
		"gemini.base_url":          {"MEDOCR_GEMINI_BASE_URL"},
		"gemini.default_model":     {"MEDOCR_GEMINI_DEFAULT_MODEL", "GEMINI_MODEL"},
		"gemini.timeout_secs":      {"MEDOCR_GEMINI_TIMEOUT_SECS"},
		"gemini.temperature":       {"MEDOCR_GEMINI_TEMPERATURE"},
		"gemini.max_output_tokens": {"MEDOCR_GEMINI_MAX_OUTPUT_TOKENS"},
		"gemini.strict_schema":     {"MEDOCR_GEMINI_STRICT_SCHEMA"},
		"upload.max_file_size_mb":  {"MEDOCR_UPLOAD_MAX_FILE_SIZE_MB"},
		"upload.max_body_size_mb":  {"MEDOCR_UPLOAD_MAX_BODY_SIZE_MB"},
		"log.level":                {"MEDOCR_LOG_LEVEL"},
		"log.format":               {"MEDOCR_LOG_FORMAT"},
		"cors.allowed_origins":     {"MEDOCR_CORS_ALLOWED_ORIGINS"},
	}
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	cfg := &Config{}

	// Netlify/Render/Heroku set a PORT env var. Use it if MEDOCR_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("MEDOCR_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		StaticDir:    v.GetString("server.static_dir"),
	}
	cfg.Gemini = GeminiConfig{
		APIKey:          v.GetString("gemini.api_key"),
		APIURL:          v.GetString("gemini.api_url"),
		BaseURL:         v.GetString("gemini.base_url"),
		DefaultModel:    v.GetString("gemini.default_model"),
		TimeoutSecs:     v.GetInt("gemini.timeout_secs"),
		Temperature:     v.GetFloat64("gemini.temperature"),
		MaxOutputTokens: v.GetInt("gemini.max_output_tokens"),
		StrictSchema:    v.GetBool("gemini.strict_schema"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		MaxBodySizeMB: v.GetInt64("upload.max_body_size_mb"),
	}
	if cfg.Upload.MaxBodySizeMB < cfg.Upload.MaxFileSizeMB {
		return nil, fmt.Errorf("upload.max_body_size_mb (%d) must not be below upload.max_file_size_mb (%d)",
			cfg.Upload.MaxBodySizeMB, cfg.Upload.MaxFileSizeMB)
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
