package conf

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config application configuration structure
type Config struct {
	// HTTP server configuration
	Server ServerConfig

	// Upload configuration
	Upload UploadConfig

	// Deployment provider configuration
	Vercel VercelConfig

	// Database configuration
	Database DatabaseConfig

	// Deployment history configuration
	History HistoryConfig

	// Log configuration
	Log LogConfig
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Port           string // Listen port
	SwaggerBaseUrl string // Swagger API base URL
	Mode           string // gin mode: debug/release/test
}

// UploadConfig upload configuration
type UploadConfig struct {
	TempDir   string // Directory for buffering uploads, defaults to the OS temp dir
	MaxSizeMB int    // Maximum upload size in MB
	MaxSize   int64  // Maximum upload size in bytes, derived from MaxSizeMB
	FieldName string // Multipart field carrying the zip file
}

// VercelConfig deployment provider configuration
type VercelConfig struct {
	Token          string // Bearer token, never logged
	ApiUrl         string // Deployment endpoint
	ProjectPrefix  string // Prefix for generated project names
	TimeoutSeconds int    // Upper bound for one deployment call
	Public         bool   // Whether deployments are public
}

// DatabaseConfig database configuration
type DatabaseConfig struct {
	Type    string // Database type: pebble
	DataDir string // PebbleDB data directory
}

// HistoryConfig deployment history configuration
type HistoryConfig struct {
	Enable        bool // Record deployments and expose the history API
	RetentionDays int  // Records older than this are pruned, 0 keeps everything
}

// LogConfig log configuration
type LogConfig struct {
	Level       string // debug/info/warn/error
	Development bool   // Console encoder instead of JSON
}

const (
	DefaultPort          = "7330"
	DefaultVercelApiUrl  = "https://api.vercel.com/v13/deployments"
	DefaultProjectPrefix = "snapship"
	DefaultTimeout       = 60
	DefaultMaxSizeMB     = 50
	DefaultFieldName     = "file"
	DefaultDataDir       = "./data"
	DefaultRetentionDays = 30
)

// Cfg global configuration instance
var Cfg *Config

// InitConfig initialize configuration from the yaml file at path and the
// SNAPSHIP_* environment. An empty path skips the file.
func InitConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// LoadConfig reads configuration without touching the global instance.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SNAPSHIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The dashboard historically read VERCEL_TOKEN directly.
	if err := v.BindEnv("vercel.token", "SNAPSHIP_VERCEL_TOKEN", "VERCEL_TOKEN"); err != nil {
		return nil, err
	}

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.mode", "release")
	v.SetDefault("upload.max_size_mb", DefaultMaxSizeMB)
	v.SetDefault("upload.field_name", DefaultFieldName)
	v.SetDefault("vercel.api_url", DefaultVercelApiUrl)
	v.SetDefault("vercel.project_prefix", DefaultProjectPrefix)
	v.SetDefault("vercel.timeout_seconds", DefaultTimeout)
	v.SetDefault("vercel.public", true)
	v.SetDefault("database.type", "pebble")
	v.SetDefault("database.data_dir", DefaultDataDir)
	v.SetDefault("history.enable", true)
	v.SetDefault("history.retention_days", DefaultRetentionDays)
	v.SetDefault("log.level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Fatal error config file: %s", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("server.port"),
			SwaggerBaseUrl: v.GetString("server.swagger_base_url"),
			Mode:           v.GetString("server.mode"),
		},

		Upload: UploadConfig{
			TempDir:   v.GetString("upload.temp_dir"),
			MaxSizeMB: v.GetInt("upload.max_size_mb"),
			FieldName: v.GetString("upload.field_name"),
		},

		Vercel: VercelConfig{
			Token:          strings.TrimSpace(v.GetString("vercel.token")),
			ApiUrl:         v.GetString("vercel.api_url"),
			ProjectPrefix:  v.GetString("vercel.project_prefix"),
			TimeoutSeconds: v.GetInt("vercel.timeout_seconds"),
			Public:         v.GetBool("vercel.public"),
		},

		Database: DatabaseConfig{
			Type:    v.GetString("database.type"),
			DataDir: v.GetString("database.data_dir"),
		},

		History: HistoryConfig{
			Enable:        v.GetBool("history.enable"),
			RetentionDays: v.GetInt("history.retention_days"),
		},

		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
	}

	// Set default values for explicitly blanked keys
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.SwaggerBaseUrl == "" {
		cfg.Server.SwaggerBaseUrl = "localhost:" + cfg.Server.Port
	}
	if cfg.Upload.TempDir == "" {
		cfg.Upload.TempDir = os.TempDir()
	}
	if cfg.Upload.MaxSizeMB <= 0 {
		cfg.Upload.MaxSizeMB = DefaultMaxSizeMB
	}
	cfg.Upload.MaxSize = int64(cfg.Upload.MaxSizeMB) * 1024 * 1024
	if cfg.Upload.FieldName == "" {
		cfg.Upload.FieldName = DefaultFieldName
	}
	if cfg.Vercel.ApiUrl == "" {
		cfg.Vercel.ApiUrl = DefaultVercelApiUrl
	}
	if cfg.Vercel.ProjectPrefix == "" {
		cfg.Vercel.ProjectPrefix = DefaultProjectPrefix
	}
	if cfg.Vercel.TimeoutSeconds <= 0 {
		cfg.Vercel.TimeoutSeconds = DefaultTimeout
	}
	if cfg.Database.DataDir == "" {
		cfg.Database.DataDir = DefaultDataDir
	}
	if cfg.History.RetentionDays < 0 {
		cfg.History.RetentionDays = 0
	}

	return cfg, nil
}
