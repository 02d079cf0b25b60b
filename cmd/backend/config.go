package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hairizuanbinnoorazman/wise-institute/contentful"
	"github.com/hairizuanbinnoorazman/wise-institute/database"
	"github.com/hairizuanbinnoorazman/wise-institute/storage"
	"github.com/spf13/viper"
)

// Content backends.
const (
	ContentBackendGorm       = "gorm"
	ContentBackendContentful = "contentful"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Storage  StorageConfig
	Content  ContentConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver          string // "mysql" or "sqlite"
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SessionConfig holds admin session cookie configuration.
type SessionConfig struct {
	CookieName    string
	SigningSecret string // empty keeps the plain base64 JSON cookie format
	Duration      time.Duration
	Secure        bool
}

// StorageConfig holds blob storage configuration.
type StorageConfig struct {
	Type          string // "local", "s3" or "minio"
	BaseDir       string
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PresignExpiry time.Duration
}

// ContentConfig selects the content store holding media records.
type ContentConfig struct {
	Backend      string
	ExpectedType string
	Locale       string
	AssetBaseURL string
	Contentful   ContentfulConfig
}

// ContentfulConfig holds Contentful Management API settings.
type ContentfulConfig struct {
	SpaceID      string
	Environment  string
	AccessToken  string
	BaseURL      string
	UploadURL    string
	Timeout      time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Enable environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config

	config.Server.Host = v.GetString("server.host")
	config.Server.Port = v.GetInt("server.port")
	config.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	config.Server.WriteTimeout = v.GetDuration("server.write_timeout")

	config.Database.Driver = v.GetString("database.driver")
	config.Database.Host = v.GetString("database.host")
	config.Database.Port = v.GetInt("database.port")
	config.Database.User = v.GetString("database.user")
	config.Database.Password = v.GetString("database.password")
	config.Database.Database = v.GetString("database.database")
	config.Database.SQLitePath = v.GetString("database.sqlite_path")
	config.Database.MaxOpenConns = v.GetInt("database.max_open_conns")
	config.Database.MaxIdleConns = v.GetInt("database.max_idle_conns")
	config.Database.ConnMaxLifetime = v.GetDuration("database.conn_max_lifetime")

	config.Session.CookieName = v.GetString("session.cookie_name")
	config.Session.SigningSecret = v.GetString("session.signing_secret")
	config.Session.Duration = v.GetDuration("session.duration")
	config.Session.Secure = v.GetBool("session.secure")

	config.Storage.Type = v.GetString("storage.type")
	config.Storage.BaseDir = v.GetString("storage.base_dir")
	config.Storage.Bucket = v.GetString("storage.bucket")
	config.Storage.Region = v.GetString("storage.region")
	config.Storage.Endpoint = v.GetString("storage.endpoint")
	config.Storage.AccessKey = v.GetString("storage.access_key")
	config.Storage.SecretKey = v.GetString("storage.secret_key")
	config.Storage.UseSSL = v.GetBool("storage.use_ssl")
	config.Storage.PresignExpiry = v.GetDuration("storage.presign_expiry")

	config.Content.Backend = v.GetString("content.backend")
	config.Content.ExpectedType = v.GetString("content.expected_type")
	config.Content.Locale = v.GetString("content.locale")
	config.Content.AssetBaseURL = v.GetString("content.asset_base_url")
	config.Content.Contentful.SpaceID = v.GetString("content.contentful.space_id")
	config.Content.Contentful.Environment = v.GetString("content.contentful.environment")
	config.Content.Contentful.AccessToken = v.GetString("content.contentful.access_token")
	config.Content.Contentful.BaseURL = v.GetString("content.contentful.base_url")
	config.Content.Contentful.UploadURL = v.GetString("content.contentful.upload_url")
	config.Content.Contentful.Timeout = v.GetDuration("content.contentful.timeout")
	config.Content.Contentful.PollInterval = v.GetDuration("content.contentful.poll_interval")
	config.Content.Contentful.PollTimeout = v.GetDuration("content.contentful.poll_timeout")

	config.Log.Level = v.GetString("log.level")

	config.Metrics.Enabled = v.GetBool("metrics.enabled")
	config.Metrics.Path = v.GetString("metrics.path")

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "wise_institute")
	v.SetDefault("database.sqlite_path", "./wise-institute.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("session.cookie_name", "admin-session")
	v.SetDefault("session.signing_secret", "")
	v.SetDefault("session.duration", "24h")
	v.SetDefault("session.secure", false)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_dir", "./uploads")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.presign_expiry", "15m")

	v.SetDefault("content.backend", ContentBackendGorm)
	v.SetDefault("content.expected_type", "wiseInstitute")
	v.SetDefault("content.locale", "en-US")
	v.SetDefault("content.asset_base_url", "//localhost:8080")
	v.SetDefault("content.contentful.space_id", "")
	v.SetDefault("content.contentful.environment", "master")
	v.SetDefault("content.contentful.access_token", "")
	v.SetDefault("content.contentful.base_url", "https://api.contentful.com")
	v.SetDefault("content.contentful.upload_url", "https://upload.contentful.com")
	v.SetDefault("content.contentful.timeout", "30s")
	v.SetDefault("content.contentful.poll_interval", "500ms")
	v.SetDefault("content.contentful.poll_timeout", "30s")

	v.SetDefault("log.level", "info")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func (c *Config) validate() error {
	switch c.Content.Backend {
	case ContentBackendGorm:
	case ContentBackendContentful:
		if c.Content.Contentful.SpaceID == "" || c.Content.Contentful.AccessToken == "" {
			return fmt.Errorf("content.contentful.space_id and content.contentful.access_token are required for the contentful backend")
		}
	default:
		return fmt.Errorf("unsupported content backend: %s", c.Content.Backend)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if c.Session.Duration <= 0 {
		return fmt.Errorf("session.duration must be positive")
	}
	return nil
}

// databaseConfig converts the database section for the database package.
func (c *Config) databaseConfig() database.Config {
	return database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		Database:        c.Database.Database,
		SQLitePath:      c.Database.SQLitePath,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

// storageConfig converts the storage section for the storage package.
func (c *Config) storageConfig() storage.Config {
	return storage.Config{
		Type:          c.Storage.Type,
		BaseDir:       c.Storage.BaseDir,
		Bucket:        c.Storage.Bucket,
		Region:        c.Storage.Region,
		Endpoint:      c.Storage.Endpoint,
		AccessKey:     c.Storage.AccessKey,
		SecretKey:     c.Storage.SecretKey,
		UseSSL:        c.Storage.UseSSL,
		PresignExpiry: c.Storage.PresignExpiry,
	}
}

// contentfulConfig converts the contentful section for the contentful package.
func (c *Config) contentfulConfig() contentful.Config {
	return contentful.Config{
		SpaceID:      c.Content.Contentful.SpaceID,
		Environment:  c.Content.Contentful.Environment,
		AccessToken:  c.Content.Contentful.AccessToken,
		Locale:       c.Content.Locale,
		BaseURL:      c.Content.Contentful.BaseURL,
		UploadURL:    c.Content.Contentful.UploadURL,
		Timeout:      c.Content.Contentful.Timeout,
		PollInterval: c.Content.Contentful.PollInterval,
		PollTimeout:  c.Content.Contentful.PollTimeout,
	}
}
