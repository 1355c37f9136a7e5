package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage drivers
const (
	StorageDriverFilesystem = "filesystem"
	StorageDriverMinio      = "minio"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Upload   FileUploadConfig
	Storage  StorageConfig
	Minio    MinioConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type FileUploadConfig struct {
	Dir         string `envconfig:"UPLOAD_DIR" default:"uploads/images"`
	PublicPath  string `envconfig:"UPLOAD_PUBLIC_PATH" default:"/uploads/images"`
	MaxFileSize int64  `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"5242880"` // 5MB
	MaxFiles    int    `envconfig:"UPLOAD_MAX_FILES" default:"50"`
	// CleanupEvery is the orphan image sweep interval, zero disables it
	CleanupEvery time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"15m"`
}

type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"filesystem"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"images"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// NATSConfig is optional, an empty URL disables file events
type NATSConfig struct {
	URL          string `envconfig:"NATS_URL"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"FILES"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"image-reconciler"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"files.deleted"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// URL is the postgres connection URL expected by the migrate tool
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// LoadDatabase reads only the database section of the environment
func LoadDatabase() (*DatabaseConfig, error) {
	var cfg DatabaseConfig

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// AuthConfig is optional, an empty secret leaves mutating routes open
type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
}

// Load reads the server configuration from the environment
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross field constraints envconfig cannot express
func (c *Config) Validate() error {
	if c.Upload.MaxFiles <= 0 {
		return errors.New("UPLOAD_MAX_FILES must be greater than zero")
	}
	if c.Upload.MaxFileSize <= 0 {
		return errors.New("UPLOAD_MAX_FILE_SIZE must be greater than zero")
	}
	switch c.Storage.Driver {
	case StorageDriverFilesystem:
		if c.Upload.Dir == "" {
			return errors.New("UPLOAD_DIR is required")
		}
	case StorageDriverMinio:
		if c.Minio.Endpoint == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			return errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with the minio driver")
		}
	default:
		return errors.New("STORAGE_DRIVER must be filesystem or minio")
	}
	return nil
}

// UploaderConfig is the configuration of the operator upload CLI
type UploaderConfig struct {
	APIURL    string        `envconfig:"UPLOADER_API_URL" default:"http://localhost:8080"`
	Token     string        `envconfig:"UPLOADER_TOKEN"`
	JWTSecret string        `envconfig:"UPLOADER_JWT_SECRET"`
	Timeout   time.Duration `envconfig:"UPLOADER_TIMEOUT" default:"60s"`
}

// LoadUploader reads the uploader configuration from the environment
func LoadUploader() (*UploaderConfig, error) {
	var cfg UploaderConfig

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
