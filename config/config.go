package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BlobProviderMinio  = "minio"
	BlobProviderS3     = "s3"
	BlobProviderMemory = "memory"

	RecordStorePostgres = "postgres"
	RecordStoreMongo    = "mongo"
	RecordStoreMemory   = "memory"
)

type Config struct {
	Environment string
	Name        string
	Version     string
	LogLevel    string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	Mongo       MongoConfig
	S3          S3Config
	AMQP        AMQPConfig
	Intake      IntakeConfig
	Storage     StorageConfig
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxHeaderMB  int
	MaxUploadMB  int
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
	MigrationsDir      string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	// PublicURL, when set, is the prefix of retrieval URLs instead of the provider's object URL.
	PublicURL string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type IntakeConfig struct {
	KeyPrefix   string
	UniqueKeys  bool
	SessionTTL  time.Duration
	MaxSessions int
}

// StorageConfig selects the Blob Store and Record Store backends.
type StorageConfig struct {
	BlobProvider string
	RecordStore  string
}

func NewConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	httpReadTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("HTTP_READ_TIMEOUT: %w", err)
	}

	httpWriteTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("HTTP_WRITE_TIMEOUT: %w", err)
	}

	postgresMaxLifetime, err := time.ParseDuration(getEnv("POSTGRES_MAX_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("POSTGRES_MAX_LIFETIME: %w", err)
	}

	mongoTimeout, err := time.ParseDuration(getEnv("MONGO_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("MONGO_TIMEOUT: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnv("INTAKE_SESSION_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("INTAKE_SESSION_TTL: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Name:        getEnv("APP_NAME", "medintake"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Port:         getEnv("HTTP_PORT", "8080"),
			ReadTimeout:  httpReadTimeout,
			WriteTimeout: httpWriteTimeout,
			MaxHeaderMB:  getEnvAsInt("HTTP_MAX_HEADER_MB", 1),
			MaxUploadMB:  getEnvAsInt("HTTP_MAX_UPLOAD_MB", 10),
		},
		Postgres: PostgresConfig{
			Host:               getEnv("POSTGRES_HOST", "localhost"),
			Port:               getEnv("POSTGRES_PORT", "5432"),
			Username:           getEnv("POSTGRES_USER", "postgres"),
			Password:           getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:             getEnv("POSTGRES_DB", "medintake"),
			SSLMode:            getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConnections:     getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("POSTGRES_MAX_IDLE_CONNECTIONS", 2),
			MaxLifetime:        postgresMaxLifetime,
			MigrationsDir:      getEnv("POSTGRES_MIGRATIONS_DIR", "./migrations"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "medintake"),
			Timeout:  mongoTimeout,
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "medintake"),
			UseSSL:          getEnvAsBool("S3_USE_SSL", true),
			PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "doctor_events"),
		},
		Intake: IntakeConfig{
			KeyPrefix:   getEnv("INTAKE_KEY_PREFIX", "doctorProfilePictures/"),
			UniqueKeys:  getEnvAsBool("INTAKE_UNIQUE_KEYS", false),
			SessionTTL:  sessionTTL,
			MaxSessions: getEnvAsInt("INTAKE_MAX_SESSIONS", 1000),
		},
		Storage: StorageConfig{
			BlobProvider: getEnv("BLOB_PROVIDER", BlobProviderMinio),
			RecordStore:  getEnv("RECORD_STORE", RecordStorePostgres),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.BlobProvider {
	case BlobProviderMinio, BlobProviderS3, BlobProviderMemory:
	default:
		return fmt.Errorf("unknown BLOB_PROVIDER %q", c.Storage.BlobProvider)
	}

	switch c.Storage.RecordStore {
	case RecordStorePostgres, RecordStoreMongo, RecordStoreMemory:
	default:
		return fmt.Errorf("unknown RECORD_STORE %q", c.Storage.RecordStore)
	}

	if c.Storage.BlobProvider == BlobProviderMinio && c.S3.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required for the %s blob provider", BlobProviderMinio)
	}

	if c.Intake.MaxSessions <= 0 {
		return fmt.Errorf("INTAKE_MAX_SESSIONS must be positive, got %d", c.Intake.MaxSessions)
	}

	if c.HTTP.MaxUploadMB <= 0 {
		return fmt.Errorf("HTTP_MAX_UPLOAD_MB must be positive, got %d", c.HTTP.MaxUploadMB)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value := 0
	_, err := fmt.Sscanf(valueStr, "%d", &value)
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
