package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  int
	FrontendURL string
	JWTSecret   string
	Database    DatabaseConfig
	Google      GoogleConfig
	Mail        MailConfig
	Storage     StorageConfig
	Minio       MinioConfig
	GCS         GCSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// GoogleConfig holds the OAuth client used for Google SSO.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// MailConfig holds the transactional email provider settings.
type MailConfig struct {
	ResendAPIKey string
	Sender       string
}

// StorageConfig selects the avatar object-storage backend.
// Backend is one of "minio", "gcs", or "" to disable avatar caching.
type StorageConfig struct {
	Backend string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "mentorhub"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	return Config{
		ServerPort:  getEnvInt("SERVER_PORT", 8080),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Database:    dbConfig,
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			Sender:       getEnv("MAIL_DEFAULT_SENDER", "noreply@mentorhub.com"),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", ""),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "mentorhub-avatars"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "true" || valueStr == "1" || valueStr == "t"
	}
	return defaultValue
}
