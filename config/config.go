package config

import (
	"log"
	"os"
	"strings"

	"absensi/constants"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port           string
	Env            string
	Store          string
	Timezone       string
	SecretKey      string
	GoogleClientID string
	CloudinaryURL  string
	LogLevel       string
	LogDir         string
	CorsOrigins    []string
	SecureCookie   bool
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env not loaded, using process environment: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func getEnvDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// LoadAppConfig reads the process environment. Call LoadEnv first to pick up a .env file.
func LoadAppConfig() AppConfig {
	cfg := AppConfig{
		Port:           getEnvDefault("PORT", "8083"),
		Env:            getEnvDefault("ENV", "dev"),
		Store:          strings.ToLower(getEnvDefault("STORE", StorePostgres)),
		Timezone:       getEnvDefault("APP_TIMEZONE", constants.DefaultTimezone),
		SecretKey:      GetEnv("SECRET_KEY_ACCESS_TOKEN"),
		GoogleClientID: GetEnv("GOOGLE_CLIENT_ID"),
		CloudinaryURL:  GetEnv("CLOUDINARY_URL"),
		LogLevel:       getEnvDefault("LOG_LEVEL", "info"),
		LogDir:         GetEnv("LOG_DIR"),
		SecureCookie:   getEnvDefault("COOKIE_SECURE", "false") == "true",
	}
	if origins := GetEnv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CorsOrigins = append(cfg.CorsOrigins, o)
			}
		}
	}
	return cfg
}

// ConnectCloudinary returns nil when no CLOUDINARY_URL is configured.
func ConnectCloudinary(cfg AppConfig) (*cloudinary.Cloudinary, error) {
	if cfg.CloudinaryURL == "" {
		return nil, nil
	}
	return cloudinary.NewFromURL(cfg.CloudinaryURL)
}
