package config

import (
	"fmt"
	"os"
	"strings"

	"absensi/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func getDBConfigByEnv(env, timezone string) (string, error) {
	prefix := strings.ToUpper(env)
	switch prefix {
	case "DEV", "QC", "PROD":
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}

	sslmode := os.Getenv(prefix + "_DB_SSLMODE")
	if sslmode == "" {
		sslmode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		os.Getenv(prefix+"_DB_HOST"),
		os.Getenv(prefix+"_DB_USER"),
		os.Getenv(prefix+"_DB_PASSWORD"),
		os.Getenv(prefix+"_DB_NAME"),
		os.Getenv(prefix+"_DB_PORT"),
		sslmode,
		timezone,
	), nil
}

// ConnectDB opens postgres for cfg.Env and migrates the schema, including
// the (user_id, date) unique index on attendances.
func ConnectDB(cfg AppConfig) (*gorm.DB, error) {
	dsn, err := getDBConfigByEnv(cfg.Env, cfg.Timezone)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Attendance{}); err != nil {
		return nil, fmt.Errorf("fail to migrate: %w", err)
	}
	return db, nil
}
