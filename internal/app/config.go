package app

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/caseline-backend/internal/data/db"
	"github.com/yungbote/caseline-backend/internal/platform/envutil"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

const serviceName = "caseline-api"

type Config struct {
	Environment string
	Version     string
	Port        string

	DB db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	RedisAddr    string
	RedisChannel string

	WebhookSecret string
	CORSOrigins   []string

	MetricsEnabled  bool
	ShutdownTimeout time.Duration
}

// LoadEnvFiles preloads .env style files; missing files are ignored and
// variables already set in the environment win.
func LoadEnvFiles(log *logger.Logger, files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Debug("env file not loaded", "file", f, "error", err)
		}
	}
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
		Port:        envutil.String("PORT", "8080"),
		DB: db.Config{
			Driver:          envutil.String("DB_DRIVER", "postgres"),
			DSN:             envutil.String("DATABASE_URL", ""),
			MaxOpenConns:    envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envutil.Int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envutil.Seconds("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			SlowThreshold:   time.Duration(envutil.Int("DB_SLOW_QUERY_MS", 500)) * time.Millisecond,
		},
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		RedisChannel:    envutil.String("REDIS_CHANNEL", "caseline.pathways"),
		WebhookSecret:   envutil.String("WEBHOOK_SECRET", ""),
		CORSOrigins:     envutil.List("CORS_ORIGINS", nil),
		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", true),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
	if cfg.DB.DSN == "" {
		if strings.HasPrefix(strings.ToLower(cfg.DB.Driver), "sqlite") {
			cfg.DB.DSN = "caseline.db"
		} else {
			return cfg, errors.New("DATABASE_URL is required")
		}
	}
	if cfg.JWTSecretKey == "" {
		if cfg.Environment == "production" {
			return cfg, errors.New("JWT_SECRET_KEY is required in production")
		}
		log.Warn("JWT_SECRET_KEY not set; using an insecure development secret")
		cfg.JWTSecretKey = "caseline-dev-secret"
	}
	if cfg.WebhookSecret == "" {
		log.Warn("WEBHOOK_SECRET not set; usage webhook will reject every request")
	}
	return cfg, nil
}
