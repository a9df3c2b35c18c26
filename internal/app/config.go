package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/domain/paging"
	"github.com/yungbote/guideance-backend/internal/observability"
	"github.com/yungbote/guideance-backend/internal/platform/distlock"
	"github.com/yungbote/guideance-backend/internal/platform/envutil"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

// Config is resolved as defaults, then the optional CONFIG_FILE, then env.
type Config struct {
	Port     string `yaml:"port"`
	DBDriver string `yaml:"db_driver"`
	// SQLitePath is used when DBDriver is "sqlite".
	SQLitePath string `yaml:"sqlite_path"`

	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	RedisAddr      string        `yaml:"redis_addr"`
	RedisPassword  string        `yaml:"redis_password"`
	FanoutLockTTL  time.Duration `yaml:"fanout_lock_ttl"`
	FanoutLockWait time.Duration `yaml:"fanout_lock_wait"`

	DeletePolicy types.DeletePolicy `yaml:"user_delete_policy"`
	PageSizes    paging.Sizes       `yaml:"page_sizes"`
	CORSOrigins  []string           `yaml:"cors_origins"`

	MetricsEnabled bool                     `yaml:"metrics_enabled"`
	Otel           observability.OtelConfig `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		Port:           "8080",
		DBDriver:       "postgres",
		SQLitePath:     "guideance.db",
		JWTSecretKey:   "defaultsecret",
		AccessTokenTTL: time.Hour,
		FanoutLockTTL:  distlock.DefaultTTL,
		FanoutLockWait: distlock.DefaultWait,
		DeletePolicy:   types.DeletePolicyDetach,
		PageSizes:      paging.DefaultSizes(),
		Otel: observability.OtelConfig{
			ServiceName: "guideance-backend",
			SampleRatio: 1,
		},
	}
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.Port = envutil.GetEnv("PORT", cfg.Port, log)
	cfg.DBDriver = strings.ToLower(envutil.GetEnv("DB_DRIVER", cfg.DBDriver, log))
	cfg.SQLitePath = envutil.GetEnv("SQLITE_PATH", cfg.SQLitePath, log)
	cfg.JWTSecretKey = envutil.GetEnv("JWT_SECRET_KEY", cfg.JWTSecretKey, log)
	ttlSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", int(cfg.AccessTokenTTL/time.Second), log)
	cfg.AccessTokenTTL = time.Duration(ttlSeconds) * time.Second

	cfg.RedisAddr = envutil.GetEnv("REDIS_ADDR", cfg.RedisAddr, log)
	cfg.RedisPassword = envutil.GetEnv("REDIS_PASSWORD", cfg.RedisPassword, log)
	cfg.FanoutLockTTL = envutil.GetEnvAsDuration("FANOUT_LOCK_TTL", cfg.FanoutLockTTL, log)
	cfg.FanoutLockWait = envutil.GetEnvAsDuration("FANOUT_LOCK_WAIT", cfg.FanoutLockWait, log)

	cfg.DeletePolicy = types.DeletePolicy(strings.ToLower(envutil.GetEnv("USER_DELETE_POLICY", string(cfg.DeletePolicy), log)))
	cfg.PageSizes.Notices = envutil.GetEnvAsInt("PAGE_SIZE_NOTICES", cfg.PageSizes.Notices, log)
	cfg.PageSizes.Articles = envutil.GetEnvAsInt("PAGE_SIZE_ARTICLES", cfg.PageSizes.Articles, log)
	cfg.PageSizes.Comments = envutil.GetEnvAsInt("PAGE_SIZE_COMMENTS", cfg.PageSizes.Comments, log)
	cfg.PageSizes.Tags = envutil.GetEnvAsInt("PAGE_SIZE_TAGS", cfg.PageSizes.Tags, log)
	cfg.PageSizes = cfg.PageSizes.WithDefaults()
	if v := envutil.GetEnv("CORS_ORIGINS", "", log); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	cfg.MetricsEnabled = envutil.GetEnvAsBool("METRICS_ENABLED", cfg.MetricsEnabled, log)
	cfg.Otel.Enabled = envutil.GetEnvAsBool("OTEL_ENABLED", cfg.Otel.Enabled, log)
	cfg.Otel.ServiceName = envutil.GetEnv("OTEL_SERVICE_NAME", cfg.Otel.ServiceName, log)
	cfg.Otel.Environment = envutil.GetEnv("OTEL_ENVIRONMENT", cfg.Otel.Environment, log)
	cfg.Otel.Version = envutil.GetEnv("OTEL_SERVICE_VERSION", cfg.Otel.Version, log)
	cfg.Otel.Endpoint = envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint, log)
	cfg.Otel.Insecure = envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure, log)
	cfg.Otel.Headers = envutil.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers, log)
	if v := envutil.GetEnv("OTEL_SAMPLE_RATIO", "", log); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("OTEL_SAMPLE_RATIO: %w", err)
		}
		cfg.Otel.SampleRatio = ratio
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	switch c.DeletePolicy {
	case types.DeletePolicyCascade, types.DeletePolicyDetach:
	default:
		return fmt.Errorf("USER_DELETE_POLICY must be cascade or detach, got %q", c.DeletePolicy)
	}
	if c.FanoutLockWait <= 0 || c.FanoutLockWait > c.FanoutLockTTL {
		return fmt.Errorf("FANOUT_LOCK_WAIT must be positive and at most FANOUT_LOCK_TTL, got %v (ttl %v)", c.FanoutLockWait, c.FanoutLockTTL)
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
