package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"hospital-admin-go/pkg/logger"
)

type Config struct {
	HTTPPort    string
	Env         string
	TimeZone    string
	CORSOrigins []string
	DB          DBConfig
	Auth        AuthConfig
	Storage     StorageConfig
	Redis       RedisConfig
	Realtime    RealtimeConfig
	Permissions PermissionsConfig
	Analytics   AnalyticsConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	Issuer         string
	SkipAuth       bool
	MockUserID     string
	MockUsername   string
	MockUserRole   string
	BootstrapAdmin string
	BootstrapPass  string
}

type StorageConfig struct {
	URL               string
	ServiceKey        string
	Timeout           time.Duration
	BackgroundBucket  string
	EvidenceBucket    string
	AttachmentsBucket string
	MaxUploadBytes    int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RealtimeConfig struct {
	Enabled       bool
	ChannelPrefix string
	WriteTimeout  time.Duration
	BufferSize    int
}

type PermissionsConfig struct {
	CacheTTL time.Duration
}

type AnalyticsConfig struct {
	OverviewTTL time.Duration
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		TimeZone:    getEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "hospital_admin"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "Asia/Ho_Chi_Minh"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenTTL:       getEnvDuration("JWT_TTL", 12*time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "hospital-admin"),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUsername:   getEnv("AUTH_MOCK_USERNAME", "dev"),
			MockUserRole:   getEnv("AUTH_MOCK_USER_ROLE", "admin"),
			BootstrapAdmin: getEnv("BOOTSTRAP_ADMIN_USERNAME", ""),
			BootstrapPass:  getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		},
		Storage: StorageConfig{
			URL:               getEnv("SUPABASE_URL", ""),
			ServiceKey:        getEnv("SUPABASE_SERVICE_KEY", ""),
			Timeout:           getEnvDuration("STORAGE_TIMEOUT", 30*time.Second),
			BackgroundBucket:  getEnv("STORAGE_BUCKET_BACKGROUNDS", "backgrounds"),
			EvidenceBucket:    getEnv("STORAGE_BUCKET_EVIDENCE", "nckh-minh-chung"),
			AttachmentsBucket: getEnv("STORAGE_BUCKET_ATTACHMENTS", "lich-cong-tac"),
			MaxUploadBytes:    int64(getEnvInt("STORAGE_MAX_UPLOAD_MB", 20)) << 20,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Realtime: RealtimeConfig{
			Enabled:       getEnvBool("REALTIME_ENABLED", true),
			ChannelPrefix: getEnv("REALTIME_CHANNEL_PREFIX", "realtime:"),
			WriteTimeout:  getEnvDuration("REALTIME_WRITE_TIMEOUT", 10*time.Second),
			BufferSize:    getEnvInt("REALTIME_BUFFER_SIZE", 16),
		},
		Permissions: PermissionsConfig{
			CacheTTL: getEnvDuration("PERMISSIONS_CACHE_TTL", time.Minute),
		},
		Analytics: AnalyticsConfig{
			OverviewTTL: getEnvDuration("ANALYTICS_OVERVIEW_TTL", 30*time.Second),
		},
	}, nil
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
