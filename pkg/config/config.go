package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	Environment string

	ServerPort int

	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	CORSOrigins []string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	UploadDir      string
	UploadMaxBytes int64

	KafkaBrokers     []string
	OrderEventsTopic string

	ESURL           string
	ESUser          string
	ESPassword      string
	ESProductsIndex string

	RedisURL string

	PollInterval        time.Duration
	PGNotify            bool
	DeliveryHistoryMode string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "painelquick"),
		Environment: EnvDefault("APP_ENV", "production"),

		ServerPort: EnvIntDefault("SERVER_PORT", 3001),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  EnvDurationDefault("TOKEN_TTL", 24*time.Hour),

		CORSOrigins: CSV(EnvDefault("CORS_ORIGINS", "*")),

		RateLimitRequests: EnvIntDefault("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   EnvDurationDefault("RATE_LIMIT_WINDOW", 15*time.Minute),

		UploadDir:      EnvDefault("UPLOAD_DIR", "public/uploads"),
		UploadMaxBytes: int64(EnvIntDefault("UPLOAD_MAX_BYTES", 5<<20)),

		KafkaBrokers:     CSV(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic: EnvDefault("ORDER_EVENTS_TOPIC", "order_events"),

		ESURL:           os.Getenv("ES_URL"),
		ESUser:          os.Getenv("ES_USER"),
		ESPassword:      os.Getenv("ES_PASSWORD"),
		ESProductsIndex: EnvDefault("ES_PRODUCTS_INDEX", "products"),

		RedisURL: os.Getenv("REDIS_URL"),

		PollInterval:        EnvDurationDefault("POLL_INTERVAL", 2*time.Second),
		PGNotify:            EnvBoolDefault("PG_NOTIFY", false),
		DeliveryHistoryMode: EnvDefault("DELIVERY_HISTORY_MODE", "completion"),
	}
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
