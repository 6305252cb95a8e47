package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	AoryxBase       string
	AoryxKey        string
	AoryxTimeout    time.Duration
	AoryxRPS        int
	JWTSecret       string
	DefaultCurrency string
	AllowedOrigins  []string
	PrefetchWorkers int
	PrefetchCodes   []string
	CacheTTL        time.Duration
	RatesTTL        time.Duration
}

func Load() Config {
	// best-effort; env vars win in prod
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		MongoURI:        env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         env("MONGO_DB", "aoryx"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		AoryxBase:       env("AORYX_BASE_URL", "https://api.aoryx.com/v1"),
		AoryxKey:        env("AORYX_API_KEY", ""),
		AoryxTimeout:    time.Duration(atoi("AORYX_TIMEOUT_SECONDS", 20)) * time.Second,
		AoryxRPS:        atoi("AORYX_RPS", 5),
		JWTSecret:       env("JWT_SECRET", ""),
		DefaultCurrency: env("DEFAULT_CURRENCY", "USD"),
		AllowedOrigins:  splitCSV(env("CORS_ORIGINS", "*")),
		PrefetchWorkers: atoi("PREFETCH_WORKERS", 8),
		PrefetchCodes:   splitCSV(env("PREFETCH_HOTEL_CODES", "")),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RatesTTL:        time.Duration(atoi("RATES_TTL_SECONDS", 3600)) * time.Second,
	}
	if c.AoryxKey == "" {
		log.Warn().Msg("AORYX_API_KEY is empty")
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; favorites routes will reject all tokens")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
