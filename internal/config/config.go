package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// token lifecycle
	AuthSecret     string
	AuthTimeout    time.Duration
	EnforceSubject bool

	// TLS key/cert directory; empty means plain HTTP
	TLSDir string

	// account store backend: memory | postgres | redis
	StoreBackend string
	DBURL        string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint    string
	ProfileCacheTTL time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)

	return Config{
		Env:  env,
		Port: port,

		AuthSecret:     getEnv("AUTH_SECRET", "dev-only-secret"),
		AuthTimeout:    time.Duration(getEnvInt("AUTH_TIMEOUT_SECONDS", 3600)) * time.Second,
		EnforceSubject: getEnvBool("AUTH_ENFORCE_SUBJECT", false),

		TLSDir: getEnv("TLS_DIR", ""),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		DBURL:        buildDBURL(),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ProfileCacheTTL: time.Duration(getEnvInt("PROFILE_CACHE_TTL_SECONDS", 5)) * time.Second,
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "userhub")
	pass := getEnv("DB_PASSWORD", "userhub")
	name := getEnv("DB_NAME", "userhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return b
	}
	return fallback
}
