package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	StorageDriver           string
	MongoURI                string
	MongoDB                 string
	PostgresConnStr         string
	RedisAddr               string
	RedisPassword           string
	JWTSecret               string
	JWTTTL                  time.Duration
	FirebaseCredentialsPath string
	ClientURL               string
	CORSAllowedOrigins      []string
	RateLimitPerSecond      float64
	MetricsPort             string
	SMTPHost                string
	SMTPPort                int
	SMTPUser                string
	SMTPPass                string
	StripeSecretKey         string
	MinioEndpoint           string
	MinioAccessKey          string
	MinioSecretKey          string
	MinioBucket             string
	MinioUseSSL             bool
	LogLevel                string
	LogFormat               string
}

// Load reads the .env file when present, then the environment
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                    getEnv("PORT", "5000"),
		Env:                     getEnv("ENV", "development"),
		StorageDriver:           getEnv("STORAGE_DRIVER", "mongo"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:                 getEnv("MONGO_DB", "eventpulse"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTTTL:                  getDuration("JWT_TTL", 72*time.Hour),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		ClientURL:               getEnv("CLIENT_URL", "http://localhost:5173"),
		CORSAllowedOrigins:      getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerSecond:      getFloat("RATE_LIMIT_PER_SECOND", 20),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		SMTPHost:                getEnv("SMTP_HOST", ""),
		SMTPPort:                getInt("SMTP_PORT", 587),
		SMTPUser:                getEnv("SMTP_USER", ""),
		SMTPPass:                getEnv("SMTP_PASS", ""),
		StripeSecretKey:         getEnv("STRIPE_SECRET_KEY", ""),
		MinioEndpoint:           getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:          getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:          getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:             getEnv("MINIO_BUCKET", "eventpulse"),
		MinioUseSSL:             getBool("MINIO_USE_SSL", false),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "json"),
	}
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
