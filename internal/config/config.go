package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Server struct {
	Port            int
	AllowedOrigins  []string
	MaxUploadSize   int64
	ShutdownTimeout time.Duration
}

type DB struct {
	DbHOST          string
	DbPORT          string
	DbUSER          string
	DbPASSWORD      string
	DbNAME          string
	DbSSLMODE       string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type MinIO struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	BucketName    string
	UseSSL        bool
	Region        string
	PublicBaseURL string
}

type SMTP struct {
	Host           string
	Port           int
	User           string
	Password       string
	FromTeam       string
	FromNewsletter string
	FrontendURL    string
	Workers        int
	QueueSize      int
	SendTimeout    time.Duration
}

type RateLimit struct {
	RequestsPerSecond int
	Burst             int
}

type Log struct {
	Level  string
	Format string
}

type Referral struct {
	CodeLength  int
	MaxAttempts int
}

type Config struct {
	Server         Server
	DB             DB
	MinIO          MinIO
	SMTP           SMTP
	RateLimit      RateLimit
	Log            Log
	Referral       Referral
	JWTSecretKey   string
	AccessTokenTTL time.Duration
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 5 * 1024 * 1024
	}
	return size
}

func LoadServer() Server {
	return Server{
		Port: getEnvAsInt("PORT", 3000),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{
			"https://sownmark.com",
			"https://www.sownmark.com",
			"http://localhost:5173",
		}),
		MaxUploadSize:   parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "5242880")),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s"), 15*time.Second),
	}
}

func LoadDB() DB {
	return DB{
		DbHOST:          getEnv("DB_HOST", "localhost"),
		DbPORT:          getEnv("DB_PORT", "5432"),
		DbUSER:          getEnv("DB_USER", "postgres"),
		DbPASSWORD:      getEnv("DB_PASS", "password"),
		DbNAME:          getEnv("DB_NAME", "sownmark"),
		DbSSLMODE:       getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"), 30*time.Minute),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:      strings.TrimPrefix(getEnv("DO_SPACES_ENDPOINT", "localhost:9000"), "https://"),
		AccessKey:     getEnv("DO_SPACES_KEY", "minioadmin"),
		SecretKey:     getEnv("DO_SPACES_SECRET", "minioadmin"),
		BucketName:    getEnv("DO_SPACES_BUCKET", "images"),
		UseSSL:        getEnvBool("DO_SPACES_USE_SSL", true),
		Region:        getEnv("DO_SPACES_REGION", "us-east-1"),
		PublicBaseURL: getEnv("DO_SPACES_PUBLIC_URL", ""),
	}
}

func LoadSMTP() SMTP {
	return SMTP{
		Host:           getEnv("EMAIL_HOST", "localhost"),
		Port:           getEnvAsInt("EMAIL_PORT", 587),
		User:           getEnv("EMAIL_USER", ""),
		Password:       getEnv("EMAIL_PASS", ""),
		FromTeam:       getEnv("EMAIL_FROM_TEAM", `"Sownmark Team" <hello@sownmark.com>`),
		FromNewsletter: getEnv("EMAIL_FROM_NEWSLETTER", `"Sownmark Newsletter" <hello@sownmark.com>`),
		FrontendURL:    strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		Workers:        getEnvAsInt("EMAIL_WORKERS", 2),
		QueueSize:      getEnvAsInt("EMAIL_QUEUE_SIZE", 100),
		SendTimeout:    parseDuration(getEnv("EMAIL_SEND_TIMEOUT", "30s"), 30*time.Second),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		Server: LoadServer(),
		DB:     LoadDB(),
		MinIO:  LoadMinIO(),
		SMTP:   LoadSMTP(),
		RateLimit: RateLimit{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 5),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Log: Log{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Referral: Referral{
			CodeLength:  getEnvAsInt("REFERRAL_CODE_LENGTH", 8),
			MaxAttempts: getEnvAsInt("REFERRAL_MAX_ATTEMPTS", 10),
		},
		JWTSecretKey:   getEnv("JWT_SECRET", ""),
		AccessTokenTTL: parseDuration(getEnv("ACCESS_TOKEN_TTL", "1h"), time.Hour),
	}
}
