package utils

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppEnv         string `yaml:"APP_ENV"`
	AppURL         string `yaml:"APP_URL"`
	Port           string `yaml:"PORT"`
	AllowedOrigins string `yaml:"ALLOWED_ORIGINS"`
	RateLimitMax   string `yaml:"RATE_LIMIT_MAX"`

	// Database configuration
	DocstoreBackend string `yaml:"DOCSTORE_BACKEND"`
	DBUser          string `yaml:"DB_USER"`
	DBName          string `yaml:"DB_NAME"`
	DBPassword      string `yaml:"DB_PASSWORD"`
	DBPort          string `yaml:"DB_PORT"`
	DBHost          string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// OpenAI configuration
	OpenAIAPIKey      string `yaml:"OPENAI_API_KEY"`
	OpenAIBaseURL     string `yaml:"OPENAI_BASE_URL"`
	OpenAIModel       string `yaml:"OPENAI_MODEL"`
	OpenAIMaxTokens   string `yaml:"OPENAI_MAX_TOKENS"`
	OpenAITemperature string `yaml:"OPENAI_TEMPERATURE"`

	// Cache configuration
	CacheBackend  string `yaml:"CACHE_BACKEND"`
	CacheTTL      string `yaml:"CACHE_TTL"`
	CacheMaxItems string `yaml:"CACHE_MAX_ITEMS"`
	RedisAddr     string `yaml:"REDIS_ADDR"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Logging
	LogLevel string `yaml:"LOG_LEVEL"`
	LogFile  string `yaml:"LOG_FILE"`
}

var config Config

var defaults = map[string]string{
	"APP_ENV":            "development",
	"APP_URL":            "http://localhost:3000",
	"PORT":               "8080",
	"ALLOWED_ORIGINS":    "http://localhost:3000,http://localhost:5173",
	"OPENAI_BASE_URL":    "https://api.openai.com/v1",
	"OPENAI_MODEL":       "gpt-4o-mini",
	"OPENAI_MAX_TOKENS":  "2000",
	"OPENAI_TEMPERATURE": "0.7",
	"RATE_LIMIT_MAX":     "20",
	"DOCSTORE_BACKEND":   "postgres",
	"CACHE_BACKEND":      "memory",
	"CACHE_TTL":          "300",
	"CACHE_MAX_ITEMS":    "1000",
	"LOG_LEVEL":          "info",
	"LOG_FILE":           "./logs/app.log",
}

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

func lookup(key string) string {
	switch key {
	case "APP_ENV":
		return config.AppEnv
	case "APP_URL":
		return config.AppURL
	case "PORT":
		return config.Port
	case "ALLOWED_ORIGINS":
		return config.AllowedOrigins
	case "RATE_LIMIT_MAX":
		return config.RateLimitMax
	case "DOCSTORE_BACKEND":
		return config.DocstoreBackend
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "OPENAI_API_KEY":
		return config.OpenAIAPIKey
	case "OPENAI_BASE_URL":
		return config.OpenAIBaseURL
	case "OPENAI_MODEL":
		return config.OpenAIModel
	case "OPENAI_MAX_TOKENS":
		return config.OpenAIMaxTokens
	case "OPENAI_TEMPERATURE":
		return config.OpenAITemperature
	case "CACHE_BACKEND":
		return config.CacheBackend
	case "CACHE_TTL":
		return config.CacheTTL
	case "CACHE_MAX_ITEMS":
		return config.CacheMaxItems
	case "REDIS_ADDR":
		return config.RedisAddr
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "LOG_LEVEL":
		return config.LogLevel
	case "LOG_FILE":
		return config.LogFile
	default:
		return ""
	}
}

// GetConfig resolves key from the environment first, then config.yaml, then the built-in default.
func GetConfig(key string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if v := lookup(key); v != "" {
		return v
	}
	return defaults[key]
}

func GetConfigInt(key string) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		d, _ := strconv.Atoi(defaults[key])
		return d
	}
	return v
}

func GetConfigFloat(key string) float64 {
	v, err := strconv.ParseFloat(GetConfig(key), 64)
	if err != nil {
		d, _ := strconv.ParseFloat(defaults[key], 64)
		return d
	}
	return v
}

func GetConfigList(key string) []string {
	raw := GetConfig(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
