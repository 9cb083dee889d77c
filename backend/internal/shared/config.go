// ============================================================================
// backend/internal/shared/config.go
// Portal configuration management and environment variable helpers
// ============================================================================

package shared

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================================
// Configuration Structs
// ============================================================================

// PortalConfig holds the full configuration for the portal server.
type PortalConfig struct {
	ServiceName string
	HTTPPort    string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error

	// MongoDB Configuration
	MongoDB MongoConfig

	// Security Configuration
	Security SecurityConfig

	// Chat Proxy Configuration
	Chat ChatConfig

	// Upload Configuration
	Upload UploadConfig

	// CORS Configuration
	CORS CORSConfig
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	JWTSecret          string
	JWTExpirationHours int
}

// ChatConfig holds configuration for the generative-language chat proxy
type ChatConfig struct {
	APIKey            string
	BaseURL           string
	SystemInstruction string
	AttemptTimeout    time.Duration // timeout per upstream payload-shape attempt
	MaxOutputTokens   int
}

// UploadConfig holds file upload limits
type UploadConfig struct {
	MaxCertificateSize int64 // bytes
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultSystemInstruction is used when CHATBOT_SYSTEM_INSTRUCTION is not set.
const DefaultSystemInstruction = `You are a DSA, placement related queries instructor and an NPTEL course recommendation chatbot. You will only reply to problems related to Data Structures and Algorithms, placement queries, and NPTEL course recommendations. If the user asks something outside those areas, reply tersely and rudely. Provide explanations, examples, and code snippets for DSA topics; recommend NPTEL courses with links when asked; give placement preparation tips when asked.`

// ============================================================================
// Configuration Loading
// ============================================================================

// LoadEnv loads environment variables from a .env file
func LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("WARN: %s file not found, using system environment variables", envFile)
		return err
	}

	log.Printf("INFO: Successfully loaded environment from %s", envFile)
	return nil
}

// LoadPortalConfig loads the portal configuration from environment variables.
func LoadPortalConfig() (*PortalConfig, error) {
	config := &PortalConfig{
		ServiceName: "campus-electives",
		HTTPPort:    GetEnv("PORT", "8080"),
		Environment: GetEnv("ENVIRONMENT", "development"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
	}

	// Student/course/certificate data and teacher data live in two separate
	// logical databases on the same deployment.
	config.MongoDB = MongoConfig{
		URI:             GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		StudentDB:       GetEnv("MONGO_STUDENT_DB", "campusElectives"),
		TeacherDB:       GetEnv("MONGO_TEACHER_DB", "mongosb"),
		ConnectTimeout:  GetDurationEnv("MONGO_CONNECT_TIMEOUT", 20*time.Second),
		MaxPoolSize:     uint64(GetIntEnv("MONGO_MAX_POOL_SIZE", 50)),
		MinPoolSize:     uint64(GetIntEnv("MONGO_MIN_POOL_SIZE", 10)),
		MaxIdleTime:     GetDurationEnv("MONGO_MAX_IDLE_TIME", 30*time.Second),
		UseTransactions: GetBoolEnv("MONGO_USE_TRANSACTIONS", false),
	}

	// The portal issues JWTs on login but does not gate routes with them, so
	// a missing secret only downgrades to a dev default rather than failing
	// startup.
	config.Security = SecurityConfig{
		JWTSecret:          GetEnv("JWT_SECRET", ""),
		JWTExpirationHours: GetIntEnv("JWT_EXPIRATION_HOURS", 24),
	}
	if config.Security.JWTSecret == "" {
		log.Println("WARN: JWT_SECRET not set, using insecure development secret")
		config.Security.JWTSecret = "campus-electives-dev-secret"
	}

	// The chat API key may come from any of the three env var names the
	// deployment scripts historically used.
	apiKey := GetEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = GetEnv("GENAI_API_KEY", "")
	}
	if apiKey == "" {
		apiKey = GetEnv("GOOGLE_GENAI_API_KEY", "")
	}
	if apiKey == "" {
		log.Println("WARN: GENAI API key not set in environment (GEMINI_API_KEY or GENAI_API_KEY or GOOGLE_GENAI_API_KEY)")
	}

	config.Chat = ChatConfig{
		APIKey:            apiKey,
		BaseURL:           GetEnv("GENAI_BASE_URL", "https://generativelanguage.googleapis.com"),
		SystemInstruction: GetEnv("CHATBOT_SYSTEM_INSTRUCTION", DefaultSystemInstruction),
		AttemptTimeout:    GetDurationEnv("CHAT_ATTEMPT_TIMEOUT", 30*time.Second),
		MaxOutputTokens:   GetIntEnv("CHAT_MAX_OUTPUT_TOKENS", 800),
	}

	config.Upload = UploadConfig{
		MaxCertificateSize: int64(GetIntEnv("MAX_CERTIFICATE_SIZE", 1*1024*1024)), // 1MB
	}

	config.CORS = CORSConfig{
		AllowedOrigins:   GetStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowedMethods:   GetStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
		AllowedHeaders:   GetStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
		AllowCredentials: GetBoolEnv("CORS_ALLOW_CREDENTIALS", false),
		MaxAge:           GetIntEnv("CORS_MAX_AGE", 300),
	}

	return config, nil
}

// ============================================================================
// Environment Variable Helper Functions
// ============================================================================

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv retrieves an integer environment variable or returns a default value
func GetIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("WARN: Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetBoolEnv retrieves a boolean environment variable or returns a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("WARN: Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetDurationEnv retrieves a duration environment variable or returns a default value
// Supports format like "30s", "5m", "1h"
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("WARN: Invalid duration value for %s: %s, using default: %v", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetStringSliceEnv retrieves a comma-separated string list or returns a default value
func GetStringSliceEnv(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
