// Package config provides centralized default values for NearCart
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile pulls overrides from a .env file if one exists. Already-set
// environment variables win.
func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err == nil {
			log.Println("Loading configuration overrides from .env file...")
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	DBPath                   string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Entity TTLs
	SessionTTL      time.Duration
	ConversationTTL time.Duration
	ResultTTL       time.Duration
	AttachmentTTL   time.Duration

	// Search behavior
	ConversationalRadiusMeters float64
	DirectSearchRadiusMeters   float64
	MaxCandidates              int
	MaxQuickReplies            int

	// Store coordinate cache
	StoreCoordsTTL time.Duration

	// External services
	GeminiAPIKey      string
	GeminiModel       string
	ExtractorTimeout  time.Duration
	AAIAPIKey         string
	TranscribeTimeout time.Duration
	GeocodeTimeout    time.Duration

	// Object storage
	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string

	// Uploads
	MaxUploadBytes int64
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	DBPath = getEnvString("DB_PATH", "nearcart.db")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 250*time.Millisecond)

	// Entity TTLs
	SessionTTL = time.Duration(getEnvInt("SESSION_TTL_DAYS", 30)) * 24 * time.Hour
	ConversationTTL = time.Duration(getEnvInt("CONVERSATION_TTL_HOURS", 24)) * time.Hour
	ResultTTL = time.Duration(getEnvInt("RESULT_TTL_HOURS", 24)) * time.Hour
	AttachmentTTL = time.Duration(getEnvInt("ATTACHMENT_TTL_HOURS", 24)) * time.Hour

	// Search behavior. The conversational flow assumes a tight "near me"
	// intent; the direct entry point casts a wider net.
	ConversationalRadiusMeters = getEnvFloat("CONVERSATIONAL_RADIUS_METERS", 1000)
	DirectSearchRadiusMeters = getEnvFloat("DIRECT_SEARCH_RADIUS_METERS", 10000)
	MaxCandidates = getEnvInt("MAX_CANDIDATES", 50)
	MaxQuickReplies = getEnvInt("MAX_QUICK_REPLIES", 5)

	// Store coordinate cache
	StoreCoordsTTL = time.Duration(getEnvInt("STORE_COORDS_TTL_HOURS", 24)) * time.Hour

	// External services
	GeminiAPIKey = getEnvString("GEMINI_API_KEY", "")
	GeminiModel = getEnvString("GEMINI_MODEL", "gemini-1.5-flash")
	ExtractorTimeout = getEnvDuration("EXTRACTOR_TIMEOUT", 15*time.Second)
	AAIAPIKey = getEnvString("AAI_API_KEY", "")
	TranscribeTimeout = getEnvDuration("TRANSCRIBE_TIMEOUT", 60*time.Second)
	GeocodeTimeout = getEnvDuration("GEOCODE_TIMEOUT", 5*time.Second)

	// Object storage
	S3Bucket = getEnvString("S3_BUCKET", "nearcart-media")
	S3Region = getEnvString("S3_REGION", "eu-central-1")
	S3PublicBaseURL = getEnvString("S3_PUBLIC_BASE_URL", "")

	// Uploads
	MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_MB", 5)) * 1024 * 1024
}
