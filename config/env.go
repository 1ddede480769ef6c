package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env into the process environment. Missing file is fine in
// containerized deployments where the environment is injected directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error in loading the ENV")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func MongoURL() string {
	return getEnv("MONGO_URL", "mongodb://127.0.0.1:27017")
}

func MongoDatabase() string {
	return getEnv("MONGO_DB", "aarogyam")
}

func RedisAddr() string {
	return getEnv("REDIS_ADDR", "localhost:6379")
}

func JWTSecret() []byte {
	return []byte(getEnv("JWT_SECRET", "mysecretstring"))
}

func Port() string {
	return getEnv("PORT", "5000")
}

func MeetBaseURL() string {
	return getEnv("MEET_BASE_URL", "https://meet.jit.si")
}

func UploadDir() string {
	return getEnv("UPLOAD_DIR", "uploads")
}

func CertificateDir() string {
	return getEnv("CERT_DIR", "certificates")
}

// AtomicFanout selects whether the clinical-data fan-out runs inside one Mongo
// transaction. Set to "false" to reproduce the legacy sequential writes on
// standalone deployments without a replica set.
func AtomicFanout() bool {
	return getEnv("ATOMIC_FANOUT", "true") != "false"
}

// SessionTTL is the lifetime of a login session and its cookie.
const SessionTTL = 7 * 24 * time.Hour
