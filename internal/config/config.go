package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          int
	UploadPath    string
	SessionSecret string
	AdminUsername string
	AdminPassword string
	Production    bool
	CORSOrigins   []string
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))

	// Session secret: require explicit setting or generate random
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random session secret: %v", err)
		}
		secret = hex.EncodeToString(b)
		log.Println("WARNING: SESSION_SECRET not set, using random secret. Sessions will not survive restarts. Set SESSION_SECRET env var for persistent sessions.")
	}

	production, _ := strconv.ParseBool(getEnv("PRODUCTION", "false"))

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:          port,
		UploadPath:    getEnv("UPLOAD_PATH", "./uploads"),
		SessionSecret: secret,
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		Production:    production,
		CORSOrigins:   corsOrigins,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
