package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

type ServerConfig struct {
	HTTPAddr string
	TCPAddr  string
}

// LoadEnvFile pulls a local .env into the process environment if one
// exists. Missing files are fine; real env vars always win.
func LoadEnvFile() {
	_ = godotenv.Load()
}

func LoadAuthConfig() AuthConfig {
	secret := getEnv("MANGASHELF_JWT_SECRET", "dev-secret-change-me")
	issuer := getEnv("MANGASHELF_JWT_ISSUER", "mangashelf")

	hours, err := strconv.Atoi(getEnv("MANGASHELF_JWT_TTL_HOURS", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: time.Duration(hours) * time.Hour,
	}
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr: getEnv("MANGASHELF_HTTP_ADDR", ":8080"),
		TCPAddr:  getEnv("MANGASHELF_TCP_ADDR", ":7070"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
