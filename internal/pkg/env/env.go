package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env holds the values read from the .env file. Process environment
// variables take precedence so container deployments can run without one.
var Env map[string]string

// GetEnv returns the configured value for key, falling back to def.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if val, ok := Env[key]; ok {
		return val
	}
	return def
}

// GetEnvInt returns the configured integer for key. Unset or non-numeric
// values fall back to def.
func GetEnvInt(key string, def int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// SetupEnvFile reads the .env file from the working directory or the repo
// root when running from a cmd/ subdirectory. A missing file is not an
// error: deployments inject configuration through the process environment.
func SetupEnvFile() {
	candidates := []string{".env", "../../.env"}
	for _, path := range candidates {
		values, err := godotenv.Read(path)
		if err == nil {
			Env = values
			return
		}
	}
	Env = map[string]string{}
}

// IsDev reports whether the service runs with the development profile.
func IsDev() bool {
	return GetEnv("APP_ENV", "production") == "dev"
}
