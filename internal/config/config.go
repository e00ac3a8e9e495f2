// Package config loads application configuration from environment
// variables.  A .env file in the working directory is applied first
// when present, so local development needs no exported shell vars.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable: strings for identifiers,
// ints for tunables.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	DBUser   string // database username
	DBPass   string // database password (optional)
	DBHost   string // database host address
	DBPort   string // database port number
	DBName   string // database name
	SeedDays int    // days of schedule to generate when the catalog is empty
}

// Load reads configuration from the environment and returns a Config.
// Required variables are enforced by must(); missing values cause the
// process to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // optional .env; ignore when absent

	return Config{
		Env:      must("APP_ENV"),
		Port:     must("APP_PORT"),
		DBUser:   must("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"), // empty allowed
		DBHost:   must("DB_HOST"),
		DBPort:   must("DB_PORT"),
		DBName:   must("DB_NAME"),
		SeedDays: intOr("SEED_DAYS", 30),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr returns the integer value of an optional environment variable,
// or the default when the variable is unset or malformed.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
