// Package config loads application configuration from environment
// variables.  Required variables are enforced by must() and missing
// values halt startup with a fatal log message; optional values fall
// back to sensible defaults.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration values.  Each field corresponds
// to one environment variable: strings for identifiers and secrets, ints
// for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	FloorTables    string // fallback floor plan, comma-separated seat counts
}

// Load reads configuration values from the environment and returns a
// Config.  FLOOR_TABLES is optional: it only seeds the floor plan when
// the database holds no table inventory.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		FloorTables:    os.Getenv("FLOOR_TABLES"),
	}
}

// ParseFloorTables turns a comma-separated list of seat counts
// ("2,2,4,6") into a slice of table capacities.  Blank entries are
// skipped; a non-numeric or negative entry is an error so a typo in the
// floor plan fails startup instead of silently shrinking the floor.
func ParseFloorTables(s string) ([]int, error) {
	var seats []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid table size %q", part)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative table size %d", n)
		}
		seats = append(seats, n)
	}
	return seats, nil
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty the application exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
