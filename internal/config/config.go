package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The session secret is mandatory: the server
// refuses to boot with an empty or missing secret rather than falling back
// to a compiled-in literal.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBDriver      string // "sqlite3" (default) or "mysql"
	DBDSN         string // sqlite DSN / file path
	DBUser        string // mysql username
	DBPass        string // mysql password (optional)
	DBHost        string // mysql host address
	DBPort        string // mysql port number
	DBName        string // mysql database name
	SessionSecret string // secret used to sign session JWTs
	SessionTTLMin int    // session token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	AdminUser     string // username of the seeded admin account
	AdminPass     string // password of the seeded admin account (hashed before storage)
	StaticDir     string // directory holding panorama images and sw.js
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBDriver:      getenv("DB_DRIVER", "sqlite3"),
		DBDSN:         getenv("DB_DSN", "tour.db"),
		SessionSecret: must("SESSION_SECRET"),
		SessionTTLMin: intOr("SESSION_TTL_MIN", 720),
		BcryptCost:    intOr("BCRYPT_COST", 10),
		AdminUser:     getenv("ADMIN_USER", "admin"),
		AdminPass:     getenv("ADMIN_PASS", "password"),
		StaticDir:     getenv("STATIC_DIR", "static"),
	}
	if cfg.DBDriver == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts an optional environment variable into an integer, falling
// back to def when unset. An unparseable value is a fatal error.
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
