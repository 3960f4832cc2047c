package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // symmetric key used to sign JWTs
	JWTIssuer     string // "iss" claim stamped on every token
	JWTAudience   string // "aud" claim stamped on every token
	TokenTTLMin   int    // access token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	TOTPIssuer    string // issuer label shown in authenticator apps
	ResetTTLMin   int    // password reset token time-to-live in minutes
	MigrationsDir string // filesystem path to SQL migration files
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		JWTIssuer:     getenv("JWT_ISSUER", "resource-tracker"),
		JWTAudience:   getenv("JWT_AUDIENCE", "resource-tracker-api"),
		TokenTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:    mustInt("BCRYPT_COST"),
		TOTPIssuer:    getenv("TOTP_ISSUER", "ResourceTracker"),
		ResetTTLMin:   envInt("RESET_TOKEN_TTL_MIN", 30),
		MigrationsDir: getenv("MIGRATIONS_DIR", "internal/database/migrations"),
	}
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

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
