package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; aliases accepted for the same value are listed
// next to the field.
type Config struct {
	Env          string        // APP_ENV or NODE_ENV: development, production, test
	Port         string        // APP_PORT or PORT
	DatabaseURL  string        // DATABASE_URL or MONGODB_URI; the scheme picks the backend
	JWTSecret    string        // secret used to sign JWTs
	TokenTTL     time.Duration // access token lifetime
	BcryptCost   int           // bcrypt cost for password hashing
	LogLevel     string        // logrus level name
	CORSOrigins  []string      // allowed CORS origins
	AMQPURL      string        // RABBITMQ_URL or AMQP_URL; empty disables auth events
	EventsLogDir string        // directory of the auth event log written by the consumer
	Migrate      bool          // run SQL migrations at startup
}

// required lists each mandatory setting with its accepted names in order
// of precedence.
var required = [][]string{
	{"APP_ENV", "NODE_ENV"},
	{"APP_PORT", "PORT"},
	{"DATABASE_URL", "MONGODB_URI"},
	{"JWT_SECRET"},
}

// LoadDotenv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadDotenv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads configuration values from the environment.  Every missing
// required variable is reported in a single error.
func Load() (Config, error) {
	var missing []string
	for _, names := range required {
		if firstenv(names...) == "" {
			missing = append(missing, strings.Join(names, "|"))
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return Config{
		Env:          firstenv("APP_ENV", "NODE_ENV"),
		Port:         firstenv("APP_PORT", "PORT"),
		DatabaseURL:  firstenv("DATABASE_URL", "MONGODB_URI"),
		JWTSecret:    firstenv("JWT_SECRET"),
		TokenTTL:     envDur("TOKEN_TTL", time.Hour),
		BcryptCost:   envInt("BCRYPT_COST", 10),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", "*")),
		AMQPURL:      firstenv("RABBITMQ_URL", "AMQP_URL"),
		EventsLogDir: getenv("AUTH_EVENTS_LOG_DIR", "logs"),
		Migrate:      envBool("DB_MIGRATE", true),
	}, nil
}

// MustLoad is Load that exits the process on a missing variable.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
