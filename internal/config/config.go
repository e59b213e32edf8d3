package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	TokenSecret string
	TokenTTL    time.Duration
	Pepper      string
	BcryptCost  int
	DBTimeout   time.Duration
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k, def string) time.Duration {
	d, err := time.ParseDuration(getenv(k, def))
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}

// Load reads the environment (plus .env if present). APP_ENV=test switches
// to the TEST_POSTGRES_* variables so tests run against their own database.
func Load() Config {
	_ = godotenv.Load() // load .env if it exists

	env := getenv("APP_ENV", "dev")
	prefix := "POSTGRES"
	if env == "test" {
		prefix = "TEST_POSTGRES"
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getenv(prefix+"_USER", "postgres"),
		getenv(prefix+"_PASSWORD", "postgres"),
		getenv(prefix+"_HOST", "localhost"),
		getenv(prefix+"_PORT", "5432"),
		getenv(prefix+"_DB", "storefront"),
	)

	cost, err := strconv.Atoi(getenv("SALT_ROUNDS", "10"))
	if err != nil {
		cost = 10
	}

	cfg := Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":3000"),
		PostgresDSN: dsn,
		TokenSecret: getenv("TOKEN_SECRET", ""),
		TokenTTL:    getduration("TOKEN_TTL", "24h"),
		Pepper:      getenv("BCRYPT_PASSWORD", ""),
		BcryptCost:  cost,
		DBTimeout:   getduration("DB_TIMEOUT", "5s"),
	}
	log.Printf("[config] APP_ENV=%s", env)
	log.Printf("[config] HTTP_ADDR=%s", cfg.HTTPAddr)
	log.Printf("[config] TOKEN_TTL=%s DB_TIMEOUT=%s", cfg.TokenTTL, cfg.DBTimeout)
	return cfg
}
