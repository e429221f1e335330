package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// InitialGrantUnits is the fixed starting balance credited to every new
	// account, in minor currency units.
	InitialGrantUnits int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "ledger-backend")
	viper.SetDefault("INITIAL_GRANT_UNITS", int64(100000))

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL not set. Falling back to the in-memory store.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.InitialGrantUnits = viper.GetInt64("INITIAL_GRANT_UNITS")
	if cfg.InitialGrantUnits < 0 {
		log.Printf("Warning: INITIAL_GRANT_UNITS is negative (%d). Defaulting to 0.\n", cfg.InitialGrantUnits)
		cfg.InitialGrantUnits = 0
	}

	return cfg, nil
}
