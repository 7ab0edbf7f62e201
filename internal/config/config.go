package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Default shared-secret PINs used by the reference deployment. They grant
// access in development only; Validate refuses them in production.
const (
	DefaultChargePIN = "149500"
	DefaultLabPIN    = "1234"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	Storage     string   `mapstructure:"STORAGE"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	ChargePIN   string   `mapstructure:"CHARGE_PIN"`
	LabPIN      string   `mapstructure:"LAB_PIN"`
	TokenSecret string   `mapstructure:"TOKEN_SECRET"`
	TokenTTLMin int      `mapstructure:"TOKEN_TTL_MINUTES"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	SeedDemo    bool     `mapstructure:"SEED_DEMO_DATA"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE", StorageMemory)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CHARGE_PIN", DefaultChargePIN)
	v.SetDefault("LAB_PIN", DefaultLabPIN)
	v.SetDefault("TOKEN_TTL_MINUTES", 60)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SEED_DEMO_DATA", true)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("STORAGE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CHARGE_PIN")
	v.BindEnv("LAB_PIN")
	v.BindEnv("TOKEN_SECRET")
	v.BindEnv("TOKEN_TTL_MINUTES")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SEED_DEMO_DATA")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: Default access PINs are active. Do NOT use in production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. The postgres backend
// requires a DATABASE_URL. Production refuses the well-known default PINs and
// requires an explicit token signing secret.
func (c *Config) Validate() error {
	if c.Storage != StorageMemory && c.Storage != StoragePostgres {
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage)
	}
	if c.Storage == StoragePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORAGE is %q", StoragePostgres)
	}
	if c.TokenTTLMin <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", c.TokenTTLMin)
	}
	if c.IsProduction() {
		if c.TokenSecret == "" {
			return fmt.Errorf("TOKEN_SECRET is required in production")
		}
		if c.ChargePIN == DefaultChargePIN || c.LabPIN == DefaultLabPIN {
			return fmt.Errorf("default access PINs are not allowed in production; set CHARGE_PIN and LAB_PIN")
		}
	}
	return nil
}
