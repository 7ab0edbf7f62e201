package config

import (
	"testing"
)

func base() *Config {
	return &Config{
		Port:        "8000",
		Env:         "development",
		Storage:     StorageMemory,
		DBMaxConns:  20,
		DBMinConns:  5,
		ChargePIN:   DefaultChargePIN,
		LabPIN:      DefaultLabPIN,
		TokenTTLMin: 60,
	}
}

func TestValidate_MemoryBackendNeedsNoDatabase(t *testing.T) {
	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PostgresRequiresDatabaseURL(t *testing.T) {
	cfg := base()
	cfg.Storage = StoragePostgres
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for postgres backend without DATABASE_URL")
	}

	cfg.DatabaseURL = "postgres://localhost/medchart"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsUnknownStorage(t *testing.T) {
	cfg := base()
	cfg.Storage = "sqlite"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestValidate_ProductionRefusesDefaults(t *testing.T) {
	cfg := base()
	cfg.Env = "production"
	cfg.TokenSecret = "s3cret"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default PINs in production")
	}

	cfg.ChargePIN = "987654"
	cfg.LabPIN = "4321"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ProductionRequiresTokenSecret(t *testing.T) {
	cfg := base()
	cfg.Env = "production"
	cfg.ChargePIN = "987654"
	cfg.LabPIN = "4321"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing TOKEN_SECRET in production")
	}
}

func TestValidate_TokenTTLMustBePositive(t *testing.T) {
	cfg := base()
	cfg.TokenTTLMin = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero token TTL")
	}
}

func TestIsDev(t *testing.T) {
	cfg := base()
	if !cfg.IsDev() {
		t.Error("expected IsDev for ENV=development")
	}
	cfg.Env = "production"
	if cfg.IsDev() {
		t.Error("did not expect IsDev for ENV=production")
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction for ENV=production")
	}
}
