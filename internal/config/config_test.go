package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("APP_ROLE", "")
	t.Setenv("INSTANCE_ID", "")
	cfg := Load()
	if cfg.StoreDriver != "memory" {
		t.Fatalf("expected memory driver default, got %s", cfg.StoreDriver)
	}
	if cfg.AppRole != "client" {
		t.Fatalf("expected client role default, got %s", cfg.AppRole)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
	if cfg.SessionKey() != "session:default" {
		t.Fatalf("unexpected session key %s", cfg.SessionKey())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ROLE", "BARBER")
	t.Setenv("INSTANCE_ID", "chair-2")
	t.Setenv("MAX_WRITE_RETRIES", "3")
	t.Setenv("S3_PATH_STYLE", "true")
	t.Setenv("REDIS_DB", "not-a-number")
	cfg := Load()
	if cfg.AppRole != "barber" {
		t.Fatalf("role should be lower-cased, got %s", cfg.AppRole)
	}
	if cfg.SessionKey() != "session:chair-2" {
		t.Fatalf("unexpected session key %s", cfg.SessionKey())
	}
	if cfg.MaxWriteRetries != 3 || !cfg.S3PathStyle {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.RedisDB)
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.AppRole = "admin"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid role error")
	}
	cfg.AppRole = "client"
	cfg.StoreDriver = "s3"
	cfg.S3Bucket = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing bucket error")
	}
	cfg.StoreDriver = "memory"
	cfg.MaxWriteRetries = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected retries error")
	}
}
