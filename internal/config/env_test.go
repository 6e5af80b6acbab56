package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != "8080" {
		t.Errorf("unexpected address %s:%s", cfg.Host, cfg.Port)
	}
	if cfg.StateFile != "gear_state.json" || cfg.BisFile != "bis.json" {
		t.Errorf("unexpected files %q %q", cfg.StateFile, cfg.BisFile)
	}
	if cfg.Store != StoreFile {
		t.Errorf("default store = %q", cfg.Store)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BISTRACKER_PORT", "9090")
	t.Setenv("BISTRACKER_STATE_FILE", "/tmp/state.json")
	t.Setenv("BISTRACKER_STORE", "profile")
	t.Setenv("BISTRACKER_PROFILE", "alt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.StateFile != "/tmp/state.json" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Store != StoreProfile || cfg.Profile != "alt" {
		t.Errorf("store = %q profile = %q", cfg.Store, cfg.Profile)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("BISTRACKER_STORE", "s3")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown store")
	}
}
