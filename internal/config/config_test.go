package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
server:
  port: "9090"
  mode: release
database:
  driver: postgres
  host: db
  port: 5432
responses:
  require_form: true
rate_limit:
  max_requests: 10
  window_minutes: 2
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, sample)
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.Mode != "release" {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Host != "db.internal" {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if !cfg.Responses.RequireForm {
		t.Fatal("responses.require_form not read")
	}
	if cfg.Log.Level != "info" || cfg.Storage.MaxUploadMB != 5 {
		t.Fatalf("defaults not applied: log=%+v storage=%+v", cfg.Log, cfg.Storage)
	}
	if cfg.Path == "" {
		t.Fatal("config path not recorded")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.Driver != "memory" || cfg.Server.Port != "8080" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr bool
	}{
		{"mysql", DatabaseConfig{Driver: "mysql"}, false},
		{"memory", DatabaseConfig{Driver: "memory"}, false},
		{"mongo without uri", DatabaseConfig{Driver: "mongo"}, true},
		{"mongo", DatabaseConfig{Driver: "mongo", MongoURI: "mongodb://localhost"}, false},
		{"unknown", DatabaseConfig{Driver: "sqlite"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Database: tc.db}
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	cfg := &Config{Database: DatabaseConfig{Driver: "memory"}, Server: ServerConfig{Mode: "production"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unknown server mode")
	}
}
