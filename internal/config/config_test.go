package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/spf13/viper"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Browse.PageSize != 48 {
		t.Errorf("PageSize = %d, want 48", cfg.Browse.PageSize)
	}
	if cfg.Browse.ScrollDelay != 150*time.Millisecond {
		t.Errorf("ScrollDelay = %s, want 150ms", cfg.Browse.ScrollDelay)
	}
	if cfg.Filter() != (domain.FilterSet{Kind: domain.KindImage}) {
		t.Errorf("Filter() = %+v, want image filter", cfg.Filter())
	}
	if cfg.IsConfigured() {
		t.Error("IsConfigured() = true with no server settings")
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  url: http://corpus.local:5000
  token: secret
browse:
  page_size: 24
  default_kind: video
  scroll_delay: 300ms
network:
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CORPUSVIEW_BROWSE_EXCLUDE_SCANNED", "true")
	t.Setenv("CORPUSVIEW_NETWORK_RETRIES", "5")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.IsConfigured() {
		t.Error("IsConfigured() = false")
	}
	if cfg.Browse.PageSize != 24 {
		t.Errorf("PageSize = %d, want 24", cfg.Browse.PageSize)
	}
	if cfg.Browse.ScrollDelay != 300*time.Millisecond {
		t.Errorf("ScrollDelay = %s, want 300ms", cfg.Browse.ScrollDelay)
	}
	if cfg.Network.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Network.Timeout)
	}
	if cfg.Network.Retries != 5 {
		t.Errorf("Retries = %d, want 5 from env", cfg.Network.Retries)
	}
	want := domain.FilterSet{Kind: domain.KindVideo, ExcludeScanned: true}
	if cfg.Filter() != want {
		t.Errorf("Filter() = %+v, want %+v", cfg.Filter(), want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"page size zero", func(c *Config) { c.Browse.PageSize = 0 }, "page_size"},
		{"page size too large", func(c *Config) { c.Browse.PageSize = 501 }, "page_size"},
		{"page size max", func(c *Config) { c.Browse.PageSize = 500 }, ""},
		{"all kinds", func(c *Config) { c.Browse.DefaultKind = "all" }, ""},
		{"unknown kind", func(c *Config) { c.Browse.DefaultKind = "pdf" }, "default_kind"},
		{"zero timeout", func(c *Config) { c.Network.Timeout = 0 }, "timeout"},
		{"negative retries", func(c *Config) { c.Network.Retries = -1 }, "retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Server.URL = "http://localhost:5000"
	cfg.Server.Token = "abc123"
	cfg.Browse.PageSize = 96
	cfg.Storage.Dir = ""
	cfg.Viewer = ViewerConfig{Command: "feh", Args: []string{"-F"}, CorpusRoot: "/mnt/corpus"}

	if err := SaveConfig(cfg, dir); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := Load(viper.New(), filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server != cfg.Server {
		t.Errorf("Server = %+v, want %+v", loaded.Server, cfg.Server)
	}
	if loaded.Browse != cfg.Browse {
		t.Errorf("Browse = %+v, want %+v", loaded.Browse, cfg.Browse)
	}
	if loaded.Storage.Dir != "" {
		t.Errorf("Storage.Dir = %q, want memory-only", loaded.Storage.Dir)
	}
	if loaded.Viewer.Command != "feh" || loaded.Viewer.CorpusRoot != "/mnt/corpus" {
		t.Errorf("Viewer = %+v", loaded.Viewer)
	}
	if len(loaded.Viewer.Args) != 1 || loaded.Viewer.Args[0] != "-F" {
		t.Errorf("Viewer.Args = %v, want [-F]", loaded.Viewer.Args)
	}
}
