package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/spf13/viper"
)

const (
	MinPageSize = 1
	MaxPageSize = 500
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	Network NetworkConfig `mapstructure:"network"`
	Storage StorageConfig `mapstructure:"storage"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds corpus API configuration
type ServerConfig struct {
	URL   string `mapstructure:"url"`   // Base URL, e.g. http://localhost:5000
	Token string `mapstructure:"token"` // Static API token sent as a bearer header
}

// BrowseConfig holds gallery paging preferences
type BrowseConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	DefaultKind    string        `mapstructure:"default_kind"` // "all", "image", "video", "audio", "document"
	ExcludeScanned bool          `mapstructure:"exclude_scanned"`
	ScrollDelay    time.Duration `mapstructure:"scroll_delay"` // Delay before scrolling a jump target into view
}

// NetworkConfig holds HTTP client tuning
type NetworkConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// StorageConfig holds the history/bookmark database location
type StorageConfig struct {
	Dir string `mapstructure:"dir"` // Empty keeps history in memory only
}

// ViewerConfig holds the external viewer used to open item files
type ViewerConfig struct {
	Command    string   `mapstructure:"command"`     // Empty to auto-detect per kind
	Args       []string `mapstructure:"args"`        // Extra arguments before the file path
	CorpusRoot string   `mapstructure:"corpus_root"` // Local copy of the corpus; item file paths are relative to it
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Browse: BrowseConfig{
			PageSize:    48,
			DefaultKind: string(domain.KindImage),
			ScrollDelay: 150 * time.Millisecond,
		},
		Network: NetworkConfig{
			Timeout: 30 * time.Second,
			Retries: 2,
		},
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "corpusview.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "corpusview")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "corpusview")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "corpusview")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "corpusview")
	}
}

// Load reads configuration from file and environment. An explicit file path
// overrides the default search locations.
func Load(v *viper.Viper, file string) (*Config, error) {
	cfg := DefaultConfig()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. CORPUSVIEW_BROWSE_PAGE_SIZE
	v.SetEnvPrefix("CORPUSVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// LoadConfig loads configuration with the global viper instance
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper(), "")
}

// bindDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.token", cfg.Server.Token)
	v.SetDefault("browse.page_size", cfg.Browse.PageSize)
	v.SetDefault("browse.default_kind", cfg.Browse.DefaultKind)
	v.SetDefault("browse.exclude_scanned", cfg.Browse.ExcludeScanned)
	v.SetDefault("browse.scroll_delay", cfg.Browse.ScrollDelay)
	v.SetDefault("network.timeout", cfg.Network.Timeout)
	v.SetDefault("network.retries", cfg.Network.Retries)
	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("viewer.command", cfg.Viewer.Command)
	v.SetDefault("viewer.args", cfg.Viewer.Args)
	v.SetDefault("viewer.corpus_root", cfg.Viewer.CorpusRoot)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate rejects settings the browser cannot run with
func (c *Config) Validate() error {
	if c.Browse.PageSize < MinPageSize || c.Browse.PageSize > MaxPageSize {
		return fmt.Errorf("browse.page_size must be between %d and %d, got %d", MinPageSize, MaxPageSize, c.Browse.PageSize)
	}
	if _, err := domain.ParseKind(c.Browse.DefaultKind); err != nil {
		return fmt.Errorf("browse.default_kind: %w", err)
	}
	if c.Network.Timeout <= 0 {
		return fmt.Errorf("network.timeout must be positive, got %s", c.Network.Timeout)
	}
	if c.Network.Retries < 0 {
		return fmt.Errorf("network.retries must not be negative, got %d", c.Network.Retries)
	}
	return nil
}

// Filter returns the startup filter set
func (c *Config) Filter() domain.FilterSet {
	kind, _ := domain.ParseKind(c.Browse.DefaultKind)
	return domain.FilterSet{Kind: kind, ExcludeScanned: c.Browse.ExcludeScanned}
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}

// SaveConfig writes cfg to dir/config.yaml, or the default config directory
// when dir is empty
func SaveConfig(cfg *Config, dir string) error {
	if dir == "" {
		dir = DefaultConfigPath()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v := viper.New()
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.token", cfg.Server.Token)

	v.Set("browse.page_size", cfg.Browse.PageSize)
	v.Set("browse.default_kind", cfg.Browse.DefaultKind)
	v.Set("browse.exclude_scanned", cfg.Browse.ExcludeScanned)
	v.Set("browse.scroll_delay", cfg.Browse.ScrollDelay.String())

	v.Set("network.timeout", cfg.Network.Timeout.String())
	v.Set("network.retries", cfg.Network.Retries)

	v.Set("storage.dir", cfg.Storage.Dir)

	v.Set("viewer.command", cfg.Viewer.Command)
	v.Set("viewer.args", cfg.Viewer.Args)
	v.Set("viewer.corpus_root", cfg.Viewer.CorpusRoot)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
