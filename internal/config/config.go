package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration.
type Config struct {
	API      APIConfig
	Storage  StorageConfig
	Callback CallbackConfig
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds durable state settings.
type StorageConfig struct {
	StateFile string `mapstructure:"state_file"`
}

// CallbackConfig holds the local OAuth2 redirect listener settings.
type CallbackConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// Load reads configuration from environment variables with the NESTBOARD_
// prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NESTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// API defaults
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "10s")

	// Storage defaults
	v.SetDefault("storage.state_file", defaultStateFile())

	// Callback defaults
	v.SetDefault("callback.listen_addr", "127.0.0.1:53682")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"api.base_url":         "NESTBOARD_API_BASE_URL",
		"api.timeout":          "NESTBOARD_API_TIMEOUT",
		"storage.state_file":   "NESTBOARD_STORAGE_STATE_FILE",
		"callback.listen_addr": "NESTBOARD_CALLBACK_LISTEN_ADDR",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
		Timeout: v.GetDuration("api.timeout"),
	}
	cfg.Storage = StorageConfig{
		StateFile: v.GetString("storage.state_file"),
	}
	cfg.Callback = CallbackConfig{
		ListenAddr: v.GetString("callback.listen_addr"),
	}

	return cfg, nil
}

// defaultStateFile resolves the per-user state file location, falling back to
// the working directory when no home directory is known.
func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nestboard/state.json"
	}
	return filepath.Join(home, ".nestboard", "state.json")
}
