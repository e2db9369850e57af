package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneforge/pkg/store"
	"github.com/matzehuels/sceneforge/pkg/workspace"
)

// configFile is the name of the config file inside the config directory.
const configFile = "config.toml"

// Storage backend names.
const (
	backendDir    = "dir"
	backendKV     = "kv"
	backendRedis  = "redis"
	backendMongo  = "mongo"
	backendSQLite = "sqlite"
)

// Config is the effective CLI configuration. Defaults are applied first,
// then the TOML file, then SCENEFORGE_* environment variables.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Viewport ViewportConfig `toml:"viewport"`
	Server   ServerConfig   `toml:"server"`
	Trace    TraceConfig    `toml:"trace"`
}

// StorageConfig selects where projects are kept.
type StorageConfig struct {
	Backend       string `toml:"backend" env:"SCENEFORGE_STORAGE_BACKEND"`
	Dir           string `toml:"dir" env:"SCENEFORGE_STORAGE_DIR"`
	KVDir         string `toml:"kv_dir" env:"SCENEFORGE_STORAGE_KV_DIR"`
	RedisAddr     string `toml:"redis_addr" env:"SCENEFORGE_STORAGE_REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"SCENEFORGE_STORAGE_REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" env:"SCENEFORGE_STORAGE_REDIS_DB"`
	MongoURI      string `toml:"mongo_uri" env:"SCENEFORGE_STORAGE_MONGO_URI"`
	MongoDatabase string `toml:"mongo_database" env:"SCENEFORGE_STORAGE_MONGO_DATABASE"`
	SQLitePath    string `toml:"sqlite_path" env:"SCENEFORGE_STORAGE_SQLITE_PATH"`
}

// ViewportConfig holds the gizmo defaults and the frame size.
type ViewportConfig struct {
	Mode      string  `toml:"mode" env:"SCENEFORGE_VIEWPORT_MODE"`
	Space     string  `toml:"space" env:"SCENEFORGE_VIEWPORT_SPACE"`
	Snap      bool    `toml:"snap" env:"SCENEFORGE_VIEWPORT_SNAP"`
	SnapValue float64 `toml:"snap_value" env:"SCENEFORGE_VIEWPORT_SNAP_VALUE"`
	Width     int     `toml:"width" env:"SCENEFORGE_VIEWPORT_WIDTH"`
	Height    int     `toml:"height" env:"SCENEFORGE_VIEWPORT_HEIGHT"`
	FPS       int     `toml:"fps" env:"SCENEFORGE_VIEWPORT_FPS"`
}

// ServerConfig configures `sceneforge serve`.
type ServerConfig struct {
	Addr string `toml:"addr" env:"SCENEFORGE_SERVER_ADDR"`
}

// TraceConfig turns on span logging.
type TraceConfig struct {
	Enabled bool `toml:"enabled" env:"SCENEFORGE_TRACE_ENABLED"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	vs := store.DefaultViewportSettings()
	return Config{
		Storage: StorageConfig{
			Backend:       backendDir,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Viewport: ViewportConfig{
			Mode:      string(vs.Mode),
			Space:     string(vs.Space),
			Snap:      vs.SnapEnabled,
			SnapValue: vs.SnapValue,
			Width:     800,
			Height:    600,
			FPS:       60,
		},
		Server: ServerConfig{Addr: "127.0.0.1:7480"},
	}
}

// Settings converts the viewport section to store settings.
func (v ViewportConfig) Settings() (store.ViewportSettings, error) {
	mode, err := store.ParseMode(v.Mode)
	if err != nil {
		return store.ViewportSettings{}, err
	}
	space, err := store.ParseSpace(v.Space)
	if err != nil {
		return store.ViewportSettings{}, err
	}
	return store.ViewportSettings{Mode: mode, Space: space, SnapEnabled: v.Snap, SnapValue: v.SnapValue}, nil
}

// LoadConfig reads path over the defaults and applies the environment.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Storage.Backend {
	case backendDir, backendKV, backendRedis, backendMongo, backendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if _, err := cfg.Viewport.Settings(); err != nil {
		return err
	}
	return nil
}

// config loads the configuration for the current invocation.
func (c *CLI) config() (Config, error) {
	path := c.configPath
	if path == "" {
		dir, err := workspace.ConfigDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, configFile)
	}
	return LoadConfig(path)
}

// configCommand prints the effective configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}
