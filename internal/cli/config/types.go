// Package config loads recordkeep's CLI and server configuration.
//
// Values are layered with koanf. Precedence, highest first: command-line
// flags, RECORDKEEP_* environment variables, the recordkeep.yaml file, and
// the built-in defaults. Relative paths resolve against the project root,
// which is the directory holding the config file or else the working
// directory.
package config

import (
	"path/filepath"
	"time"

	"github.com/leapstack-labs/recordkeep/internal/codec"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// Default configuration values.
const (
	DefaultDataDir           = "data"
	DefaultIDStrategy        = core.IDStrategyUUID
	DefaultPrimaryKey        = "json"
	DefaultPrimaryFile       = "data.json"
	DefaultSecondaryKey      = "xml"
	DefaultSecondaryFile     = "data.xml"
	DefaultPort              = 3000
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultOutput            = "auto" // Auto-detect: TTY=text, non-TTY=markdown

	// DefaultSessionSecret signs UI session cookies when none is configured.
	DefaultSessionSecret = "recordkeep-dev-secret-change-in-production" //nolint:gosec
)

// ConfigFileNames are searched in order in the project root.
var ConfigFileNames = []string{"recordkeep.yaml", "recordkeep.yml"}

// Config holds all CLI configuration options.
type Config struct {
	DataDir      string       `koanf:"data_dir"`
	IDStrategy   string       `koanf:"id_strategy"`
	Stores       StoresConfig `koanf:"stores"`
	Server       ServerConfig `koanf:"server"`
	Log          LogConfig    `koanf:"log"`
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`

	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// StoresConfig names the two backing stores.
type StoresConfig struct {
	Primary   StoreConfig `koanf:"primary"`
	Secondary StoreConfig `koanf:"secondary"`
}

// StoreConfig describes one backing store.
type StoreConfig struct {
	Key   string `koanf:"key"`
	Codec string `koanf:"codec"`
	File  string `koanf:"file"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Watch             bool          `koanf:"watch"`
	Dev               bool          `koanf:"dev"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	SessionSecret     string        `koanf:"session_secret"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StorePath returns the absolute path of a store's backing file.
func (c *Config) StorePath(s StoreConfig) string {
	if filepath.IsAbs(s.File) {
		return s.File
	}
	return filepath.Join(c.DataDir, s.File)
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		IDStrategy: DefaultIDStrategy,
		Stores: StoresConfig{
			Primary:   StoreConfig{Key: DefaultPrimaryKey, Codec: codec.JSONName, File: DefaultPrimaryFile},
			Secondary: StoreConfig{Key: DefaultSecondaryKey, Codec: codec.XMLName, File: DefaultSecondaryFile},
		},
		Server: ServerConfig{
			Port:              DefaultPort,
			Watch:             true,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		OutputFormat: DefaultOutput,
	}
}

// defaultsMap flattens Default for the confmap provider.
func defaultsMap() map[string]any {
	d := Default()
	return map[string]any{
		"data_dir":                   d.DataDir,
		"id_strategy":                d.IDStrategy,
		"stores.primary.key":         d.Stores.Primary.Key,
		"stores.primary.codec":       d.Stores.Primary.Codec,
		"stores.primary.file":        d.Stores.Primary.File,
		"stores.secondary.key":       d.Stores.Secondary.Key,
		"stores.secondary.codec":     d.Stores.Secondary.Codec,
		"stores.secondary.file":      d.Stores.Secondary.File,
		"server.port":                d.Server.Port,
		"server.watch":               d.Server.Watch,
		"server.dev":                 d.Server.Dev,
		"server.read_header_timeout": d.Server.ReadHeaderTimeout.String(),
		"server.shutdown_timeout":    d.Server.ShutdownTimeout.String(),
		"server.session_secret":      "",
		"log.level":                  d.Log.Level,
		"log.format":                 d.Log.Format,
		"verbose":                    d.Verbose,
		"output":                     d.OutputFormat,
	}
}
