package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/recordkeep/internal/codec"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("recordkeep: invalid configuration")

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return invalid("data_dir is required")
	}
	if _, err := core.NewIDGenerator(c.IDStrategy); err != nil {
		return invalid("id_strategy: %v", err)
	}

	p, s := c.Stores.Primary, c.Stores.Secondary
	for _, st := range []struct {
		name string
		sc   StoreConfig
	}{{"primary", p}, {"secondary", s}} {
		name, sc := st.name, st.sc
		if sc.Key == "" {
			return invalid("stores.%s.key is required", name)
		}
		if sc.File == "" {
			return invalid("stores.%s.file is required", name)
		}
		if _, err := codec.Lookup(sc.Codec); err != nil {
			return invalid("stores.%s.codec: %v", name, err)
		}
	}
	if p.Key == s.Key {
		return invalid("store keys must differ (both %q)", p.Key)
	}
	if filepath.Clean(c.StorePath(p)) == filepath.Clean(c.StorePath(s)) {
		return invalid("stores must use different files (both %q)", c.StorePath(p))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port %d out of range 1..65535", c.Server.Port)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format %q (want text or json)", c.Log.Format)
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return invalid("output %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
