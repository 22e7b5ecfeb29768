package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/recordkeep/internal/cli/config"
	"github.com/leapstack-labs/recordkeep/internal/cli/output"
)

// ErrConfigExists is returned by init when the config file is present and
// --force was not given.
var ErrConfigExists = errors.New("recordkeep: config file already exists")

// initFile is the layout written by init. Durations are kept as strings so
// the file reads the way users write it.
type initFile struct {
	DataDir    string     `yaml:"data_dir"`
	IDStrategy string     `yaml:"id_strategy"`
	Stores     initStores `yaml:"stores"`
	Server     initServer `yaml:"server"`
	Log        initLog    `yaml:"log"`
	Output     string     `yaml:"output"`
}

type initStores struct {
	Primary   initStore `yaml:"primary"`
	Secondary initStore `yaml:"secondary"`
}

type initStore struct {
	Key   string `yaml:"key"`
	Codec string `yaml:"codec"`
	File  string `yaml:"file"`
}

type initServer struct {
	Port              int    `yaml:"port"`
	Watch             bool   `yaml:"watch"`
	ReadHeaderTimeout string `yaml:"read_header_timeout"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`
	SessionSecret     string `yaml:"session_secret"`
}

type initLog struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new recordkeep project",
		Long: `Initialize a recordkeep project with a default configuration.

This creates:
  - recordkeep.yaml with the default stores and a random session secret
  - data/ directory for the JSON and XML store files`,
		Example: `  # Initialize in current directory
  recordkeep init

  # Initialize in a new directory
  recordkeep init my-records

  # Force overwrite existing config
  recordkeep init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cmdCtx := NewCommandContextWithoutCoordinator(cmd)
			return runInit(cmdCtx.Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, configPath)
	}

	data, err := defaultConfigYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	dataDir := filepath.Join(dir, config.DefaultDataDir)
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	r.StatusLine(configPath, "success", "")
	r.StatusLine(dataDir+string(filepath.Separator), "success", "")
	r.Println("")
	r.Success("recordkeep project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'recordkeep create --name <name> --email <email>' to add a record")
	r.Println("  2. Run 'recordkeep list' to see both stores")
	r.Println("  3. Run 'recordkeep serve' to open the browser UI")

	return nil
}

func defaultConfigYAML() ([]byte, error) {
	d := config.Default()
	f := initFile{
		DataDir:    d.DataDir,
		IDStrategy: d.IDStrategy,
		Stores: initStores{
			Primary:   initStore(d.Stores.Primary),
			Secondary: initStore(d.Stores.Secondary),
		},
		Server: initServer{
			Port:              d.Server.Port,
			Watch:             d.Server.Watch,
			ReadHeaderTimeout: d.Server.ReadHeaderTimeout.String(),
			ShutdownTimeout:   d.Server.ShutdownTimeout.String(),
			SessionSecret:     hex.EncodeToString(securecookie.GenerateRandomKey(32)),
		},
		Log:    initLog(d.Log),
		Output: d.OutputFormat,
	}

	var doc yaml.Node
	if err := doc.Encode(f); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	doc.HeadComment = "recordkeep configuration\n" +
		"Environment variables override these values, e.g. RECORDKEEP_SERVER__PORT=8080."

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}
