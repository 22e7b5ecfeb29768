package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/recordkeep/internal/cli/config"
	"github.com/leapstack-labs/recordkeep/internal/cli/output"
	"github.com/leapstack-labs/recordkeep/internal/codec"
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/store"
	"github.com/leapstack-labs/recordkeep/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Coord    *coordinator.Coordinator
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a coordinator over the
// configured stores and a renderer for the configured output mode.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutCoordinator(cmd)

	coord, err := NewCoordinator(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	cmdCtx.Coord = coord
	return cmdCtx, nil
}

// NewCommandContextWithoutCoordinator creates a CommandContext for commands
// that never touch the data files.
func NewCommandContextWithoutCoordinator(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewCoordinator builds the primary and secondary stores described by cfg
// and a coordinator over them. opts are applied after the configured id
// generator and logger.
func NewCoordinator(cfg *config.Config, logger *slog.Logger, opts ...coordinator.Option) (*coordinator.Coordinator, error) {
	gen, err := core.NewIDGenerator(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}

	primary, err := newStore(cfg, cfg.Stores.Primary, logger)
	if err != nil {
		return nil, err
	}
	secondary, err := newStore(cfg, cfg.Stores.Secondary, logger)
	if err != nil {
		return nil, err
	}

	base := []coordinator.Option{
		coordinator.WithIDGenerator(gen),
		coordinator.WithLogger(logger),
	}
	return coordinator.New(primary, secondary, append(base, opts...)...), nil
}

func newStore(cfg *config.Config, sc config.StoreConfig, logger *slog.Logger) (*store.Store, error) {
	c, err := codec.Lookup(sc.Codec)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", sc.Key, err)
	}
	return store.New(store.Config{Key: sc.Key, Path: cfg.StorePath(sc)}, c, logger), nil
}
