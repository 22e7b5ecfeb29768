package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/ui"
	"github.com/leapstack-labs/recordkeep/internal/ui/notifier"
)

// ServeOptions holds options for the serve command that are not part of
// the configuration file.
type ServeOptions struct {
	Open bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the records API and browser UI",
		Long: `Start a local web server exposing the records API under /api/records
and a browser UI at /.

Open pages refresh live when records change through the API, the UI or the
CLI, and when a data file is edited on disk (--watch).`,
		Example: `  # Serve on the configured port (default 3000)
  recordkeep serve

  # Serve on a custom port without watching the data files
  recordkeep serve --port 8080 --watch=false

  # Open the UI in the default browser
  recordkeep serve --open`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	// port, watch and dev are read back through the config loader.
	cmd.Flags().Int("port", 0, "Port to serve on (default: 3000)")
	cmd.Flags().Bool("watch", true, "Refresh the UI when data files change on disk")
	cmd.Flags().Bool("dev", false, "Enable live reload of the UI during development")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the UI in the default browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContextWithoutCoordinator(cmd)
	cfg := cmdCtx.Cfg

	n := notifier.New()
	coord, err := NewCoordinator(cfg, cmdCtx.Logger, coordinator.WithObserver(ui.ObserveChanges(n)))
	if err != nil {
		return err
	}
	primary, secondary := coord.Stores()

	server := ui.NewServer(ui.Config{
		Coordinator:       coord,
		Notifier:          n,
		Port:              cfg.Server.Port,
		Watch:             cfg.Server.Watch,
		WatchFiles:        []string{primary.Path(), secondary.Path()},
		Dev:               cfg.Server.Dev,
		SessionSecret:     cfg.Server.SessionSecret,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Logger:            cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if opts.Open {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Printf("Serving records on %s\n", url)
	r.StatusLine(primary.Key(), "success", primary.Path())
	r.StatusLine(secondary.Key(), "success", secondary.Path())
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
