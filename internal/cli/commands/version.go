package commands

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/recordkeep/internal/cli/output"
	"github.com/leapstack-labs/recordkeep/internal/codec"
)

const unknownBuildValue = "unknown"

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	Codecs    []string `json:"codecs"`
}

// resolve fills fields left empty at link time from the module build info
// and the runtime.
func (b BuildInfo) resolve(read func() (*debug.BuildInfo, bool)) BuildInfo {
	if b.Commit == "" || b.Commit == unknownBuildValue {
		b.Commit = unknownBuildValue
		if bi, ok := read(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					b.Commit = s.Value
				}
			}
		}
	}
	if b.BuildDate == "" {
		b.BuildDate = unknownBuildValue
	}
	if b.GoVersion == "" {
		b.GoVersion = runtime.Version()
	}
	if b.Codecs == nil {
		b.Codecs = codec.Names()
	}
	return b
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the recordkeep version, the commit and date it was built from,
the Go toolchain and the codecs available for the stores.`,
		Example: `  recordkeep version
  recordkeep version --short
  recordkeep version -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, info.resolve(debug.ReadBuildInfo), short)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

// versionMode reads --output straight from the flags: version runs without
// loading the configuration.
func versionMode(cmd *cobra.Command) output.Mode {
	if f := cmd.Flag("output"); f != nil && f.Value.String() != "" {
		return output.Mode(f.Value.String())
	}
	return output.ModeAuto
}

func runVersion(cmd *cobra.Command, info BuildInfo, short bool) error {
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), versionMode(cmd))

	switch {
	case r.EffectiveMode() == output.ModeJSON:
		return r.JSON(info)
	case short:
		r.Println(info.Version)
		return nil
	}

	r.Printf("recordkeep v%s\n", info.Version)
	r.Muted("Dual-store JSON and XML record keeper")
	r.KeyValue("Commit", info.Commit)
	r.KeyValue("Built", info.BuildDate)
	r.KeyValue("Go", info.GoVersion)
	r.KeyValue("Codecs", strings.Join(info.Codecs, ", "))
	return nil
}
