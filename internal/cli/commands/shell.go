package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/recordkeep/internal/cli/output"
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
)

var errUnterminatedQuote = errors.New("unterminated quote or trailing backslash")

const (
	shellPrompt      = "recordkeep> "
	shellHistoryFile = ".recordkeep_history"
)

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive records shell",
		Long: `Start an interactive shell over the configured stores.

Arguments containing spaces must be double-quoted. Type .help inside the
shell for the list of commands.`,
		Example: `  recordkeep shell
  recordkeep> .create "Bob Smith" bob@example.com
  recordkeep> .list`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// History lives next to the data files.
	historyFile := ""
	if err := os.MkdirAll(cmdCtx.Cfg.DataDir, 0o750); err == nil {
		historyFile = filepath.Join(cmdCtx.Cfg.DataDir, shellHistoryFile)
	}

	sh := newShell(cmdCtx.Coord, cmdCtx.Renderer, cmd.ErrOrStderr())

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    sh.completer(ctx),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recordkeep shell (data: %s)\n", cmdCtx.Cfg.DataDir)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if sh.exec(ctx, line) {
			break
		}
	}
	return nil
}

// shell executes dot-commands against a coordinator.
type shell struct {
	coord  *coordinator.Coordinator
	r      *output.Renderer
	errOut io.Writer
}

func newShell(coord *coordinator.Coordinator, r *output.Renderer, errOut io.Writer) *shell {
	return &shell{coord: coord, r: r, errOut: errOut}
}

// exec runs one input line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	args, err := splitArgs(line)
	if err != nil {
		s.fail(err)
		return false
	}
	if len(args) == 0 {
		return false
	}
	command := strings.ToLower(args[0])
	args = args[1:]

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(s.r.Writer())

	case ".list":
		s.report(renderSnapshot(s.r, s.coord.ListAll(ctx)))

	case ".create":
		if len(args) != 2 {
			s.usage(".create <name> <email>")
			return false
		}
		res, err := s.coord.Create(ctx, args[0], args[1])
		if err != nil {
			s.fail(err)
			return false
		}
		rec := res.Record
		s.report(renderMutation(s.r, coordinator.OpCreate, rec.ID, &rec, res))

	case ".update":
		if len(args) != 3 {
			s.usage(".update <id> <name> <email>")
			return false
		}
		res, err := s.coord.Update(ctx, args[0], args[1], args[2])
		if err != nil {
			s.fail(err)
			return false
		}
		rec := res.Record
		s.report(renderMutation(s.r, coordinator.OpUpdate, args[0], &rec, res))

	case ".delete":
		if len(args) != 1 {
			s.usage(".delete <id>")
			return false
		}
		res, err := s.coord.Delete(ctx, args[0])
		if err != nil {
			s.fail(err)
			return false
		}
		s.report(renderMutation(s.r, coordinator.OpDelete, args[0], nil, res))

	case ".drift":
		report := s.coord.Drift(ctx)
		if s.r.EffectiveMode() == output.ModeJSON {
			s.report(s.r.JSON(report))
		} else {
			renderDriftText(s.r, report)
		}

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *shell) usage(u string) {
	_, _ = fmt.Fprintf(s.errOut, "Usage: %s\n", u)
}

func (s *shell) fail(err error) {
	_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

func (s *shell) report(err error) {
	if err != nil {
		s.fail(err)
	}
}

// completer completes dot-commands and, for .update and .delete, the ids
// currently held by either store.
func (s *shell) completer(ctx context.Context) *readline.PrefixCompleter {
	ids := func(string) []string {
		seen := make(map[string]bool)
		var out []string
		for _, st := range s.coord.ListAll(ctx).Stores {
			for _, id := range st.Load.Records.IDs() {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
		return out
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".list"),
		readline.PcItem(".create"),
		readline.PcItem(".update", readline.PcItemDynamic(ids)),
		readline.PcItem(".delete", readline.PcItemDynamic(ids)),
		readline.PcItem(".drift"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  .help                          Show this help message
  .list                          List both stores
  .create <name> <email>         Create a record
  .update <id> <name> <email>    Replace a record's name and email
  .delete <id>                   Delete a record
  .drift                         Compare the stores
  .quit / .exit                  Exit the shell

Tips:
  - Quote or escape arguments that contain spaces: .create 'Bob Smith' bob@example.com
  - Use arrow keys to navigate history
  - Tab completion works for commands and record ids
`
	_, _ = fmt.Fprintln(w, help)
}

// splitArgs splits a line into arguments with POSIX shell quoting rules:
// single quotes, double quotes and backslash escapes.
func splitArgs(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, errUnterminatedQuote
	}
	return args, nil
}
