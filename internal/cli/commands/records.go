package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/recordkeep/internal/cli/output"
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/store"
	"github.com/leapstack-labs/recordkeep/pkg/core"
	"github.com/spf13/cobra"
)

// MutationOutput is the JSON output of create, update and delete.
type MutationOutput struct {
	Op       coordinator.Op `json:"op"`
	Record   *core.Record   `json:"record,omitempty"`
	ID       string         `json:"id"`
	Degraded []string       `json:"degraded,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the records held by both stores",
		Long: `List every record in the primary and secondary stores.

Each store is shown separately, in file order. A store whose file cannot be
read or decoded is listed as empty with its status.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List records
  recordkeep list

  # List records as JSON, keyed by store
  recordkeep list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return renderSnapshot(cmdCtx.Renderer, cmdCtx.Coord.ListAll(cmd.Context()))
		},
	}
}

func renderSnapshot(r *output.Renderer, snap coordinator.Snapshot) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(snap.Lists())
	}

	for i, st := range snap.Stores {
		if i > 0 {
			r.Println("")
		}
		r.Header(2, fmt.Sprintf("%s (%d records)", st.Key, len(st.Load.Records)))
		if st.Load.Status.Degraded() {
			r.Warning(fmt.Sprintf("store %s is %s: %v", st.Key, st.Load.Status, st.Load.Err))
		}
		if len(st.Load.Records) == 0 {
			r.Muted("(no records)")
			continue
		}
		r.Table([]string{"ID", "Name", "Email"}, recordRows(st.Load.Records))
	}
	return nil
}

func recordRows(list core.RecordList) [][]string {
	rows := make([][]string, len(list))
	for i, rec := range list {
		rows[i] = []string{rec.ID, rec.Name, rec.Email}
	}
	return rows
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record in both stores",
		Example: `  recordkeep create --name Bob --email bob@example.com`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			res, err := cmdCtx.Coord.Create(cmd.Context(), name, email)
			if err != nil {
				return err
			}
			rec := res.Record
			return renderMutation(cmdCtx.Renderer, coordinator.OpCreate, rec.ID, &rec, res)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Record name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Record email (required)")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the name and email of a record",
		Long: `Replace the name and email of the first record with the given id in
each store. Stores that do not hold the id are left untouched.`,
		Example: `  recordkeep update 1b9d6bcd --name Robert --email robert@example.com`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			res, err := cmdCtx.Coord.Update(cmd.Context(), args[0], name, email)
			if err != nil {
				return err
			}
			rec := res.Record
			return renderMutation(cmdCtx.Renderer, coordinator.OpUpdate, args[0], &rec, res)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New record name")
	cmd.Flags().StringVar(&email, "email", "", "New record email")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete every record with the given id from both stores",
		Example: `  recordkeep delete 1b9d6bcd`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			res, err := cmdCtx.Coord.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderMutation(cmdCtx.Renderer, coordinator.OpDelete, args[0], nil, res)
		},
	}
}

func renderMutation(r *output.Renderer, op coordinator.Op, id string, rec *core.Record, res coordinator.Result) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(MutationOutput{
			Op:       op,
			Record:   rec,
			ID:       id,
			Degraded: res.DegradedStores(),
		})
	}

	r.Success(fmt.Sprintf("Record %s %sd", id, op))
	if rec != nil {
		r.KeyValue("Name", rec.Name)
		r.KeyValue("Email", rec.Email)
	}
	for _, sr := range res.Stores {
		r.StatusLine(sr.Key, storeStatus(sr), storeDetail(sr))
	}
	return nil
}

func storeStatus(sr coordinator.StoreResult) string {
	switch {
	case sr.SaveErr != nil:
		return "failed"
	case sr.Load.Status.Degraded():
		return "warn"
	case !sr.Found:
		return "skipped"
	default:
		return "success"
	}
}

func storeDetail(sr coordinator.StoreResult) string {
	var parts []string
	if sr.Load.Status != store.StatusOK {
		parts = append(parts, sr.Load.Status.String())
	}
	if sr.SaveErr != nil {
		parts = append(parts, sr.SaveErr.Error())
	}
	if !sr.Found {
		parts = append(parts, "id not present")
	}
	parts = append(parts, fmt.Sprintf("%d -> %d records", sr.Before, sr.After))
	return strings.Join(parts, ", ")
}
