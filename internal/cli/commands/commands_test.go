// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/recordkeep/internal/cli/output"
	"github.com/leapstack-labs/recordkeep/internal/cli/testutil"
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

func runCommand(t *testing.T, p *testutil.TestProject, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(p.Context(t))
	return out.String(), errOut.String(), err
}

var (
	ann = core.Record{ID: "1", Name: "Ann", Email: "ann@example.com"}
	bob = core.Record{ID: "2", Name: "Bob", Email: "bob@example.com"}
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewListCommand(), "list", nil},
		{NewCreateCommand(), "create", []string{"name", "email"}},
		{NewUpdateCommand(), "update <id>", []string{"name", "email"}},
		{NewDeleteCommand(), "delete <id>", nil},
		{NewDoctorCommand(), "doctor", []string{"strict"}},
		{NewShellCommand(), "shell", nil},
		{NewServeCommand(), "serve", []string{"port", "watch", "dev", "open"}},
		{NewInitCommand(), "init [directory]", []string{"force"}},
		{NewVersionCommand(BuildInfo{Version: "test"}), "version", []string{"short"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestListCommand_JSON(t *testing.T) {
	p := testutil.SetupTestProject(t, core.RecordList{ann}, nil)
	p.Cfg.OutputFormat = string(output.ModeJSON)

	out, _, err := runCommand(t, p, NewListCommand())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"json": [{"id": "1", "name": "Ann", "email": "ann@example.com"}],
		"xml": []
	}`, out)
}

func TestListCommand_Markdown(t *testing.T) {
	p := testutil.SetupTestProject(t, core.RecordList{ann, bob}, core.RecordList{bob})

	out, errOut, err := runCommand(t, p, NewListCommand())
	require.NoError(t, err)

	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "## json (2 records)")
	assert.Contains(t, out, "## xml (1 records)")
	assert.Contains(t, out, "| 1 | Ann | ann@example.com |")
	assert.Empty(t, errOut)
}

func TestListCommand_CorruptStore(t *testing.T) {
	p := testutil.SetupTestProject(t, core.RecordList{ann}, nil)
	require.NoError(t, os.WriteFile(p.Cfg.StorePath(p.Cfg.Stores.Secondary), []byte("<records><record>"), 0o600))

	out, errOut, err := runCommand(t, p, NewListCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "## xml (0 records)")
	assert.Contains(t, out, "(no records)")
	assert.Contains(t, errOut, "store xml is corrupt")
}

func TestCreateCommand(t *testing.T) {
	p := testutil.SetupTestProject(t, nil, nil)
	p.Cfg.OutputFormat = string(output.ModeJSON)

	out, _, err := runCommand(t, p, NewCreateCommand(), "--name", "Carol Jones", "--email", "carol@example.com")
	require.NoError(t, err)

	var got MutationOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, coordinator.OpCreate, got.Op)
	require.NotNil(t, got.Record)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, got.ID, got.Record.ID)
	assert.Equal(t, "Carol Jones", got.Record.Name)
	assert.Empty(t, got.Degraded)

	want := core.RecordList{*got.Record}
	assert.Equal(t, want, p.ReadStore(t, p.Cfg.Stores.Primary))
	assert.Equal(t, want, p.ReadStore(t, p.Cfg.Stores.Secondary))
}

func TestCreateCommand_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no flags", nil},
		{"missing email", []string{"--name", "Ann"}},
		{"missing name", []string{"--email", "ann@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.SetupTestProject(t, nil, nil)

			_, _, err := runCommand(t, p, NewCreateCommand(), tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, coordinator.ErrValidation)
			assert.NoFileExists(t, p.Cfg.StorePath(p.Cfg.Stores.Primary))
		})
	}
}

func TestUpdateCommand(t *testing.T) {
	p := testutil.SetupTestProject(t, core.RecordList{ann, bob}, core.RecordList{bob})

	out, _, err := runCommand(t, p, NewUpdateCommand(), "1", "--name", "Annie", "--email", "annie@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Record 1 updated")
	assert.Contains(t, out, "- **xml**: skipped")

	annie := core.Record{ID: "1", Name: "Annie", Email: "annie@example.com"}
	assert.Equal(t, core.RecordList{annie, bob}, p.ReadStore(t, p.Cfg.Stores.Primary))
	assert.Equal(t, core.RecordList{bob}, p.ReadStore(t, p.Cfg.Stores.Secondary))
}

func TestUpdateCommand_NotFound(t *testing.T) {
	p := testutil.SetupTestProject(t, core.RecordList{ann}, core.RecordList{ann})

	_, _, err := runCommand(t, p, NewUpdateCommand(), "missing", "--name", "X", "--email", "x@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, coordinator.ErrNotFound)
}

func TestUpdateCommand_RequiresID(t *testing.T) {
	p := testutil.SetupTestProject(t, nil, nil)

	_, _, err := runCommand(t, p, NewUpdateCommand())
	assert.Error(t, err)
}

func TestDeleteCommand(t *testing.T) {
	p := testutil.SetupTestProject(t, core.RecordList{ann, bob, ann}, core.RecordList{ann})

	out, _, err := runCommand(t, p, NewDeleteCommand(), "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Record 1 deleted")

	assert.Equal(t, core.RecordList{bob}, p.ReadStore(t, p.Cfg.Stores.Primary))
	assert.Empty(t, p.ReadStore(t, p.Cfg.Stores.Secondary))

	_, _, err = runCommand(t, p, NewDeleteCommand(), "1")
	assert.ErrorIs(t, err, coordinator.ErrNotFound)
}

func TestRenderMutation_Text(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText, false)
	res := coordinator.Result{
		Record: ann,
		Stores: []coordinator.StoreResult{
			{Key: "json", Found: true, Before: 0, After: 1},
			{Key: "xml", Found: true, SaveErr: assert.AnError, Before: 0, After: 1},
		},
	}

	require.NoError(t, renderMutation(tr.Renderer, coordinator.OpCreate, ann.ID, &ann, res))

	out := tr.Output()
	assert.Contains(t, out, "✓ Record 1 created")
	assert.Contains(t, out, "Name: Ann")
	assert.Contains(t, out, "✗ xml")
	assert.Contains(t, out, assert.AnError.Error())
}
