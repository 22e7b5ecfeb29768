// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/recordkeep/internal/cli/config"
	"github.com/leapstack-labs/recordkeep/internal/cli/output"
	"github.com/leapstack-labs/recordkeep/internal/codec"
	"github.com/leapstack-labs/recordkeep/internal/testutil"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// TestProject is a temporary data directory with a config pointing at it.
type TestProject struct {
	Cfg *config.Config
	Dir string
}

// SetupTestProject creates a temporary data directory holding primary and
// secondary in the default store files. A nil list leaves its file absent.
func SetupTestProject(t *testing.T, primary, secondary core.RecordList) *TestProject {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.ProjectRoot = dir
	cfg.Server.SessionSecret = config.DefaultSessionSecret

	p := &TestProject{Cfg: cfg, Dir: dir}
	if primary != nil {
		p.WriteStore(t, cfg.Stores.Primary, primary)
	}
	if secondary != nil {
		p.WriteStore(t, cfg.Stores.Secondary, secondary)
	}
	return p
}

// WriteStore encodes list with the store's codec and writes its file.
func (p *TestProject) WriteStore(t *testing.T, sc config.StoreConfig, list core.RecordList) {
	t.Helper()

	c, err := codec.Lookup(sc.Codec)
	if err != nil {
		t.Fatalf("codec %s: %v", sc.Codec, err)
	}
	data, err := c.Encode(list)
	if err != nil {
		t.Fatalf("encode %s: %v", sc.Key, err)
	}
	if err := os.WriteFile(p.Cfg.StorePath(sc), data, 0o600); err != nil {
		t.Fatalf("write %s: %v", sc.Key, err)
	}
}

// ReadStore decodes the store's file. A missing file reads as an empty list.
func (p *TestProject) ReadStore(t *testing.T, sc config.StoreConfig) core.RecordList {
	t.Helper()

	c, err := codec.Lookup(sc.Codec)
	if err != nil {
		t.Fatalf("codec %s: %v", sc.Codec, err)
	}
	data, err := os.ReadFile(p.Cfg.StorePath(sc))
	if os.IsNotExist(err) {
		return core.RecordList{}
	}
	if err != nil {
		t.Fatalf("read %s: %v", sc.Key, err)
	}
	list, err := c.Decode(data)
	if err != nil {
		t.Fatalf("decode %s: %v", sc.Key, err)
	}
	return list
}

// Context returns a context carrying the project's config and a test logger,
// as the root command would set up.
func (p *TestProject) Context(t *testing.T) context.Context {
	t.Helper()
	ctx := config.WithLogger(context.Background(), testutil.NewTestLogger(t))
	return config.WithConfig(ctx, p.Cfg)
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, mode, isTTY),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks that every heading has text.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
