package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/recordkeep/internal/cli/output"
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/store"
	"github.com/spf13/cobra"
)

// ErrDrift is returned by doctor --strict when the stores disagree.
var ErrDrift = errors.New("recordkeep: stores have drifted")

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Strict bool
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Compare both stores and report drift",
		Long: `Compare the primary and secondary stores record by record.

The report lists:
- Each store's file status and record count
- Ids present in only one store
- Ids present in both stores with different names or emails
- Ids repeated within one store

Stores drift when a save fails on one side, or when a file is edited by
hand. Use --strict to exit non-zero when any drift is found.`,
		Example: `  # Show the drift report
  recordkeep doctor

  # Fail in CI when the stores disagree
  recordkeep doctor --strict --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error when the stores drift")

	return cmd
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	report := cmdCtx.Coord.Drift(cmd.Context())
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(report)
	case output.ModeMarkdown:
		renderDriftMarkdown(r, report)
	default:
		renderDriftText(r, report)
	}
	if err != nil {
		return err
	}

	if opts.Strict && !report.Clean() {
		return ErrDrift
	}
	return nil
}

// driftSection is one titled group of findings in the report.
type driftSection struct {
	Title string
	Lines []string
}

func driftSections(report coordinator.DriftReport) []driftSection {
	keys := []string{"primary", "secondary"}
	if len(report.Stores) == 2 {
		keys = []string{report.Stores[0].Key, report.Stores[1].Key}
	}
	titleCaser := cases.Title(language.English)

	differing := make([]string, 0, len(report.Differing))
	for _, d := range report.Differing {
		differing = append(differing, fmt.Sprintf("%s: %s <%s> vs %s <%s>",
			d.ID, d.Primary.Name, d.Primary.Email, d.Secondary.Name, d.Secondary.Email))
	}

	storesWithDups := make([]string, 0, len(report.Duplicates))
	for key := range report.Duplicates {
		storesWithDups = append(storesWithDups, key)
	}
	sort.Strings(storesWithDups)
	duplicates := make([]string, 0)
	for _, key := range storesWithDups {
		duplicates = append(duplicates, fmt.Sprintf("%s: %s", key, strings.Join(report.Duplicates[key], ", ")))
	}

	return []driftSection{
		{Title: titleCaser.String("only in " + keys[0]), Lines: report.OnlyInPrimary},
		{Title: titleCaser.String("only in " + keys[1]), Lines: report.OnlyInSecondary},
		{Title: titleCaser.String("differing records"), Lines: differing},
		{Title: titleCaser.String("duplicate ids"), Lines: duplicates},
	}
}

func renderDriftText(r *output.Renderer, report coordinator.DriftReport) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("recordkeep Store Drift Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Stores"))
	for _, st := range report.Stores {
		status := "success"
		if st.Status == store.StatusReadFailed.String() || st.Status == store.StatusCorrupt.String() {
			status = "failed"
		}
		r.StatusLine(st.Key, status, fmt.Sprintf("%s, %d records", st.Status, st.Count))
	}
	r.Println("")

	for _, sec := range driftSections(report) {
		icon := styles.StatusSuccess.String()
		if len(sec.Lines) > 0 {
			icon = styles.Warning.Render("!")
		}
		r.Printf("%s %s (%d)\n", icon, styles.Bold.Render(sec.Title), len(sec.Lines))
		for i, line := range sec.Lines {
			if i >= 10 {
				r.Println(styles.Muted.Render(fmt.Sprintf("    ... and %d more", len(sec.Lines)-10)))
				break
			}
			r.Println(styles.Muted.Render("    - " + line))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	if report.Clean() {
		r.Println(styles.Success.Render("Stores are in sync"))
	} else {
		r.Println(styles.Warning.Render("Stores have drifted"))
	}
}

func renderDriftMarkdown(r *output.Renderer, report coordinator.DriftReport) {
	r.Println("# recordkeep Store Drift Report")
	r.Println("")

	r.Println("## Stores")
	r.Println("")
	for _, st := range report.Stores {
		r.Printf("- **%s**: %s, %d records\n", st.Key, st.Status, st.Count)
	}
	r.Println("")

	for _, sec := range driftSections(report) {
		r.Printf("## %s (%d)\n", sec.Title, len(sec.Lines))
		r.Println("")
		for _, line := range sec.Lines {
			r.Printf("- %s\n", line)
		}
		if len(sec.Lines) > 0 {
			r.Println("")
		}
	}

	if report.Clean() {
		r.Println("**Stores are in sync**")
	} else {
		r.Println("**Stores have drifted**")
	}
}
