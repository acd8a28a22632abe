package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/table"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/sap-gg/ftctl/internal"
	"github.com/sap-gg/ftctl/internal/release"
)

func printOutcome(w io.Writer, out *release.Outcome) {
	if out == nil {
		return
	}

	if len(out.Steps) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"#", "Step", "File", "Field", "Strategy", "Status"})
		for i, step := range out.Steps {
			field := step.Field
			if field == "" {
				field = "-"
			}
			t.AppendRow(table.Row{i + 1, step.Name, step.Path, field, step.Strategy, colorStatus(step.Status)})
		}
		t.Render()
	}

	for _, warning := range out.Warnings {
		_, _ = fmt.Fprintln(w, color.YellowString("! %s", warning))
	}

	if out.DryRun {
		for _, step := range out.Steps {
			if step.Changed() {
				_, _ = fmt.Fprintln(w, unifiedDiff(step))
			}
		}
	}

	if out.Succeeded() {
		_, _ = fmt.Fprintln(w, color.GreenString("%s", out.Message()))
	} else {
		_, _ = fmt.Fprintln(w, color.RedString("%s", out.Message()))
	}
}

func colorStatus(s release.Status) string {
	switch s {
	case release.StatusUpdated:
		return color.GreenString("%s", s)
	case release.StatusUnchanged:
		return string(s)
	case release.StatusNoMatch, release.StatusWriteFailed:
		return color.YellowString("%s", s)
	default:
		return color.RedString("%s", s)
	}
}

func unifiedDiff(step *release.StepResult) string {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(step.Before)),
		B:        difflib.SplitLines(string(step.After)),
		FromFile: "a/" + step.Path,
		ToFile:   "b/" + step.Path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return fmt.Sprintf("error computing diff for %s: %s", step.Path, err)
	}
	return strings.TrimSpace(text)
}

// printParseError prints the annotated source of a YAML decoding error, if err carries one.
func printParseError(w io.Writer, err error) {
	var parseErr *release.ParseError
	if !errors.As(err, &parseErr) {
		return
	}
	if msg, ok := internal.FormatDecodeError(parseErr.Err, !color.NoColor); ok {
		_, _ = fmt.Fprintf(w, "%s\n%s\n", parseErr.Path, msg)
	}
}
