package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad"
)

// NewValidateCmd creates the "validate" subcommand.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an export envelope without importing",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().Bool("strict", false, "Treat warnings as errors")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	format, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return exitError(exitFileNotFound, "file not found: %s", filePath)
		}
		return fmt.Errorf("reading file: %w", err)
	}

	env, err := schemapad.ParseEnvelope(data)
	if err != nil {
		return exitError(exitValidation, "%v", err)
	}

	diags := env.Data.Validate()
	printValidateDiagnostics(out, diags, format)

	hasErrs := schemapad.HasErrors(diags)
	hasWarns := len(warnings(diags)) > 0

	if hasErrs || (strict && hasWarns) {
		return exitError(exitValidation, "validation failed")
	}
	return nil
}

// printValidateDiagnostics writes diagnostics to the writer in the requested
// format, followed by a summary line (for text format).
func printValidateDiagnostics(w io.Writer, diags []schemapad.Diagnostic, format string) {
	if format == "json" {
		printDiagnosticsJSON(w, diags)
		return
	}
	printDiagnosticsText(w, diags)
}

// printDiagnosticsText writes diagnostics as formatted text lines followed by
// a summary. Used by both the validate and import commands.
func printDiagnosticsText(w io.Writer, diags []schemapad.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s [%s]: %s\n", strings.ToUpper(d.Severity), d.Code, d.Message)
	}

	errs := errorDiags(diags)
	warns := warnings(diags)

	switch {
	case len(errs) == 0 && len(warns) == 0:
		fmt.Fprintln(w, "Valid!")
	case len(errs) == 0 && len(warns) > 0:
		fmt.Fprintf(w, "\nValid! (%d %s)\n", len(warns), pluralize("warning", len(warns)))
	default:
		fmt.Fprintf(w, "\n%d %s, %d %s\n",
			len(errs), pluralize("error", len(errs)),
			len(warns), pluralize("warning", len(warns)))
	}
}

func printDiagnosticsJSON(w io.Writer, diags []schemapad.Diagnostic) {
	// Output an empty array rather than null when there are no diagnostics.
	if diags == nil {
		diags = []schemapad.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(diags)
}

func errorDiags(diags []schemapad.Diagnostic) []schemapad.Diagnostic {
	var out []schemapad.Diagnostic
	for _, d := range diags {
		if d.Severity == schemapad.SeverityError {
			out = append(out, d)
		}
	}
	return out
}

func warnings(diags []schemapad.Diagnostic) []schemapad.Diagnostic {
	var out []schemapad.Diagnostic
	for _, d := range diags {
		if d.Severity == schemapad.SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// pluralize returns the singular or plural form of a word based on count.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
