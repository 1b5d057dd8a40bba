package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad"
)

// NewExportCmd creates the "export" subcommand.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the stored document as a JSON envelope",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	cmd.Flags().String("sqlite-path", "", "Path to SQLite database (default: ~/.schemapad/schemapad.db)")
	cmd.Flags().String("config", "", "Path to schemapad.yaml config")
	cmd.Flags().String("document-id", "", "Document id to export")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	outPath := args[0]

	cfg, err := loadDaemonConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openDocumentStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	docID := resolveDocumentID(cmd, cfg)
	doc, ok, err := st.Load(cmd.Context(), docID)
	if err != nil {
		return exitError(exitRuntime, "loading document: %v", err)
	}
	if !ok {
		return exitError(exitFileNotFound, "document %q not found", docID)
	}

	env := schemapad.NewEnvelope(doc.Data(), time.Now().UTC())
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}

	if outPath == "-" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d node(s) to %s\n", env.Metadata.NodeCount, outPath)
	return nil
}
