package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad"
	"github.com/schemapad/schemapad/store"
)

// NewImportCmd creates the "import" subcommand.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON envelope, replacing the stored document",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	cmd.Flags().String("sqlite-path", "", "Path to SQLite database (default: ~/.schemapad/schemapad.db)")
	cmd.Flags().String("config", "", "Path to schemapad.yaml config")
	cmd.Flags().String("document-id", "", "Document id to import into")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	filePath := args[0]

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

	// Validation happens before any write; a rejected import never
	// touches stored state.
	diags := env.Data.Validate()
	printDiagnosticsText(cmd.OutOrStdout(), diags)
	if schemapad.HasErrors(diags) {
		return exitError(exitValidation, "import validation failed")
	}

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
	saved, err := st.Save(cmd.Context(), docID, store.FromData(env.Data))
	if err != nil {
		return exitError(exitRuntime, "saving document: %v", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d node(s) into document %q\n", len(saved.Nodes), docID)
	return nil
}
