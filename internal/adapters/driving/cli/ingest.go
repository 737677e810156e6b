package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

var (
	ingestOverwrite bool
	ingestHTML      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Extract a document and register it",
	Long: `Extracts the text of a source document through the Tika server,
writes the artifact to the processed directory and records the document.
The same file can be ingested once per extraction method.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestOverwrite, "force", "f", false, "replace a previously ingested document")
	ingestCmd.Flags().BoolVar(&ingestHTML, "html", false, "extract as HTML instead of plain text")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	svc := ingestService
	if ingestHTML {
		svc = ingestHTMLService
	}
	if svc == nil {
		return errors.New("ingest service not configured")
	}

	doc, err := svc.Ingest(context.Background(), args[0], ingestOverwrite)
	if errors.Is(err, domain.ErrDuplicateDocument) {
		return fmt.Errorf("%s was already ingested; use --force to replace it", args[0])
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s (%s) -> %s\n",
		doc.OriginalName, doc.ExtractionMethod, doc.GeneratedFile)
	return nil
}
