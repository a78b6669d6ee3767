package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pnld-ingest/internal/connectors/inbox"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driving"
)

var (
	ingestDryRun bool
	ingestJSON   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE",
	Short: "Ingest a batch file",
	Long: `Ingest runs every record of a batch file through baseline validation,
cleansing, terminal entry and menu extraction, and offence publishing.

With --dry-run the batch is processed against an in-memory catalog and
nothing is posted or recorded.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "process without posting to the catalog")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestFactory == nil {
		return errors.New("ingest service not configured")
	}

	batch, err := inbox.ReadBatch(args[0])
	if err != nil {
		return err
	}

	svc, err := ingestFactory(ingestDryRun)
	if err != nil {
		return fmt.Errorf("failed to create ingest service: %w", err)
	}

	report, err := svc.Ingest(cmd.Context(), batch, driving.IngestOptions{DryRun: ingestDryRun})
	if report == nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	// A report comes back even when posting outcomes or the ledger failed.
	if ingestJSON {
		if jerr := writeReportJSON(cmd.OutOrStdout(), report); jerr != nil {
			return jerr
		}
	} else {
		renderReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return fmt.Errorf("ingest incomplete: %w", err)
	}
	return nil
}
