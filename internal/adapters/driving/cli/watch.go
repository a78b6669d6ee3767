package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pnld-ingest/internal/connectors/inbox"
	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

var (
	watchDryRun   bool
	watchSettle   time.Duration
	watchExisting bool
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Ingest batch files dropped into a directory",
	Long: `Watch ingests every .json batch file written into DIR. Handled files are
moved into DIR/processed, or DIR/failed when the batch could not be read or
ingested. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "process without posting to the catalog")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", inbox.DefaultSettle, "quiet period before a file is picked up")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", true, "also ingest files already in the directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestFactory == nil {
		return errors.New("ingest service not configured")
	}

	svc, err := ingestFactory(watchDryRun)
	if err != nil {
		return fmt.Errorf("failed to create ingest service: %w", err)
	}

	opts := []inbox.Option{inbox.WithSettle(watchSettle)}
	if watchExisting {
		opts = append(opts, inbox.WithExisting())
	}
	w := inbox.New(args[0], opts...)
	defer w.Close()

	ctx := cmd.Context()
	paths, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for batch files...\n", w.Dir())
	for path := range paths {
		ingestInboxFile(ctx, cmd, svc, path)
	}
	cmd.Println("Stopped watching.")
	return nil
}

// ingestInboxFile ingests one inbox file and archives it. Failures are
// reported and never stop the watch loop.
func ingestInboxFile(ctx context.Context, cmd *cobra.Command, svc driving.IngestService, path string) {
	report, err := ingestPath(ctx, svc, path)
	if err != nil {
		logger.Error("%s: %v", path, err)
	}

	dest, aerr := inbox.Archive(path, err == nil)
	if aerr != nil {
		logger.Error("%v", aerr)
	}

	if report == nil {
		cmd.Printf("%s: failed -> %s\n", path, dest)
		return
	}
	cmd.Printf("%s: run %s, %d files, %d scheduled, %d failed -> %s\n",
		path, report.RunID, len(report.SourceFiles), report.Count(domain.StatusScheduled), report.Failed(), dest)
}

func ingestPath(ctx context.Context, svc driving.IngestService, path string) (*domain.BatchReport, error) {
	batch, err := inbox.ReadBatch(path)
	if err != nil {
		return nil, err
	}
	return svc.Ingest(ctx, batch, driving.IngestOptions{DryRun: watchDryRun})
}
