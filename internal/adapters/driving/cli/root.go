package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options holds the global flag values.
type Options struct {
	ConfigDir string
	Verbose   bool
	LogFormat string
}

// IngestFactory builds an ingest service. A dry run selects the in-memory
// catalog.
type IngestFactory func(dryRun bool) (driving.IngestService, error)

// Services are the driving ports the commands call.
type Services struct {
	Settings driving.SettingsService
	Ledger   driving.LedgerService
	Ingest   IngestFactory

	// Close releases the resources behind the services.
	Close func() error
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	globalOpts Options
	bootstrap  Bootstrap

	settingsService driving.SettingsService
	ledgerService   driving.LedgerService
	ingestFactory   IngestFactory
	closeServices   func() error
)

// annotationNoServices marks commands that run without services.
const annotationNoServices = "no-services"

var rootCmd = &cobra.Command{
	Use:   "pnld",
	Short: "Ingest PNLD offence batches into the offence catalog",
	Long: `pnld validates PNLD offence records against their catalog baseline,
cleanses and extracts terminal entries and menus from the offence wording,
and publishes the resulting offence revisions to the catalog.

Outcomes for every source file are posted back to the catalog and recorded
in a local run ledger.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.pnld)")
	flags.StringVar(&globalOpts.LogFormat, "log-format", "console", "log encoding: console or json")
}

// SetBootstrap registers the function that builds the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		settingsService, ledgerService, ingestFactory, closeServices = nil, nil, nil, nil
		return
	}
	settingsService = s.Settings
	ledgerService = s.Ledger
	ingestFactory = s.Ingest
	closeServices = s.Close
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close services: %w", cerr))
		}
		closeServices = nil
	}
	logger.Sync()
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)
	logger.SetFormat(globalOpts.LogFormat)

	if _, ok := cmd.Annotations[annotationNoServices]; ok {
		return nil
	}
	if bootstrap == nil {
		return nil
	}

	s, err := bootstrap(globalOpts)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(s)
	return nil
}
