// Command pnld ingests PNLD offence batches into the offence catalog.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	catalogmem "github.com/custodia-labs/pnld-ingest/internal/adapters/driven/catalog/memory"
	"github.com/custodia-labs/pnld-ingest/internal/adapters/driven/catalog/rest"
	"github.com/custodia-labs/pnld-ingest/internal/adapters/driven/config/file"
	storagemem "github.com/custodia-labs/pnld-ingest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pnld-ingest/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pnld-ingest/internal/adapters/driving/cli"
	"github.com/custodia-labs/pnld-ingest/internal/cleansing"
	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/pnld-ingest/internal/core/services"
	"github.com/custodia-labs/pnld-ingest/internal/extraction"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters behind the driving ports.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	app, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	ledger, err := openLedger(opts.ConfigDir, app.Ledger)
	if err != nil {
		return nil, err
	}

	extractor := extraction.New()
	ingest := func(dryRun bool) (driving.IngestService, error) {
		cleanser, err := cleansing.NewFromSettings(app.Cleanse)
		if err != nil {
			return nil, err
		}
		catalog, err := openCatalog(app.Catalog, dryRun)
		if err != nil {
			return nil, err
		}
		return services.NewIngestService(catalog, cleanser, extractor, ledger, app.Ingest), nil
	}

	return &cli.Services{
		Settings: settingsService,
		Ledger:   services.NewLedgerService(ledger),
		Ingest:   ingest,
		Close:    ledger.Close,
	}, nil
}

func openLedger(configDir string, cfg domain.LedgerSettings) (driven.RunLedger, error) {
	if !cfg.Enabled {
		logger.Debug("run ledger disabled, keeping runs in memory")
		return storagemem.NewRunLedger(), nil
	}

	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("run ledger at %s", store.Path())
	return store.RunLedger(), nil
}

func openCatalog(cfg domain.CatalogSettings, dryRun bool) (driven.Catalog, error) {
	if dryRun || cfg.BaseURL == "" {
		logger.Info("using the in-memory catalog")
		return catalogmem.NewCatalog(), nil
	}
	client, err := rest.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
