package exportrun

import (
	"context"
	"log/slog"
	"time"

	"shotexport/internal/config"
	"shotexport/internal/handoff"
	"shotexport/internal/logging"
	"shotexport/internal/publish"
)

// OpenHandoff opens the handoff backend selected in configuration. Stale
// SQLite records older than the configured TTL are purged on open.
func OpenHandoff(ctx context.Context, cfg *config.Config, logger *slog.Logger) (handoff.Backend, error) {
	if cfg.Handoff.Backend == config.HandoffMemory {
		return handoff.NewMemory(), nil
	}
	backend, err := handoff.OpenSQLite(ctx, cfg.HandoffDBPath())
	if err != nil {
		return nil, err
	}
	if cfg.Handoff.TTLHours > 0 {
		removed, err := backend.PurgeStale(ctx, time.Duration(cfg.Handoff.TTLHours)*time.Hour)
		if err != nil {
			logging.NewComponentLogger(logger, "exportrun").Warn("stale handoff purge failed", logging.Error(err))
		} else if removed > 0 {
			logging.NewComponentLogger(logger, "exportrun").Info("purged stale handoff records",
				logging.Int("removed", int(removed)),
				logging.Int("ttl_hours", cfg.Handoff.TTLHours),
			)
		}
	}
	return backend, nil
}

// OpenPublisher builds the publisher for cfg. When publishing is disabled the
// publisher does nothing and no ledger is opened. The returned close function
// is never nil.
func OpenPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*publish.Publisher, func() error, error) {
	opts := publish.Options{
		Enabled:       cfg.Publish.Enabled,
		CreateVersion: cfg.Publish.CreateVersion,
		Project:       cfg.Publish.Project,
		PlateType:     cfg.Publish.PlatePublishedFileType,
		ScriptType:    cfg.Publish.ScriptPublishedFileType,
		TaskFilter:    cfg.Publish.TaskFilter,
	}
	if !cfg.Publish.Enabled {
		return publish.NewPublisher(nil, opts, logger), func() error { return nil }, nil
	}
	ledger, err := publish.OpenLedger(ctx, cfg.LedgerDBPath())
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return publish.NewPublisher(ledger, opts, logger), ledger.Close, nil
}
