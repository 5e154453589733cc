package handoff

import (
	"context"
	"fmt"
	"strings"

	"shotexport/internal/services"
)

// Store holds the records of one run.
type Store interface {
	RunID() string
	// Publish writes the record for shotID. A shot can be published once.
	Publish(ctx context.Context, shotID string, record Record) error
	// Fetch returns the record for shotID, or an error wrapping
	// services.ErrNotFound when none was published.
	Fetch(ctx context.Context, shotID string) (Record, error)
	// Clear drops every record of the run.
	Clear(ctx context.Context) error
}

// Backend hands out run-scoped stores.
type Backend interface {
	ForRun(runID string) Store
	Close() error
}

func validateKey(runID, shotID string) error {
	if strings.TrimSpace(runID) == "" {
		return services.Wrap(services.ErrValidation, "handoff", "key", "run id is empty", nil)
	}
	if strings.TrimSpace(shotID) == "" {
		return services.Wrap(services.ErrValidation, "handoff", "key", "shot id is empty", nil)
	}
	return nil
}

func notFound(runID, shotID string) error {
	return services.Wrap(services.ErrNotFound, "handoff", "fetch",
		fmt.Sprintf("no handoff record for shot %s in run %s", shotID, runID), nil)
}

func duplicate(runID, shotID string) error {
	return services.Wrap(services.ErrValidation, "handoff", "publish",
		fmt.Sprintf("shot %s already published in run %s", shotID, runID), nil)
}
