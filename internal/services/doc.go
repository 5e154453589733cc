// Package services defines shared utilities consumed by the export stages and
// their external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, shot IDs, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can classify a
//     failure (missing host target, invalid data, I/O) with errors.Is.
//
// Use these helpers when wiring new stage logic so error reporting and
// observability stay uniform across the pipeline.
package services
