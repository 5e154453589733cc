// Package preflight provides readiness checks for the filesystem paths and
// state databases an export run depends on.
//
// These checks run in two contexts:
//   - The export command calls RunAll before starting a run and refuses to
//     start when a check fails, so a run never dies halfway through a shot.
//   - The CLI "shotexport preflight" command prints every result.
//
// Database checks are gated by their config toggles; a disabled publish
// ledger or an in-memory handoff store is skipped.
package preflight
