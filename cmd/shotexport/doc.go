// Package main hosts the shotexport CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration, opens a timeline snapshot
// and drives the collate, copy and script stages of an export run. It also
// exposes maintenance commands for the handoff store and the publish ledger.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
