// Package publish registers exported plates and scripts with the tracking
// database.
//
// Publisher builds PublishRecord and VersionRecord values from resolved
// export info and hands them to a Sink. The sink is the only part that talks
// to a database; LedgerSink keeps a local SQLite ledger with the same shape
// as the studio tracking schema (shots, tasks, published files, versions).
//
// Collated plates are always published against the hero shot, so every file
// produced for a shot lands on the same entity regardless of which track it
// came from.
package publish
