// Package sqlitex opens the SQLite databases used for run state.
//
// Every database gets the same pragmas (WAL journal, foreign keys, a busy
// timeout) and a single-row schema_version table that is checked on open.
// Writes that hit SQLITE_BUSY are retried with a short backoff.
package sqlitex
