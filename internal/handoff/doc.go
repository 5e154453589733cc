// Package handoff carries resolved collation results from the plate copy stage
// to the script stage of the same export run.
//
// A Record holds only the resolution info of the main item and its
// overlapping items; item identity is not needed downstream. Records are
// written once per shot and read back by shot id. Every store is scoped to one
// run id so concurrent or abandoned runs never see each other's records, and
// Clear drops the run's records when the run ends.
//
// Two backends exist: Memory for one-process runs and tests, and SQLite for
// runs whose stages may execute in separate processes.
package handoff
