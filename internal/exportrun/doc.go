// Package exportrun drives one collated export of a track.
//
// A run takes the export lock in the state directory, gets a fresh run id,
// collates the chosen track against its siblings, and then runs two stages
// over every shot: the plate copy stage (frame copies, handoff publish, plate
// publishes) followed by the script stage (composite script from the handoff
// record, script publishes). A failed shot is recorded and skipped by later
// stages; it is never retried. The run's handoff records are cleared when the
// run ends, whether it succeeded or not.
package exportrun
