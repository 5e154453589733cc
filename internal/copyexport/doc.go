// Package copyexport implements the plate copy stage of an export run.
//
// A Task covers one shot: the main item of a collate entry plus every item
// overlapping it on sibling tracks. Building the task resolves each member's
// source frame range, target frame range and destination path, and expands
// the per-frame (source, destination) copy list. Step copies one frame per
// call so the caller can interleave progress reporting and cancellation.
//
// After the copy, PublishHandoff records the resolved info for the script
// stage.
package copyexport
