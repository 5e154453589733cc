// Package scriptexport writes the per-shot composite script.
//
// The script is built from the handoff record published by the copy stage:
// a Read node for the main plate and one Read node for every distinct
// overlapping plate, all spanning the main plate's target range so the
// collated elements line up in the comp. A v001 script also gets a v000
// sibling for artists to start from.
package scriptexport
