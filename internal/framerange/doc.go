// Package framerange computes which source frames an item exports and which
// destination frame numbers they land on.
//
// ResolveSource applies the cut-handle policy, retime compensation, and media
// clamping to produce an inclusive source range. MapTarget shifts that range so
// the main item starts at the custom start frame and every overlapping item
// stays in temporal registration with it.
package framerange
