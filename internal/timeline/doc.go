// Package timeline abstracts the host editing application's object model.
//
// The host owns projects, sequences, rows (video tracks), and items as mutable,
// identity-bearing objects. This package exposes only the read accessors the
// export pipeline needs, plus ItemData, a plain copy of one item's fields.
// Callers capture ItemData at the start of a resolution pass and never hold a
// live host reference past it.
package timeline
