// Package collate groups a main track item with every item on a sibling row
// whose timeline interval overlaps it.
//
// Overlaps implements the inclusive four-case boundary rule. BuildIndex applies
// it to one main row against the rest of its track group and produces one Entry
// per main-row item. Entries hold plain timeline.ItemData copies plus an Info
// record per member that the frame resolvers fill in later.
package collate
