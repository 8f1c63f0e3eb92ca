// Package zone defines the canonical representation of transformation
// zones: labeled time intervals carrying a transformation kind (mute, blur,
// black, excise) plus the merge/pad engine that normalizes raw zones from
// independent sources into minimal disjoint per-kind sets.
//
// Normalization is the contract every downstream component relies on: after
// Normalize a set is sorted by start, pairwise non-overlapping, and no two
// members could still be merged. Degenerate inputs are dropped and reported
// rather than failing the whole item.
package zone
