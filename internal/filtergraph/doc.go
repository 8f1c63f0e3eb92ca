// Package filtergraph synthesizes normalized transformation zones into the
// smallest ordered list of engine passes that satisfies them.
//
// Audio muting and visual replacement (blur, black) are time-gated
// predicates that leave the timeline untouched, so any mix of them fits a
// single pass. Excision physically removes intervals and concatenates the
// survivors, which shifts every later timestamp; it is therefore always a
// separate second pass running after the gated effects, so the effect
// predicates can keep referencing original-timeline coordinates.
package filtergraph
