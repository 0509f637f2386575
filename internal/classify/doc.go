// Package classify decides which subtitle tracks in a container should
// carry the forced flag.
//
// The heuristic treats a sparse track as forced: a track whose element
// count falls below an absolute floor, or below a fraction of the largest
// same-language sibling, covers too little dialogue to be a full subtitle
// track and is almost certainly a foreign-parts-only track. Classification
// is pure; callers provide the track list and receive one decision per
// track with the rule that fired.
package classify
