package classify

import "fmt"

// Default thresholds, tuned against disc rips where the main subtitle
// track for a feature carries a few thousand events and forced tracks a
// few dozen.
const (
	DefaultAbsoluteElements = 400
	DefaultRelativeRatio    = 0.20
)

// Thresholds holds the tunable cutoffs for the forced-track heuristic.
type Thresholds struct {
	// AbsoluteElements marks a track as forced when its element count is
	// strictly below this value, regardless of siblings.
	AbsoluteElements int
	// RelativeRatio marks a track as forced when its element count is
	// strictly below this fraction of the largest same-language sibling.
	RelativeRatio float64
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AbsoluteElements: DefaultAbsoluteElements,
		RelativeRatio:    DefaultRelativeRatio,
	}
}

// Track is one subtitle stream as reported by the extraction tooling.
type Track struct {
	// Index is the track's stable identifier within its file.
	Index int
	// Language is the normalized language group key ("und" when unknown).
	Language string
	// ElementCount is the number of discrete subtitle events in the track.
	ElementCount int
	// Forced is the flag's current value as read from the file.
	Forced bool
}

// Reason identifies which rule(s) classified a track as forced.
type Reason string

const (
	ReasonNone     Reason = "none"
	ReasonAbsolute Reason = "absolute-threshold"
	ReasonRelative Reason = "relative-threshold"
	ReasonBoth     Reason = "both"
)

// Decision is the verdict for a single track.
type Decision struct {
	TrackIndex   int
	Language     string
	ElementCount int
	ShouldForce  bool
	Reason       Reason
}

// Classify evaluates every track in one file and returns a decision per
// track in input order. Tracks are partitioned by language; a track's
// relative baseline is the maximum element count among its same-language
// siblings, so a single large peer is enough to make a much smaller
// sibling look forced. Both comparisons are strict: a count equal to a
// cutoff is not a hit.
//
// A negative element count means the extractor misreported the file and
// the whole input is rejected, since counts are only comparable within
// one extraction pass.
func Classify(tracks []Track, th Thresholds) ([]Decision, error) {
	if len(tracks) == 0 {
		return nil, nil
	}
	for _, t := range tracks {
		if t.ElementCount < 0 {
			return nil, fmt.Errorf("track %d: negative element count %d", t.Index, t.ElementCount)
		}
	}

	groups := make(map[string][]Track, len(tracks))
	for _, t := range tracks {
		groups[t.Language] = append(groups[t.Language], t)
	}

	decisions := make([]Decision, 0, len(tracks))
	for _, t := range tracks {
		baseline, ok := peerBaseline(groups[t.Language], t.Index)

		absoluteHit := t.ElementCount < th.AbsoluteElements
		relativeHit := ok && float64(t.ElementCount) < th.RelativeRatio*float64(baseline)

		decisions = append(decisions, Decision{
			TrackIndex:   t.Index,
			Language:     t.Language,
			ElementCount: t.ElementCount,
			ShouldForce:  absoluteHit || relativeHit,
			Reason:       reasonFor(absoluteHit, relativeHit),
		})
	}
	return decisions, nil
}

// peerBaseline returns the maximum element count among the group's tracks
// excluding the one with the given index. The second return is false for
// a solo group, where no relative comparison is possible.
func peerBaseline(group []Track, exclude int) (int, bool) {
	baseline := 0
	found := false
	for _, t := range group {
		if t.Index == exclude {
			continue
		}
		if !found || t.ElementCount > baseline {
			baseline = t.ElementCount
			found = true
		}
	}
	return baseline, found
}

func reasonFor(absolute, relative bool) Reason {
	switch {
	case absolute && relative:
		return ReasonBoth
	case absolute:
		return ReasonAbsolute
	case relative:
		return ReasonRelative
	default:
		return ReasonNone
	}
}
