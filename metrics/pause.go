package metrics

import "speechcoach/internal/types"

// pauseSummary aggregates the inter-word silence of a transcript.
type pauseSummary struct {
	average   float64 // mean of positive gaps, 0 when none exist
	longCount int     // gaps at or above the long-pause threshold
}

// analyzePauses derives pause statistics from consecutive word pairs. The gap
// between two words is next.Start - prev.End; negative gaps (overlapping
// words, malformed but tolerated) are clamped to 0 and do not count as
// pauses. The long-pause boundary is inclusive: a gap exactly equal to
// longThreshold is classified as long.
func analyzePauses(words []types.Word, longThreshold float64) pauseSummary {
	var sum float64
	var n, long int

	for i := 1; i < len(words); i++ {
		gap := words[i].Start - words[i-1].End
		if gap <= 0 {
			continue
		}
		sum += gap
		n++
		if gap >= longThreshold {
			long++
		}
	}

	var avg float64
	if n > 0 {
		avg = sum / float64(n)
	}
	return pauseSummary{average: avg, longCount: long}
}
