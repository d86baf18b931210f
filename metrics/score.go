package metrics

import "speechcoach/internal/types"

// Rules holds the configurable targets for scoring.
type Rules struct {
	TargetWPMMin           float64
	TargetWPMMax           float64
	MaxFillerRatePerMinute float64
}

// DefaultRules returns the stock coaching targets: 140-180 WPM and at most
// 3 fillers per minute.
func DefaultRules() Rules {
	return Rules{
		TargetWPMMin:           types.DefaultTargetWPMMin,
		TargetWPMMax:           types.DefaultTargetWPMMax,
		MaxFillerRatePerMinute: types.DefaultMaxFillerRatePerMinute,
	}
}

// paceStepWPM is the deviation outside the target range that costs one pace
// point. Each started step costs a point, so 1-20 WPM off scores 4, 21-40
// scores 3, and so on down to the floor of 1.
const paceStepWPM = 20.0

// Score maps a MetricsReport onto 1-5 scores using fixed breakpoint tables.
// A report with no words scores 1 on every dimension. The tables:
//
//	pace:        5 inside [TargetWPMMin, TargetWPMMax]; -1 per started
//	             20-WPM step of deviation; WPM 0 scores 1
//	fluency:     rate r vs MaxFillerRatePerMinute m:
//	             r <= m/2: 5, r <= m: 4, r <= 1.5m: 3, r <= 2m: 2, else 1
//	clarity:     5 - longPauseCount, one more point off when the average
//	             pause exceeds 1.5s
//	conciseness: <=60s: 5, <=90s: 4, <=120s: 3, <=150s: 2, else 1
//
// Overall is the round-half-up mean of the four dimensions (a midpoint such
// as 3.5 rounds to 4), clamped to [1,5] like every dimension.
func Score(r types.MetricsReport, rules Rules) types.ScoreBreakdown {
	if r.WordCount == 0 {
		return types.ScoreBreakdown{Pace: 1, Clarity: 1, Fluency: 1, Conciseness: 1, Overall: 1}
	}

	pace := scorePace(r.WordsPerMinute, rules)
	clarity := scoreClarity(r)
	fluency := scoreFluency(r.FillerRatePerMinute, rules.MaxFillerRatePerMinute)
	conciseness := scoreConciseness(r.TotalDurationSeconds)

	sum := pace + clarity + fluency + conciseness
	overall := clampScore((sum + 2) / 4) // round-half-up of sum/4

	return types.ScoreBreakdown{
		Pace:        pace,
		Clarity:     clarity,
		Fluency:     fluency,
		Conciseness: conciseness,
		Overall:     overall,
	}
}

func scorePace(wpm float64, rules Rules) int {
	if wpm <= 0 {
		return 1
	}

	var deviation float64
	switch {
	case wpm < rules.TargetWPMMin:
		deviation = rules.TargetWPMMin - wpm
	case wpm > rules.TargetWPMMax:
		deviation = wpm - rules.TargetWPMMax
	default:
		return 5
	}

	steps := int(deviation / paceStepWPM)
	if deviation > float64(steps)*paceStepWPM {
		steps++ // partial steps count in full
	}
	return clampScore(5 - steps)
}

func scoreFluency(rate, maxRate float64) int {
	if maxRate <= 0 {
		maxRate = types.DefaultMaxFillerRatePerMinute
	}
	switch {
	case rate <= maxRate/2:
		return 5
	case rate <= maxRate:
		return 4
	case rate <= maxRate*1.5:
		return 3
	case rate <= maxRate*2:
		return 2
	default:
		return 1
	}
}

func scoreClarity(r types.MetricsReport) int {
	score := 5 - r.LongPauseCount
	if r.AveragePauseSeconds > 1.5 {
		score--
	}
	return clampScore(score)
}

func scoreConciseness(duration float64) int {
	switch {
	case duration <= 60:
		return 5
	case duration <= 90:
		return 4
	case duration <= 120:
		return 3
	case duration <= 150:
		return 2
	default:
		return 1
	}
}

func clampScore(s int) int {
	if s < 1 {
		return 1
	}
	if s > 5 {
		return 5
	}
	return s
}
