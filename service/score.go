package service

import "math"

// AccountActivity holds the sanitized inputs to the account score.
// Callers are expected to have parsed and cleaned the numbers; the
// calculation itself does no validation.
type AccountActivity struct {
	Revenue        float64
	TotalEstimates int
	WonEstimates   int
	LostEstimates  int
	JobsitesCount  int
}

// CalculateAccountScore maps account activity to a 0-100 score. Three
// independent components, each capped before summation:
//
//	revenue  0-50: $0 = 0, linear to 25 at $100k, linear to 50 at $500k, flat above
//	win rate 0-30: won / (won + lost) * 30, zero when nothing decided
//	activity 0-20: min(estimates*2 + jobsites*3, 20)
func CalculateAccountScore(a AccountActivity) int {
	score := 0.0

	// Revenue component (0-50 points)
	if a.Revenue > 0 {
		switch {
		case a.Revenue >= 500000:
			score += 50
		case a.Revenue >= 100000:
			score += 25 + ((a.Revenue-100000)/400000)*25
		default:
			score += (a.Revenue / 100000) * 25
		}
	}

	// Win rate component (0-30 points)
	decided := a.WonEstimates + a.LostEstimates
	if decided > 0 {
		winRate := float64(a.WonEstimates) / float64(decided)
		score += winRate * 30
	}

	// Activity component (0-20 points)
	activity := float64(a.TotalEstimates*2 + a.JobsitesCount*3)
	if activity > 20 {
		activity = 20
	}
	score += activity

	// Round to nearest integer, cap at 100
	final := int(math.Round(score))
	if final > 100 {
		final = 100
	}
	return final
}
