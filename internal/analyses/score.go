package analyses

const (
	BandExcellent = "excellent"
	BandFair      = "fair"
	BandPoor      = "poor"
)

// ScoreBand buckets an ATS score the way the dashboard colours it.
func ScoreBand(score int) string {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandFair
	default:
		return BandPoor
	}
}
