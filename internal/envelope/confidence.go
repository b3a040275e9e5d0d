package envelope

// ScoreToTier converts a score (0.0-1.0) to a confidence tier.
//
// Tier mapping:
//   - 0.90+ -> high
//   - 0.50-0.89 -> medium
//   - <0.50 -> low
func ScoreToTier(score float64) ConfidenceTier {
	switch {
	case score >= 0.90:
		return TierHigh
	case score >= 0.50:
		return TierMedium
	default:
		return TierLow
	}
}

// OriginScore rates retrieved source by where it came from.
func OriginScore(origin string) float64 {
	switch origin {
	case "file", "sourceEntry":
		return 1.0
	case "decompiled":
		return 0.7
	default:
		return 0.0
	}
}

// LookupScore rates a class lookup from its per-tier hit counts.
func LookupScore(tiers map[string]int) float64 {
	if tiers["local"] > 0 {
		return 1.0
	}
	if tiers["dependency"] > 0 || tiers["flatdir"] > 0 {
		return 0.8
	}
	return 0.0
}
