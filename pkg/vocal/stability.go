package vocal

// StabilityWeights for the composite score. F0 confidence dominates
// because periodicity is the primary signal for cycle tracking.
const (
	weightF0Confidence = 0.4
	weightJitter       = 0.2
	weightShimmer      = 0.2
	weightHNR          = 0.2
)

// StabilityScore combines extracted features into one 0-100 composite
// using fixed clinical thresholds:
//
//	jitter:  <1% excellent, <2% good, >=5% pathological
//	shimmer: <4% excellent, <6% good, >=10% pathological
//	HNR:     >=excellentHNR excellent, >=15dB good, <10dB poor
//
// A component whose source feature is absent or zero contributes
// nothing; the score is not renormalized, so missing measures lower the
// attainable ceiling. With no components at all the score is 0.
func StabilityScore(features map[string]float64, excellentHNR float64) float64 {
	score := features["f0_confidence"] * weightF0Confidence

	if jitter := features["jitter_local"]; jitter > 0 {
		score += jitterScore(jitter) * weightJitter
	}
	if shimmer := features["shimmer_local"]; shimmer > 0 {
		score += shimmerScore(shimmer) * weightShimmer
	}
	if hnr := features["hnr_mean"]; hnr > 0 {
		score += hnrScore(hnr, excellentHNR) * weightHNR
	}
	return score
}

func jitterScore(jitter float64) float64 {
	switch {
	case jitter < 1.0:
		return 100
	case jitter < 2.0:
		return 80
	case jitter < 5.0:
		// 80 down to 20 as jitter rises 2..5.
		return 80 - (jitter-2.0)/3.0*60
	default:
		return 20 // pathological floor, not zero
	}
}

func shimmerScore(shimmer float64) float64 {
	switch {
	case shimmer < 4.0:
		return 100
	case shimmer < 6.0:
		return 80
	case shimmer < 10.0:
		return 80 - (shimmer-6.0)/4.0*60
	default:
		return 20
	}
}

func hnrScore(hnr, excellent float64) float64 {
	switch {
	case hnr >= excellent:
		return 100
	case hnr >= 15.0:
		return 80
	case hnr >= 10.0:
		return 60
	default:
		return hnr / 10.0 * 40
	}
}
