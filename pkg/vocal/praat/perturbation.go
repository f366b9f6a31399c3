package praat

import "math"

// Outlier rejection factors for perturbation analysis. Consecutive
// periods whose ratio exceeds MaxPeriodFactor, or consecutive pulse
// amplitudes whose ratio exceeds MaxAmplitudeFactor, are treated as
// detection glitches rather than vocal-fold cycles.
const (
	MaxPeriodFactor    = 1.3
	MaxAmplitudeFactor = 1.6
)

// Jitter holds the four period perturbation measures as raw ratios
// (Local, RAP, PPQ5) and seconds (Absolute).
type Jitter struct {
	Local    float64 // mean absolute period difference / mean period
	Absolute float64 // mean absolute period difference, seconds
	RAP      float64 // relative average perturbation (3-point)
	PPQ5     float64 // 5-point period perturbation quotient
}

// Shimmer holds the four amplitude perturbation measures as raw ratios
// (Local, APQ3, APQ5) and dB (DB).
type Shimmer struct {
	Local float64 // mean absolute amplitude difference / mean amplitude
	DB    float64 // mean absolute dB difference between cycles
	APQ3  float64 // 3-point amplitude perturbation quotient
	APQ5  float64 // 5-point amplitude perturbation quotient
}

// MeasureJitter computes period perturbation from a point process.
// Periods outside [MinPeriod, MaxPeriod], and neighbor pairs whose ratio
// exceeds MaxPeriodFactor, are excluded.
func MeasureJitter(pp PointProcess) Jitter {
	periods := pp.Periods()
	valid := validPeriods(periods)

	meanP := maskedMean(periods, valid)
	if meanP == 0 {
		return Jitter{}
	}

	var j Jitter

	// Local and absolute: first-order differences.
	var diffSum float64
	var diffN int
	for i := 1; i < len(periods); i++ {
		if !pairOK(periods, valid, i-1, i) {
			continue
		}
		diffSum += math.Abs(periods[i] - periods[i-1])
		diffN++
	}
	if diffN > 0 {
		j.Absolute = diffSum / float64(diffN)
		j.Local = j.Absolute / meanP
	}

	j.RAP = quotient(periods, valid, 3) / meanP
	j.PPQ5 = quotient(periods, valid, 5) / meanP
	return j
}

// MeasureShimmer computes amplitude perturbation from a point process.
// An amplitude pair participates only when the period between its pulses
// is plausible and the amplitude ratio is within MaxAmplitudeFactor.
func MeasureShimmer(pp PointProcess) Shimmer {
	periods := pp.Periods()
	valid := validPeriods(periods)
	amps := pp.Amps

	// Amplitude i is usable when at least one adjacent period is valid.
	ampOK := make([]bool, len(amps))
	for i := range amps {
		if amps[i] <= 0 {
			continue
		}
		left := i-1 >= 0 && i-1 < len(valid) && valid[i-1]
		right := i < len(valid) && valid[i]
		ampOK[i] = left || right
	}

	meanA := maskedMean(amps, ampOK)
	if meanA == 0 {
		return Shimmer{}
	}

	ratioOK := func(i, k int) bool {
		if !ampOK[i] || !ampOK[k] {
			return false
		}
		r := amps[i] / amps[k]
		if r < 1 {
			r = 1 / r
		}
		return r <= MaxAmplitudeFactor
	}

	var s Shimmer

	var diffSum, dbSum float64
	var diffN int
	for i := 1; i < len(amps); i++ {
		if !ratioOK(i-1, i) {
			continue
		}
		diffSum += math.Abs(amps[i] - amps[i-1])
		dbSum += math.Abs(20 * math.Log10(amps[i]/amps[i-1]))
		diffN++
	}
	if diffN > 0 {
		s.Local = diffSum / float64(diffN) / meanA
		s.DB = dbSum / float64(diffN)
	}

	s.APQ3 = quotient(amps, ampOK, 3) / meanA
	s.APQ5 = quotient(amps, ampOK, 5) / meanA
	return s
}

// quotient is the k-point perturbation quotient: the mean absolute
// deviation of each value from the running mean of its k-neighborhood,
// over windows where every value is valid.
func quotient(values []float64, valid []bool, k int) float64 {
	half := k / 2
	var sum float64
	var n int
outer:
	for i := half; i < len(values)-half; i++ {
		var window float64
		for j := i - half; j <= i+half; j++ {
			if !valid[j] {
				continue outer
			}
			window += values[j]
		}
		sum += math.Abs(values[i] - window/float64(k))
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func validPeriods(periods []float64) []bool {
	valid := make([]bool, len(periods))
	for i, p := range periods {
		valid[i] = p >= MinPeriod && p <= MaxPeriod
	}
	return valid
}

func pairOK(periods []float64, valid []bool, i, k int) bool {
	if !valid[i] || !valid[k] {
		return false
	}
	r := periods[i] / periods[k]
	if r < 1 {
		r = 1 / r
	}
	return r <= MaxPeriodFactor
}

func maskedMean(values []float64, mask []bool) float64 {
	var sum float64
	var n int
	for i, v := range values {
		if mask[i] {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
