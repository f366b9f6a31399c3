package praat

import "math"

// HNRUndefined is the sentinel for frames where harmonicity could not be
// measured (silence or no periodicity).
const HNRUndefined = -200.0

// hnrCeilingR caps the periodic fraction so that numerically perfect
// signals yield a finite HNR (40 dB at r = 0.9999).
const hnrCeilingR = 0.9999

// Harmonicity computes a harmonics-to-noise ratio contour with the same
// framing as the pitch tracker.
//
// Per Boersma (1993), the window-corrected autocorrelation maximum r of
// a frame estimates the energy fraction of the periodic part, so
// HNR = 10*log10(r / (1-r)). Frames without a usable maximum are set to
// HNRUndefined.
func Harmonicity(samples []float64, rate int, timeStep, minPitch float64) []float64 {
	if len(samples) == 0 || rate <= 0 || minPitch <= 0 || timeStep <= 0 {
		return nil
	}

	winLen := int(periodsPerWindow * float64(rate) / minPitch)
	if winLen > len(samples) {
		return nil
	}
	hop := int(timeStep * float64(rate))
	if hop < 1 {
		hop = 1
	}

	// The ceiling for the harmonicity lag search is fixed well above any
	// physiological F0; only the floor comes from the caller.
	minLag := 2
	maxLag := int(math.Ceil(float64(rate) / minPitch))
	if maxLag >= winLen {
		maxLag = winLen - 1
	}

	window := hannWindow(winLen)
	windowCorr := autocorr(window, maxLag)

	globalPeak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > globalPeak {
			globalPeak = a
		}
	}

	numFrames := (len(samples)-winLen)/hop + 1
	out := make([]float64, numFrames)
	frame := make([]float64, winLen)

	for f := 0; f < numFrames; f++ {
		off := f * hop

		var mean float64
		for i := 0; i < winLen; i++ {
			mean += samples[off+i]
		}
		mean /= float64(winLen)
		localPeak := 0.0
		for i := 0; i < winLen; i++ {
			v := samples[off+i] - mean
			if a := math.Abs(v); a > localPeak {
				localPeak = a
			}
			frame[i] = v * window[i]
		}

		if globalPeak == 0 || localPeak < silenceThreshold*globalPeak {
			out[f] = HNRUndefined
			continue
		}

		ac := autocorr(frame, maxLag)
		if ac[0] <= 0 {
			out[f] = HNRUndefined
			continue
		}

		bestLag, bestVal := 0, 0.0
		for lag := minLag; lag <= maxLag; lag++ {
			if windowCorr[lag] <= 0 {
				continue
			}
			r := (ac[lag] / ac[0]) / (windowCorr[lag] / windowCorr[0])
			if r > bestVal {
				bestVal = r
				bestLag = lag
			}
		}
		if bestLag == 0 || bestVal <= 0 {
			out[f] = HNRUndefined
			continue
		}

		// Parabolic interpolation of the peak value for sub-sample
		// accuracy; the interpolated maximum is what enters the ratio.
		r := interpolatePeakValue(ac, windowCorr, bestLag, minLag, maxLag, bestVal)
		if r > hnrCeilingR {
			r = hnrCeilingR
		}
		out[f] = 10 * math.Log10(r/(1-r))
	}

	return out
}

// Defined filters out HNRUndefined values from a harmonicity contour.
func Defined(hnr []float64) []float64 {
	out := make([]float64, 0, len(hnr))
	for _, v := range hnr {
		if v != HNRUndefined {
			out = append(out, v)
		}
	}
	return out
}

func interpolatePeakValue(ac, windowCorr []float64, lag, minLag, maxLag int, fallback float64) float64 {
	if lag <= minLag || lag >= maxLag {
		return fallback
	}
	corrected := func(l int) float64 {
		if windowCorr[l] <= 0 {
			return 0
		}
		return (ac[l] / ac[0]) / (windowCorr[l] / windowCorr[0])
	}
	y0, y1, y2 := corrected(lag-1), corrected(lag), corrected(lag+1)
	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return y1
	}
	delta := 0.5 * (y0 - y2) / denom
	if delta < -1 || delta > 1 {
		return y1
	}
	return y1 - 0.25*(y0-y2)*delta
}
