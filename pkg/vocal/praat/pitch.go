package praat

import "math"

// Unvoiced marks a pitch frame with no detected periodicity.
const Unvoiced = 0.0

// Tracker thresholds, after Boersma (1993).
const (
	// silenceThreshold is the frame peak (relative to the global peak)
	// below which a frame is considered silent.
	silenceThreshold = 0.03

	// voicingThreshold is the minimum window-corrected autocorrelation
	// for a frame to count as voiced.
	voicingThreshold = 0.45

	// periodsPerWindow sets the analysis window to three periods of the
	// pitch floor, long enough to see the lowest trackable F0 twice.
	periodsPerWindow = 3.0

	// octaveCost penalizes longer candidate lags per octave below the
	// ceiling. For a periodic signal the corrected autocorrelation at
	// lag 2T is also close to 1, so without this cost the tracker can
	// lock onto the subharmonic an octave down.
	octaveCost = 0.01
)

// PitchConfig bounds the pitch search.
type PitchConfig struct {
	TimeStep float64 // seconds between analysis frames
	Floor    float64 // lowest F0 candidate, Hz
	Ceiling  float64 // highest F0 candidate, Hz
}

// Pitch is a fixed-step F0 track. Frames[i] is the F0 in Hz at time
// Start + i*TimeStep, or Unvoiced.
type Pitch struct {
	Frames   []float64
	TimeStep float64
	Start    float64 // center time of the first frame, seconds
}

// VoicedCount returns the number of voiced frames.
func (p Pitch) VoicedCount() int {
	n := 0
	for _, f := range p.Frames {
		if f > Unvoiced {
			n++
		}
	}
	return n
}

// Voiced returns the F0 values of the voiced frames only.
func (p Pitch) Voiced() []float64 {
	out := make([]float64, 0, len(p.Frames))
	for _, f := range p.Frames {
		if f > Unvoiced {
			out = append(out, f)
		}
	}
	return out
}

// TrackPitch runs the autocorrelation pitch tracker over the waveform.
//
// Each frame is mean-subtracted, Hann-windowed, and autocorrelated; the
// autocorrelation is divided by the window's own autocorrelation so that
// a perfectly periodic signal scores 1.0 at its period regardless of lag
// (Boersma's correction). The strongest corrected peak inside the
// floor..ceiling lag range, refined by parabolic interpolation, becomes
// the frame's F0; frames that are silent or below the voicing threshold
// are Unvoiced.
func TrackPitch(samples []float64, rate int, cfg PitchConfig) Pitch {
	if len(samples) == 0 || rate <= 0 || cfg.Floor <= 0 || cfg.Ceiling <= cfg.Floor || cfg.TimeStep <= 0 {
		return Pitch{TimeStep: cfg.TimeStep}
	}

	winLen := int(periodsPerWindow * float64(rate) / cfg.Floor)
	if winLen > len(samples) {
		return Pitch{TimeStep: cfg.TimeStep}
	}
	hop := int(cfg.TimeStep * float64(rate))
	if hop < 1 {
		hop = 1
	}

	minLag := int(float64(rate) / cfg.Ceiling)
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(math.Ceil(float64(rate) / cfg.Floor))
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
	frames := make([]float64, numFrames)
	frame := make([]float64, winLen)
	corrected := make([]float64, maxLag+1)

	for f := 0; f < numFrames; f++ {
		off := f * hop

		localPeak := 0.0
		var mean float64
		for i := 0; i < winLen; i++ {
			mean += samples[off+i]
		}
		mean /= float64(winLen)
		for i := 0; i < winLen; i++ {
			v := samples[off+i] - mean
			if a := math.Abs(v); a > localPeak {
				localPeak = a
			}
			frame[i] = v * window[i]
		}

		if globalPeak == 0 || localPeak < silenceThreshold*globalPeak {
			frames[f] = Unvoiced
			continue
		}

		ac := autocorr(frame, maxLag)
		if ac[0] <= 0 {
			frames[f] = Unvoiced
			continue
		}

		for lag := minLag; lag <= maxLag; lag++ {
			if windowCorr[lag] <= 0 {
				corrected[lag] = 0
				continue
			}
			corrected[lag] = (ac[lag] / ac[0]) / (windowCorr[lag] / windowCorr[0])
		}

		// Candidates are the local maxima above the voicing threshold.
		// The winner maximizes r minus the octave cost, so the true
		// period beats its equally strong subharmonic at 2T.
		bestLag, bestScore := 0, 0.0
		for lag := minLag; lag <= maxLag; lag++ {
			r := corrected[lag]
			if r < voicingThreshold {
				continue
			}
			if lag > minLag && corrected[lag-1] > r {
				continue
			}
			if lag < maxLag && corrected[lag+1] > r {
				continue
			}
			score := r - octaveCost*math.Log2(float64(lag)/float64(minLag))
			if bestLag == 0 || score > bestScore {
				bestScore = score
				bestLag = lag
			}
		}

		if bestLag == 0 {
			frames[f] = Unvoiced
			continue
		}

		lag := refineLag(ac, windowCorr, bestLag, minLag, maxLag)
		frames[f] = float64(rate) / lag
	}

	return Pitch{
		Frames:   frames,
		TimeStep: cfg.TimeStep,
		Start:    float64(winLen) / float64(rate) / 2,
	}
}

// refineLag improves the integer-lag peak with parabolic interpolation
// over the window-corrected autocorrelation.
func refineLag(ac, windowCorr []float64, lag, minLag, maxLag int) float64 {
	if lag <= minLag || lag >= maxLag {
		return float64(lag)
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
		return float64(lag)
	}
	delta := 0.5 * (y0 - y2) / denom
	if delta < -1 || delta > 1 {
		return float64(lag)
	}
	return float64(lag) + delta
}

// autocorr returns the raw autocorrelation of x for lags 0..maxLag.
func autocorr(x []float64, maxLag int) []float64 {
	out := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i < len(x)-lag; i++ {
			sum += x[i] * x[i+lag]
		}
		out[lag] = sum
	}
	return out
}

func hannWindow(n int) []float64 {
	if n < 1 {
		return nil
	}
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}
