package praat

import "math"

// Glottal pulse search bounds. A period outside this range is not a
// plausible vocal-fold cycle and is discarded by the perturbation
// measures (F0 between 50 Hz and 10 kHz).
const (
	MinPeriod = 0.0001 // seconds
	MaxPeriod = 0.02   // seconds
)

// PointProcess is the sequence of detected glottal pulse instants, in
// seconds from the start of the waveform, strictly increasing.
type PointProcess struct {
	Times []float64
	rate  int
	// Amps holds the absolute waveform amplitude at each pulse, peak
	// refined to sub-sample precision. Same length as Times.
	Amps []float64
}

// Periods returns the successive inter-pulse intervals in seconds.
func (pp PointProcess) Periods() []float64 {
	if len(pp.Times) < 2 {
		return nil
	}
	out := make([]float64, len(pp.Times)-1)
	for i := 1; i < len(pp.Times); i++ {
		out[i-1] = pp.Times[i] - pp.Times[i-1]
	}
	return out
}

// ToPointProcess detects glottal pulse instants from the waveform and
// its pitch track (cycle-to-cycle peak picking).
//
// Starting from the first voiced frame, the strongest extremum within
// one period is taken as a pulse; each following pulse is searched in a
// 0.8..1.25 period window after the previous one, with the period always
// taken from the pitch frame covering the search point. Tracking stops
// across unvoiced regions and resumes at the next voiced frame.
func ToPointProcess(samples []float64, rate int, pitch Pitch) PointProcess {
	pp := PointProcess{rate: rate}
	if len(samples) == 0 || rate <= 0 || len(pitch.Frames) == 0 {
		return pp
	}

	f0At := func(t float64) float64 {
		idx := int((t - pitch.Start) / pitch.TimeStep)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(pitch.Frames) {
			idx = len(pitch.Frames) - 1
		}
		return pitch.Frames[idx]
	}

	dt := 1.0 / float64(rate)
	end := float64(len(samples)) * dt

	t := pitch.Start
	for t < end {
		f0 := f0At(t)
		if f0 <= Unvoiced {
			t += pitch.TimeStep
			continue
		}
		period := 1.0 / f0

		// Anchor pulse: strongest extremum within one period.
		pulse, amp, ok := strongestPeak(samples, rate, t, t+period)
		if !ok {
			t += pitch.TimeStep
			continue
		}
		pp.append(pulse, amp)

		// Follow the cycle train until voicing is lost.
		for {
			f0 = f0At(pulse)
			if f0 <= Unvoiced {
				break
			}
			period = 1.0 / f0
			lo := pulse + 0.8*period
			hi := pulse + 1.25*period
			if lo >= end {
				break
			}
			next, nextAmp, ok := strongestPeak(samples, rate, lo, hi)
			if !ok {
				break
			}
			pulse = next
			pp.append(pulse, nextAmp)
		}

		// Resume scanning after the last pulse.
		t = pulse + pitch.TimeStep
	}

	return pp
}

func (pp *PointProcess) append(t, amp float64) {
	if n := len(pp.Times); n > 0 && t <= pp.Times[n-1] {
		return
	}
	pp.Times = append(pp.Times, t)
	pp.Amps = append(pp.Amps, amp)
}

// strongestPeak finds the sample with the largest absolute value in
// [lo, hi) and refines its position and height by parabolic
// interpolation through the neighboring samples.
func strongestPeak(samples []float64, rate int, lo, hi float64) (t, amp float64, ok bool) {
	i0 := int(lo * float64(rate))
	i1 := int(hi * float64(rate))
	if i0 < 0 {
		i0 = 0
	}
	if i1 > len(samples) {
		i1 = len(samples)
	}
	if i1 <= i0 {
		return 0, 0, false
	}

	best, bestVal := -1, 0.0
	for i := i0; i < i1; i++ {
		if a := math.Abs(samples[i]); a > bestVal {
			bestVal = a
			best = i
		}
	}
	if best < 0 || bestVal == 0 {
		return 0, 0, false
	}

	pos := float64(best)
	height := bestVal
	if best > 0 && best < len(samples)-1 {
		y0 := math.Abs(samples[best-1])
		y1 := bestVal
		y2 := math.Abs(samples[best+1])
		denom := y0 - 2*y1 + y2
		if denom != 0 {
			delta := 0.5 * (y0 - y2) / denom
			if delta > -1 && delta < 1 {
				pos += delta
				height = y1 - 0.25*(y0-y2)*delta
			}
		}
	}
	return pos / float64(rate), height, true
}
