package praat

import (
	"math"
	"testing"
)

// pulses builds a synthetic point process from period and amplitude
// sequences, the way a perfectly tracked voice would yield one.
func pulses(periods, amps []float64) PointProcess {
	pp := PointProcess{Times: make([]float64, len(periods)+1), Amps: make([]float64, len(periods)+1)}
	t := 0.1
	pp.Times[0] = t
	pp.Amps[0] = amps[0]
	for i, p := range periods {
		t += p
		pp.Times[i+1] = t
		pp.Amps[i+1] = amps[i+1]
	}
	return pp
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestMeasureJitter_PerfectTrain(t *testing.T) {
	pp := pulses(constant(50, 1.0/220), constant(51, 0.5))
	j := MeasureJitter(pp)
	if j.Local > 1e-9 {
		t.Errorf("Local = %g on a perfect train, want 0", j.Local)
	}
	if j.Absolute > 1e-12 {
		t.Errorf("Absolute = %g on a perfect train, want 0", j.Absolute)
	}
	if j.RAP > 1e-9 || j.PPQ5 > 1e-9 {
		t.Errorf("RAP = %g, PPQ5 = %g on a perfect train, want 0", j.RAP, j.PPQ5)
	}
}

func TestMeasureJitter_Alternating(t *testing.T) {
	// Periods alternating +/-1% around the mean give a known local
	// jitter of 2% of the mean period.
	base := 1.0 / 200
	periods := make([]float64, 40)
	for i := range periods {
		if i%2 == 0 {
			periods[i] = base * 1.01
		} else {
			periods[i] = base * 0.99
		}
	}
	j := MeasureJitter(pulses(periods, constant(41, 0.5)))
	if math.Abs(j.Local-0.02) > 0.002 {
		t.Errorf("Local = %g, want ~0.02", j.Local)
	}
	if j.Absolute <= 0 {
		t.Errorf("Absolute = %g, want > 0", j.Absolute)
	}
}

func TestMeasureJitter_TooFewPeriods(t *testing.T) {
	j := MeasureJitter(pulses(constant(1, 1.0/220), constant(2, 0.5)))
	if j.Local != 0 || j.RAP != 0 || j.PPQ5 != 0 {
		t.Errorf("jitter on 1 period = %+v, want zeros", j)
	}
}

func TestMeasureJitter_IgnoresOutOfRangePeriods(t *testing.T) {
	// A dropped cycle shows up as one huge interval; it must be masked,
	// not averaged in.
	periods := constant(30, 1.0/220)
	periods[15] = 0.05 // above MaxPeriod
	j := MeasureJitter(pulses(periods, constant(31, 0.5)))
	if j.Local > 1e-6 {
		t.Errorf("Local = %g with one masked gap, want ~0", j.Local)
	}
}

func TestMeasureShimmer_ConstantAmplitude(t *testing.T) {
	s := MeasureShimmer(pulses(constant(50, 1.0/220), constant(51, 0.5)))
	if s.Local > 1e-9 || s.DB > 1e-9 || s.APQ3 > 1e-9 || s.APQ5 > 1e-9 {
		t.Errorf("shimmer on constant amplitudes = %+v, want zeros", s)
	}
}

func TestMeasureShimmer_Alternating(t *testing.T) {
	amps := make([]float64, 41)
	for i := range amps {
		if i%2 == 0 {
			amps[i] = 0.5 * 1.02
		} else {
			amps[i] = 0.5 * 0.98
		}
	}
	s := MeasureShimmer(pulses(constant(40, 1.0/220), amps))
	if math.Abs(s.Local-0.04) > 0.004 {
		t.Errorf("Local = %g, want ~0.04", s.Local)
	}
	if s.DB <= 0 {
		t.Errorf("DB = %g, want > 0", s.DB)
	}
}

func TestToPointProcess_Sine(t *testing.T) {
	rate := 48000
	freq := 220.0
	samples := sine(freq, rate, 1.0, 0.5)
	pitch := TrackPitch(samples, rate, testCfg)

	pp := ToPointProcess(samples, rate, pitch)
	periods := pp.Periods()
	if len(periods) < 100 {
		t.Fatalf("got %d periods, want >= 100", len(periods))
	}

	want := 1.0 / freq
	var sum float64
	for _, p := range periods {
		sum += p
	}
	mean := sum / float64(len(periods))
	if math.Abs(mean-want) > want*0.02 {
		t.Errorf("mean period = %gs, want ~%gs", mean, want)
	}

	// A clean sine has almost no cycle-to-cycle perturbation.
	j := MeasureJitter(pp)
	if j.Local > 0.005 {
		t.Errorf("jitter local on sine = %g, want < 0.005", j.Local)
	}
	s := MeasureShimmer(pp)
	if s.Local > 0.02 {
		t.Errorf("shimmer local on sine = %g, want < 0.02", s.Local)
	}
}

func TestToPointProcess_Silence(t *testing.T) {
	rate := 48000
	samples := make([]float64, rate)
	pitch := TrackPitch(samples, rate, testCfg)
	pp := ToPointProcess(samples, rate, pitch)
	if len(pp.Times) != 0 {
		t.Errorf("got %d pulses on silence, want 0", len(pp.Times))
	}
}
