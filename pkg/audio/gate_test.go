package audio

import (
	"math"
	"testing"
)

func sine(freq float64, rate int, dur, amp float64) []float64 {
	n := int(dur * float64(rate))
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

func TestQualityGate_Check(t *testing.T) {
	rate := 48000
	gate := QualityGate{} // defaults: 0.5s..60s, RMS 0.001

	tests := []struct {
		name   string
		buf    Buffer
		wantOK bool
	}{
		{"normal speech-like tone", Buffer{sine(220, rate, 2.0, 0.3), rate}, true},
		{"exactly min duration", Buffer{sine(220, rate, 0.5, 0.3), rate}, true},
		{"just under min duration", Buffer{sine(220, rate, 0.49, 0.3), rate}, false},
		{"exactly max duration", Buffer{sine(220, rate, 60.0, 0.3), rate}, true},
		{"over max duration", Buffer{sine(220, rate, 60.1, 0.3), rate}, false},
		{"near silence", Buffer{sine(220, rate, 2.0, 0.0005), rate}, false},
		{"empty buffer", Buffer{nil, rate}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := gate.Check(tt.buf)
			if ok != tt.wantOK {
				t.Errorf("Check() = %v (%q), want %v", ok, reason, tt.wantOK)
			}
			if ok && reason != "" {
				t.Errorf("accepted buffer carries reason %q", reason)
			}
			if !ok && reason == "" {
				t.Error("rejected buffer carries no reason")
			}
		})
	}
}

func TestQualityGate_CustomThresholds(t *testing.T) {
	rate := 48000
	gate := QualityGate{MinDuration: 2.0, MaxDuration: 5.0, MinRMS: 0.05}

	if ok, _ := gate.Check(Buffer{sine(220, rate, 1.0, 0.3), rate}); ok {
		t.Error("1s buffer passed a 2s minimum")
	}
	if ok, _ := gate.Check(Buffer{sine(220, rate, 3.0, 0.01), rate}); ok {
		t.Error("quiet buffer passed a raised RMS threshold")
	}
	if ok, reason := gate.Check(Buffer{sine(220, rate, 3.0, 0.3), rate}); !ok {
		t.Errorf("valid buffer rejected: %s", reason)
	}
}

func TestBufferStats(t *testing.T) {
	buf := Buffer{Samples: []float64{0.5, -0.5, 0.5, -0.5}, Rate: 4}

	if got := buf.Duration(); got != 1.0 {
		t.Errorf("Duration() = %v, want 1.0", got)
	}
	if got := buf.RMS(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("RMS() = %v, want 0.5", got)
	}

	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	// Population standard deviation.
	if got := Std([]float64{2, 4, 4, 4, 5, 5, 7, 9}); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("Std = %v, want 2.0", got)
	}
	if got := Std([]float64{5}); got != 0 {
		t.Errorf("Std of single value = %v, want 0", got)
	}
}
