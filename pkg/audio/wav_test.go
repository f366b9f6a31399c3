package audio

import (
	"bytes"
	"math"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	in := sine(220, 48000, 0.1, 0.5)

	var buf bytes.Buffer
	if err := WriteWAV(&buf, in, 48000); err != nil {
		t.Fatalf("WriteWAV error: %v", err)
	}

	channels, rate, err := ReadWAV(&buf)
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if rate != 48000 {
		t.Errorf("rate = %d, want 48000", rate)
	}
	if len(channels) != 1 {
		t.Fatalf("channels = %d, want 1", len(channels))
	}
	if len(channels[0]) != len(in) {
		t.Fatalf("samples = %d, want %d", len(channels[0]), len(in))
	}

	// Writer and reader share the 1/32768 scale, so the round-trip
	// error is pure rounding: at most half a quantization step.
	for i := range in {
		if math.Abs(channels[0][i]-in[i]) > 0.5/32768.0 {
			t.Fatalf("sample %d = %v, want %v", i, channels[0][i], in[i])
		}
	}
}

func TestWAVRoundTrip_FullScale(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWAV(&buf, []float64{-1.0, 1.0, 0}, 8000); err != nil {
		t.Fatalf("WriteWAV error: %v", err)
	}
	channels, _, err := ReadWAV(&buf)
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if channels[0][0] != -1.0 {
		t.Errorf("-1.0 round-tripped to %v", channels[0][0])
	}
	// +1.0 clamps to the int16 maximum, one step short of full scale.
	if got := channels[0][1]; got != 32767.0/32768.0 {
		t.Errorf("+1.0 round-tripped to %v, want %v", got, 32767.0/32768.0)
	}
	if channels[0][2] != 0 {
		t.Errorf("0 round-tripped to %v", channels[0][2])
	}
}

func TestWriteWAV_Clipping(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWAV(&buf, []float64{1.5, -1.5, 0}, 8000); err != nil {
		t.Fatalf("WriteWAV error: %v", err)
	}
	channels, _, err := ReadWAV(&buf)
	if err != nil {
		t.Fatalf("ReadWAV error: %v", err)
	}
	if channels[0][0] < 0.99 || channels[0][1] > -0.99 {
		t.Errorf("out-of-range samples not clipped: %v", channels[0][:2])
	}
}

func TestReadWAV_BadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated header", []byte("RIFF")},
		{"not riff", bytes.Repeat([]byte("x"), 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ReadWAV(bytes.NewReader(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
