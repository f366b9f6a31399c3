package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// drainPad is the number of zero samples pushed through the resampler
// after the input to flush its internal filter delay.
const drainPad = 4096

// Precondition converts decoded audio to the canonical analysis format:
// mono samples at targetRate.
//
// channels holds one sample slice per channel; a single-channel recording
// is a one-element slice. Decoders that emit channel-major or time-major
// layouts are both accepted, see ToMono. If origRate already equals
// targetRate the samples pass through without resampling.
func Precondition(channels [][]float64, origRate, targetRate int) (Buffer, error) {
	if origRate <= 0 || targetRate <= 0 {
		return Buffer{}, fmt.Errorf("%w: resample %d Hz -> %d Hz", ErrInvalidAudio, origRate, targetRate)
	}
	mono := ToMono(channels)
	if len(mono) == 0 {
		return Buffer{}, fmt.Errorf("%w: empty buffer", ErrInvalidAudio)
	}
	if origRate == targetRate {
		return Buffer{Samples: mono, Rate: targetRate}, nil
	}
	out, err := Resample(mono, origRate, targetRate)
	if err != nil {
		return Buffer{}, err
	}
	return Buffer{Samples: out, Rate: targetRate}, nil
}

// ToMono downmixes multi-channel audio by averaging across channels.
//
// The channel axis is auto-detected: when the data arrived time-major
// (many short "channels", i.e. more rows than samples per row), the
// layout is transposed first so that averaging always runs across true
// channels. Single-channel input is returned unchanged.
func ToMono(channels [][]float64) []float64 {
	switch len(channels) {
	case 0:
		return nil
	case 1:
		return channels[0]
	}

	// More rows than columns means the decoder handed us frames, not
	// channels: each row is one multi-channel frame.
	if len(channels) > len(channels[0]) {
		channels = transpose(channels)
	}

	n := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	mono := make([]float64, n)
	inv := 1.0 / float64(len(channels))
	for i := 0; i < n; i++ {
		var sum float64
		for _, ch := range channels {
			sum += ch[i]
		}
		mono[i] = sum * inv
	}
	return mono
}

func transpose(rows [][]float64) [][]float64 {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	cols := make([][]float64, len(rows[0]))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
		for i := range rows {
			cols[j][i] = rows[i][j]
		}
	}
	return cols
}

// Resample converts mono samples from origRate to targetRate using a
// band-limited polyphase resampler.
//
// The resampler is created per call; the pipeline processes one finite
// recording at a time, so there is no streaming state to carry.
func Resample(samples []float64, origRate, targetRate int) ([]float64, error) {
	if origRate <= 0 || targetRate <= 0 {
		return nil, fmt.Errorf("%w: resample %d Hz -> %d Hz", ErrInvalidAudio, origRate, targetRate)
	}
	if origRate == targetRate {
		return samples, nil
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(origRate),
		OutputRate: float64(targetRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("audio: create resampler: %w", err)
	}

	out, err := r.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("audio: resample: %w", err)
	}

	// Flush the filter delay with a zero tail, then trim to the exact
	// converted length so duration is preserved.
	tail, err := r.Process(make([]float64, drainPad))
	if err != nil {
		return nil, fmt.Errorf("audio: resample flush: %w", err)
	}
	out = append(out, tail...)

	want := int(float64(len(samples)) * float64(targetRate) / float64(origRate))
	if len(out) > want {
		out = out[:want]
	}
	return out, nil
}
