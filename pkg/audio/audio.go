// Package audio provides the audio primitives for the vocal biomarker
// pipeline: the sample buffer type, mono downmix and resampling
// (preconditioning), the pre-analysis quality gate, and a minimal WAV
// codec for PCM waveforms.
//
// All analysis code in this repository operates on mono float64 samples
// normalized to [-1, 1] at a single canonical sample rate. Precondition
// is the only way audio should enter the pipeline.
package audio

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors.
var (
	// ErrInvalidAudio is returned for empty buffers, non-positive sample
	// rates, and degenerate resampling parameters.
	ErrInvalidAudio = errors.New("audio: invalid audio")
)

// Buffer is a mono waveform plus its sample rate.
//
// A Buffer is owned by the call that produced it and is never persisted;
// extractors treat it as read-only input.
type Buffer struct {
	// Samples are mono float64 samples in [-1, 1].
	Samples []float64

	// Rate is the sample rate in Hz. Always positive for a valid buffer.
	Rate int
}

// Duration returns the buffer length in seconds.
// A non-positive rate yields 0 rather than a panic or Inf.
func (b Buffer) Duration() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.Rate)
}

// RMS returns the root-mean-square energy of the buffer.
// An empty buffer has RMS 0.
func (b Buffer) RMS() float64 {
	if len(b.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range b.Samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(b.Samples)))
}

// Valid reports whether the buffer can be handed to an extractor.
func (b Buffer) Valid() error {
	if len(b.Samples) == 0 {
		return fmt.Errorf("%w: empty buffer", ErrInvalidAudio)
	}
	if b.Rate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, b.Rate)
	}
	return nil
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Std returns the population standard deviation of values, or 0 for an
// empty slice.
func Std(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
