// Package praat implements the acoustic measurements used for vocal
// biomarker extraction: an autocorrelation pitch tracker, glottal pulse
// detection (point process), cycle-to-cycle perturbation measures
// (jitter and shimmer), and a harmonics-to-noise ratio contour.
//
// The algorithms follow the classical Praat formulations (Boersma 1993
// for pitch and harmonicity, the MDVP-style perturbation quotients for
// jitter and shimmer) in pure Go over mono float64 samples. Results are
// raw ratios and seconds; display scaling (percent, microseconds, dB
// rounding) is the caller's concern.
package praat
