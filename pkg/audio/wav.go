package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// WAV format codes from the RIFF spec.
const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// ErrBadWAV is returned when a WAV stream is malformed or uses an
// unsupported encoding.
var ErrBadWAV = errors.New("audio: malformed wav")

// ReadWAV decodes a RIFF/WAVE stream into per-channel float64 samples
// normalized to [-1, 1], plus the declared sample rate.
//
// Supported encodings are 16-bit PCM and 32-bit IEEE float, which covers
// everything the recording apps upload. Container handling beyond this is
// deliberately out of scope; exotic files should be transcoded upstream.
func ReadWAV(r io.Reader) ([][]float64, int, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: header: %v", ErrBadWAV, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrBadWAV)
	}

	var (
		format     uint16
		channels   int
		rate       int
		bitsPer    int
		haveFormat bool
	)

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, 0, fmt.Errorf("%w: no data chunk", ErrBadWAV)
			}
			return nil, 0, fmt.Errorf("%w: chunk header: %v", ErrBadWAV, err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, 0, fmt.Errorf("%w: fmt chunk: %v", ErrBadWAV, err)
			}
			if len(body) < 16 {
				return nil, 0, fmt.Errorf("%w: fmt chunk too short", ErrBadWAV)
			}
			format = binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			rate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPer = int(binary.LittleEndian.Uint16(body[14:16]))
			haveFormat = true

		case "data":
			if !haveFormat {
				return nil, 0, fmt.Errorf("%w: data before fmt", ErrBadWAV)
			}
			if channels <= 0 || rate <= 0 {
				return nil, 0, fmt.Errorf("%w: %d channels at %d Hz", ErrBadWAV, channels, rate)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, 0, fmt.Errorf("%w: data chunk: %v", ErrBadWAV, err)
			}
			return decodeWAVData(body, format, channels, bitsPer, rate)

		default:
			// Skip LIST, fact, cue and friends. Chunks are word-aligned.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, 0, fmt.Errorf("%w: skip %s chunk: %v", ErrBadWAV, id, err)
			}
		}
	}
}

func decodeWAVData(body []byte, format uint16, channels, bitsPer, rate int) ([][]float64, int, error) {
	switch {
	case format == wavFormatPCM && bitsPer == 16:
		frames := len(body) / (2 * channels)
		out := makeChannels(channels, frames)
		for f := 0; f < frames; f++ {
			for c := 0; c < channels; c++ {
				off := (f*channels + c) * 2
				s := int16(binary.LittleEndian.Uint16(body[off : off+2]))
				out[c][f] = float64(s) / 32768.0
			}
		}
		return out, rate, nil

	case format == wavFormatFloat && bitsPer == 32:
		frames := len(body) / (4 * channels)
		out := makeChannels(channels, frames)
		for f := 0; f < frames; f++ {
			for c := 0; c < channels; c++ {
				off := (f*channels + c) * 4
				bits := binary.LittleEndian.Uint32(body[off : off+4])
				out[c][f] = float64(math.Float32frombits(bits))
			}
		}
		return out, rate, nil

	default:
		return nil, 0, fmt.Errorf("%w: unsupported encoding (format %d, %d-bit)", ErrBadWAV, format, bitsPer)
	}
}

func makeChannels(channels, frames int) [][]float64 {
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	return out
}

// WriteWAV encodes mono float64 samples as a 16-bit PCM WAV stream.
// Samples outside [-1, 1] are clipped.
func WriteWAV(w io.Writer, samples []float64, rate int) error {
	if rate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, rate)
	}

	dataLen := len(samples) * 2
	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+dataLen))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(hdr[22:24], 1) // mono
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(rate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(rate*2)) // byte rate
	binary.LittleEndian.PutUint16(hdr[32:34], 2)              // block align
	binary.LittleEndian.PutUint16(hdr[34:36], 16)             // bits per sample
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(dataLen))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	// Quantize with the same 1/32768 scale the reader uses; the int16
	// clamp handles both +1.0 and out-of-range samples.
	buf := make([]byte, dataLen)
	for i, s := range samples {
		v := int(math.Round(s * 32768.0))
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], uint16(int16(v)))
	}
	_, err := w.Write(buf)
	return err
}
