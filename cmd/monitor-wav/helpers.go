package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0
)

// wavFile holds a fully decoded WAV file as float64 channel data in
// [-1, 1].
type wavFile struct {
	sampleRate int
	bitDepth   int
	channels   [][]float64
}

func (f *wavFile) frames() int {
	if len(f.channels) == 0 {
		return 0
	}
	return len(f.channels[0])
}

// readWAV decodes an entire WAV file into per-channel float64 buffers.
// The processing chain is offline and 1:1 in sample count, so a full
// in-memory decode keeps the pipeline simple.
func readWAV(path string) (*wavFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio data: %w", err)
	}

	numChannels := buf.Format.NumChannels
	if numChannels < 1 {
		return nil, fmt.Errorf("no audio channels in %s", path)
	}

	bitDepth := int(decoder.BitDepth)
	invMax := 1.0 / maxSampleValue(bitDepth)
	frames := len(buf.Data) / numChannels

	channels := make([][]float64, numChannels)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		base := i * numChannels
		for ch := 0; ch < numChannels; ch++ {
			channels[ch][i] = float64(buf.Data[base+ch]) * invMax
		}
	}

	return &wavFile{
		sampleRate: buf.Format.SampleRate,
		bitDepth:   bitDepth,
		channels:   channels,
	}, nil
}

// writeWAV interleaves float64 channel data and writes it as PCM at
// the source bit depth.
func writeWAV(path string, sampleRate, bitDepth int, channels [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	numChannels := len(channels)
	frames := 0
	if numChannels > 0 {
		frames = len(channels[0])
	}

	maxVal := maxSampleValue(bitDepth)
	data := make([]int, frames*numChannels)
	for i := 0; i < frames; i++ {
		base := i * numChannels
		for ch := 0; ch < numChannels; ch++ {
			s := channels[ch][i]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			data[base+ch] = int(s * maxVal)
		}
	}

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, numChannels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: numChannels,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		_ = encoder.Close()
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	return encoder.Close()
}

func maxSampleValue(bitDepth int) float64 {
	switch bitDepth {
	case 24:
		return maxInt24
	case 32:
		return maxInt32
	default:
		return maxInt16
	}
}
