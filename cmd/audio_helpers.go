package cmd

import (
	"encoding/binary"

	"github.com/jvegaf/decklib/pkg/decoders"
	"github.com/jvegaf/decklib/pkg/types"
)

// probeDuration decodes path to completion just to count samples, discarding
// the decoded bytes, and returns the track's format and duration in seconds.
// Both the catalog's add command and the waveform/beatgrid commands need a
// track's duration before they can do anything useful with it.
func probeDuration(path string) (rate, channels, bits int, duration float64, err error) {
	decoder, err := decoders.NewDecoder(path)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	defer decoder.Close()

	rate, channels, bits = decoder.GetFormat()
	total := probeSampleCount(decoder, channels, bits)
	if rate > 0 {
		duration = float64(total) / float64(rate)
	}
	return rate, channels, bits, duration, nil
}

func probeSampleCount(decoder types.AudioDecoder, channels, bits int) int {
	const chunk = 8192
	bytesPerSample := bits / 8
	if bytesPerSample == 0 {
		bytesPerSample = 2
	}
	buf := make([]byte, chunk*channels*bytesPerSample)
	total := 0

	for {
		n, err := decoder.DecodeSamples(chunk, buf)
		total += n
		if err != nil || n == 0 {
			break
		}
	}
	return total
}

// decodeAllSamples decodes the full file into interleaved float32 PCM in
// [-1.0, 1.0], for callers (beatgrid analysis) that need the whole signal in
// memory rather than a coarse sampling of it.
func decodeAllSamples(path string) (samples []float32, rate, channels int, err error) {
	decoder, err := decoders.NewDecoder(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer decoder.Close()

	var bits int
	rate, channels, bits = decoder.GetFormat()
	bytesPerSample := bits / 8
	if bytesPerSample == 0 {
		bytesPerSample = 2
	}

	const chunk = 8192
	buf := make([]byte, chunk*channels*bytesPerSample)

	for {
		n, decErr := decoder.DecodeSamples(chunk, buf)
		if n > 0 {
			frameSamples := n * channels
			for i := 0; i < frameSamples; i++ {
				switch bytesPerSample {
				case 2:
					v := int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
					samples = append(samples, float32(v)/32768.0)
				case 4:
					v := int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
					samples = append(samples, float32(v)/2147483648.0)
				default:
					samples = append(samples, 0)
				}
			}
		}
		if decErr != nil || n == 0 {
			break
		}
	}
	return samples, rate, channels, nil
}
