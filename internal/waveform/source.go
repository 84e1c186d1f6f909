package waveform

import (
	"encoding/binary"
	"fmt"

	"github.com/jvegaf/decklib/pkg/types"
)

// Source is the abstract PCM source the waveform generator samples from. It
// decouples generation from any single decoder's native seek support: none
// of the format decoders this module reuses (mp3/flac/wav) expose a native
// Seek, so DecoderSource below approximates coarse seeking by decode-and-
// discard, matching original_source's SeekMode::Coarse semantics (an
// approximate seek is an accepted tradeoff there too).
type Source interface {
	SampleRate() int
	Channels() int
	// SeekTo moves the read position as close as possible to the given time
	// in seconds. Returns an error only if the source cannot be read at all.
	SeekTo(seconds float64) error
	// ReadSamples decodes up to n samples per channel, returned as
	// interleaved float32 in [-1.0, 1.0]. May return fewer than n samples
	// near end of stream.
	ReadSamples(n int) ([]float32, error)
	Close() error
}

// OpenFunc constructs and opens a fresh decoder for path, used by
// DecoderSource to restart decoding when a seek target lies behind the
// current position.
type OpenFunc func(path string) (types.AudioDecoder, error)

// DecoderSource adapts a types.AudioDecoder into a Source. ReadSamples
// converts 16-bit and 32-bit PCM; samples of any other bit depth (such as
// 24-bit WAV) are returned as zeros.
type DecoderSource struct {
	path     string
	open     OpenFunc
	decoder  types.AudioDecoder
	rate     int
	channels int
	bits     int
	position int // samples-per-channel decoded so far
}

// NewDecoderSource opens path via open and wraps it as a Source.
func NewDecoderSource(path string, open OpenFunc) (*DecoderSource, error) {
	decoder, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("open decoder: %w", err)
	}
	rate, channels, bits := decoder.GetFormat()
	return &DecoderSource{
		path:     path,
		open:     open,
		decoder:  decoder,
		rate:     rate,
		channels: channels,
		bits:     bits,
	}, nil
}

func (d *DecoderSource) SampleRate() int { return d.rate }
func (d *DecoderSource) Channels() int   { return d.channels }

func (d *DecoderSource) Close() error {
	if d.decoder != nil {
		return d.decoder.Close()
	}
	return nil
}

// SeekTo reopens the underlying file and decodes-and-discards up to the
// target sample position. Coarse and O(position), but format decoders in
// this module offer no native seek, matching the original's own
// "approximate on failure" tolerance for this step.
func (d *DecoderSource) SeekTo(seconds float64) error {
	target := int(seconds * float64(d.rate))
	if target < 0 {
		target = 0
	}

	if err := d.decoder.Close(); err != nil {
		return fmt.Errorf("close decoder before reseek: %w", err)
	}
	decoder, err := d.open(d.path)
	if err != nil {
		return fmt.Errorf("reopen decoder: %w", err)
	}
	d.decoder = decoder
	d.position = 0

	const discardChunk = 4096
	bytesPerSample := d.bits / 8
	if bytesPerSample == 0 {
		bytesPerSample = 2
	}
	buf := make([]byte, discardChunk*d.channels*bytesPerSample)

	for d.position < target {
		toRead := discardChunk
		if remaining := target - d.position; remaining < toRead {
			toRead = remaining
		}
		n, err := d.decoder.DecodeSamples(toRead, buf)
		if n > 0 {
			d.position += n
		}
		if err != nil || n == 0 {
			// End of stream before reaching target: leave position where it
			// is, matching the original's "push last peak or 0.0" fallback
			// rather than failing the whole generation pass.
			return nil
		}
	}
	return nil
}

func (d *DecoderSource) ReadSamples(n int) ([]float32, error) {
	bytesPerSample := d.bits / 8
	if bytesPerSample == 0 {
		bytesPerSample = 2
	}
	buf := make([]byte, n*d.channels*bytesPerSample)

	decoded, err := d.decoder.DecodeSamples(n, buf)
	if decoded == 0 {
		return nil, err
	}
	d.position += decoded

	out := make([]float32, decoded*d.channels)
	for i := 0; i < decoded*d.channels; i++ {
		switch bytesPerSample {
		case 2:
			v := int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
			out[i] = float32(v) / 32768.0
		case 4:
			v := int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
			out[i] = float32(v) / 2147483648.0
		default:
			out[i] = 0
		}
	}
	return out, err
}
