// Package opus decodes Ogg Opus audio files.
package opus

import (
	"fmt"
	"io"
	"os"

	goopus "github.com/drgolem/go-opus"
)

// opusFrameSamples is the maximum samples-per-channel a single Opus frame
// can decode to at 48kHz (a 120ms frame, libopus's largest valid size).
const opusFrameSamples = 5760

// Decoder wraps drgolem/go-opus plus a small Ogg page demuxer for decoding
// Ogg Opus files. Implements types.AudioDecoder.
type Decoder struct {
	file     *os.File
	pages    *oggPacketReader
	decoder  *goopus.Decoder
	rate     int
	channels int

	pcm      []int16
	pcmPos   int
	pcmValid int
}

// NewDecoder creates a new Ogg Opus decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens an Ogg Opus file, reading past the OpusHead/OpusTags header
// packets and initializing the codec decoder from OpusHead's channel count.
// Opus always decodes at one of a fixed set of rates; this module always
// requests 48kHz output, the format's native maximum rate.
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("failed to open Opus file: %w", err)
	}

	pages := newOggPacketReader(file)

	head, err := pages.nextPacket()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to read OpusHead: %w", err)
	}
	if len(head) < 19 || string(head[0:8]) != "OpusHead" {
		file.Close()
		return fmt.Errorf("not an Ogg Opus stream")
	}
	channels := int(head[9])

	if _, err := pages.nextPacket(); err != nil {
		file.Close()
		return fmt.Errorf("failed to read OpusTags: %w", err)
	}

	const rate = 48000
	decoder, err := goopus.NewDecoder(rate, channels)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create Opus decoder: %w", err)
	}

	d.file = file
	d.pages = pages
	d.decoder = decoder
	d.rate = rate
	d.channels = channels
	d.pcm = make([]int16, opusFrameSamples*channels)

	return nil
}

// Close closes the Opus file.
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// GetFormat returns the audio format. Opus is decoded to 16-bit PCM.
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, 16
}

// DecodeSamples decodes up to 'samples' samples per channel into audio as
// interleaved little-endian 16-bit PCM, pulling successive Opus packets
// from the Ogg container as needed.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.decoder == nil {
		return 0, fmt.Errorf("decoder not initialized")
	}

	framesWritten := 0
	for framesWritten < samples {
		if d.pcmPos >= d.pcmValid {
			packet, err := d.pages.nextPacket()
			if err != nil {
				if framesWritten > 0 {
					return framesWritten, nil
				}
				if err == io.EOF {
					return 0, io.EOF
				}
				return 0, err
			}

			n, err := d.decoder.Decode(packet, d.pcm)
			if err != nil {
				return framesWritten, fmt.Errorf("opus decode: %w", err)
			}
			d.pcmPos = 0
			d.pcmValid = n
			if n == 0 {
				continue
			}
		}

		toCopy := d.pcmValid - d.pcmPos
		if remaining := samples - framesWritten; remaining < toCopy {
			toCopy = remaining
		}

		for frame := 0; frame < toCopy; frame++ {
			for ch := 0; ch < d.channels; ch++ {
				sample := d.pcm[(d.pcmPos+frame)*d.channels+ch]
				out := (framesWritten+frame)*d.channels*2 + ch*2
				audio[out] = byte(sample)
				audio[out+1] = byte(sample >> 8)
			}
		}
		d.pcmPos += toCopy
		framesWritten += toCopy
	}

	return framesWritten, nil
}
