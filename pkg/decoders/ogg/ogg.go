// Package ogg decodes Ogg Vorbis audio files.
package ogg

import (
	"fmt"
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

// Decoder wraps jfreymuth/oggvorbis for decoding Ogg Vorbis files.
// Implements types.AudioDecoder.
type Decoder struct {
	file     *os.File
	reader   *oggvorbis.Reader
	rate     int
	channels int
}

// NewDecoder creates a new Ogg Vorbis decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens an Ogg Vorbis file for decoding.
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("failed to open Ogg file: %w", err)
	}

	reader, err := oggvorbis.NewReader(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to read Ogg Vorbis stream: %w", err)
	}

	d.file = file
	d.reader = reader
	d.rate = reader.SampleRate()
	d.channels = reader.Channels()

	return nil
}

// Close closes the Ogg file.
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// GetFormat returns the audio format. Ogg Vorbis is decoded to 16-bit PCM
// here regardless of the source's internal float precision.
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, 16
}

// DecodeSamples decodes up to 'samples' samples per channel into audio as
// interleaved little-endian 16-bit PCM.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.reader == nil {
		return 0, fmt.Errorf("decoder not initialized")
	}

	buf := make([]float32, samples*d.channels)
	n, err := d.reader.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	framesDecoded := n / d.channels
	for i := 0; i < n; i++ {
		v := buf[i]
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		sample := int16(v * 32767)
		audio[i*2] = byte(sample)
		audio[i*2+1] = byte(sample >> 8)
	}

	return framesDecoded, err
}
