package playback

import "testing"

// fakeSeekDecoder produces a fixed total number of samples and tracks how
// many have been decoded, without touching a real file.
type fakeSeekDecoder struct {
	rate, channels, bits int
	total                int
	decoded              int
}

func (d *fakeSeekDecoder) Open(string) error { return nil }
func (d *fakeSeekDecoder) Close() error      { return nil }
func (d *fakeSeekDecoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, d.bits
}

func (d *fakeSeekDecoder) DecodeSamples(samples int, audio []byte) (int, error) {
	remaining := d.total - d.decoded
	if remaining <= 0 {
		return 0, nil
	}
	n := samples
	if n > remaining {
		n = remaining
	}
	d.decoded += n
	return n, nil
}

func TestSeekDecoderAdvancesToTarget(t *testing.T) {
	d := &fakeSeekDecoder{rate: 44100, channels: 2, bits: 16, total: 44100 * 10}

	if err := seekDecoder(d, d.rate, d.channels, d.bits, 5.0); err != nil {
		t.Fatalf("seekDecoder: %v", err)
	}
	if d.decoded != 44100*5 {
		t.Fatalf("decoded = %d, want %d", d.decoded, 44100*5)
	}
}

func TestSeekDecoderToleratesShortStream(t *testing.T) {
	d := &fakeSeekDecoder{rate: 44100, channels: 2, bits: 16, total: 44100 * 2}

	if err := seekDecoder(d, d.rate, d.channels, d.bits, 10.0); err != nil {
		t.Fatalf("seekDecoder: %v", err)
	}
	if d.decoded != d.total {
		t.Fatalf("decoded = %d, want %d (fully drained)", d.decoded, d.total)
	}
}

func TestSeekDecoderZeroOrNegativeIsNoOp(t *testing.T) {
	d := &fakeSeekDecoder{rate: 44100, channels: 2, bits: 16, total: 44100 * 10}

	if err := seekDecoder(d, d.rate, d.channels, d.bits, 0); err != nil {
		t.Fatalf("seekDecoder: %v", err)
	}
	if d.decoded != 0 {
		t.Fatalf("decoded = %d, want 0", d.decoded)
	}

	if err := seekDecoder(d, d.rate, d.channels, d.bits, -1); err != nil {
		t.Fatalf("seekDecoder: %v", err)
	}
	if d.decoded != 0 {
		t.Fatalf("decoded = %d, want 0", d.decoded)
	}
}
