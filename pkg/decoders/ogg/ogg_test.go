package ogg

import "testing"

func TestNewDecoder(t *testing.T) {
	decoder := NewDecoder()
	if decoder == nil {
		t.Fatal("NewDecoder returned nil")
	}
}

func TestDecoderGetFormatBeforeOpen(t *testing.T) {
	decoder := NewDecoder()
	rate, channels, bits := decoder.GetFormat()
	if rate != 0 || channels != 0 || bits != 16 {
		t.Errorf("got rate=%d channels=%d bits=%d, want rate=0 channels=0 bits=16", rate, channels, bits)
	}
}

func TestDecoderCloseWithoutOpen(t *testing.T) {
	decoder := NewDecoder()
	if err := decoder.Close(); err != nil {
		t.Errorf("Close on unopened decoder failed: %v", err)
	}
	if err := decoder.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestDecodeSamplesWithoutOpen(t *testing.T) {
	decoder := NewDecoder()
	buf := make([]byte, 1024)
	if _, err := decoder.DecodeSamples(128, buf); err == nil {
		t.Error("expected error decoding without opening a file")
	}
}

func TestOpenMissingFile(t *testing.T) {
	decoder := NewDecoder()
	if err := decoder.Open("/nonexistent/track.ogg"); err == nil {
		t.Error("expected error opening a nonexistent file")
	}
}
