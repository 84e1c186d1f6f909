package playback

import "testing"

func TestNewControllerCloseWithoutActivity(t *testing.T) {
	c := NewController(nil)
	c.Close()
}

func TestControllerStatusInitiallyIdle(t *testing.T) {
	c := NewController(nil)
	defer c.Close()

	status := c.Status()
	if status.Playing {
		t.Fatal("expected Playing=false before any StreamFile")
	}
	if status.Position != 0 {
		t.Fatalf("Position = %v, want 0", status.Position)
	}
}

func TestControllerPauseResumeWithoutTrackIsSafe(t *testing.T) {
	c := NewController(nil)
	defer c.Close()

	c.Pause()
	c.Resume()
	c.Stop()
}

func TestApplyVolume16Scaling(t *testing.T) {
	// 16-bit sample 10000 at half volume should halve to ~5000.
	sample := int16(10000)
	buf := []byte{byte(sample), byte(sample >> 8)}

	applyVolume16(buf, 0.5, 16)

	got := int16(uint16(buf[0]) | uint16(buf[1])<<8)
	if got != 5000 {
		t.Fatalf("got = %d, want 5000", got)
	}
}

func TestApplyVolume16NoOpAtFullVolume(t *testing.T) {
	sample := int16(12345)
	buf := []byte{byte(sample), byte(sample >> 8)}
	original := append([]byte(nil), buf...)

	applyVolume16(buf, 1.0, 16)

	if buf[0] != original[0] || buf[1] != original[1] {
		t.Fatal("expected no change at volume 1.0")
	}
}

func TestFloat64BitsRoundTrip(t *testing.T) {
	want := 123.456
	if got := float64FromBits(float64Bits(want)); got != want {
		t.Fatalf("got = %v, want %v", got, want)
	}
}
