package device

import (
	"testing"
	"time"
)

func TestPauseGateBlocksThenResumes(t *testing.T) {
	var g PauseGate
	g.Pause()

	done := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		g.Wait(stop)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned while gate was paused")
	case <-time.After(20 * time.Millisecond):
	}

	g.Resume()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Resume")
	}
}

func TestPauseGateWaitReturnsImmediatelyWhenRunning(t *testing.T) {
	var g PauseGate
	done := make(chan struct{})
	go func() {
		g.Wait(nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked while gate was never paused")
	}
}

func TestPauseGateStopUnblocks(t *testing.T) {
	var g PauseGate
	g.Pause()
	stop := make(chan struct{})

	done := make(chan struct{})
	go func() {
		g.Wait(stop)
		close(done)
	}()

	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after stop closed")
	}
}

func TestPauseGatePaused(t *testing.T) {
	var g PauseGate
	if g.Paused() {
		t.Fatal("new gate should not be paused")
	}
	g.Pause()
	if !g.Paused() {
		t.Fatal("expected Paused() true after Pause()")
	}
	g.Resume()
	if g.Paused() {
		t.Fatal("expected Paused() false after Resume()")
	}
}
