// Package device selects and configures audio output devices, generalizing
// the device-selection logic of original_source/audio/output/device.rs
// (cpal-based) onto PortAudio's device model.
package device

import (
	"fmt"

	"github.com/jvegaf/decklib/internal/apperr"
)

// defaultSampleRate is the rate preferred when a device's default config is
// unavailable and the caller expressed no preference, matching
// original_source/audio/constants.rs's DEFAULT_SAMPLE_RATE.
const defaultSampleRate = 44100

// Info describes one audio output device, independent of any particular
// audio backend.
type Info struct {
	Index             int
	Name              string
	MaxOutputChannels int
	DefaultSampleRate float64
	SupportedRates    []int // empty means "unknown, assume DefaultSampleRate works"
}

// Config is the negotiated stream configuration for a device.
type Config struct {
	DeviceIndex int
	SampleRate  int
	Channels    int
}

// Enumerator lists the output devices known to the underlying audio
// backend. Satisfied by a PortAudio-backed implementation in production and
// by a fake in tests, so selection logic is exercised without a real audio
// device.
type Enumerator interface {
	OutputDevices() ([]Info, error)
}

// FindByName returns the device whose name matches exactly, mirroring
// original_source's find_device_by_name.
func FindByName(enum Enumerator, name string) (Info, error) {
	devices, err := enum.OutputDevices()
	if err != nil {
		return Info{}, fmt.Errorf("%w: list devices: %v", apperr.ErrDeviceUnavailable, err)
	}
	for _, d := range devices {
		if d.Name == name {
			return d, nil
		}
	}
	return Info{}, fmt.Errorf("%w: device %q not found", apperr.ErrDeviceUnavailable, name)
}

// BestConfig negotiates an output configuration for dev, given an optional
// desired sample rate and channel count (0 means "no preference"). It tries,
// in order: an exact match against desired values, the device's own default
// configuration, then any supported configuration, preferring
// defaultSampleRate (44100Hz) when it falls within the device's range. This
// order mirrors original_source's get_best_config fallback chain.
func BestConfig(dev Info, desiredRate, desiredChannels int) (Config, error) {
	if desiredRate > 0 || desiredChannels > 0 {
		rate := desiredRate
		channels := desiredChannels
		if channels == 0 {
			channels = dev.MaxOutputChannels
		}
		if channels <= dev.MaxOutputChannels && rateSupported(dev, rate) {
			if rate == 0 {
				rate = int(dev.DefaultSampleRate)
			}
			return Config{DeviceIndex: dev.Index, SampleRate: rate, Channels: channels}, nil
		}
	}

	if dev.DefaultSampleRate > 0 {
		channels := dev.MaxOutputChannels
		if channels == 0 {
			channels = 2
		}
		return Config{DeviceIndex: dev.Index, SampleRate: int(dev.DefaultSampleRate), Channels: channels}, nil
	}

	if len(dev.SupportedRates) > 0 {
		rate := dev.SupportedRates[0]
		for _, r := range dev.SupportedRates {
			if r == defaultSampleRate {
				rate = defaultSampleRate
				break
			}
		}
		channels := dev.MaxOutputChannels
		if channels == 0 {
			channels = 2
		}
		return Config{DeviceIndex: dev.Index, SampleRate: rate, Channels: channels}, nil
	}

	return Config{}, fmt.Errorf("%w: no valid audio configuration for device %q", apperr.ErrDeviceUnavailable, dev.Name)
}

func rateSupported(dev Info, rate int) bool {
	if rate == 0 {
		return true
	}
	if len(dev.SupportedRates) == 0 {
		return int(dev.DefaultSampleRate) == rate
	}
	for _, r := range dev.SupportedRates {
		if r == rate {
			return true
		}
	}
	return false
}
