package device

import (
	"fmt"

	"github.com/drgolem/go-portaudio/portaudio"
)

// PortAudioEnumerator lists output devices via the PortAudio binding this
// module already depends on for stream playback.
type PortAudioEnumerator struct{}

func (PortAudioEnumerator) OutputDevices() ([]Info, error) {
	count := portaudio.GetDeviceCount()
	if count < 0 {
		return nil, fmt.Errorf("failed to enumerate audio devices")
	}

	devices := make([]Info, 0, count)
	for i := 0; i < count; i++ {
		info := portaudio.GetDeviceInfo(i)
		if info == nil || info.MaxOutputChannels <= 0 {
			continue // input-only or unavailable device
		}
		devices = append(devices, Info{
			Index:             i,
			Name:              info.Name,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		})
	}
	return devices, nil
}
