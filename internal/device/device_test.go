package device

import "testing"

type fakeEnumerator struct {
	devices []Info
}

func (f *fakeEnumerator) OutputDevices() ([]Info, error) {
	return f.devices, nil
}

func TestFindByNameMatch(t *testing.T) {
	enum := &fakeEnumerator{devices: []Info{
		{Index: 0, Name: "Speakers"},
		{Index: 1, Name: "Headphones"},
	}}

	got, err := FindByName(enum, "Headphones")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if got.Index != 1 {
		t.Fatalf("Index = %d, want 1", got.Index)
	}
}

func TestFindByNameMissing(t *testing.T) {
	enum := &fakeEnumerator{devices: []Info{{Index: 0, Name: "Speakers"}}}
	if _, err := FindByName(enum, "Nonexistent"); err == nil {
		t.Fatal("expected error for missing device")
	}
}

func TestBestConfigExactMatch(t *testing.T) {
	dev := Info{Index: 2, Name: "Interface", MaxOutputChannels: 2, SupportedRates: []int{44100, 48000, 96000}}

	cfg, err := BestConfig(dev, 48000, 2)
	if err != nil {
		t.Fatalf("BestConfig: %v", err)
	}
	if cfg.SampleRate != 48000 || cfg.Channels != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestBestConfigFallsBackToDeviceDefault(t *testing.T) {
	dev := Info{Index: 0, Name: "Speakers", MaxOutputChannels: 2, DefaultSampleRate: 44100, SupportedRates: []int{44100}}

	cfg, err := BestConfig(dev, 192000, 8) // unsupported request
	if err != nil {
		t.Fatalf("BestConfig: %v", err)
	}
	if cfg.SampleRate != 44100 {
		t.Fatalf("SampleRate = %d, want device default 44100", cfg.SampleRate)
	}
}

func TestBestConfigPrefers44100WhenNoDefault(t *testing.T) {
	dev := Info{Index: 0, Name: "Generic", MaxOutputChannels: 2, SupportedRates: []int{22050, 44100, 96000}}

	cfg, err := BestConfig(dev, 0, 0)
	if err != nil {
		t.Fatalf("BestConfig: %v", err)
	}
	if cfg.SampleRate != 44100 {
		t.Fatalf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
}

func TestBestConfigNoValidConfig(t *testing.T) {
	dev := Info{Index: 0, Name: "Broken"}
	if _, err := BestConfig(dev, 0, 0); err == nil {
		t.Fatal("expected error for device with no usable configuration")
	}
}
