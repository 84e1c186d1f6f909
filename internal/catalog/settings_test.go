package catalog

import "testing"

func TestGetSettingExisting(t *testing.T) {
	s := newTestStore(t)

	setting, ok, err := s.GetSetting("ui.theme")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if !ok {
		t.Fatal("expected ui.theme to exist after seeding")
	}
	if setting.Value != "system" {
		t.Fatalf("value = %q, want system", setting.Value)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.GetSetting("does.not.exist")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if ok {
		t.Fatal("expected setting to be missing")
	}
}

func TestUpsertSettingInsertAndUpdate(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertSetting("custom.key", "value1", "string"); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}
	got, _, _ := s.GetSetting("custom.key")
	if got.Value != "value1" {
		t.Fatalf("value = %q, want value1", got.Value)
	}

	if err := s.UpsertSetting("custom.key", "value2", "string"); err != nil {
		t.Fatalf("UpsertSetting update: %v", err)
	}
	got, _, _ = s.GetSetting("custom.key")
	if got.Value != "value2" {
		t.Fatalf("value = %q, want value2", got.Value)
	}
}

func TestDeleteSettingNonExisting(t *testing.T) {
	s := newTestStore(t)

	if err := s.DeleteSetting("never.existed"); err != nil {
		t.Fatalf("DeleteSetting on missing key should not error: %v", err)
	}
}

func TestResetAllSettings(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertSetting("custom.key1", "v1", "string"); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	if err := s.ResetAllSettings(); err != nil {
		t.Fatalf("ResetAllSettings: %v", err)
	}

	_, ok, _ := s.GetSetting("custom.key1")
	if ok {
		t.Fatal("custom.key1 should have been cleared by reset")
	}

	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings: %v", err)
	}
	if len(all) != len(defaultSettings) {
		t.Fatalf("settings count = %d, want %d", len(all), len(defaultSettings))
	}
}

func TestSeedDefaultSettingsIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.seedDefaultSettings(); err != nil {
		t.Fatalf("seedDefaultSettings: %v", err)
	}

	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings: %v", err)
	}
	if len(all) != len(defaultSettings) {
		t.Fatalf("settings count = %d, want %d (should not duplicate)", len(all), len(defaultSettings))
	}
}
