package core

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Server.Port != DefaultServerPort {
		t.Errorf("Expected default port %d, got %d", DefaultServerPort, config.Server.Port)
	}

	if config.Assistant.Provider != "none" {
		t.Errorf("Expected assistant to be disabled by default, got %s", config.Assistant.Provider)
	}

	if config.Audio.DefaultReciter != DefaultReciter {
		t.Errorf("Expected default reciter %s, got %s", DefaultReciter, config.Audio.DefaultReciter)
	}

	if config.Providers.ArabicEdition == "" || config.Providers.TranslationEdition == "" {
		t.Error("Expected Quran editions to be configured by default")
	}
}

func TestProviderTimeout(t *testing.T) {
	tests := []struct {
		name     string
		secs     int
		expected time.Duration
	}{
		{"configured", 5, 5 * time.Second},
		{"zero falls back", 0, DefaultProviderTimeoutSecs * time.Second},
		{"negative falls back", -1, DefaultProviderTimeoutSecs * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ProvidersConfig{TimeoutSecs: tt.secs}
			if got := cfg.ProviderTimeout(); got != tt.expected {
				t.Errorf("ProviderTimeout() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSettingsPatchApply(t *testing.T) {
	size := 40
	theme := "dark"
	patch := SettingsPatch{ArabicFontSize: &size, Theme: &theme}

	got := patch.Apply(DefaultSettings())

	if got.ArabicFontSize != 40 || got.Theme != "dark" {
		t.Errorf("patched fields not applied: %+v", got)
	}
	if got.ReciterID != DefaultReciter || got.FontFamily != "Amiri" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestBookmarkKindValid(t *testing.T) {
	for _, kind := range []BookmarkKind{BookmarkQuran, BookmarkDua, BookmarkHadith} {
		if !kind.Valid() {
			t.Errorf("%s should be valid", kind)
		}
	}
	if BookmarkKind("TAFSIR").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")

	var resErr error = &ResolutionError{Resource: "surah 1", Reason: "all providers failed", Err: cause}
	if !errors.Is(resErr, cause) {
		t.Error("ResolutionError should unwrap to its cause")
	}

	var persistErr error = &PersistenceError{Op: "add bookmark", Err: cause}
	if !errors.Is(persistErr, cause) {
		t.Error("PersistenceError should unwrap to its cause")
	}

	var loadErr error = &PlaybackLoadError{TrackID: "1", URL: "u", Err: cause}
	if !errors.Is(loadErr, cause) {
		t.Error("PlaybackLoadError should unwrap to its cause")
	}
}
