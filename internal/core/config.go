package core

import (
	"time"
)

const (
	// DefaultServerPort is the HTTP API port.
	DefaultServerPort = 8080
	// DefaultProviderTimeoutSecs bounds every single provider call.
	DefaultProviderTimeoutSecs = 15
	// DefaultCatalogTTLMins is how long chapter and edition lists stay cached.
	DefaultCatalogTTLMins = 60
	// DefaultCalculationMethod is the Muslim World League method on aladhan.com.
	DefaultCalculationMethod = 3
	// DefaultAssistantLimitPerMinute caps assistant questions per owner.
	DefaultAssistantLimitPerMinute = 6
	// DefaultReciter is used when settings carry no reciter.
	DefaultReciter = "ar.alafasy"
	// DefaultVerseAudioTemplate derives a verse recitation URL.
	DefaultVerseAudioTemplate = "https://cdn.islamic.network/quran/audio/128/{reciter}/{number}.mp3"
	// SettingsKey is the well-known key the settings blob is stored under.
	SettingsKey = "nur_settings"
)

type Config struct {
	Providers ProvidersConfig
	Audio     AudioConfig
	Store     StoreConfig
	Assistant AssistantConfig
	Server    ServerConfig
	Log       LogConfig
	App       AppConfig
}

type ProvidersConfig struct {
	AlQuranCloudURL string
	AladhanURL      string
	HadithURL       string
	TafsirURL       string
	NominatimURL    string

	QuranComURL           string
	QuranComTokenURL      string
	QuranComClientID      string
	QuranComClientSecret  string
	QuranComTranslationID int

	ArabicEdition          string
	TranslationEdition     string
	TransliterationEdition string
	TafsirEdition          string
	HadithLanguage         string
	CalculationMethod      int

	TimeoutSecs    int
	CatalogTTLMins int
}

type AudioConfig struct {
	VerseURLTemplate string
	DefaultReciter   string
}

type StoreConfig struct {
	Path                   string
	IndexCapacity          int
	IndexFalsePositiveRate float64
}

type AssistantConfig struct {
	Provider       string
	Model          string
	APIKey         string
	BaseURL        string
	LimitPerMinute int
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language string
	OwnerID  string
}

// ProviderTimeout returns the per-call provider timeout.
func (c ProvidersConfig) ProviderTimeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return DefaultProviderTimeoutSecs * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CatalogTTL returns how long catalogue entries are cached.
func (c ProvidersConfig) CatalogTTL() time.Duration {
	if c.CatalogTTLMins <= 0 {
		return DefaultCatalogTTLMins * time.Minute
	}
	return time.Duration(c.CatalogTTLMins) * time.Minute
}

func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			AlQuranCloudURL:        "https://api.alquran.cloud/v1",
			AladhanURL:             "https://api.aladhan.com/v1",
			HadithURL:              "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1",
			TafsirURL:              "https://cdn.jsdelivr.net/gh/spa5k/tafsir_api@main/tafsir",
			NominatimURL:           "https://nominatim.openstreetmap.org",
			QuranComURL:            "https://api.quran.com/api/v4",
			QuranComTranslationID:  20,
			ArabicEdition:          "quran-uthmani",
			TranslationEdition:     "en.asad",
			TransliterationEdition: "en.transliteration",
			TafsirEdition:          "en-tafisr-ibn-kathir",
			HadithLanguage:         "eng",
			CalculationMethod:      DefaultCalculationMethod,
			TimeoutSecs:            DefaultProviderTimeoutSecs,
			CatalogTTLMins:         DefaultCatalogTTLMins,
		},
		Audio: AudioConfig{
			VerseURLTemplate: DefaultVerseAudioTemplate,
			DefaultReciter:   DefaultReciter,
		},
		Store: StoreConfig{
			Path:                   "./nur.db",
			IndexCapacity:          10000,
			IndexFalsePositiveRate: 0.001,
		},
		Assistant: AssistantConfig{
			Provider:       "none",
			LimitPerMinute: DefaultAssistantLimitPerMinute,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language: "en",
			OwnerID:  "local",
		},
	}
}
