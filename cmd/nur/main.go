// Package main provides the Nur CLI application entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"nur/internal/assistant"
	"nur/internal/content"
	"nur/internal/core"
	httpserver "nur/internal/http"
	"nur/internal/i18n"
	"nur/internal/metrics"
	"nur/internal/navigator"
	"nur/internal/playback"
	"nur/internal/provider"
	"nur/internal/resolve"
	"nur/internal/store"
)

const (
	version           = "1.0.0"
	envPrefix         = "NUR"
	noneProvider      = "none"
	defaultServerHost = "0.0.0.0"

	// catalogLoadStrategies is how many sources one catalogue load may try.
	catalogLoadStrategies = 2
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nur",
	Short: "Nur - Quran, Hadith and prayer companion service",
	Long: `Nur serves the Quran with translation, transliteration and tafsir, hadith collections,
prayer times, duas and bookmarks over an HTTP API, and drives recitation playback in
connected browsers.`,
	RunE: runNur,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := core.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.String("log-format", defaults.Log.Format, "log format (json, console)")

	flags.String("server-host", defaults.Server.Host, "HTTP server host")
	flags.Int("server-port", defaults.Server.Port, "HTTP server port")

	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	flags.String("language", defaults.App.Language, fmt.Sprintf("Default notice language (%s)", supportedLangs))
	flags.String("owner-id", defaults.App.OwnerID, "Bookmark owner for requests without an X-Owner-ID header")

	flags.String("alquran-url", defaults.Providers.AlQuranCloudURL, "alquran.cloud API base URL")
	flags.String("qurancom-url", defaults.Providers.QuranComURL, "Quran Foundation API base URL (fallback source)")
	flags.String("qurancom-token-url", "", "Quran Foundation OAuth token URL")
	flags.String("qurancom-client-id", "", "Quran Foundation OAuth client ID")
	flags.String("qurancom-client-secret", "", "Quran Foundation OAuth client secret")
	flags.Int("qurancom-translation-id", defaults.Providers.QuranComTranslationID, "Quran Foundation translation resource ID")
	flags.String("hadith-url", defaults.Providers.HadithURL, "Hadith API base URL")
	flags.String("tafsir-url", defaults.Providers.TafsirURL, "Tafsir API base URL")
	flags.String("aladhan-url", defaults.Providers.AladhanURL, "Aladhan prayer times API base URL")
	flags.String("nominatim-url", defaults.Providers.NominatimURL, "Nominatim geocoding API base URL")
	flags.String("arabic-edition", defaults.Providers.ArabicEdition, "Arabic Quran edition")
	flags.String("translation-edition", defaults.Providers.TranslationEdition, "Translation edition (empty disables)")
	flags.String("transliteration-edition", defaults.Providers.TransliterationEdition, "Transliteration edition (empty disables)")
	flags.String("tafsir-edition", defaults.Providers.TafsirEdition, "Tafsir edition (empty disables)")
	flags.String("hadith-language", defaults.Providers.HadithLanguage, "Hadith translation edition prefix")
	flags.Int("calculation-method", defaults.Providers.CalculationMethod, "Aladhan prayer calculation method")
	flags.Int("provider-timeout-secs", defaults.Providers.TimeoutSecs, "Timeout for a single provider request in seconds")
	flags.Int("catalog-ttl-mins", defaults.Providers.CatalogTTLMins, "How long surah and hadith listings stay cached in minutes")

	flags.String("audio-url-template", defaults.Audio.VerseURLTemplate, "Verse recitation URL template ({reciter}, {number})")
	flags.String("default-reciter", defaults.Audio.DefaultReciter, "Reciter used when settings name none")

	flags.String("store-path", defaults.Store.Path, "SQLite database for bookmarks and settings")
	flags.Int("store-index-capacity", defaults.Store.IndexCapacity, "Bookmarks kept in the in-memory lookup index")

	flags.String("assistant-provider", defaults.Assistant.Provider, "Assistant provider (anthropic, openai, none)")
	flags.String("assistant-model", "", "Assistant model name")
	flags.String("assistant-api-key", "", "Assistant API key")
	flags.String("assistant-base-url", "", "Assistant API base URL")
	flags.Int("assistant-limit-per-minute", defaults.Assistant.LimitPerMinute, "Maximum assistant questions per owner per minute")

	flags.Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureProviders(cfg)
	configureAudio(cfg)
	configureStore(cfg)
	configureAssistant(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureProviders(cfg *core.Config) {
	p := &cfg.Providers
	p.AlQuranCloudURL = viper.GetString("alquran-url")
	p.QuranComURL = viper.GetString("qurancom-url")
	p.QuranComTokenURL = viper.GetString("qurancom-token-url")
	p.QuranComClientID = viper.GetString("qurancom-client-id")
	p.QuranComClientSecret = viper.GetString("qurancom-client-secret")
	p.QuranComTranslationID = viper.GetInt("qurancom-translation-id")
	p.HadithURL = viper.GetString("hadith-url")
	p.TafsirURL = viper.GetString("tafsir-url")
	p.AladhanURL = viper.GetString("aladhan-url")
	p.NominatimURL = viper.GetString("nominatim-url")

	p.ArabicEdition = viper.GetString("arabic-edition")
	p.TranslationEdition = viper.GetString("translation-edition")
	p.TransliterationEdition = viper.GetString("transliteration-edition")
	p.TafsirEdition = viper.GetString("tafsir-edition")
	p.HadithLanguage = viper.GetString("hadith-language")
	p.CalculationMethod = viper.GetInt("calculation-method")

	p.TimeoutSecs = viper.GetInt("provider-timeout-secs")
	if p.TimeoutSecs <= 0 {
		p.TimeoutSecs = core.DefaultProviderTimeoutSecs
	}
	p.CatalogTTLMins = viper.GetInt("catalog-ttl-mins")
	if p.CatalogTTLMins <= 0 {
		p.CatalogTTLMins = core.DefaultCatalogTTLMins
	}
}

func configureAudio(cfg *core.Config) {
	cfg.Audio.VerseURLTemplate = viper.GetString("audio-url-template")
	if cfg.Audio.VerseURLTemplate == "" {
		cfg.Audio.VerseURLTemplate = core.DefaultVerseAudioTemplate
	}
	cfg.Audio.DefaultReciter = viper.GetString("default-reciter")
	if cfg.Audio.DefaultReciter == "" {
		cfg.Audio.DefaultReciter = core.DefaultReciter
	}
}

func configureStore(cfg *core.Config) {
	cfg.Store.Path = viper.GetString("store-path")
	if capacity := viper.GetInt("store-index-capacity"); capacity > 0 {
		cfg.Store.IndexCapacity = capacity
	}
}

func configureAssistant(cfg *core.Config) {
	cfg.Assistant.Provider = strings.ToLower(viper.GetString("assistant-provider"))
	cfg.Assistant.Model = viper.GetString("assistant-model")
	cfg.Assistant.APIKey = viper.GetString("assistant-api-key")
	cfg.Assistant.BaseURL = viper.GetString("assistant-base-url")
	cfg.Assistant.LimitPerMinute = viper.GetInt("assistant-limit-per-minute")
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")
}

func configureApp(cfg *core.Config) {
	cfg.App.OwnerID = viper.GetString("owner-id")

	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	supportedLanguages := i18n.GetSupportedLanguages()
	isSupported := false
	for _, lang := range supportedLanguages {
		if cfg.App.Language == lang {
			isSupported = true
			break
		}
	}
	if !isSupported {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(supportedLanguages, ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}
}

func buildLogger(cfg core.LogConfig) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Format, "console") {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runNur(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting Nur",
		zap.String("version", version),
		zap.String("assistant_provider", config.Assistant.Provider),
		zap.String("language", config.App.Language),
		zap.String("store", config.Store.Path))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if !strings.EqualFold(config.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	services, err := initializeServices(ctx)
	if err != nil {
		return err
	}

	return runServices(ctx, services)
}

func validateConfig() error {
	if err := validateAssistantConfig(); err != nil {
		return err
	}

	if config.Providers.ArabicEdition == "" {
		return fmt.Errorf("arabic edition is required")
	}

	if config.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	return nil
}

func validateAssistantConfig() error {
	switch config.Assistant.Provider {
	case noneProvider, "":
		return nil
	case "anthropic", "openai":
		if config.Assistant.APIKey == "" {
			return fmt.Errorf("assistant API key is required for provider: %s", config.Assistant.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unsupported assistant provider: %s", config.Assistant.Provider)
	}
}

type services struct {
	metrics     *metrics.Metrics
	store       *store.Gateway
	engine      *playback.Engine
	assistant   *assistant.Provider
	httpServer  *httpserver.Server
	unsubscribe func()
}

func initializeServices(ctx context.Context) (*services, error) {
	m := metrics.New()

	sources := createProviders(ctx, m)
	resolveLogger := logger.Named("resolve")
	catalog := resolve.NewCatalog(sources.alquran, sources.quranCom, sources.hadith,
		config.Providers.CatalogTTL(), catalogLoadStrategies*config.Providers.ProviderTimeout(), resolveLogger, m)
	surahs := resolve.NewSurahResolver(sources.alquran, sources.quranCom, sources.tafsir, resolve.Editions{
		Arabic:          config.Providers.ArabicEdition,
		Translation:     config.Providers.TranslationEdition,
		Transliteration: config.Providers.TransliterationEdition,
		Commentary:      config.Providers.TafsirEdition,
	}, resolveLogger, m)
	hadith := resolve.NewHadithResolver(sources.hadith, config.Providers.HadithLanguage, resolveLogger, m)
	prayer := resolve.NewPrayerResolver(sources.aladhan, sources.nominatim, config.Providers.CalculationMethod, resolveLogger)

	gateway, err := store.Open(ctx, config.Store, logger.Named("store"), m)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark store: %w", err)
	}

	ask, err := assistant.NewProvider(config.Assistant, logger.Named("assistant"), m)
	if err != nil {
		_ = gateway.Close()
		return nil, fmt.Errorf("failed to create assistant provider: %w", err)
	}

	hub := playback.NewRemoteHub(logger, m)
	engine := playback.NewEngine(hub, logger, m)
	unsubscribe := engine.Subscribe(hub.PublishSession)

	library := content.NewLibrary()
	nav := navigator.New(surahs, hadith, library, engine, gateway, config.Audio, logger)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Language: config.App.Language,
		OwnerID:  config.App.OwnerID,
		Version:  version,
	}, httpserver.Services{
		Catalog:   catalog,
		Surahs:    surahs,
		Hadith:    hadith,
		Prayer:    prayer,
		Library:   library,
		Bookmarks: gateway,
		Settings:  gateway,
		Store:     gateway,
		Navigator: nav,
		Playback:  engine,
		Remote:    hub,
		Assistant: ask,
	}, logger, m)

	return &services{
		metrics:     m,
		store:       gateway,
		engine:      engine,
		assistant:   ask,
		httpServer:  httpserver.NewServer(&config.Server, router, logger),
		unsubscribe: unsubscribe,
	}, nil
}

type providerSet struct {
	alquran   *provider.AlQuranCloud
	quranCom  *provider.QuranCom
	hadith    *provider.HadithAPI
	tafsir    *provider.TafsirAPI
	aladhan   *provider.Aladhan
	nominatim *provider.Nominatim
}

func createProviders(ctx context.Context, m *metrics.Metrics) providerSet {
	p := config.Providers
	providerLogger := logger.Named("provider")
	client := func(name string, httpClient *http.Client) *provider.Client {
		return provider.NewClient(name, httpClient, p.ProviderTimeout(), providerLogger, m)
	}

	if p.QuranComClientID != "" {
		logger.Info("Quran Foundation fallback uses client credentials",
			zap.String("token_url", p.QuranComTokenURL))
	}

	return providerSet{
		alquran:   provider.NewAlQuranCloud(client(provider.AlQuranCloudName, nil), p.AlQuranCloudURL),
		quranCom:  provider.NewQuranCom(client(provider.QuranComName, provider.NewQuranComHTTPClient(ctx, p)), p.QuranComURL, p.QuranComTranslationID),
		hadith:    provider.NewHadithAPI(client(provider.HadithAPIName, nil), p.HadithURL),
		tafsir:    provider.NewTafsirAPI(client(provider.TafsirAPIName, nil), p.TafsirURL),
		aladhan:   provider.NewAladhan(client(provider.AladhanName, nil), p.AladhanURL),
		nominatim: provider.NewNominatim(client(provider.NominatimName, nil), p.NominatimURL),
	}
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	logger.Info("Nur started successfully",
		zap.String("http_addr", svcs.httpServer.Addr()))

	err := g.Wait()

	svcs.unsubscribe()
	svcs.engine.Close()
	svcs.assistant.Close()
	if closeErr := svcs.store.Close(); closeErr != nil {
		logger.Warn("Failed to close bookmark store", zap.Error(closeErr))
	}

	if err != nil {
		logger.Error("Nur stopped with error", zap.Error(err))
		return err
	}

	logger.Info("Nur stopped gracefully")
	return nil
}
