package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nur/internal/content"
	"nur/internal/core"
	"nur/internal/i18n"
	"nur/internal/metrics"
)

// RouterConfig carries request defaults.
type RouterConfig struct {
	// Language is used when Accept-Language names nothing supported.
	Language string
	// OwnerID is used when a request carries no OwnerHeader.
	OwnerID string
	Version string
}

type Catalog interface {
	Chapters(ctx context.Context) ([]core.Chapter, error)
	Chapter(ctx context.Context, number int) (*core.Chapter, error)
	HadithEditions(ctx context.Context) ([]core.HadithCollection, error)
	HadithSections(ctx context.Context, collection string) ([]core.HadithSectionInfo, error)
}

type SurahResolver interface {
	Resolve(ctx context.Context, number int) (*core.Surah, error)
}

type HadithResolver interface {
	Section(ctx context.Context, collection string, section int) (*core.HadithSection, error)
}

type PrayerResolver interface {
	Today(ctx context.Context, lat, lng float64) (*core.PrayerDay, error)
	Week(ctx context.Context, lat, lng float64) ([]core.PrayerDay, error)
	Geocode(ctx context.Context, query string) (*core.Place, error)
}

type Library interface {
	Duas(category string) []content.Dua
	Dua(id string) (content.Dua, error)
	Categories() []content.Category
	SearchDuas(query string) []content.Dua
	FiqhArticles() []content.FiqhArticle
	FiqhArticle(id string) (content.FiqhArticle, error)
	SearchFiqh(query string) []content.FiqhArticle
	Collections() []content.Collection
	Collection(id string) (content.Collection, error)
	Reciters() []content.Reciter
	Reciter(id string) (content.Reciter, error)
	SearchChapters(chapters []core.Chapter, query string) []core.Chapter
}

type BookmarkStore interface {
	core.BookmarkGateway
	IsBookmarked(ctx context.Context, ownerID string, kind core.BookmarkKind, referenceID string) (bool, error)
}

type SettingsStore interface {
	core.SettingsGateway
	PatchSettings(ctx context.Context, patch core.SettingsPatch) (core.Settings, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Assistant interface {
	Name() string
	AskFor(ctx context.Context, ownerID, question string) (string, error)
}

// Services are the collaborators behind the API routes.
type Services struct {
	Catalog   Catalog
	Surahs    SurahResolver
	Hadith    HadithResolver
	Prayer    PrayerResolver
	Library   Library
	Bookmarks BookmarkStore
	Settings  SettingsStore
	Store     Pinger
	Navigator Navigator
	Playback  PlaybackControl
	Remote    RemotePlayer
	Assistant Assistant
}

// NewRouter registers every API route on a fresh gin engine.
func NewRouter(cfg RouterConfig, svc Services, logger *zap.Logger, m *metrics.Metrics) *gin.Engine {
	logger = logger.Named("http")

	router := gin.New()
	router.Use(gin.Recovery(), observe(logger, m), requestContext(cfg))

	health := NewHealthController(svc.Store, cfg.Version)
	router.GET("/healthz", health.Live)
	router.GET("/readyz", health.Ready)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api/v1")

	quran := NewQuranController(svc.Catalog, svc.Surahs, svc.Library, logger)
	api.GET("/surahs", quran.List)
	api.GET("/surahs/:number", quran.Get)
	api.GET("/surahs/:number/info", quran.Info)

	hadith := NewHadithController(svc.Catalog, svc.Hadith, svc.Library, logger)
	api.GET("/hadith/collections", hadith.Collections)
	api.GET("/hadith/collections/:collection", hadith.Collection)
	api.GET("/hadith/collections/:collection/sections", hadith.Sections)
	api.GET("/hadith/collections/:collection/sections/:section", hadith.Section)
	api.GET("/hadith/editions", hadith.Editions)

	prayer := NewPrayerController(svc.Prayer, logger)
	api.GET("/prayer/today", prayer.Today)
	api.GET("/prayer/week", prayer.Week)
	api.GET("/prayer/qibla", prayer.Qibla)
	api.GET("/geocode", prayer.Geocode)

	library := NewContentController(svc.Library, logger)
	api.GET("/duas", library.Duas)
	api.GET("/duas/categories", library.Categories)
	api.GET("/duas/:id", library.Dua)
	api.GET("/fiqh", library.Articles)
	api.GET("/fiqh/:id", library.Article)
	api.GET("/reciters", library.Reciters)

	bookmarks := NewBookmarkController(svc.Bookmarks, logger)
	api.GET("/bookmarks", bookmarks.List)
	api.GET("/bookmarks/check", bookmarks.Check)
	api.POST("/bookmarks", bookmarks.Add)
	api.DELETE("/bookmarks/:id", bookmarks.Remove)

	settings := NewSettingsController(svc.Settings, svc.Library, logger)
	api.GET("/settings", settings.Get)
	api.PUT("/settings", settings.Put)
	api.PATCH("/settings", settings.Patch)

	player := NewPlaybackController(svc.Navigator, svc.Playback, svc.Remote, logger)
	api.GET("/view", player.Screen)
	api.DELETE("/view", player.Leave)
	api.POST("/view/surah/:number", player.OpenSurah)
	api.POST("/view/hadith/:collection/:section", player.OpenHadith)
	api.POST("/view/duas", player.OpenDuas)
	api.POST("/view/retry", player.Retry)
	api.GET("/playback", player.Snapshot)
	api.POST("/playback/verse", player.PlayVerse)
	api.POST("/playback/surah", player.PlaySurah)
	api.POST("/playback/dua/:id", player.PlayDua)
	api.POST("/playback/toggle", player.Toggle)
	api.POST("/playback/seek", player.Seek)
	api.POST("/playback/rate", player.Rate)
	api.POST("/playback/rate/cycle", player.CycleRate)
	api.POST("/playback/next", player.Next)
	api.POST("/playback/stop", player.Stop)
	router.GET("/ws/playback", player.Socket)

	ask := NewAssistantController(svc.Assistant, logger)
	api.POST("/assistant/ask", ask.Ask)

	return router
}

// observe records the request duration per route and logs it.
func observe(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), elapsed)
		logger.Debug("Request served",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed))
	}
}

// requestContext stores the negotiated localizer and the owner id.
func requestContext(cfg RouterConfig) gin.HandlerFunc {
	fallback := cfg.Language
	if fallback == "" {
		fallback = i18n.DefaultLanguage
	}

	return func(c *gin.Context) {
		lang := i18n.Match(c.GetHeader("Accept-Language"), fallback)
		c.Set(localizerKey, i18n.NewLocalizer(lang))

		owner := c.GetHeader(OwnerHeader)
		if owner == "" {
			owner = cfg.OwnerID
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}
