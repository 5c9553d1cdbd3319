package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"nur/internal/core"
	"nur/internal/metrics"
	"nur/internal/provider"
)

const (
	catalogCacheSize  = 256
	chaptersKey       = "chapters"
	hadithEditionsKey = "hadith:editions"
	hadithSectionsKey = "hadith:sections:"
	chaptersPrimary   = provider.AlQuranCloudName
	chaptersSecondary = provider.QuranComName
)

// ChapterSource lists surahs.
type ChapterSource interface {
	Chapters(ctx context.Context) ([]core.Chapter, error)
}

// HadithCatalogSource lists hadith editions and the named sections of a collection.
type HadithCatalogSource interface {
	Editions(ctx context.Context, minified bool) ([]core.HadithCollection, error)
	Sections(ctx context.Context, collection string, minified bool) ([]core.HadithSectionInfo, error)
}

// Catalog caches slow-changing listings. Hadith text itself never goes
// through here.
type Catalog struct {
	primary  ChapterSource
	fallback ChapterSource
	hadith   HadithCatalogSource
	cache    *expirable.LRU[string, any]
	group    singleflight.Group
	// loadTimeout bounds a shared load, which outlives any single caller.
	loadTimeout time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewCatalog creates a catalogue whose entries expire after ttl. fallback may
// be nil. A non-positive loadTimeout leaves shared loads unbounded.
func NewCatalog(
	primary, fallback ChapterSource,
	hadith HadithCatalogSource,
	ttl, loadTimeout time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Catalog {
	return &Catalog{
		primary:     primary,
		fallback:    fallback,
		hadith:      hadith,
		cache:       expirable.NewLRU[string, any](catalogCacheSize, nil, ttl),
		loadTimeout: loadTimeout,
		logger:      logger.Named("catalog"),
		metrics:     m,
	}
}

// Chapters returns the surah list from the first provider that answers.
func (c *Catalog) Chapters(ctx context.Context) ([]core.Chapter, error) {
	return cached(ctx, c, chaptersKey, func(ctx context.Context) ([]core.Chapter, error) {
		strategies := []Strategy[[]core.Chapter]{{Name: chaptersPrimary, Run: c.primary.Chapters}}
		if c.fallback != nil {
			strategies = append(strategies, Strategy[[]core.Chapter]{Name: chaptersSecondary, Run: c.fallback.Chapters})
		}
		chapters, _, err := FirstSuccess(ctx, chaptersKey, strategies, c.logger, c.metrics)
		return chapters, err
	})
}

// Chapter returns a single surah's metadata.
func (c *Catalog) Chapter(ctx context.Context, number int) (*core.Chapter, error) {
	chapters, err := c.Chapters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range chapters {
		if chapters[i].Number == number {
			return &chapters[i], nil
		}
	}
	return nil, fmt.Errorf("surah %d: %w", number, core.ErrNotFound)
}

func (c *Catalog) HadithEditions(ctx context.Context) ([]core.HadithCollection, error) {
	return cached(ctx, c, hadithEditionsKey, func(ctx context.Context) ([]core.HadithCollection, error) {
		collections, _, err := FirstSuccess(ctx, hadithEditionsKey, minifiedStrategies(func(ctx context.Context, minified bool) ([]core.HadithCollection, error) {
			return c.hadith.Editions(ctx, minified)
		}), c.logger, c.metrics)
		return collections, err
	})
}

func (c *Catalog) HadithSections(ctx context.Context, collection string) ([]core.HadithSectionInfo, error) {
	key := hadithSectionsKey + collection
	return cached(ctx, c, key, func(ctx context.Context) ([]core.HadithSectionInfo, error) {
		sections, _, err := FirstSuccess(ctx, key, minifiedStrategies(func(ctx context.Context, minified bool) ([]core.HadithSectionInfo, error) {
			return c.hadith.Sections(ctx, collection, minified)
		}), c.logger, c.metrics)
		return sections, err
	})
}

// Purge drops every cached listing.
func (c *Catalog) Purge() {
	c.cache.Purge()
}

func minifiedStrategies[T any](fetch func(ctx context.Context, minified bool) (T, error)) []Strategy[T] {
	return []Strategy[T]{
		{Name: "json", Run: func(ctx context.Context) (T, error) { return fetch(ctx, false) }},
		{Name: "min.json", Run: func(ctx context.Context) (T, error) { return fetch(ctx, true) }},
	}
}

// cached serves key from the cache, collapsing concurrent loads into one.
// The shared load ignores the cancellation of whichever caller started it;
// each caller still stops waiting when its own ctx ends. Failures are not
// cached.
func cached[T any](ctx context.Context, c *Catalog, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.cache.Get(key); ok {
		return v.(T), nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		loadCtx := context.WithoutCancel(ctx)
		if c.loadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, c.loadTimeout)
			defer cancel()
		}
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
