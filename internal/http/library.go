package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nur/internal/resolve"
)

// QuranController serves the surah catalogue and resolved surahs.
type QuranController struct {
	catalog Catalog
	surahs  SurahResolver
	library Library
	logger  *zap.Logger
}

func NewQuranController(catalog Catalog, surahs SurahResolver, library Library, logger *zap.Logger) *QuranController {
	return &QuranController{catalog: catalog, surahs: surahs, library: library, logger: logger}
}

// List returns every surah, or the matches for ?q=.
func (q *QuranController) List(c *gin.Context) {
	chapters, err := q.catalog.Chapters(c.Request.Context())
	if err != nil {
		respondError(c, q.logger, err)
		return
	}

	if query := strings.TrimSpace(c.Query("q")); query != "" {
		chapters = q.library.SearchChapters(chapters, query)
	}
	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

func (q *QuranController) Get(c *gin.Context) {
	number, ok := surahNumber(c)
	if !ok {
		return
	}

	surah, err := q.surahs.Resolve(c.Request.Context(), number)
	if err != nil {
		respondError(c, q.logger, err)
		return
	}
	c.JSON(http.StatusOK, surah)
}

func (q *QuranController) Info(c *gin.Context) {
	number, ok := surahNumber(c)
	if !ok {
		return
	}

	chapter, err := q.catalog.Chapter(c.Request.Context(), number)
	if err != nil {
		respondError(c, q.logger, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func surahNumber(c *gin.Context) (int, bool) {
	number, ok := intParam(c, "number")
	if !ok {
		return 0, false
	}
	if number > resolve.SurahCount {
		respondBadRequest(c, "surah number must be between 1 and "+strconv.Itoa(resolve.SurahCount))
		return 0, false
	}
	return number, true
}

// HadithController serves hadith collections, their sections and section
// contents.
type HadithController struct {
	catalog Catalog
	hadith  HadithResolver
	library Library
	logger  *zap.Logger
}

func NewHadithController(catalog Catalog, hadith HadithResolver, library Library, logger *zap.Logger) *HadithController {
	return &HadithController{catalog: catalog, hadith: hadith, library: library, logger: logger}
}

// Collections lists the curated collections shown on the hadith landing page.
func (h *HadithController) Collections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"collections": h.library.Collections()})
}

func (h *HadithController) Collection(c *gin.Context) {
	collection, err := h.library.Collection(c.Param("collection"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// Editions lists every edition the hadith provider offers.
func (h *HadithController) Editions(c *gin.Context) {
	editions, err := h.catalog.HadithEditions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": editions})
}

func (h *HadithController) Sections(c *gin.Context) {
	sections, err := h.catalog.HadithSections(c.Request.Context(), c.Param("collection"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

func (h *HadithController) Section(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("section"))
	if err != nil || number < 0 {
		respondBadRequest(c, "invalid section")
		return
	}

	section, err := h.hadith.Section(c.Request.Context(), c.Param("collection"), number)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// PrayerController serves prayer times, the qibla bearing and place lookup.
type PrayerController struct {
	prayer PrayerResolver
	logger *zap.Logger
}

func NewPrayerController(prayer PrayerResolver, logger *zap.Logger) *PrayerController {
	return &PrayerController{prayer: prayer, logger: logger}
}

func (p *PrayerController) Today(c *gin.Context) {
	lat, lng, ok := coordinates(c)
	if !ok {
		return
	}

	day, err := p.prayer.Today(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (p *PrayerController) Week(c *gin.Context) {
	lat, lng, ok := coordinates(c)
	if !ok {
		return
	}

	days, err := p.prayer.Week(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (p *PrayerController) Qibla(c *gin.Context) {
	lat, lng, ok := coordinates(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"bearing": resolve.Qibla(lat, lng)})
}

func (p *PrayerController) Geocode(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}

	place, err := p.prayer.Geocode(c.Request.Context(), query)
	if err != nil {
		respondError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

// ContentController serves the bundled duas, fiqh articles and reciters.
type ContentController struct {
	library Library
	logger  *zap.Logger
}

func NewContentController(library Library, logger *zap.Logger) *ContentController {
	return &ContentController{library: library, logger: logger}
}

// Duas lists duas, filtered by ?category= or searched with ?q=.
func (ct *ContentController) Duas(c *gin.Context) {
	if query := strings.TrimSpace(c.Query("q")); query != "" {
		c.JSON(http.StatusOK, gin.H{"duas": ct.library.SearchDuas(query)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"duas": ct.library.Duas(c.Query("category"))})
}

func (ct *ContentController) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": ct.library.Categories()})
}

func (ct *ContentController) Dua(c *gin.Context) {
	dua, err := ct.library.Dua(c.Param("id"))
	if err != nil {
		respondError(c, ct.logger, err)
		return
	}
	c.JSON(http.StatusOK, dua)
}

func (ct *ContentController) Articles(c *gin.Context) {
	if query := strings.TrimSpace(c.Query("q")); query != "" {
		c.JSON(http.StatusOK, gin.H{"articles": ct.library.SearchFiqh(query)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": ct.library.FiqhArticles()})
}

func (ct *ContentController) Article(c *gin.Context) {
	article, err := ct.library.FiqhArticle(c.Param("id"))
	if err != nil {
		respondError(c, ct.logger, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (ct *ContentController) Reciters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reciters": ct.library.Reciters()})
}
