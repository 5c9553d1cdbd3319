package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nur/internal/assistant"
	"nur/internal/core"
	"nur/internal/i18n"
	"nur/internal/navigator"
	"nur/internal/playback"
	"nur/internal/provider"
	"nur/internal/resolve"
	"nur/internal/store"
)

const (
	// OwnerHeader selects whose bookmarks and rate limit a request uses.
	OwnerHeader = "X-Owner-ID"

	localizerKey = "localizer"
	ownerKey     = "owner"
)

// --- Response Types ---

// ErrorResponse is the error body of every API failure. Error is already
// localised for display.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// MessageResponse is a localised success notice with optional data.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func localizer(c *gin.Context) *i18n.Localizer {
	if v, ok := c.Get(localizerKey); ok {
		if l, ok := v.(*i18n.Localizer); ok {
			return l
		}
	}
	return i18n.NewLocalizer(i18n.DefaultLanguage)
}

func ownerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: localizer(c).T("error.bad_request", detail),
		Code:  "bad_request",
	})
}

func respondNotice(c *gin.Context, status int, key string, data any) {
	c.JSON(status, MessageResponse{Message: localizer(c).T(key), Data: data})
}

// respondError maps err to a status code and a localised notice. Server-side
// failures are logged; client mistakes only at debug level.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, code, message := classify(localizer(c), err)

	var rateErr *assistant.RateLimitError
	if errors.As(err, &rateErr) {
		c.Header("Retry-After", strconv.Itoa(retrySeconds(rateErr)))
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	} else {
		logger.Debug("Request rejected",
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}

	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

func classify(loc *i18n.Localizer, err error) (status int, code, message string) {
	var (
		rateErr       *assistant.RateLimitError
		resolutionErr *core.ResolutionError
		playbackErr   *core.PlaybackLoadError
		persistErr    *core.PersistenceError
		fetchErr      *provider.FetchError
	)

	switch {
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests, "rate_limited", loc.T("assistant.rate_limited", retrySeconds(rateErr))
	case errors.Is(err, assistant.ErrEmptyQuestion):
		return http.StatusBadRequest, "empty_question", loc.T("assistant.empty")
	case errors.Is(err, assistant.ErrTooLong):
		return http.StatusBadRequest, "question_too_long", loc.T("assistant.too_long")
	case errors.Is(err, assistant.ErrNotConfigured):
		return http.StatusServiceUnavailable, "assistant_unavailable", loc.T("assistant.unavailable")
	case errors.Is(err, assistant.ErrEmptyAnswer):
		return http.StatusBadGateway, "assistant_failed", loc.T("assistant.failed")
	case errors.As(err, &resolutionErr):
		return http.StatusBadGateway, "resolution_failed", loc.Notice(err)
	case errors.As(err, &playbackErr):
		return http.StatusBadGateway, "playback_failed", loc.Notice(err)
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError, "persistence_failed", loc.Notice(err)
	case errors.Is(err, core.ErrNotFound), errors.Is(err, provider.ErrPlaceNotFound):
		return http.StatusNotFound, "not_found", loc.T("error.not_found")
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway, "upstream_failed", loc.T("error.resolution", loc.T("resource.content"))
	case errors.Is(err, playback.ErrNoRemoteClient):
		return http.StatusServiceUnavailable, "no_player", loc.T("error.playback")
	case errors.Is(err, store.ErrInvalidBookmark),
		errors.Is(err, playback.ErrInvalidRate),
		errors.Is(err, playback.ErrInvalidIndex),
		errors.Is(err, playback.ErrInvalidTrack),
		errors.Is(err, playback.ErrEmptySequence),
		errors.Is(err, navigator.ErrVerseOutOfRange):
		return http.StatusBadRequest, "invalid", loc.T("error.bad_request", err.Error())
	case errors.Is(err, navigator.ErrNoSurah),
		errors.Is(err, navigator.ErrNoAudio),
		errors.Is(err, navigator.ErrNothingToRetry):
		return http.StatusConflict, "conflict", loc.T("error.bad_request", err.Error())
	case errors.Is(err, resolve.ErrViewClosed), errors.Is(err, resolve.ErrSuperseded):
		return http.StatusConflict, "superseded", loc.T("error.generic")
	default:
		return http.StatusInternalServerError, "internal", loc.T("error.generic")
	}
}

func retrySeconds(err *assistant.RateLimitError) int {
	secs := int(math.Ceil(err.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// intParam parses a positive path parameter.
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 1 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}

// coordinates reads the lat and lng query parameters.
func coordinates(c *gin.Context) (lat, lng float64, ok bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil || math.IsNaN(lat) || math.IsNaN(lng) ||
		lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		respondBadRequest(c, "lat and lng must be valid coordinates")
		return 0, 0, false
	}
	return lat, lng, true
}
