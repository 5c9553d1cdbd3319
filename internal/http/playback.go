package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nur/internal/content"
	"nur/internal/core"
	"nur/internal/navigator"
	"nur/internal/playback"
)

type Navigator interface {
	Current() navigator.Screen
	OpenSurah(ctx context.Context, number int) (*core.Surah, error)
	OpenHadith(ctx context.Context, collection string, section int) (*core.HadithSection, error)
	OpenDuas(category string) []content.Dua
	Leave()
	Retry(ctx context.Context) (any, error)
	PlayVerse(ctx context.Context, verse int) error
	PlaySurah(ctx context.Context, verse int) error
	PlayDua(id string) error
}

// PlaybackControl is the part of the engine driven directly by the API.
type PlaybackControl interface {
	Snapshot() playback.Session
	TogglePlay()
	Seek(seconds float64)
	SetRate(rate float64) error
	CycleRate()
	Stop()
	Next()
}

// RemotePlayer serves the browser side of the audio transport.
type RemotePlayer interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
}

type PlaybackController struct {
	navigator Navigator
	player    PlaybackControl
	remote    RemotePlayer
	logger    *zap.Logger
}

func NewPlaybackController(nav Navigator, player PlaybackControl, remote RemotePlayer, logger *zap.Logger) *PlaybackController {
	return &PlaybackController{navigator: nav, player: player, remote: remote, logger: logger}
}

// SessionResponse is the playback session plus the notice for a failed load.
type SessionResponse struct {
	playback.Session
	Notice string `json:"notice,omitempty"`
}

type screenResponse struct {
	Screen navigator.Screen `json:"screen"`
	Data   any              `json:"data,omitempty"`
}

type verseRequest struct {
	Verse int `json:"verse"`
}

type seekRequest struct {
	Position *float64 `json:"position" binding:"required"`
}

type rateRequest struct {
	Rate float64 `json:"rate" binding:"required"`
}

func (p *PlaybackController) Screen(c *gin.Context) {
	c.JSON(http.StatusOK, screenResponse{Screen: p.navigator.Current()})
}

// Leave closes the current screen and stops audio that belongs to it.
func (p *PlaybackController) Leave(c *gin.Context) {
	p.navigator.Leave()
	c.Status(http.StatusNoContent)
}

func (p *PlaybackController) OpenSurah(c *gin.Context) {
	number, ok := surahNumber(c)
	if !ok {
		return
	}

	surah, err := p.navigator.OpenSurah(c.Request.Context(), number)
	if err != nil {
		respondError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, screenResponse{Screen: p.navigator.Current(), Data: surah})
}

func (p *PlaybackController) OpenHadith(c *gin.Context) {
	section, err := strconv.Atoi(c.Param("section"))
	if err != nil || section < 0 {
		respondBadRequest(c, "invalid section")
		return
	}

	data, err := p.navigator.OpenHadith(c.Request.Context(), c.Param("collection"), section)
	if err != nil {
		respondError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, screenResponse{Screen: p.navigator.Current(), Data: data})
}

func (p *PlaybackController) OpenDuas(c *gin.Context) {
	duas := p.navigator.OpenDuas(c.Query("category"))
	if duas == nil {
		duas = []content.Dua{}
	}
	c.JSON(http.StatusOK, screenResponse{Screen: p.navigator.Current(), Data: duas})
}

// Retry reloads the screen after a failed fetch.
func (p *PlaybackController) Retry(c *gin.Context) {
	data, err := p.navigator.Retry(c.Request.Context())
	if err != nil {
		respondError(c, p.logger, err)
		return
	}
	c.JSON(http.StatusOK, screenResponse{Screen: p.navigator.Current(), Data: data})
}

func (p *PlaybackController) Snapshot(c *gin.Context) {
	p.respondSession(c)
}

// PlayVerse plays one verse of the open surah; playing the active verse
// again toggles it.
func (p *PlaybackController) PlayVerse(c *gin.Context) {
	var req verseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := p.navigator.PlayVerse(c.Request.Context(), req.Verse); err != nil {
		respondError(c, p.logger, err)
		return
	}
	p.respondSession(c)
}

// PlaySurah plays the open surah from the given verse, or from the start.
func (p *PlaybackController) PlaySurah(c *gin.Context) {
	req := verseRequest{Verse: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
	}
	if err := p.navigator.PlaySurah(c.Request.Context(), req.Verse); err != nil {
		respondError(c, p.logger, err)
		return
	}
	p.respondSession(c)
}

func (p *PlaybackController) PlayDua(c *gin.Context) {
	if err := p.navigator.PlayDua(c.Param("id")); err != nil {
		respondError(c, p.logger, err)
		return
	}
	p.respondSession(c)
}

func (p *PlaybackController) Toggle(c *gin.Context) {
	p.player.TogglePlay()
	p.respondSession(c)
}

func (p *PlaybackController) Seek(c *gin.Context) {
	var req seekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	p.player.Seek(*req.Position)
	p.respondSession(c)
}

func (p *PlaybackController) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := p.player.SetRate(req.Rate); err != nil {
		respondError(c, p.logger, err)
		return
	}
	p.respondSession(c)
}

func (p *PlaybackController) CycleRate(c *gin.Context) {
	p.player.CycleRate()
	p.respondSession(c)
}

func (p *PlaybackController) Next(c *gin.Context) {
	p.player.Next()
	p.respondSession(c)
}

func (p *PlaybackController) Stop(c *gin.Context) {
	p.player.Stop()
	p.respondSession(c)
}

// Socket attaches a browser audio client. It also receives every session
// change.
func (p *PlaybackController) Socket(c *gin.Context) {
	if err := p.remote.ServeWS(c.Writer, c.Request); err != nil {
		p.logger.Warn("Websocket upgrade failed", zap.Error(err))
	}
}

func (p *PlaybackController) respondSession(c *gin.Context) {
	session := p.player.Snapshot()
	resp := SessionResponse{Session: session}
	if session.Err != nil {
		resp.Notice = localizer(c).Notice(session.Err)
	}
	c.JSON(http.StatusOK, resp)
}
