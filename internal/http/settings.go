package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nur/internal/core"
)

type SettingsController struct {
	store    SettingsStore
	reciters Library
	logger   *zap.Logger
}

func NewSettingsController(store SettingsStore, reciters Library, logger *zap.Logger) *SettingsController {
	return &SettingsController{store: store, reciters: reciters, logger: logger}
}

func (s *SettingsController) Get(c *gin.Context) {
	settings, err := s.store.LoadSettings(c.Request.Context())
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Put replaces the settings. Fields missing from the body keep their
// default values.
func (s *SettingsController) Put(c *gin.Context) {
	settings := core.DefaultSettings()
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if msg := s.validate(settings); msg != "" {
		respondBadRequest(c, msg)
		return
	}

	if err := s.store.SaveSettings(c.Request.Context(), settings); err != nil {
		respondError(c, s.logger, err)
		return
	}
	respondNotice(c, http.StatusOK, "success.settings_saved", settings)
}

// Patch merges the given fields into the stored settings.
func (s *SettingsController) Patch(c *gin.Context) {
	var patch core.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if msg := s.validate(patch.Apply(core.DefaultSettings())); msg != "" {
		respondBadRequest(c, msg)
		return
	}

	settings, err := s.store.PatchSettings(c.Request.Context(), patch)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	respondNotice(c, http.StatusOK, "success.settings_saved", settings)
}

func (s *SettingsController) validate(settings core.Settings) string {
	switch {
	case settings.ArabicFontSize <= 0 || settings.TranslationFontSize <= 0:
		return "font sizes must be positive"
	case settings.ReciterID == "":
		return "reciterId must not be empty"
	}
	if _, err := s.reciters.Reciter(settings.ReciterID); err != nil {
		return fmt.Sprintf("unknown reciterId %q", settings.ReciterID)
	}
	return ""
}
