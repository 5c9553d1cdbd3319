// Package i18n provides localised user-facing notices.
package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"nur/internal/core"
)

const (
	// DefaultLanguage is the fallback language when no translation is available
	DefaultLanguage = "en"
	// MalayMessages is Bahasa Melayu
	MalayMessages = "ms"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Malay})

// Localizer provides translation functionality
type Localizer struct {
	language string
	messages map[string]string
}

// NewLocalizer creates a new localizer for the specified language
func NewLocalizer(lang string) *Localizer {
	return &Localizer{
		language: lang,
		messages: getMessages(lang),
	}
}

// Language returns the language code the localizer serves.
func (l *Localizer) Language() string {
	return l.language
}

// T translates a message key, with optional parameters for formatting
func (l *Localizer) T(key string, args ...interface{}) string {
	if message, exists := l.messages[key]; exists {
		if len(args) > 0 {
			return fmt.Sprintf(message, args...)
		}
		return message
	}

	if l.language != DefaultLanguage {
		if fallbackMessage, exists := getMessages(DefaultLanguage)[key]; exists {
			if len(args) > 0 {
				return fmt.Sprintf(fallbackMessage, args...)
			}
			return fallbackMessage
		}
	}

	return key
}

// Notice returns the transient message shown to the user for err.
func (l *Localizer) Notice(err error) string {
	var resolutionErr *core.ResolutionError
	var playbackErr *core.PlaybackLoadError
	var persistErr *core.PersistenceError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &resolutionErr):
		return l.T("error.resolution", l.T("resource."+resourceKind(resolutionErr.Resource)))
	case errors.As(err, &playbackErr):
		return l.T("error.playback")
	case errors.As(err, &persistErr):
		return l.T("error.persistence")
	case errors.Is(err, core.ErrNotFound):
		return l.T("error.not_found")
	default:
		return l.T("error.generic")
	}
}

// resourceKind maps a resolution resource such as "surah 2" or
// "hadith bukhari/1" to its message key suffix.
func resourceKind(resource string) string {
	switch {
	case strings.HasPrefix(resource, "surah"):
		return "surah"
	case resource == "chapters":
		return "chapters"
	case strings.HasPrefix(resource, "hadith:"):
		return "hadith_catalog"
	case strings.HasPrefix(resource, "hadith"):
		return "hadith"
	case strings.HasPrefix(resource, "prayer"):
		return "prayer"
	default:
		return "content"
	}
}

// Match picks the best supported language for an Accept-Language header
// value, falling back to fallback when nothing matches.
func Match(acceptLanguage, fallback string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return GetSupportedLanguages()[index]
}

// GetSupportedLanguages returns list of supported language codes
func GetSupportedLanguages() []string {
	return []string{DefaultLanguage, MalayMessages}
}

func getMessages(lang string) map[string]string {
	switch lang {
	case MalayMessages:
		return malayMessages
	default:
		return englishMessages
	}
}
