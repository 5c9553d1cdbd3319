package resolve

import (
	"strconv"
	"strings"

	"nur/internal/core"
)

// AudioURL derives a recitation URL by substituting {reciter} and {number}
// into template. Empty arguments fall back to the defaults. The URL is not
// checked; a dead link surfaces as a playback load error.
func AudioURL(template, reciter string, number int) string {
	if template == "" {
		template = core.DefaultVerseAudioTemplate
	}
	if reciter == "" {
		reciter = core.DefaultReciter
	}
	return strings.NewReplacer(
		"{reciter}", reciter,
		"{number}", strconv.Itoa(number),
	).Replace(template)
}
