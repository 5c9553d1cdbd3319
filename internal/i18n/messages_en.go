package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Error notices
	"error.resolution":  "Failed to load %s. Please try again.",
	"error.playback":    "Unable to play this recitation. Please try again.",
	"error.persistence": "Your change could not be saved. Please try again.",
	"error.not_found":   "We couldn't find what you were looking for.",
	"error.generic":     "Something went wrong. Please try again.",
	"error.bad_request": "The request was not understood: %s",

	// Assistant
	"assistant.unavailable":  "The assistant is not available right now.",
	"assistant.failed":       "I encountered an error while processing your request. Please try again later.",
	"assistant.rate_limited": "You are asking too quickly. Please wait %d seconds.",
	"assistant.empty":        "Please type a question first.",
	"assistant.too_long":     "Your question is too long. Please shorten it.",

	// Resource names used inside error notices
	"resource.surah":          "the Surah",
	"resource.chapters":       "the list of Surahs",
	"resource.hadith":         "the Hadith section",
	"resource.hadith_catalog": "the Hadith collections",
	"resource.prayer":         "prayer times",
	"resource.content":        "this content",

	// Prayer names
	"prayer.Fajr":     "Fajr",
	"prayer.Sunrise":  "Sunrise",
	"prayer.Duha":     "Duha",
	"prayer.Dhuhr":    "Dhuhr",
	"prayer.Asr":      "Asr",
	"prayer.Maghrib":  "Maghrib",
	"prayer.Isha":     "Isha",
	"prayer.Tahajjud": "Tahajjud",

	// Success notices
	"success.bookmark_added":   "Saved to your bookmarks.",
	"success.bookmark_removed": "Removed from your bookmarks.",
	"success.settings_saved":   "Settings saved.",
}
