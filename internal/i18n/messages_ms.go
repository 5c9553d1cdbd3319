package i18n

// malayMessages contains all Bahasa Melayu translations.
var malayMessages = map[string]string{
	// Error notices
	"error.resolution":  "Gagal memuatkan %s. Sila cuba lagi.",
	"error.playback":    "Bacaan ini tidak dapat dimainkan. Sila cuba lagi.",
	"error.persistence": "Perubahan anda tidak dapat disimpan. Sila cuba lagi.",
	"error.not_found":   "Kami tidak menemui apa yang anda cari.",
	"error.generic":     "Berlaku masalah. Sila cuba lagi.",
	"error.bad_request": "Permintaan tidak difahami: %s",

	// Assistant
	"assistant.unavailable":  "Pembantu tidak tersedia buat masa ini.",
	"assistant.failed":       "Berlaku ralat semasa memproses permintaan anda. Sila cuba sebentar lagi.",
	"assistant.rate_limited": "Anda bertanya terlalu cepat. Sila tunggu %d saat.",
	"assistant.empty":        "Sila taip soalan terlebih dahulu.",
	"assistant.too_long":     "Soalan anda terlalu panjang. Sila ringkaskan.",

	// Resource names used inside error notices
	"resource.surah":          "Surah",
	"resource.chapters":       "senarai Surah",
	"resource.hadith":         "bahagian Hadis",
	"resource.hadith_catalog": "koleksi Hadis",
	"resource.prayer":         "waktu solat",
	"resource.content":        "kandungan ini",

	// Prayer names
	"prayer.Fajr":     "Subuh",
	"prayer.Sunrise":  "Syuruk",
	"prayer.Duha":     "Dhuha",
	"prayer.Dhuhr":    "Zohor",
	"prayer.Asr":      "Asar",
	"prayer.Maghrib":  "Maghrib",
	"prayer.Isha":     "Isyak",
	"prayer.Tahajjud": "Tahajjud",

	// Success notices
	"success.bookmark_added":   "Disimpan ke penanda buku anda.",
	"success.bookmark_removed": "Dibuang daripada penanda buku anda.",
	"success.settings_saved":   "Tetapan disimpan.",
}
