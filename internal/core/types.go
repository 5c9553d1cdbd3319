package core

import (
	"context"
	"time"
)

// VerseRecord is one verse of a resolved surah. ArabicText is always set;
// the other texts are empty when their source could not be aligned.
type VerseRecord struct {
	GlobalID            int    `json:"globalId"`
	SurahNumber         int    `json:"surahNumber"`
	VerseNumber         int    `json:"verseNumber"`
	ArabicText          string `json:"arabicText"`
	TranslationText     string `json:"translationText,omitempty"`
	TransliterationText string `json:"transliterationText,omitempty"`
	CommentaryText      string `json:"commentaryText,omitempty"`
}

// Optional verse fields, as reported in Surah.Missing.
const (
	FieldTranslation     = "translation"
	FieldTransliteration = "transliteration"
	FieldCommentary      = "commentary"
	FieldArabic          = "arabic"
)

// Surah is the merged result of a composite surah fetch.
type Surah struct {
	Number  int           `json:"number"`
	Source  string        `json:"source"`
	Verses  []VerseRecord `json:"verses"`
	Missing []string      `json:"missing,omitempty"`
}

type Chapter struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	VerseCount             int    `json:"verseCount"`
	RevelationType         string `json:"revelationType"`
}

type HadithGrade struct {
	Scholar string `json:"scholar,omitempty"`
	Grade   string `json:"grade"`
}

// HadithRecord is fetched per section and never cached beyond the view that
// requested it. SectionNumber is zero for hadith fetched outside a section.
type HadithRecord struct {
	CollectionID  string        `json:"collectionId"`
	SectionNumber int           `json:"sectionNumber,omitempty"`
	HadithNumber  int           `json:"hadithNumber"`
	Text          string        `json:"text"`
	ArabicText    string        `json:"arabicText,omitempty"`
	Grades        []HadithGrade `json:"grades,omitempty"`
	Reference     string        `json:"reference"`
}

type HadithSection struct {
	CollectionID string         `json:"collectionId"`
	Number       int            `json:"number"`
	Name         string         `json:"name"`
	Records      []HadithRecord `json:"records"`
	Missing      []string       `json:"missing,omitempty"`
}

type HadithEdition struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	HasSections bool   `json:"hasSections"`
}

type HadithCollection struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Editions []HadithEdition `json:"editions"`
}

type HadithSectionInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type PrayerTime struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

type PrayerDay struct {
	Date    string       `json:"date"`
	Hijri   string       `json:"hijri,omitempty"`
	Method  string       `json:"method,omitempty"`
	Timings []PrayerTime `json:"timings"`
}

type Place struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"displayName"`
}

type BookmarkKind string

const (
	BookmarkQuran  BookmarkKind = "QURAN"
	BookmarkDua    BookmarkKind = "DUA"
	BookmarkHadith BookmarkKind = "HADITH"
)

// Valid reports whether k is one of the known bookmark kinds.
func (k BookmarkKind) Valid() bool {
	switch k {
	case BookmarkQuran, BookmarkDua, BookmarkHadith:
		return true
	}
	return false
}

type Bookmark struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"ownerId"`
	Kind        BookmarkKind `json:"kind"`
	ReferenceID string       `json:"referenceId"`
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle,omitempty"`
	ArabicText  string       `json:"arabicText,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type Settings struct {
	ArabicFontSize      int    `json:"arabicFontSize"`
	TranslationFontSize int    `json:"translationFontSize"`
	FontFamily          string `json:"fontFamily"`
	ShowTranslation     bool   `json:"showTranslation"`
	ShowTransliteration bool   `json:"showTransliteration"`
	Theme               string `json:"theme"`
	ReciterID           string `json:"reciterId"`
}

func DefaultSettings() Settings {
	return Settings{
		ArabicFontSize:      32,
		TranslationFontSize: 16,
		FontFamily:          "Amiri",
		ShowTranslation:     true,
		ShowTransliteration: false,
		Theme:               "light",
		ReciterID:           DefaultReciter,
	}
}

// SettingsPatch is a merge-patch over Settings; nil fields are left untouched.
type SettingsPatch struct {
	ArabicFontSize      *int    `json:"arabicFontSize,omitempty"`
	TranslationFontSize *int    `json:"translationFontSize,omitempty"`
	FontFamily          *string `json:"fontFamily,omitempty"`
	ShowTranslation     *bool   `json:"showTranslation,omitempty"`
	ShowTransliteration *bool   `json:"showTransliteration,omitempty"`
	Theme               *string `json:"theme,omitempty"`
	ReciterID           *string `json:"reciterId,omitempty"`
}

// Apply returns s with every non-nil patch field copied over.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.ArabicFontSize != nil {
		s.ArabicFontSize = *p.ArabicFontSize
	}
	if p.TranslationFontSize != nil {
		s.TranslationFontSize = *p.TranslationFontSize
	}
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.ShowTranslation != nil {
		s.ShowTranslation = *p.ShowTranslation
	}
	if p.ShowTransliteration != nil {
		s.ShowTransliteration = *p.ShowTransliteration
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.ReciterID != nil {
		s.ReciterID = *p.ReciterID
	}
	return s
}

// BookmarkGateway persists saved references. Concurrent writers get
// last-write-wins semantics.
type BookmarkGateway interface {
	// ListBookmarks returns the owner's bookmarks, newest first. An empty
	// kind lists every kind.
	ListBookmarks(ctx context.Context, ownerID string, kind BookmarkKind) ([]Bookmark, error)
	AddBookmark(ctx context.Context, b Bookmark) (Bookmark, error)
	RemoveBookmark(ctx context.Context, id string) error
}

type SettingsGateway interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// Assistant answers one free-form question per call; it keeps no history.
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
}
