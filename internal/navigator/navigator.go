// Package navigator is the controller behind the screens: it owns the view
// currently on display and ties playback to it, so leaving a screen discards
// its pending fetch and stops audio that belongs to it.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"nur/internal/content"
	"nur/internal/core"
	"nur/internal/playback"
	"nur/internal/resolve"
)

var (
	ErrNoSurah         = errors.New("no surah on screen")
	ErrVerseOutOfRange = errors.New("verse out of range")
	ErrNoAudio         = errors.New("no audio for this item")
	ErrNothingToRetry  = errors.New("current screen has nothing to retry")
)

type ScreenKind string

const (
	ScreenNone   ScreenKind = "NONE"
	ScreenSurah  ScreenKind = "SURAH"
	ScreenHadith ScreenKind = "HADITH"
	ScreenDuas   ScreenKind = "DUAS"
)

// Screen identifies what is on display.
type Screen struct {
	Kind       ScreenKind `json:"kind"`
	Surah      int        `json:"surah,omitempty"`
	Collection string     `json:"collection,omitempty"`
	Section    int        `json:"section,omitempty"`
	Category   string     `json:"category,omitempty"`
}

type SurahLoader interface {
	Resolve(ctx context.Context, number int) (*core.Surah, error)
}

type HadithLoader interface {
	Section(ctx context.Context, collection string, section int) (*core.HadithSection, error)
}

type DuaSource interface {
	Duas(category string) []content.Dua
	Dua(id string) (content.Dua, error)
}

// Player is the part of the playback engine the navigator drives.
type Player interface {
	Play(track playback.Track, mode playback.Mode) error
	PlaySequence(tracks []playback.Track, start int) error
	StopIfActive(ids ...string)
}

type Navigator struct {
	surahs   SurahLoader
	hadith   HadithLoader
	duas     DuaSource
	player   Player
	settings core.SettingsGateway
	audio    core.AudioConfig
	logger   *zap.Logger

	mu         sync.Mutex
	screen     Screen
	surahView  *resolve.View[*core.Surah]
	hadithView *resolve.View[*core.HadithSection]
	// bound lists the track ids that belong to the current screen.
	bound []string
}

func New(
	surahs SurahLoader,
	hadith HadithLoader,
	duas DuaSource,
	player Player,
	settings core.SettingsGateway,
	audio core.AudioConfig,
	logger *zap.Logger,
) *Navigator {
	return &Navigator{
		surahs:   surahs,
		hadith:   hadith,
		duas:     duas,
		player:   player,
		settings: settings,
		audio:    audio,
		logger:   logger.Named("navigator"),
		screen:   Screen{Kind: ScreenNone},
	}
}

// VerseTrackID names the recitation track of one verse.
func VerseTrackID(surah, verse int) string {
	return fmt.Sprintf("quran:%d:%d", surah, verse)
}

// DuaTrackID names the audio track of one dua.
func DuaTrackID(id string) string {
	return "dua:" + id
}

func (n *Navigator) Current() Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.screen
}

// OpenSurah leaves the current screen and loads surah number.
func (n *Navigator) OpenSurah(ctx context.Context, number int) (*core.Surah, error) {
	view := resolve.NewView(func(ctx context.Context) (*core.Surah, error) {
		return n.surahs.Resolve(ctx, number)
	})

	n.mu.Lock()
	stale := n.leaveLocked()
	n.screen = Screen{Kind: ScreenSurah, Surah: number}
	n.surahView = view
	n.mu.Unlock()
	n.stop(stale)

	return n.loadSurah(ctx, view)
}

// OpenHadith leaves the current screen and loads one hadith section.
func (n *Navigator) OpenHadith(ctx context.Context, collection string, section int) (*core.HadithSection, error) {
	view := resolve.NewView(func(ctx context.Context) (*core.HadithSection, error) {
		return n.hadith.Section(ctx, collection, section)
	})

	n.mu.Lock()
	stale := n.leaveLocked()
	n.screen = Screen{Kind: ScreenHadith, Collection: collection, Section: section}
	n.hadithView = view
	n.mu.Unlock()
	n.stop(stale)

	return view.Load(ctx)
}

// OpenDuas leaves the current screen and lists the duas of category.
func (n *Navigator) OpenDuas(category string) []content.Dua {
	duas := n.duas.Duas(category)

	n.mu.Lock()
	stale := n.leaveLocked()
	n.screen = Screen{Kind: ScreenDuas, Category: category}
	for _, d := range duas {
		n.bound = append(n.bound, DuaTrackID(d.ID))
	}
	n.mu.Unlock()
	n.stop(stale)

	return duas
}

// Leave closes the current screen.
func (n *Navigator) Leave() {
	n.mu.Lock()
	stale := n.leaveLocked()
	n.screen = Screen{Kind: ScreenNone}
	n.mu.Unlock()
	n.stop(stale)
}

// Retry re-runs the whole fetch behind the current screen.
func (n *Navigator) Retry(ctx context.Context) (any, error) {
	n.mu.Lock()
	kind := n.screen.Kind
	surahView, hadithView := n.surahView, n.hadithView
	n.mu.Unlock()

	switch {
	case kind == ScreenSurah && surahView != nil:
		return n.loadSurah(ctx, surahView)
	case kind == ScreenHadith && hadithView != nil:
		return hadithView.Retry(ctx)
	default:
		return nil, ErrNothingToRetry
	}
}

// PlayVerse recites one verse of the surah on screen.
func (n *Navigator) PlayVerse(ctx context.Context, verse int) error {
	surah, err := n.currentSurah()
	if err != nil {
		return err
	}
	if verse < 1 || verse > len(surah.Verses) {
		return fmt.Errorf("%w: %d of %d", ErrVerseOutOfRange, verse, len(surah.Verses))
	}

	return n.player.Play(n.verseTrack(surah.Verses[verse-1], n.reciter(ctx)), playback.ModeSingle)
}

// PlaySurah recites the surah on screen from verse onwards, continuing
// through every following verse.
func (n *Navigator) PlaySurah(ctx context.Context, verse int) error {
	surah, err := n.currentSurah()
	if err != nil {
		return err
	}
	if verse < 1 || verse > len(surah.Verses) {
		return fmt.Errorf("%w: %d of %d", ErrVerseOutOfRange, verse, len(surah.Verses))
	}

	reciter := n.reciter(ctx)
	tracks := make([]playback.Track, 0, len(surah.Verses))
	for _, v := range surah.Verses {
		tracks = append(tracks, n.verseTrack(v, reciter))
	}
	return n.player.PlaySequence(tracks, verse-1)
}

// PlayDua plays the audio of one dua.
func (n *Navigator) PlayDua(id string) error {
	dua, err := n.duas.Dua(id)
	if err != nil {
		return err
	}
	if dua.AudioURL == "" {
		return fmt.Errorf("dua %s: %w", id, ErrNoAudio)
	}
	return n.player.Play(playback.Track{ID: DuaTrackID(dua.ID), URL: dua.AudioURL, Title: dua.Title}, playback.ModeSingle)
}

func (n *Navigator) loadSurah(ctx context.Context, view *resolve.View[*core.Surah]) (*core.Surah, error) {
	surah, err := view.Load(ctx)
	if err != nil {
		return nil, err
	}

	bound := make([]string, 0, len(surah.Verses))
	for _, v := range surah.Verses {
		bound = append(bound, VerseTrackID(v.SurahNumber, v.VerseNumber))
	}

	n.mu.Lock()
	if n.surahView == view {
		n.bound = bound
	}
	n.mu.Unlock()
	return surah, nil
}

func (n *Navigator) currentSurah() (*core.Surah, error) {
	n.mu.Lock()
	view := n.surahView
	n.mu.Unlock()

	if view == nil {
		return nil, ErrNoSurah
	}
	surah, ok, err := view.Result()
	if !ok || err != nil || surah == nil {
		return nil, ErrNoSurah
	}
	return surah, nil
}

func (n *Navigator) verseTrack(v core.VerseRecord, reciter string) playback.Track {
	return playback.Track{
		ID:    VerseTrackID(v.SurahNumber, v.VerseNumber),
		URL:   resolve.AudioURL(n.audio.VerseURLTemplate, reciter, v.GlobalID),
		Title: fmt.Sprintf("%d:%d", v.SurahNumber, v.VerseNumber),
	}
}

func (n *Navigator) reciter(ctx context.Context) string {
	if n.settings != nil {
		s, err := n.settings.LoadSettings(ctx)
		if err == nil && s.ReciterID != "" {
			return s.ReciterID
		}
		if err != nil {
			n.logger.Warn("Falling back to default reciter", zap.Error(err))
		}
	}
	return n.audio.DefaultReciter
}

// leaveLocked closes the views of the current screen, discarding any fetch
// still in flight, and returns the track ids that were bound to it.
func (n *Navigator) leaveLocked() []string {
	if n.surahView != nil {
		n.surahView.Close()
		n.surahView = nil
	}
	if n.hadithView != nil {
		n.hadithView.Close()
		n.hadithView = nil
	}
	bound := n.bound
	n.bound = nil
	return bound
}

// stop ends playback of any track that belonged to a screen just left.
// It runs outside n.mu because engine subscribers may call back in.
func (n *Navigator) stop(ids []string) {
	if len(ids) > 0 {
		n.player.StopIfActive(ids...)
	}
}
