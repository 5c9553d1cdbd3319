package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nur/internal/content"
	"nur/internal/core"
	"nur/internal/metrics"
	"nur/internal/navigator"
	"nur/internal/playback"
)

func setupTestRouter(t *testing.T, svc Services) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if svc.Library == nil {
		svc.Library = content.NewLibrary()
	}
	m := metrics.New()
	router := NewRouter(RouterConfig{Language: "en", OwnerID: "local", Version: "test"}, svc, zap.NewNop(), m)
	return router, m
}

// serve sends one request; headers are given as name, value pairs.
func serve(router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

var testChapters = []core.Chapter{
	{Number: 1, Name: "الفاتحة", EnglishName: "Al-Faatiha", EnglishNameTranslation: "The Opening", VerseCount: 7, RevelationType: "Meccan"},
	{Number: 2, Name: "البقرة", EnglishName: "Al-Baqara", EnglishNameTranslation: "The Cow", VerseCount: 286, RevelationType: "Medinan"},
	{Number: 112, Name: "الإخلاص", EnglishName: "Al-Ikhlaas", EnglishNameTranslation: "Sincerity", VerseCount: 4, RevelationType: "Meccan"},
}

type fakeCatalog struct {
	err error
}

func (f *fakeCatalog) Chapters(context.Context) ([]core.Chapter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return testChapters, nil
}

func (f *fakeCatalog) Chapter(_ context.Context, number int) (*core.Chapter, error) {
	for i := range testChapters {
		if testChapters[i].Number == number {
			return &testChapters[i], nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeCatalog) HadithEditions(context.Context) ([]core.HadithCollection, error) {
	return []core.HadithCollection{{
		ID:       "bukhari",
		Name:     "Sahih al Bukhari",
		Editions: []core.HadithEdition{{Name: "eng-bukhari", Language: "English", HasSections: true}},
	}}, nil
}

func (f *fakeCatalog) HadithSections(_ context.Context, collection string) ([]core.HadithSectionInfo, error) {
	if collection != "bukhari" {
		return nil, &core.ResolutionError{Resource: "hadith:sections:" + collection, Reason: "all strategies failed"}
	}
	return []core.HadithSectionInfo{{Number: 1, Name: "Revelation"}, {Number: 2, Name: "Belief"}}, nil
}

type fakeSurahs struct {
	err error
}

func (f *fakeSurahs) Resolve(_ context.Context, number int) (*core.Surah, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &core.Surah{
		Number: number,
		Source: "alquran.cloud",
		Verses: []core.VerseRecord{{GlobalID: 1, SurahNumber: number, VerseNumber: 1, ArabicText: "بِسْمِ"}},
	}, nil
}

type hadithFunc func(ctx context.Context, collection string, section int) (*core.HadithSection, error)

func (f hadithFunc) Section(ctx context.Context, collection string, section int) (*core.HadithSection, error) {
	return f(ctx, collection, section)
}

type fakePrayer struct {
	err      error
	place    *core.Place
	placeErr error
}

func (f *fakePrayer) Today(context.Context, float64, float64) (*core.PrayerDay, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &core.PrayerDay{Date: "01-03-2025", Timings: []core.PrayerTime{{Name: "Fajr", Time: "05:12"}}}, nil
}

func (f *fakePrayer) Week(context.Context, float64, float64) ([]core.PrayerDay, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]core.PrayerDay, 7), nil
}

func (f *fakePrayer) Geocode(context.Context, string) (*core.Place, error) {
	return f.place, f.placeErr
}

// fakeNavigator records what the API asked it to do.
type fakeNavigator struct {
	mu     sync.Mutex
	screen navigator.Screen
	err    error
	calls  []string
}

func (f *fakeNavigator) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeNavigator) Current() navigator.Screen {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screen
}

func (f *fakeNavigator) OpenSurah(_ context.Context, number int) (*core.Surah, error) {
	if err := f.record("open surah"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.screen = navigator.Screen{Kind: navigator.ScreenSurah, Surah: number}
	f.mu.Unlock()
	return &core.Surah{Number: number}, nil
}

func (f *fakeNavigator) OpenHadith(_ context.Context, collection string, section int) (*core.HadithSection, error) {
	if err := f.record("open hadith"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.screen = navigator.Screen{Kind: navigator.ScreenHadith, Collection: collection, Section: section}
	f.mu.Unlock()
	return &core.HadithSection{CollectionID: collection, Number: section}, nil
}

func (f *fakeNavigator) OpenDuas(category string) []content.Dua {
	_ = f.record("open duas")
	f.mu.Lock()
	f.screen = navigator.Screen{Kind: navigator.ScreenDuas, Category: category}
	f.mu.Unlock()
	return nil
}

func (f *fakeNavigator) Leave() {
	_ = f.record("leave")
	f.mu.Lock()
	f.screen = navigator.Screen{Kind: navigator.ScreenNone}
	f.mu.Unlock()
}

func (f *fakeNavigator) Retry(context.Context) (any, error) {
	if err := f.record("retry"); err != nil {
		return nil, err
	}
	return &core.Surah{Number: 1}, nil
}

func (f *fakeNavigator) PlayVerse(context.Context, int) error { return f.record("play verse") }
func (f *fakeNavigator) PlaySurah(context.Context, int) error { return f.record("play surah") }
func (f *fakeNavigator) PlayDua(string) error                 { return f.record("play dua") }

// fakePlayer keeps a session and applies the simple controls to it.
type fakePlayer struct {
	mu      sync.Mutex
	session playback.Session
}

func (f *fakePlayer) Snapshot() playback.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *fakePlayer) TogglePlay() {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.session.State {
	case playback.StatePlaying:
		f.session.State = playback.StatePaused
	case playback.StatePaused:
		f.session.State = playback.StatePlaying
	}
}

func (f *fakePlayer) Seek(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session.PositionSeconds = seconds
}

func (f *fakePlayer) SetRate(rate float64) error {
	for _, r := range playback.RateCycle {
		if r == rate {
			f.mu.Lock()
			f.session.Rate = rate
			f.mu.Unlock()
			return nil
		}
	}
	return playback.ErrInvalidRate
}

func (f *fakePlayer) CycleRate() {}

func (f *fakePlayer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = playback.Session{State: playback.StateIdle, Rate: f.session.Rate}
}

func (f *fakePlayer) Next() {}

type fakeAssistant struct {
	answer string
	err    error
	owner  string
}

func (f *fakeAssistant) Name() string { return "fake" }

func (f *fakeAssistant) AskFor(_ context.Context, ownerID, _ string) (string, error) {
	f.owner = ownerID
	return f.answer, f.err
}
