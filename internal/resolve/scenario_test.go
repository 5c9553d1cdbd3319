package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"nur/internal/provider"
)

// alquranAyahs renders n ayahs in the alquran.cloud envelope.
func alquranAyahs(n int, prefix string) string {
	ayahs := make([]string, n)
	for i := range ayahs {
		ayahs[i] = fmt.Sprintf(`{"number":%d,"text":"%s %d","numberInSurah":%d}`, i+1, prefix, i+1, i+1)
	}
	return `{"code":200,"status":"OK","data":{"number":1,"ayahs":[` + strings.Join(ayahs, ",") + `]}}`
}

func quranComVerses(n int) string {
	verses := make([]string, n)
	for i := range verses {
		verses[i] = fmt.Sprintf(`{"id":%d,"verse_number":%d,"verse_key":"1:%d","text_uthmani":"qc-ar %d","translations":[{"resource_id":20,"text":"qc-en %d"}]}`,
			i+1, i+1, i+1, i+1, i+1)
	}
	return `{"verses":[` + strings.Join(verses, ",") + `],"pagination":{"current_page":1,"next_page":null}}`
}

func TestSurahScenario_TransliterationTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/surah/1/quran-uthmani":
			_, _ = w.Write([]byte(alquranAyahs(7, "ar")))
		case "/surah/1/en.asad":
			_, _ = w.Write([]byte(alquranAyahs(7, "en")))
		case "/surah/1/en.transliteration":
			<-r.Context().Done()
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := provider.NewClient(provider.AlQuranCloudName, nil, 100*time.Millisecond, zap.NewNop(), nil)
	editions := testEditions
	editions.Commentary = ""
	resolver := NewSurahResolver(provider.NewAlQuranCloud(client, server.URL), nil, nil, editions, zap.NewNop(), nil)

	surah, err := resolver.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("no error should surface, got %v", err)
	}
	if len(surah.Verses) != 7 {
		t.Fatalf("expected 7 verses, got %d", len(surah.Verses))
	}
	for _, v := range surah.Verses {
		if v.TranslationText == "" {
			t.Errorf("verse %d missing translation", v.VerseNumber)
		}
		if v.TransliterationText != "" {
			t.Errorf("verse %d has transliteration", v.VerseNumber)
		}
	}
	if surah.Source != provider.AlQuranCloudName {
		t.Errorf("Source = %q", surah.Source)
	}
}

func TestSurahScenario_PrimaryArabicFails(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/surah/1/quran-uthmani":
			w.WriteHeader(http.StatusInternalServerError)
		case "/surah/1/en.asad":
			_, _ = w.Write([]byte(alquranAyahs(7, "primary-en")))
		case "/surah/1/en.transliteration":
			_, _ = w.Write([]byte(alquranAyahs(7, "primary-tr")))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verses/by_chapter/1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(quranComVerses(7)))
	}))
	defer fallback.Close()

	logger := zap.NewNop()
	resolver := NewSurahResolver(
		provider.NewAlQuranCloud(provider.NewClient(provider.AlQuranCloudName, nil, time.Second, logger, nil), primary.URL),
		provider.NewQuranCom(provider.NewClient(provider.QuranComName, nil, time.Second, logger, nil), fallback.URL, 20),
		nil,
		testEditions,
		logger,
		nil,
	)

	surah, err := resolver.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if surah.Source != provider.QuranComName {
		t.Fatalf("Source = %q, want fallback", surah.Source)
	}
	if len(surah.Verses) != 7 {
		t.Fatalf("expected 7 verses, got %d", len(surah.Verses))
	}
	for i, v := range surah.Verses {
		if v.ArabicText != fmt.Sprintf("qc-ar %d", i+1) || v.TranslationText != fmt.Sprintf("qc-en %d", i+1) {
			t.Errorf("verse %d not from fallback: %+v", i+1, v)
		}
		if strings.HasPrefix(v.TransliterationText, "primary") {
			t.Errorf("verse %d mixes primary data", i+1)
		}
	}
}
