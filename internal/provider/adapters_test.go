package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"nur/internal/core"
)

func TestAlQuranCloud_Edition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/surah/1/en.asad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"status":"OK","data":{"number":1,"ayahs":[
			{"number":1,"text":"In the name of God","numberInSurah":1},
			{"number":2,"text":"All praise is due to God alone","numberInSurah":2}]}}`))
	}))
	defer server.Close()

	api := NewAlQuranCloud(newTestClient(AlQuranCloudName), server.URL)
	passages, err := api.Edition(context.Background(), 1, "en.asad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[1].GlobalID != 2 || passages[1].Number != 2 {
		t.Errorf("unexpected passage: %+v", passages[1])
	}
}

func TestAlQuranCloud_EnvelopeErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":404,"status":"Not Found","data":"Invalid edition"}`))
	}))
	defer server.Close()

	api := NewAlQuranCloud(newTestClient(AlQuranCloudName), server.URL)
	_, err := api.Edition(context.Background(), 1, "xx.none")

	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != KindHTTPStatus || fe.StatusCode != 404 {
		t.Fatalf("expected HTTP_STATUS 404, got %v", err)
	}
}

func TestAlQuranCloud_Chapters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"status":"OK","data":[
			{"number":1,"name":"سُورَةُ ٱلْفَاتِحَةِ","englishName":"Al-Faatiha","englishNameTranslation":"The Opening","numberOfAyahs":7,"revelationType":"Meccan"}]}`))
	}))
	defer server.Close()

	chapters, err := NewAlQuranCloud(newTestClient(AlQuranCloudName), server.URL).Chapters(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chapters) != 1 || chapters[0].VerseCount != 7 || chapters[0].EnglishName != "Al-Faatiha" {
		t.Errorf("unexpected chapters: %+v", chapters)
	}
}

func TestQuranCom_VersesPaginates(t *testing.T) {
	var (
		mu    sync.Mutex
		pages []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		mu.Lock()
		pages = append(pages, page)
		mu.Unlock()
		switch page {
		case "1":
			_, _ = w.Write([]byte(`{"verses":[
				{"id":8,"verse_number":1,"verse_key":"2:1","text_uthmani":"الٓمٓ","translations":[{"resource_id":20,"text":"Alif Lam Mim<sup foot_note=1>1</sup>"}]}],
				"pagination":{"current_page":1,"next_page":2,"total_pages":2}}`))
		case "2":
			_, _ = w.Write([]byte(`{"verses":[
				{"id":9,"verse_number":2,"verse_key":"2:2","text_uthmani":"ذَٰلِكَ","translations":[{"resource_id":20,"text":"This is the Book"}]}],
				"pagination":{"current_page":2,"next_page":null,"total_pages":2}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	api := NewQuranCom(newTestClient(QuranComName), server.URL, 20)
	surah, err := api.Verses(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(pages, ",") != "1,2" {
		t.Errorf("expected pages 1,2 got %v", pages)
	}
	if len(surah.Arabic) != 2 || len(surah.Translation) != 2 {
		t.Fatalf("expected 2 arabic and 2 translation passages, got %d/%d", len(surah.Arabic), len(surah.Translation))
	}
	if surah.Translation[0].Text != "Alif Lam Mim" {
		t.Errorf("footnote not stripped: %q", surah.Translation[0].Text)
	}
}

func TestQuranCom_VersesEndlessPaginationFails(t *testing.T) {
	var (
		mu       sync.Mutex
		requests int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		fmt.Fprintf(w, `{"verses":[{"id":%d,"verse_number":%d,"text_uthmani":"x"}],
			"pagination":{"current_page":%d,"next_page":%d}}`, page, page, page, page+1)
	}))
	defer server.Close()

	_, err := NewQuranCom(newTestClient(QuranComName), server.URL, 0).Verses(context.Background(), 2)
	if !IsKind(err, KindParse) {
		t.Fatalf("expected PARSE error for truncated surah, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if requests != quranComMaxPages {
		t.Errorf("expected %d page requests, got %d", quranComMaxPages, requests)
	}
}

func TestQuranCom_TokenFetchIsBounded(t *testing.T) {
	release := make(chan struct{})
	tokenServer := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer tokenServer.Close()
	defer close(release)

	var apiCalls int
	var mu sync.Mutex
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		apiCalls++
		mu.Unlock()
		_, _ = w.Write([]byte(`{"chapters":[]}`))
	}))
	defer api.Close()

	cfg := core.ProvidersConfig{
		QuranComClientID:     "client",
		QuranComClientSecret: "secret",
		QuranComTokenURL:     tokenServer.URL,
		TimeoutSecs:          1,
	}
	client := NewClient(QuranComName, NewQuranComHTTPClient(context.Background(), cfg), cfg.ProviderTimeout(), zap.NewNop(), nil)

	start := time.Now()
	_, err := NewQuranCom(client, api.URL, 0).Chapters(context.Background())
	elapsed := time.Since(start)

	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected NETWORK error, got %v", err)
	}
	// The token endpoint may be tried once per auth style.
	if elapsed > 4*time.Second {
		t.Errorf("token fetch took %v with a 1s provider timeout", elapsed)
	}
	mu.Lock()
	defer mu.Unlock()
	if apiCalls != 0 {
		t.Errorf("expected no API calls without a token, got %d", apiCalls)
	}
}

func TestAladhan_Timings(t *testing.T) {
	date := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timings/19-10-2026" || r.URL.Query().Get("method") != "3" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"status":"OK","data":{
			"timings":{"Fajr":"05:12 (CEST)","Sunrise":"07:30 (CEST)","Dhuhr":"13:05 (CEST)","Lastthird":"02:10 (CEST)"},
			"date":{"readable":"19 Oct 2026","gregorian":{"date":"19-10-2026"},"hijri":{"day":"8","year":"1448","month":{"en":"Jumādá al-ūlá"}}},
			"meta":{"method":{"name":"Muslim World League"}}}}`))
	}))
	defer server.Close()

	api := NewAladhan(newTestClient(AladhanName), server.URL)
	day, err := api.Timings(context.Background(), 52.52, 13.405, date, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Timings["Fajr"] != "05:12" {
		t.Errorf("Fajr = %q, want 05:12", day.Timings["Fajr"])
	}
	if day.Hijri != "8 Jumādá al-ūlá 1448 AH" {
		t.Errorf("Hijri = %q", day.Hijri)
	}
	if !day.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", day.Date, date)
	}
}

func TestNominatim_Search(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantLat float64
	}{
		{
			name:    "Match",
			body:    `[{"lat":"3.1516964","lon":"101.6942371","display_name":"Kuala Lumpur, Malaysia"}]`,
			wantLat: 3.1516964,
		},
		{
			name:    "No match",
			body:    `[]`,
			wantErr: ErrPlaceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			place, err := NewNominatim(newTestClient(NominatimName), server.URL).Search(context.Background(), "kuala lumpur")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if place.Lat != tt.wantLat {
				t.Errorf("Lat = %v, want %v", place.Lat, tt.wantLat)
			}
		})
	}
}

func TestHadithAPI_SectionMinified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/editions/eng-bukhari/sections/1.min.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"metadata":{"name":"Sahih al Bukhari","section":{"1":"Revelation"}},
			"hadiths":[{"hadithnumber":1,"arabicnumber":1,"text":"Actions are by intentions ",
			"grades":[],"reference":{"book":1,"hadith":"1"}},
			{"hadithnumber":2,"arabicnumber":2,"text":"Second","grades":[{"name":"Al-Albani","grade":"Sahih"}],
			"reference":{"book":1,"hadith":2}}]}`))
	}))
	defer server.Close()

	api := NewHadithAPI(newTestClient(HadithAPIName), server.URL)

	if _, err := api.Section(context.Background(), "eng-bukhari", 1, false); !IsKind(err, KindHTTPStatus) {
		t.Fatalf("expected HTTP_STATUS for pretty variant, got %v", err)
	}

	section, err := api.Section(context.Background(), "eng-bukhari", 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if section.SectionName != "Revelation" || len(section.Hadiths) != 2 {
		t.Fatalf("unexpected section: %+v", section)
	}
	if section.Hadiths[0].Text != "Actions are by intentions" {
		t.Errorf("text not trimmed: %q", section.Hadiths[0].Text)
	}
	if section.Hadiths[1].Hadith != "2" || len(section.Hadiths[1].Grades) != 1 {
		t.Errorf("unexpected second hadith: %+v", section.Hadiths[1])
	}
}

func TestHadithAPI_EditionsAndSections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/editions.json":
			_, _ = w.Write([]byte(`{"muslim":{"name":"Sahih Muslim","collection":[{"name":"eng-muslim","book":"muslim","language":"English","has_sections":true}]},
				"bukhari":{"name":"Sahih al Bukhari","collection":[{"name":"ara-bukhari","language":"Arabic","has_sections":true},{"name":"eng-bukhari","language":"English","has_sections":true}]}}`))
		case "/info.json":
			_, _ = w.Write([]byte(`{"bukhari":{"metadata":{"name":"Sahih al Bukhari","sections":{"0":"","2":"Belief","1":"Revelation"}}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	api := NewHadithAPI(newTestClient(HadithAPIName), server.URL)

	collections, err := api.Editions(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collections) != 2 || collections[0].ID != "bukhari" || len(collections[0].Editions) != 2 {
		t.Errorf("unexpected collections: %+v", collections)
	}

	sections, err := api.Sections(context.Background(), "bukhari", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := fmt.Sprintf("%v", sections)
	if got != "[{1 Revelation} {2 Belief}]" {
		t.Errorf("sections = %s", got)
	}

	if _, err := api.Sections(context.Background(), "unknown", false); !IsKind(err, KindParse) {
		t.Errorf("expected PARSE for unknown collection, got %v", err)
	}
}

func TestTafsirAPI_Surah(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/en-tafisr-ibn-kathir/1.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"ayahs":[{"surah":1,"ayah":1,"text":"Basmala commentary"},{"surah":1,"ayah":2,"text":"Praise"}]}`))
	}))
	defer server.Close()

	passages, err := NewTafsirAPI(newTestClient(TafsirAPIName), server.URL).Surah(context.Background(), "en-tafisr-ibn-kathir", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passages) != 2 || passages[0].Number != 1 || passages[1].Text != "Praise" {
		t.Errorf("unexpected passages: %+v", passages)
	}
}
