package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"nur/internal/core"
)

const (
	// QuranComName is the provider name of the Quran Foundation v4 API.
	QuranComName = "quran.com"
	// quranComPageSize is the largest page size the verses endpoint accepts.
	quranComPageSize = 50
	// quranComMaxPages guards against a server that never ends pagination.
	quranComMaxPages = 20
)

var footnoteTag = regexp.MustCompile(`<sup[^>]*>.*?</sup>|<[^>]+>`)

// NewQuranComHTTPClient returns an HTTP client for the Quran Foundation API.
// With credentials configured it fetches and refreshes a client-credentials
// bearer token; otherwise requests go out unauthenticated. Token requests
// do not see the per-call context, so they carry the provider timeout on
// their own client.
func NewQuranComHTTPClient(ctx context.Context, cfg core.ProvidersConfig) *http.Client {
	if cfg.QuranComClientID == "" || cfg.QuranComTokenURL == "" {
		return newHTTPClient()
	}
	tokenClient := newHTTPClient()
	tokenClient.Timeout = cfg.ProviderTimeout()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, tokenClient)

	cc := clientcredentials.Config{
		ClientID:     cfg.QuranComClientID,
		ClientSecret: cfg.QuranComClientSecret,
		TokenURL:     cfg.QuranComTokenURL,
		Scopes:       []string{"content"},
	}
	client := cc.Client(ctx)
	client.CheckRedirect = tokenClient.CheckRedirect
	return client
}

// QuranCom is the fallback Quran source. Arabic and translation come from a
// single paginated endpoint, so they succeed or fail together.
type QuranCom struct {
	client        *Client
	baseURL       string
	translationID int
}

func NewQuranCom(client *Client, baseURL string, translationID int) *QuranCom {
	return &QuranCom{client: client, baseURL: baseURL, translationID: translationID}
}

// QuranComSurah holds the passages of one surah. Translation is shorter than
// Arabic when some verses carried no translation.
type QuranComSurah struct {
	Arabic      []Passage
	Translation []Passage
}

type quranComChapters struct {
	Chapters []struct {
		ID              int    `json:"id"`
		NameSimple      string `json:"name_simple"`
		NameArabic      string `json:"name_arabic"`
		VersesCount     int    `json:"verses_count"`
		RevelationPlace string `json:"revelation_place"`
		TranslatedName  struct {
			Name string `json:"name"`
		} `json:"translated_name"`
	} `json:"chapters"`
}

type quranComVerses struct {
	Verses []struct {
		ID           int    `json:"id"`
		VerseNumber  int    `json:"verse_number"`
		VerseKey     string `json:"verse_key"`
		TextUthmani  string `json:"text_uthmani"`
		Translations []struct {
			ResourceID int    `json:"resource_id"`
			Text       string `json:"text"`
		} `json:"translations"`
	} `json:"verses"`
	Pagination struct {
		CurrentPage int  `json:"current_page"`
		NextPage    *int `json:"next_page"`
		TotalPages  int  `json:"total_pages"`
	} `json:"pagination"`
}

func (q *QuranCom) Chapters(ctx context.Context) ([]core.Chapter, error) {
	rawURL := joinURL(q.baseURL, "chapters")

	var resp quranComChapters
	if err := q.client.Get(ctx, rawURL, &resp); err != nil {
		return nil, err
	}
	if len(resp.Chapters) == 0 {
		return nil, &FetchError{Provider: q.client.Name(), URL: rawURL, Kind: KindParse, Err: errors.New("no chapters")}
	}

	out := make([]core.Chapter, 0, len(resp.Chapters))
	for _, c := range resp.Chapters {
		out = append(out, core.Chapter{
			Number:                 c.ID,
			Name:                   c.NameArabic,
			EnglishName:            c.NameSimple,
			EnglishNameTranslation: c.TranslatedName.Name,
			VerseCount:             c.VersesCount,
			RevelationType:         revelationType(c.RevelationPlace),
		})
	}
	return out, nil
}

// Verses walks every page of a surah until next_page is null.
func (q *QuranCom) Verses(ctx context.Context, surah int) (*QuranComSurah, error) {
	out := &QuranComSurah{}
	page := 1
	complete := false

	for i := 0; i < quranComMaxPages && !complete; i++ {
		query := url.Values{}
		query.Set("fields", "text_uthmani")
		query.Set("per_page", strconv.Itoa(quranComPageSize))
		query.Set("page", strconv.Itoa(page))
		if q.translationID > 0 {
			query.Set("translations", strconv.Itoa(q.translationID))
		}
		rawURL := withQuery(joinURL(q.baseURL, "verses", "by_chapter", strconv.Itoa(surah)), query)

		var resp quranComVerses
		if err := q.client.Get(ctx, rawURL, &resp); err != nil {
			return nil, err
		}

		for _, v := range resp.Verses {
			out.Arabic = append(out.Arabic, Passage{GlobalID: v.ID, Number: v.VerseNumber, Text: v.TextUthmani})
			for _, t := range v.Translations {
				if q.translationID == 0 || t.ResourceID == q.translationID {
					out.Translation = append(out.Translation, Passage{
						GlobalID: v.ID,
						Number:   v.VerseNumber,
						Text:     cleanTranslation(t.Text),
					})
					break
				}
			}
		}

		if resp.Pagination.NextPage == nil {
			complete = true
			continue
		}
		page = *resp.Pagination.NextPage
	}

	if !complete {
		return nil, &FetchError{
			Provider: q.client.Name(),
			URL:      joinURL(q.baseURL, "verses", "by_chapter", strconv.Itoa(surah)),
			Kind:     KindParse,
			Err:      fmt.Errorf("pagination did not end after %d pages", quranComMaxPages),
		}
	}
	if len(out.Arabic) == 0 {
		return nil, &FetchError{
			Provider: q.client.Name(),
			URL:      joinURL(q.baseURL, "verses", "by_chapter", strconv.Itoa(surah)),
			Kind:     KindParse,
			Err:      errors.New("no verses"),
		}
	}
	return out, nil
}

// cleanTranslation strips footnote markers and markup from translation text.
func cleanTranslation(s string) string {
	return strings.TrimSpace(footnoteTag.ReplaceAllString(s, ""))
}

func revelationType(place string) string {
	switch strings.ToLower(place) {
	case "makkah":
		return "Meccan"
	case "madinah":
		return "Medinan"
	}
	return place
}
