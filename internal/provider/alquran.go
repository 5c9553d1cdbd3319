package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"nur/internal/core"
)

// AlQuranCloudName is the provider name of api.alquran.cloud.
const AlQuranCloudName = "alquran.cloud"

// AlQuranCloud is the primary Quran text and translation source.
type AlQuranCloud struct {
	client  *Client
	baseURL string
}

func NewAlQuranCloud(client *Client, baseURL string) *AlQuranCloud {
	return &AlQuranCloud{client: client, baseURL: baseURL}
}

type alquranEnvelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type alquranChapter struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

type alquranEdition struct {
	Number int `json:"number"`
	Ayahs  []struct {
		Number        int    `json:"number"`
		Text          string `json:"text"`
		NumberInSurah int    `json:"numberInSurah"`
	} `json:"ayahs"`
}

// Chapters lists all 114 surahs.
func (a *AlQuranCloud) Chapters(ctx context.Context) ([]core.Chapter, error) {
	rawURL := joinURL(a.baseURL, "surah")

	var chapters []alquranChapter
	if err := a.getData(ctx, rawURL, &chapters); err != nil {
		return nil, err
	}

	out := make([]core.Chapter, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, core.Chapter{
			Number:                 c.Number,
			Name:                   c.Name,
			EnglishName:            c.EnglishName,
			EnglishNameTranslation: c.EnglishNameTranslation,
			VerseCount:             c.NumberOfAyahs,
			RevelationType:         c.RevelationType,
		})
	}
	return out, nil
}

// Edition fetches one edition of a surah, e.g. quran-uthmani or en.asad.
func (a *AlQuranCloud) Edition(ctx context.Context, surah int, edition string) ([]Passage, error) {
	rawURL := joinURL(a.baseURL, "surah", strconv.Itoa(surah), edition)

	var data alquranEdition
	if err := a.getData(ctx, rawURL, &data); err != nil {
		return nil, err
	}
	if len(data.Ayahs) == 0 {
		return nil, &FetchError{Provider: a.client.Name(), URL: rawURL, Kind: KindParse, Err: errors.New("no ayahs")}
	}

	out := make([]Passage, 0, len(data.Ayahs))
	for _, ayah := range data.Ayahs {
		out = append(out, Passage{GlobalID: ayah.Number, Number: ayah.NumberInSurah, Text: ayah.Text})
	}
	return out, nil
}

// getData unwraps the {code, status, data} envelope.
func (a *AlQuranCloud) getData(ctx context.Context, rawURL string, dest any) error {
	var env alquranEnvelope
	if err := a.client.Get(ctx, rawURL, &env); err != nil {
		return err
	}
	if env.Code != 0 && env.Code != 200 {
		return &FetchError{Provider: a.client.Name(), URL: rawURL, Kind: KindHTTPStatus, StatusCode: env.Code}
	}
	if len(env.Data) == 0 {
		return &FetchError{Provider: a.client.Name(), URL: rawURL, Kind: KindParse, Err: errors.New("missing data")}
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return &FetchError{Provider: a.client.Name(), URL: rawURL, Kind: KindParse, Err: err}
	}
	return nil
}
