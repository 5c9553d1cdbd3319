package provider

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// TafsirAPIName is the provider name of the spa5k tafsir CDN.
const TafsirAPIName = "tafsir-api"

type TafsirAPI struct {
	client  *Client
	baseURL string
}

func NewTafsirAPI(client *Client, baseURL string) *TafsirAPI {
	return &TafsirAPI{client: client, baseURL: baseURL}
}

// TafsirEdition describes one commentary.
type TafsirEdition struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Author   string `json:"author"`
	Language string `json:"language"`
}

type tafsirSurahDoc struct {
	Ayahs  []tafsirAyah `json:"ayahs"`
	Verses []tafsirAyah `json:"verses"`
}

type tafsirAyah struct {
	Ayah int    `json:"ayah"`
	Text string `json:"text"`
}

func (t *TafsirAPI) Editions(ctx context.Context) ([]TafsirEdition, error) {
	var editions []TafsirEdition
	if err := t.client.Get(ctx, joinURL(t.baseURL, "editions.json"), &editions); err != nil {
		return nil, err
	}
	return editions, nil
}

// Surah fetches the commentary of a whole surah, ordered by ayah.
func (t *TafsirAPI) Surah(ctx context.Context, edition string, surah int) ([]Passage, error) {
	rawURL := joinURL(t.baseURL, edition, strconv.Itoa(surah)+".json")

	var doc tafsirSurahDoc
	if err := t.client.Get(ctx, rawURL, &doc); err != nil {
		return nil, err
	}

	ayahs := doc.Ayahs
	if len(ayahs) == 0 {
		ayahs = doc.Verses
	}
	if len(ayahs) == 0 {
		return nil, &FetchError{Provider: t.client.Name(), URL: rawURL, Kind: KindParse, Err: errors.New("no ayahs")}
	}

	out := make([]Passage, 0, len(ayahs))
	for _, a := range ayahs {
		out = append(out, Passage{Number: a.Ayah, Text: strings.TrimSpace(a.Text)})
	}
	return out, nil
}
