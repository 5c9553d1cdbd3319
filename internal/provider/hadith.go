package provider

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"nur/internal/core"
)

// HadithAPIName is the provider name of the fawazahmed0 hadith CDN.
const HadithAPIName = "hadith-api"

// HadithAPI serves hadith editions as static JSON. Every resource exists in
// a pretty (.json) and a minified (.min.json) variant.
type HadithAPI struct {
	client  *Client
	baseURL string
}

func NewHadithAPI(client *Client, baseURL string) *HadithAPI {
	return &HadithAPI{client: client, baseURL: baseURL}
}

// HadithEntry is one hadith as served by a single edition.
type HadithEntry struct {
	HadithNumber float64
	ArabicNumber float64
	Text         string
	Grades       []core.HadithGrade
	Book         int
	Hadith       string
}

// HadithSectionData is one section of one edition.
type HadithSectionData struct {
	CollectionName string
	SectionName    string
	Hadiths        []HadithEntry
}

type hadithEditionsDoc map[string]struct {
	Name       string `json:"name"`
	Collection []struct {
		Name        string `json:"name"`
		Book        string `json:"book"`
		Language    string `json:"language"`
		HasSections bool   `json:"has_sections"`
	} `json:"collection"`
}

type hadithInfoDoc map[string]struct {
	Metadata struct {
		Name     string            `json:"name"`
		Sections map[string]string `json:"sections"`
	} `json:"metadata"`
}

type hadithSectionDoc struct {
	Metadata struct {
		Name    string            `json:"name"`
		Section map[string]string `json:"section"`
	} `json:"metadata"`
	Hadiths []struct {
		HadithNumber float64 `json:"hadithnumber"`
		ArabicNumber float64 `json:"arabicnumber"`
		Text         string  `json:"text"`
		Grades       []struct {
			Name  string `json:"name"`
			Grade string `json:"grade"`
		} `json:"grades"`
		Reference struct {
			Book   int       `json:"book"`
			Hadith flexValue `json:"hadith"`
		} `json:"reference"`
	} `json:"hadiths"`
}

// flexValue accepts a JSON number or string.
type flexValue string

func (f *flexValue) UnmarshalJSON(b []byte) error {
	*f = flexValue(strings.Trim(string(b), `"`))
	return nil
}

// Editions lists every collection with its editions, sorted by collection id.
func (h *HadithAPI) Editions(ctx context.Context, minified bool) ([]core.HadithCollection, error) {
	var doc hadithEditionsDoc
	if err := h.client.Get(ctx, h.resource(minified, "editions"), &doc); err != nil {
		return nil, err
	}

	out := make([]core.HadithCollection, 0, len(doc))
	for id, c := range doc {
		collection := core.HadithCollection{ID: id, Name: c.Name}
		for _, e := range c.Collection {
			collection.Editions = append(collection.Editions, core.HadithEdition{
				Name:        e.Name,
				Language:    e.Language,
				HasSections: e.HasSections,
			})
		}
		out = append(out, collection)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Sections lists the named sections of a collection from info.json.
// Section zero, which holds unsectioned hadith, is skipped when unnamed.
func (h *HadithAPI) Sections(ctx context.Context, collection string, minified bool) ([]core.HadithSectionInfo, error) {
	rawURL := h.resource(minified, "info")

	var doc hadithInfoDoc
	if err := h.client.Get(ctx, rawURL, &doc); err != nil {
		return nil, err
	}
	info, ok := doc[collection]
	if !ok {
		return nil, &FetchError{Provider: h.client.Name(), URL: rawURL, Kind: KindParse, Err: errors.New("unknown collection " + collection)}
	}

	return sectionInfos(info.Metadata.Sections), nil
}

// Section fetches one section of one edition, e.g. eng-bukhari section 1.
func (h *HadithAPI) Section(ctx context.Context, edition string, section int, minified bool) (*HadithSectionData, error) {
	rawURL := h.resource(minified, "editions", edition, "sections", strconv.Itoa(section))

	var doc hadithSectionDoc
	if err := h.client.Get(ctx, rawURL, &doc); err != nil {
		return nil, err
	}

	out := &HadithSectionData{
		CollectionName: doc.Metadata.Name,
		SectionName:    doc.Metadata.Section[strconv.Itoa(section)],
		Hadiths:        make([]HadithEntry, 0, len(doc.Hadiths)),
	}
	for _, d := range doc.Hadiths {
		entry := HadithEntry{
			HadithNumber: d.HadithNumber,
			ArabicNumber: d.ArabicNumber,
			Text:         strings.TrimSpace(d.Text),
			Book:         d.Reference.Book,
			Hadith:       string(d.Reference.Hadith),
		}
		for _, g := range d.Grades {
			entry.Grades = append(entry.Grades, core.HadithGrade{Scholar: g.Name, Grade: g.Grade})
		}
		out.Hadiths = append(out.Hadiths, entry)
	}
	return out, nil
}

func (h *HadithAPI) resource(minified bool, segments ...string) string {
	suffix := ".json"
	if minified {
		suffix = ".min.json"
	}
	segments[len(segments)-1] += suffix
	return joinURL(h.baseURL, segments...)
}

func sectionInfos(sections map[string]string) []core.HadithSectionInfo {
	out := make([]core.HadithSectionInfo, 0, len(sections))
	for key, name := range sections {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if n == 0 && strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, core.HadithSectionInfo{Number: n, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
