// Package content serves the bundled duas, fiqh articles and curated hadith
// collections, and searches them along with the surah catalogue.
package content

import (
	"fmt"
	"strconv"

	"nur/internal/core"
	"nur/pkg/textnorm"
)

// searchThreshold is the lowest textnorm score reported as a search hit.
const searchThreshold = 0.6

type Dua struct {
	ID              string `json:"id"`
	Category        string `json:"category"`
	Title           string `json:"title"`
	Arabic          string `json:"arabic"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
	Reference       string `json:"reference"`
	AudioURL        string `json:"audio,omitempty"`
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type FiqhArticle struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
}

// Collection describes a hadith book as presented on the hadith landing page.
type Collection struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ArabicName   string `json:"arabicName"`
	Description  string `json:"description"`
	TotalHadiths int    `json:"totalHadiths"`
}

// Reciter is a recitation offered for verse audio. ID is the
// {reciter} segment of the audio URL template.
type Reciter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Library is the read-only bundled content.
type Library struct {
	duas        []Dua
	articles    []FiqhArticle
	collections []Collection
	reciters    []Reciter
	normalizer  *textnorm.Normalizer
}

func NewLibrary() *Library {
	return &Library{
		duas:        duas,
		articles:    fiqhArticles,
		collections: collections,
		reciters:    reciters,
		normalizer:  textnorm.NewNormalizer(),
	}
}

// Duas lists duas, optionally restricted to one category (case-insensitive).
func (l *Library) Duas(category string) []Dua {
	if category == "" {
		return append([]Dua(nil), l.duas...)
	}

	want := l.normalizer.Fold(category)
	var out []Dua
	for _, d := range l.duas {
		if l.normalizer.Fold(d.Category) == want {
			out = append(out, d)
		}
	}
	return out
}

func (l *Library) Dua(id string) (Dua, error) {
	for _, d := range l.duas {
		if d.ID == id {
			return d, nil
		}
	}
	return Dua{}, fmt.Errorf("dua %q: %w", id, core.ErrNotFound)
}

// Categories lists dua categories in first-seen order with their sizes.
func (l *Library) Categories() []Category {
	var out []Category
	index := make(map[string]int)
	for _, d := range l.duas {
		i, ok := index[d.Category]
		if !ok {
			i = len(out)
			index[d.Category] = i
			out = append(out, Category{Name: d.Category})
		}
		out[i].Count++
	}
	return out
}

func (l *Library) SearchDuas(query string) []Dua {
	matches := textnorm.Rank(l.normalizer, query, l.duas, func(d Dua) []string {
		return []string{d.Title, d.Category, d.Transliteration, d.Translation, d.Arabic}
	}, searchThreshold)
	return items(matches)
}

func (l *Library) FiqhArticles() []FiqhArticle {
	return append([]FiqhArticle(nil), l.articles...)
}

func (l *Library) FiqhArticle(id string) (FiqhArticle, error) {
	for _, a := range l.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return FiqhArticle{}, fmt.Errorf("fiqh article %q: %w", id, core.ErrNotFound)
}

func (l *Library) SearchFiqh(query string) []FiqhArticle {
	matches := textnorm.Rank(l.normalizer, query, l.articles, func(a FiqhArticle) []string {
		return []string{a.Title, a.Category, a.Summary}
	}, searchThreshold)
	return items(matches)
}

func (l *Library) Collections() []Collection {
	return append([]Collection(nil), l.collections...)
}

func (l *Library) Collection(id string) (Collection, error) {
	for _, c := range l.collections {
		if c.ID == id {
			return c, nil
		}
	}
	return Collection{}, fmt.Errorf("hadith collection %q: %w", id, core.ErrNotFound)
}

func (l *Library) Reciters() []Reciter {
	return append([]Reciter(nil), l.reciters...)
}

func (l *Library) Reciter(id string) (Reciter, error) {
	for _, r := range l.reciters {
		if r.ID == id {
			return r, nil
		}
	}
	return Reciter{}, fmt.Errorf("reciter %q: %w", id, core.ErrNotFound)
}

// SearchChapters filters a surah catalogue by name, English name, meaning or
// number.
func (l *Library) SearchChapters(chapters []core.Chapter, query string) []core.Chapter {
	if n, err := strconv.Atoi(query); err == nil {
		for _, c := range chapters {
			if c.Number == n {
				return []core.Chapter{c}
			}
		}
		return nil
	}

	matches := textnorm.Rank(l.normalizer, query, chapters, func(c core.Chapter) []string {
		return []string{c.EnglishName, c.EnglishNameTranslation, c.Name}
	}, searchThreshold)
	return items(matches)
}

func items[T any](matches []textnorm.Match[T]) []T {
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Item)
	}
	return out
}
