package content

import (
	"errors"
	"testing"

	"nur/internal/core"
)

func TestLibrary_Duas(t *testing.T) {
	lib := NewLibrary()

	if got := len(lib.Duas("")); got != 5 {
		t.Errorf("Duas(\"\") returned %d, want 5", got)
	}

	daily := lib.Duas("daily")
	if len(daily) != 2 {
		t.Fatalf("Duas(daily) returned %d, want 2", len(daily))
	}
	for _, d := range daily {
		if d.Category != "Daily" {
			t.Errorf("Duas(daily) returned category %q", d.Category)
		}
		if d.AudioURL == "" {
			t.Errorf("dua %s has no audio", d.ID)
		}
	}

	if got := lib.Duas("Unknown"); len(got) != 0 {
		t.Errorf("Duas(Unknown) = %v, want none", got)
	}
}

func TestLibrary_DuasReturnsCopy(t *testing.T) {
	lib := NewLibrary()
	all := lib.Duas("")
	all[0].Title = "changed"

	if d, _ := lib.Dua("1"); d.Title != "Waking Up" {
		t.Errorf("Dua(1).Title = %q, caller mutated the library", d.Title)
	}
}

func TestLibrary_Categories(t *testing.T) {
	want := []Category{
		{Name: "Daily", Count: 2},
		{Name: "Travel", Count: 1},
		{Name: "Prayer", Count: 1},
		{Name: "Lifestyle", Count: 1},
	}

	got := NewLibrary().Categories()
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLibrary_Lookups(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		name    string
		lookup  func() error
		wantErr bool
	}{
		{"dua", func() error { _, err := lib.Dua("3"); return err }, false},
		{"missing dua", func() error { _, err := lib.Dua("99"); return err }, true},
		{"article", func() error { _, err := lib.FiqhArticle("4"); return err }, false},
		{"missing article", func() error { _, err := lib.FiqhArticle("x"); return err }, true},
		{"collection", func() error { _, err := lib.Collection("nawawi"); return err }, false},
		{"missing collection", func() error { _, err := lib.Collection("malik"); return err }, true},
		{"reciter", func() error { _, err := lib.Reciter("ar.minshawi"); return err }, false},
		{"missing reciter", func() error { _, err := lib.Reciter("ar.unknown"); return err }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lookup()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, core.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestLibrary_SearchDuas(t *testing.T) {
	lib := NewLibrary()

	tests := []struct {
		query string
		want  string
	}{
		{"journey", "3"},
		{"mosque", "4"},
		{"sleeping", "2"},
		{"بسم الله", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := lib.SearchDuas(tt.query)
			if len(got) == 0 || got[0].ID != tt.want {
				t.Errorf("SearchDuas(%q) = %v, want %s first", tt.query, got, tt.want)
			}
		})
	}
}

func TestLibrary_SearchFiqh(t *testing.T) {
	got := NewLibrary().SearchFiqh("wudu")
	if len(got) == 0 || got[0].ID != "1" {
		t.Errorf("SearchFiqh(wudu) = %v, want article 1 first", got)
	}
	if len(NewLibrary().FiqhArticles()) != 4 {
		t.Error("FiqhArticles() should list 4 articles")
	}
}

func TestLibrary_SearchChapters(t *testing.T) {
	chapters := []core.Chapter{
		{Number: 1, Name: "سُورَةُ ٱلْفَاتِحَةِ", EnglishName: "Al-Faatiha", EnglishNameTranslation: "The Opening"},
		{Number: 2, Name: "سُورَةُ البَقَرَةِ", EnglishName: "Al-Baqara", EnglishNameTranslation: "The Cow"},
		{Number: 18, Name: "سُورَةُ الكَهۡفِ", EnglishName: "Al-Kahf", EnglishNameTranslation: "The Cave"},
	}
	lib := NewLibrary()

	tests := []struct {
		query string
		want  []int
	}{
		{"18", []int{18}},
		{"200", nil},
		{"cow", []int{2}},
		{"baqara", []int{2}},
		{"opening", []int{1}},
		{"البقرة", []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := lib.SearchChapters(chapters, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("SearchChapters(%q) = %v, want numbers %v", tt.query, got, tt.want)
			}
			for i, n := range tt.want {
				if got[i].Number != n {
					t.Errorf("SearchChapters(%q)[%d] = %d, want %d", tt.query, i, got[i].Number, n)
				}
			}
		})
	}
}
