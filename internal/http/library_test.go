package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nur/internal/content"
	"nur/internal/core"
	"nur/internal/provider"
)

func TestQuranController_List(t *testing.T) {
	router, _ := setupTestRouter(t, Services{Catalog: &fakeCatalog{}})

	tests := []struct {
		name string
		path string
		want []int
	}{
		{"all", "/api/v1/surahs", []int{1, 2, 112}},
		{"by number", "/api/v1/surahs?q=112", []int{112}},
		{"by name", "/api/v1/surahs?q=baqara", []int{2}},
		{"by meaning", "/api/v1/surahs?q=opening", []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "")

			require.Equal(t, http.StatusOK, w.Code)
			var resp struct {
				Chapters []core.Chapter `json:"chapters"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			var got []int
			for _, c := range resp.Chapters {
				got = append(got, c.Number)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuranController_ListFailure(t *testing.T) {
	router, _ := setupTestRouter(t, Services{
		Catalog: &fakeCatalog{err: &core.ResolutionError{Resource: "chapters", Reason: "all strategies failed"}},
	})

	w := serve(router, http.MethodGet, "/api/v1/surahs", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "the list of Surahs")
}

func TestQuranController_Get(t *testing.T) {
	router, _ := setupTestRouter(t, Services{Catalog: &fakeCatalog{}, Surahs: &fakeSurahs{}})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"valid", "/api/v1/surahs/112", http.StatusOK},
		{"not a number", "/api/v1/surahs/abc", http.StatusBadRequest},
		{"zero", "/api/v1/surahs/0", http.StatusBadRequest},
		{"past the last surah", "/api/v1/surahs/115", http.StatusBadRequest},
		{"info", "/api/v1/surahs/2/info", http.StatusOK},
		{"info unknown", "/api/v1/surahs/50/info", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHadithController(t *testing.T) {
	section := hadithFunc(func(_ context.Context, collection string, number int) (*core.HadithSection, error) {
		if collection != "bukhari" {
			return nil, &core.ResolutionError{Resource: "hadith " + collection, Reason: "all strategies failed"}
		}
		return &core.HadithSection{
			CollectionID: collection,
			Number:       number,
			Records:      []core.HadithRecord{{CollectionID: collection, HadithNumber: 1, Text: "Actions are judged by intentions"}},
		}, nil
	})
	router, _ := setupTestRouter(t, Services{Catalog: &fakeCatalog{}, Hadith: section})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"curated collections", "/api/v1/hadith/collections", http.StatusOK, "Sahih al-Bukhari"},
		{"one collection", "/api/v1/hadith/collections/nawawi", http.StatusOK, "nawawi"},
		{"unknown collection", "/api/v1/hadith/collections/unknown", http.StatusNotFound, "not_found"},
		{"editions", "/api/v1/hadith/editions", http.StatusOK, "eng-bukhari"},
		{"sections", "/api/v1/hadith/collections/bukhari/sections", http.StatusOK, "Revelation"},
		{"sections failed", "/api/v1/hadith/collections/x/sections", http.StatusBadGateway, "Hadith collections"},
		{"section", "/api/v1/hadith/collections/bukhari/sections/1", http.StatusOK, "intentions"},
		{"section failed", "/api/v1/hadith/collections/muslim/sections/1", http.StatusBadGateway, "Hadith section"},
		{"bad section", "/api/v1/hadith/collections/bukhari/sections/one", http.StatusBadRequest, "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestPrayerController_Coordinates(t *testing.T) {
	router, _ := setupTestRouter(t, Services{Prayer: &fakePrayer{}})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"today", "/api/v1/prayer/today?lat=3.139&lng=101.6869", http.StatusOK},
		{"week", "/api/v1/prayer/week?lat=3.139&lng=101.6869", http.StatusOK},
		{"missing lng", "/api/v1/prayer/today?lat=3.139", http.StatusBadRequest},
		{"latitude out of range", "/api/v1/prayer/today?lat=91&lng=0", http.StatusBadRequest},
		{"not a number", "/api/v1/prayer/week?lat=NaN&lng=0", http.StatusBadRequest},
		{"qibla bad input", "/api/v1/prayer/qibla?lat=x&lng=0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestPrayerController_Qibla(t *testing.T) {
	router, _ := setupTestRouter(t, Services{Prayer: &fakePrayer{}})

	w := serve(router, http.MethodGet, "/api/v1/prayer/qibla?lat=51.5074&lng=-0.1278", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Bearing float64 `json:"bearing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 119.0, resp.Bearing, 1.0)
}

func TestPrayerController_Failure(t *testing.T) {
	router, _ := setupTestRouter(t, Services{
		Prayer: &fakePrayer{err: &core.ResolutionError{Resource: "prayer times", Reason: "all strategies failed"}},
	})

	w := serve(router, http.MethodGet, "/api/v1/prayer/today?lat=3&lng=101", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "prayer times")
}

func TestPrayerController_Geocode(t *testing.T) {
	tests := []struct {
		name       string
		prayer     *fakePrayer
		query      string
		wantStatus int
	}{
		{"found", &fakePrayer{place: &core.Place{Lat: 3.139, Lng: 101.6869, DisplayName: "Kuala Lumpur"}}, "?q=kuala+lumpur", http.StatusOK},
		{"no match", &fakePrayer{placeErr: provider.ErrPlaceNotFound}, "?q=nowhere", http.StatusNotFound},
		{"provider down", &fakePrayer{placeErr: &provider.FetchError{Provider: "nominatim", Kind: provider.KindNetwork, Err: errors.New("dial tcp")}}, "?q=mecca", http.StatusBadGateway},
		{"empty query", &fakePrayer{}, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupTestRouter(t, Services{Prayer: tt.prayer})
			w := serve(router, http.MethodGet, "/api/v1/geocode"+tt.query, "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestContentController(t *testing.T) {
	router, _ := setupTestRouter(t, Services{})

	t.Run("duas by category", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/duas?category=daily", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Duas []content.Dua `json:"duas"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Duas, 2)
	})

	t.Run("categories", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/duas/categories", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Travel"`)
	})

	t.Run("one dua", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/duas/3", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Starting a Journey")
	})

	t.Run("unknown dua", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/duas/99", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("search fiqh", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/fiqh?q=wudu", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Articles []content.FiqhArticle `json:"articles"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Articles)
		assert.Equal(t, "1", resp.Articles[0].ID)
	})

	t.Run("one article", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/fiqh/4", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Zakat")
	})

	t.Run("reciters", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/reciters", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Reciters []content.Reciter `json:"reciters"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Reciters, 5)
		assert.Equal(t, "ar.alafasy", resp.Reciters[0].ID)
	})
}
