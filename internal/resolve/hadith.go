package resolve

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"nur/internal/core"
	"nur/internal/metrics"
	"nur/internal/provider"
)

// arabicEditionPrefix prefixes the Arabic edition of every collection.
const arabicEditionPrefix = "ara"

// HadithSource serves one section of one hadith edition.
type HadithSource interface {
	Section(ctx context.Context, edition string, section int, minified bool) (*provider.HadithSectionData, error)
}

// HadithResolver loads hadith sections on demand. Results are never cached.
type HadithResolver struct {
	source   HadithSource
	language string
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewHadithResolver creates a resolver for the given translation language
// prefix, e.g. "eng" for eng-bukhari.
func NewHadithResolver(source HadithSource, language string, logger *zap.Logger, m *metrics.Metrics) *HadithResolver {
	if language == "" {
		language = "eng"
	}
	return &HadithResolver{
		source:   source,
		language: language,
		logger:   logger.Named("hadith"),
		metrics:  m,
	}
}

// Section fetches a section in the translation language (mandatory) and in
// Arabic (optional), aligning the Arabic text by position.
func (r *HadithResolver) Section(ctx context.Context, collection string, section int) (*core.HadithSection, error) {
	resource := fmt.Sprintf("hadith %s/%d", collection, section)
	if collection == "" || section < 0 {
		return nil, &core.ResolutionError{Resource: resource, Reason: "invalid section"}
	}

	var translated, arabic *provider.HadithSectionData

	parts := []part{{
		name:      "translation",
		mandatory: true,
		run: func(ctx context.Context) error {
			var err error
			translated, _, err = FirstSuccess(ctx, resource, r.strategies(r.edition(r.language, collection), section), r.logger, r.metrics)
			return err
		},
	}}
	if r.language != arabicEditionPrefix {
		parts = append(parts, part{
			name: core.FieldArabic,
			run: func(ctx context.Context) error {
				var err error
				arabic, _, err = FirstSuccess(ctx, resource+" arabic", r.strategies(r.edition(arabicEditionPrefix, collection), section), r.logger, nil)
				return err
			},
		})
	}

	if _, err := gather(ctx, r.logger, parts...); err != nil {
		return nil, &core.ResolutionError{Resource: resource, Reason: ReasonExhausted, Err: err}
	}

	out := &core.HadithSection{
		CollectionID: collection,
		Number:       section,
		Name:         translated.SectionName,
		Records:      make([]core.HadithRecord, len(translated.Hadiths)),
	}
	for i, h := range translated.Hadiths {
		out.Records[i] = core.HadithRecord{
			CollectionID:  collection,
			SectionNumber: section,
			HadithNumber:  int(h.HadithNumber),
			Text:          h.Text,
			Grades:        h.Grades,
			Reference:     reference(translated.CollectionName, collection, h.HadithNumber),
		}
	}

	if arabic != nil && len(arabic.Hadiths) == len(translated.Hadiths) {
		for i, h := range arabic.Hadiths {
			out.Records[i].ArabicText = h.Text
		}
	} else if r.language != arabicEditionPrefix {
		if arabic != nil {
			r.logger.Warn("Dropping misaligned Arabic hadith text",
				zap.String("collection", collection),
				zap.Int("section", section),
				zap.Int("expected", len(translated.Hadiths)),
				zap.Int("got", len(arabic.Hadiths)))
		}
		r.metrics.RecordDegraded("hadith", core.FieldArabic)
		out.Missing = append(out.Missing, core.FieldArabic)
	}

	return out, nil
}

// strategies tries the pretty resource first, then the minified one.
func (r *HadithResolver) strategies(edition string, section int) []Strategy[*provider.HadithSectionData] {
	variant := func(minified bool) func(context.Context) (*provider.HadithSectionData, error) {
		return func(ctx context.Context) (*provider.HadithSectionData, error) {
			return r.source.Section(ctx, edition, section, minified)
		}
	}
	return []Strategy[*provider.HadithSectionData]{
		{Name: edition + ".json", Run: variant(false)},
		{Name: edition + ".min.json", Run: variant(true)},
	}
}

func (r *HadithResolver) edition(language, collection string) string {
	return language + "-" + collection
}

func reference(collectionName, collectionID string, number float64) string {
	if collectionName == "" {
		collectionName = collectionID
	}
	return collectionName + " " + strconv.FormatFloat(number, 'f', -1, 64)
}
