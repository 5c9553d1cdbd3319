package resolve

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"nur/internal/core"
	"nur/internal/metrics"
	"nur/internal/provider"
)

// SurahCount is the number of surahs in the Quran.
const SurahCount = 114

// EditionSource serves one edition of a surah per call.
type EditionSource interface {
	Edition(ctx context.Context, surah int, edition string) ([]provider.Passage, error)
}

// VerseSource serves Arabic text and an embedded translation in one resource.
type VerseSource interface {
	Verses(ctx context.Context, surah int) (*provider.QuranComSurah, error)
}

// CommentarySource serves per-surah commentary.
type CommentarySource interface {
	Surah(ctx context.Context, edition string, surah int) ([]provider.Passage, error)
}

// Editions selects the primary provider's editions and the commentary edition.
// An empty optional edition is treated as a failed optional part.
type Editions struct {
	Arabic          string
	Translation     string
	Transliteration string
	Commentary      string
}

// SurahResolver builds a full surah view: Arabic text (mandatory) plus
// translation, transliteration and commentary (optional).
type SurahResolver struct {
	primary    EditionSource
	fallback   VerseSource
	commentary CommentarySource
	editions   Editions
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewSurahResolver wires the sources. fallback and commentary may be nil.
func NewSurahResolver(
	primary EditionSource,
	fallback VerseSource,
	commentary CommentarySource,
	editions Editions,
	logger *zap.Logger,
	m *metrics.Metrics,
) *SurahResolver {
	return &SurahResolver{
		primary:    primary,
		fallback:   fallback,
		commentary: commentary,
		editions:   editions,
		logger:     logger.Named("surah"),
		metrics:    m,
	}
}

// surahText is the text part of a surah as produced by a single provider.
type surahText struct {
	arabic          []provider.Passage
	translation     []provider.Passage
	transliteration []provider.Passage
}

var errEditionDisabled = errors.New("edition not configured")

// Resolve fetches and merges one surah. Commentary runs alongside the text
// strategies; the text itself comes entirely from the first provider that
// delivers Arabic.
func (r *SurahResolver) Resolve(ctx context.Context, number int) (*core.Surah, error) {
	resource := fmt.Sprintf("surah %d", number)
	if number < 1 || number > SurahCount {
		return nil, &core.ResolutionError{Resource: resource, Reason: "invalid surah number"}
	}

	var (
		text       surahText
		source     string
		commentary []provider.Passage
	)

	_, err := gather(ctx, r.logger,
		part{name: "text", mandatory: true, run: func(ctx context.Context) error {
			var err error
			text, source, err = FirstSuccess(ctx, resource, r.strategies(number), r.logger, r.metrics)
			return err
		}},
		part{name: core.FieldCommentary, run: func(ctx context.Context) error {
			if r.commentary == nil || r.editions.Commentary == "" {
				return errEditionDisabled
			}
			var err error
			commentary, err = r.commentary.Surah(ctx, r.editions.Commentary, number)
			return err
		}},
	)
	if err != nil {
		var resErr *core.ResolutionError
		if errors.As(err, &resErr) {
			return nil, resErr
		}
		return nil, &core.ResolutionError{Resource: resource, Reason: ReasonExhausted, Err: err}
	}

	return r.merge(number, source, text, commentary), nil
}

func (r *SurahResolver) strategies(number int) []Strategy[surahText] {
	strategies := []Strategy[surahText]{{
		Name: provider.AlQuranCloudName,
		Run: func(ctx context.Context) (surahText, error) {
			return r.fromPrimary(ctx, number)
		},
	}}
	if r.fallback != nil {
		strategies = append(strategies, Strategy[surahText]{
			Name: provider.QuranComName,
			Run: func(ctx context.Context) (surahText, error) {
				return r.fromFallback(ctx, number)
			},
		})
	}
	return strategies
}

func (r *SurahResolver) fromPrimary(ctx context.Context, number int) (surahText, error) {
	var out surahText
	edition := func(name string, dest *[]provider.Passage) func(context.Context) error {
		return func(ctx context.Context) error {
			if name == "" {
				return errEditionDisabled
			}
			passages, err := r.primary.Edition(ctx, number, name)
			if err != nil {
				return err
			}
			*dest = passages
			return nil
		}
	}

	_, err := gather(ctx, r.logger,
		part{name: core.FieldArabic, mandatory: true, run: edition(r.editions.Arabic, &out.arabic)},
		part{name: core.FieldTranslation, run: edition(r.editions.Translation, &out.translation)},
		part{name: core.FieldTransliteration, run: edition(r.editions.Transliteration, &out.transliteration)},
	)
	if err != nil {
		return surahText{}, err
	}
	return out, nil
}

func (r *SurahResolver) fromFallback(ctx context.Context, number int) (surahText, error) {
	verses, err := r.fallback.Verses(ctx, number)
	if err != nil {
		return surahText{}, err
	}
	return surahText{arabic: verses.Arabic, translation: verses.Translation}, nil
}

func (r *SurahResolver) merge(number int, source string, text surahText, commentary []provider.Passage) *core.Surah {
	surah := &core.Surah{Number: number, Source: source}

	fields := []struct {
		name     string
		passages []provider.Passage
		set      func(v *core.VerseRecord, s string)
	}{
		{core.FieldTranslation, text.translation, func(v *core.VerseRecord, s string) { v.TranslationText = s }},
		{core.FieldTransliteration, text.transliteration, func(v *core.VerseRecord, s string) { v.TransliterationText = s }},
		{core.FieldCommentary, commentary, func(v *core.VerseRecord, s string) { v.CommentaryText = s }},
	}

	verses := make([]core.VerseRecord, len(text.arabic))
	for i, p := range text.arabic {
		verses[i] = core.VerseRecord{
			GlobalID:    p.GlobalID,
			SurahNumber: number,
			VerseNumber: p.Number,
			ArabicText:  p.Text,
		}
	}

	for _, f := range fields {
		texts, ok := align(text.arabic, f.passages)
		if !ok {
			if len(f.passages) > 0 {
				r.logger.Warn("Dropping misaligned field",
					zap.Int("surah", number),
					zap.String("field", f.name),
					zap.Int("expected", len(text.arabic)),
					zap.Int("got", len(f.passages)))
			}
			r.metrics.RecordDegraded("surah", f.name)
			surah.Missing = append(surah.Missing, f.name)
			continue
		}
		for i := range verses {
			f.set(&verses[i], texts[i])
		}
	}

	surah.Verses = verses
	return surah
}
