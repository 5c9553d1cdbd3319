// Package textnorm folds Latin transliterations and Arabic script into a
// comparable form so searches ignore diacritics, harakat and punctuation.
package textnorm

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Tatweel, alef wasla, alef maksura and teh marbuta survive NFKD but
	// readers treat them as their plain forms.
	arabicFolds = strings.NewReplacer(
		"\u0640", "",
		"\u0671", "\u0627",
		"\u0649", "\u064A",
		"\u0629", "\u0647",
	)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Fold lowercases text, strips combining marks (Latin accents and Arabic
// harakat alike) and collapses punctuation into single spaces.
func (n *Normalizer) Fold(text string) string {
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = arabicFolds.Replace(result.String())

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	return strings.TrimSpace(strings.ToLower(text))
}

// Similarity is the longest common subsequence of a and b relative to the
// longer of the two, counted in runes.
func (n *Normalizer) Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	return float64(longestCommonSubsequence(ra, rb)) / float64(max(len(ra), len(rb)))
}

// Score rates how well query matches candidate in [0, 1]. Both are folded.
// A candidate containing the whole query scores 1; one containing every
// query word scores 0.9; otherwise the best per-word similarity is used.
func (n *Normalizer) Score(query, candidate string) float64 {
	q, c := n.Fold(query), n.Fold(candidate)
	if q == "" || c == "" {
		return 0
	}
	if strings.Contains(c, q) {
		return 1
	}

	queryWords := strings.Fields(q)
	candidateWords := strings.Fields(c)

	allPresent := true
	for _, w := range queryWords {
		if !strings.Contains(c, w) {
			allPresent = false
			break
		}
	}
	if allPresent {
		return 0.9
	}

	best := n.Similarity(q, c)
	for _, w := range candidateWords {
		if s := n.Similarity(q, w); s > best {
			best = s
		}
	}
	return best * 0.8
}

// Match is one ranked search hit.
type Match[T any] struct {
	Item  T
	Score float64
}

// Rank scores every item by its best matching field and returns the items
// at or above threshold, best first. Ties keep input order.
func Rank[T any](n *Normalizer, query string, items []T, fields func(T) []string, threshold float64) []Match[T] {
	var matches []Match[T]
	for _, item := range items {
		best := 0.0
		for _, field := range fields(item) {
			if s := n.Score(query, field); s > best {
				best = s
			}
		}
		if best >= threshold && best > 0 {
			matches = append(matches, Match[T]{Item: item, Score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func longestCommonSubsequence(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
