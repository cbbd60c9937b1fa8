// package matcher aligns owned album names with canonical catalog names
package matcher

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/desertthunder/albumdiff/internal/models"
)

type candidate struct {
	name   string
	key    string
	tokens map[string]struct{}
}

// Index is a fuzzy lookup over one artist's canonical album names.
//
// An Index is built per job and never shared between goroutines.
type Index struct {
	candidates []candidate
}

// NewIndex builds an index over canonical, keeping its iteration order.
func NewIndex(canonical models.AlbumSet) *Index {
	names := canonical.Names()
	idx := &Index{candidates: make([]candidate, 0, len(names))}
	for _, n := range names {
		key := normalizeKey(n)
		idx.candidates = append(idx.candidates, candidate{name: n, key: key, tokens: tokenSet(key)})
	}
	return idx
}

func (idx *Index) Len() int { return len(idx.candidates) }

// score ranks a candidate against a query; compare with [score.beats].
type score struct {
	exact    bool
	shared   int
	contains bool
	distance int
}

func (s score) beats(o score) bool {
	if s.exact != o.exact {
		return s.exact
	}
	if s.shared != o.shared {
		return s.shared > o.shared
	}
	if s.contains != o.contains {
		return s.contains
	}
	return s.distance < o.distance
}

func (c candidate) score(key string, tokens map[string]struct{}) score {
	s := score{exact: c.key == key}
	for t := range tokens {
		if _, ok := c.tokens[t]; ok {
			s.shared++
		}
	}
	s.contains = fuzzy.Match(key, c.key) || fuzzy.Match(c.key, key)
	s.distance = fuzzy.LevenshteinDistance(key, c.key)
	return s
}

// Best returns the canonical name that most closely matches name.
//
// There is no quality threshold: any non-empty index yields a candidate.
// Candidates are ranked by exact normalized equality, then shared words,
// then subsequence containment, then edit distance; remaining ties go to
// the lexicographically smallest name. Returns false only for an empty index.
func (idx *Index) Best(name string) (string, bool) {
	if len(idx.candidates) == 0 {
		return "", false
	}

	key := normalizeKey(name)
	tokens := tokenSet(key)

	best := idx.candidates[0]
	bestScore := best.score(key, tokens)
	for _, c := range idx.candidates[1:] {
		s := c.score(key, tokens)
		if s.beats(bestScore) || (!bestScore.beats(s) && c.name < best.name) {
			best, bestScore = c, s
		}
	}
	return best.name, true
}

// ComputeMissing returns the canonical names that no owned name aligns to, in canonical order.
//
// Each owned name claims exactly one canonical name. The result is never nil.
func ComputeMissing(canonical, owned models.AlbumSet) []string {
	idx := NewIndex(canonical)

	matched := make(map[string]struct{}, owned.Len())
	for _, n := range owned.Names() {
		if best, ok := idx.Best(n); ok {
			matched[best] = struct{}{}
		}
	}

	missing := make([]string, 0, canonical.Len())
	for _, n := range canonical.Names() {
		if _, ok := matched[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
