package usecase

import (
	"log"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Scoring weights for title matching. Query coverage dominates: a query
// whose tokens all appear in a title is a strong match even when the title
// carries extra detail.
const (
	queryCoverageWeight = 0.60
	titleCoverageWeight = 0.20
	jaccardWeight       = 0.20

	substringBonus   = 10.0
	fuzzyMatchWeight = 0.8 // typo-tolerant token matches count at 80%

	fuzzyEditDistance = 1
	fuzzyMinTokenLen  = 4 // shorter tokens produce too many false positives
)

// TitleMatch is the result of resolving a query against the catalog titles.
type TitleMatch struct {
	Index int     // catalog position of the matched title
	Title string  // lowercased matched title
	Score float64 // 0-100
}

// TitleMatcher resolves free-text queries to the best-matching catalog title
// using approximate string matching. Matching is case-insensitive and
// tolerant of typos and partial queries. There is no score floor: the best
// available title is always returned, however weak; only an empty catalog
// produces no match.
type TitleMatcher struct {
	titles             []string // lowercased, catalog order
	enableDebugLogging bool
}

// NewTitleMatcher creates a matcher over the given catalog titles.
func NewTitleMatcher(titles []string, enableDebugLogging bool) *TitleMatcher {
	lowered := make([]string, len(titles))
	for i, title := range titles {
		lowered[i] = strings.ToLower(title)
	}
	return &TitleMatcher{titles: lowered, enableDebugLogging: enableDebugLogging}
}

// Match returns the highest-scoring title for the query. Ties resolve to the
// first title in catalog order (strict greater-than comparison during the
// scan). ok is false only when the matcher holds no titles.
func (m *TitleMatcher) Match(query string) (TitleMatch, bool) {
	if len(m.titles) == 0 {
		return TitleMatch{}, false
	}

	queryLower := strings.ToLower(query)
	queryTokens := tokenize(queryLower)

	best := TitleMatch{Index: -1, Score: -1}
	for i, title := range m.titles {
		score := m.scoreTitle(queryLower, queryTokens, title)
		if m.enableDebugLogging {
			log.Printf("[MATCH] title=%q score=%.1f", title, score)
		}
		if score > best.Score {
			best = TitleMatch{Index: i, Title: title, Score: score}
		}
	}

	if m.enableDebugLogging {
		log.Printf("[MATCH] query=%q best=%q score=%.1f", query, best.Title, best.Score)
	}
	return best, true
}

// scoreTitle computes a 0-100 similarity between the query and one title
// from a weighted blend of query-token coverage, title-token coverage and
// Jaccard overlap, plus a bonus for exact substring containment.
func (m *TitleMatcher) scoreTitle(queryLower string, queryTokens []string, title string) float64 {
	titleTokens := tokenize(title)
	if len(queryTokens) == 0 || len(titleTokens) == 0 {
		return 0
	}

	queryMatched := coverage(queryTokens, titleTokens)
	titleMatched := coverage(titleTokens, queryTokens)

	queryCoverage := queryMatched / float64(len(queryTokens))
	titleCoverage := titleMatched / float64(len(titleTokens))
	jaccard := queryMatched / float64(tokenUnion(queryTokens, titleTokens))

	score := (queryCoverage*queryCoverageWeight +
		titleCoverage*titleCoverageWeight +
		jaccard*jaccardWeight) * 100

	if len(queryLower) > 3 && (strings.Contains(title, queryLower) || strings.Contains(queryLower, title)) {
		score += substringBonus
	}

	if score > 100 {
		score = 100
	}
	return score
}

// coverage returns the weighted count of tokens from want that appear in
// have. Exact matches count 1.0; near matches within the edit-distance
// threshold count fuzzyMatchWeight.
func coverage(want, have []string) float64 {
	haveSet := make(map[string]bool, len(have))
	for _, t := range have {
		haveSet[t] = true
	}

	var matched float64
	for _, t := range want {
		if haveSet[t] {
			matched++
			continue
		}
		if fuzzyTokenMatch(t, have) {
			matched += fuzzyMatchWeight
		}
	}
	return matched
}

// fuzzyTokenMatch reports whether token is within the edit-distance
// threshold of any candidate. Only tokens of fuzzyMinTokenLen or more are
// considered.
func fuzzyTokenMatch(token string, candidates []string) bool {
	if len(token) < fuzzyMinTokenLen {
		return false
	}
	for _, c := range candidates {
		if len(c) < fuzzyMinTokenLen {
			continue
		}
		lenDiff := len(token) - len(c)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > fuzzyEditDistance {
			continue
		}
		if fuzzy.LevenshteinDistance(token, c) <= fuzzyEditDistance {
			return true
		}
	}
	return false
}

// tokenUnion returns the number of distinct tokens across both sequences.
func tokenUnion(a, b []string) int {
	set := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		set[t] = true
	}
	return len(set)
}
