package textmatch

import (
	"strings"
)

// Distance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another
func Distance(s1, s2 string) int {
	s1 = normalize(s1)
	s2 = normalize(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// Match checks if query fuzzy-matches text within a given threshold
// threshold is the maximum allowed edit distance
func Match(query, text string, threshold int) bool {
	query = normalize(query)
	text = normalize(text)

	if strings.Contains(text, query) {
		return true
	}

	words := strings.Fields(text)
	for _, word := range words {
		if Distance(query, word) <= threshold {
			return true
		}
		if strings.HasPrefix(word, query) {
			return true
		}
	}

	// Check overall distance for short texts
	if len(text) < 50 {
		maxDistance := threshold + len(query)/5
		if Distance(query, text) <= maxDistance {
			return true
		}
	}

	return false
}

// Threshold picks a typo tolerance based on query length.
func Threshold(query string) int {
	switch {
	case len(query) <= 3:
		return 1
	case len(query) >= 8:
		return 3
	default:
		return 2
	}
}

// MatchesTask checks if a task's searchable fields match the query
func MatchesTask(query, title, description string, tags []string) bool {
	threshold := Threshold(query)

	if Match(query, title, threshold) {
		return true
	}

	for _, tag := range tags {
		if Match(query, tag, threshold) {
			return true
		}
	}

	// Only scan the head of long descriptions
	if len(description) > 0 {
		snippet := description
		if len(snippet) > 500 {
			snippet = snippet[:500]
		}
		if Match(query, snippet, threshold) {
			return true
		}
	}

	return false
}

// Score rates how relevant a task is to a query
// Higher score = more relevant
// Searches title, tags, and description fields
func Score(query, title, description string, tags []string) float64 {
	query = normalize(query)
	score := 0.0

	// Exact match in title (highest weight)
	titleNorm := normalize(title)
	if strings.Contains(titleNorm, query) {
		score += 100.0
		if containsWord(titleNorm, query) {
			score += 50.0
		}
	} else {
		for _, word := range strings.Fields(titleNorm) {
			dist := Distance(query, word)
			if dist <= 2 {
				score += 50.0 - float64(dist)*15
			}
			if strings.HasPrefix(word, query) {
				score += 40.0
			}
		}
	}

	// Tag matches
	for _, tag := range tags {
		tagNorm := normalize(tag)
		if tagNorm == query {
			score += 80.0
		} else if strings.Contains(tagNorm, query) {
			score += 40.0
		} else if dist := Distance(query, tagNorm); dist <= 2 {
			score += 30.0 - float64(dist)*10
		}
	}

	// Description match (lowest weight)
	descNorm := normalize(description)
	if len(descNorm) > 500 {
		descNorm = descNorm[:500]
	}
	if strings.Contains(descNorm, query) {
		score += 60.0
		if containsWord(descNorm, query) {
			score += 20.0
		}
	}

	return score
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalize converts to lowercase and collapses whitespace
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// containsWord checks if text contains query as a whole word
func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}
