// Package analyze extracts keywords, patterns, and tag suggestions from note
// content to support opportunity association.
package analyze

import (
	"regexp"
	"sort"
	"strings"
)

var (
	keywordRe     = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
	deadlineRe    = regexp.MustCompile(`(?i)\b(?:due|deadline|by)\s+([^\s.,!?]+)`)
	projectRe     = regexp.MustCompile(`(?i)\b(?:project|initiative|campaign)\s+([^\s.,!?]+)`)
	stakeholderRe = regexp.MustCompile(`(?i)\b(?:client|customer|user|stakeholder)\s+([^\s.,!?]+)`)
	technologyRe  = regexp.MustCompile(`\b(?:using|with|via)\s+([A-Z][a-zA-Z]+)`)
	priorityRe    = regexp.MustCompile(`(?i)\b(?:urgent|high|low|medium)\s+priority\b`)
)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "any": {}, "can": {}, "had": {}, "her": {},
	"was": {}, "one": {}, "our": {}, "out": {}, "day": {}, "get": {},
	"has": {}, "him": {}, "his": {}, "how": {}, "man": {}, "new": {},
	"now": {}, "old": {}, "see": {}, "two": {}, "way": {}, "who": {},
	"boy": {}, "did": {}, "its": {}, "let": {}, "put": {}, "say": {},
	"she": {}, "too": {}, "use": {},
}

// tag indicator words, checked as substrings of the lower-cased content.
var tagIndicators = map[string][]string{
	"meeting":  {"meeting", "call", "discussion"},
	"todo":     {"todo", "task", "action", "need to"},
	"idea":     {"idea", "concept", "thought"},
	"issue":    {"problem", "issue", "bug", "error"},
	"decision": {"decision", "choose", "select", "pick"},
}

const (
	maxKeywords      = 5
	maxSuggestedTags = 7
)

// Analysis holds the output of analyzing note content.
type Analysis struct {
	Keywords      []string            `json:"keywords"`
	Patterns      map[string][]string `json:"patterns,omitempty"`
	SuggestedTags []string            `json:"suggested_tags"`
}

// Content runs keyword extraction, pattern detection, and tag suggestion
// over raw note content.
func Content(content string) *Analysis {
	keywords := Keywords(content)
	patterns := Patterns(content)
	return &Analysis{
		Keywords:      keywords,
		Patterns:      patterns,
		SuggestedTags: SuggestTags(content, keywords, patterns),
	}
}

// Keywords returns the most frequent content words longer than three
// characters, stopwords excluded, capped at five.
func Keywords(content string) []string {
	words := keywordRe.FindAllString(strings.ToLower(content), -1)

	counts := make(map[string]int)
	for _, w := range words {
		counts[w]++
	}

	var candidates []string
	for w := range counts {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if len(w) <= 3 {
			continue
		}
		candidates = append(candidates, w)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if counts[candidates[i]] != counts[candidates[j]] {
			return counts[candidates[i]] > counts[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})

	if len(candidates) > maxKeywords {
		candidates = candidates[:maxKeywords]
	}
	return candidates
}

// Patterns detects workflow-relevant phrases: deadlines, projects,
// stakeholders, technologies, and priority markers. Categories without
// matches are omitted.
func Patterns(content string) map[string][]string {
	out := make(map[string][]string)

	collect := func(key string, re *regexp.Regexp, group int) {
		seen := make(map[string]struct{})
		var matches []string
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			v := m[group]
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			matches = append(matches, v)
		}
		if len(matches) > 0 {
			out[key] = matches
		}
	}

	collect("deadlines", deadlineRe, 1)
	collect("projects", projectRe, 1)
	collect("stakeholders", stakeholderRe, 1)
	collect("technologies", technologyRe, 1)
	collect("priorities", priorityRe, 0)

	return out
}

// SuggestTags combines top keywords, pattern categories, and indicator words
// into at most seven tag suggestions.
func SuggestTags(content string, keywords []string, patterns map[string][]string) []string {
	seen := make(map[string]struct{})
	var tags []string
	add := func(t string) {
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}

	for i, kw := range keywords {
		if i >= 3 {
			break
		}
		add(kw)
	}

	var categories []string
	for cat := range patterns {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		add(strings.TrimSuffix(cat, "s"))
	}

	lower := strings.ToLower(content)
	var indicatorTags []string
	for tag := range tagIndicators {
		indicatorTags = append(indicatorTags, tag)
	}
	sort.Strings(indicatorTags)
	for _, tag := range indicatorTags {
		for _, indicator := range tagIndicators[tag] {
			if strings.Contains(lower, indicator) {
				add(tag)
				break
			}
		}
	}

	if len(tags) > maxSuggestedTags {
		tags = tags[:maxSuggestedTags]
	}
	return tags
}

// Jaccard returns the set-overlap similarity of two keyword lists.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, w := range b {
		setB[w] = struct{}{}
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
