package noteservice

import (
	"context"
	"sort"

	"github.com/starford/laguz/internal/analyze"
	"github.com/starford/laguz/internal/store"
)

const (
	similarityThreshold = 0.1
	maxSimilar          = 3
)

// SimilarOpportunity is an opportunity whose keyword profile overlaps the
// analyzed content.
type SimilarOpportunity struct {
	OpportunityID    string   `json:"opportunity_id"`
	Title            string   `json:"title"`
	SimilarityScore  float64  `json:"similarity_score"`
	MatchingKeywords []string `json:"matching_keywords"`
}

// TextAnalysis is the result of analyzing free-form content against the
// stored opportunities.
type TextAnalysis struct {
	Keywords             []string             `json:"keywords"`
	Patterns             map[string][]string  `json:"patterns,omitempty"`
	SuggestedTags        []string             `json:"suggested_tags"`
	SimilarOpportunities []SimilarOpportunity `json:"similar_opportunities"`
}

// AnalyzeText extracts keywords, patterns, and tag suggestions from content
// and ranks stored opportunities by keyword overlap.
func (s *Service) AnalyzeText(_ context.Context, content string) (*TextAnalysis, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}

	a := analyze.Content(content)
	result := &TextAnalysis{
		Keywords:             a.Keywords,
		Patterns:             a.Patterns,
		SuggestedTags:        a.SuggestedTags,
		SimilarOpportunities: []SimilarOpportunity{},
	}

	opps, err := s.db.ListOpportunities(store.OpportunityFilter{})
	if err != nil {
		return nil, err
	}

	for _, opp := range opps {
		oppKeywords := analyze.Keywords(opp.Title + " " + opp.Description)
		score := analyze.Jaccard(a.Keywords, oppKeywords)
		if score <= similarityThreshold {
			continue
		}
		result.SimilarOpportunities = append(result.SimilarOpportunities, SimilarOpportunity{
			OpportunityID:    opp.ID,
			Title:            opp.Title,
			SimilarityScore:  score,
			MatchingKeywords: intersect(a.Keywords, oppKeywords),
		})
	}

	sort.Slice(result.SimilarOpportunities, func(i, j int) bool {
		return result.SimilarOpportunities[i].SimilarityScore > result.SimilarOpportunities[j].SimilarityScore
	})
	if len(result.SimilarOpportunities) > maxSimilar {
		result.SimilarOpportunities = result.SimilarOpportunities[:maxSimilar]
	}
	return result, nil
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, w := range b {
		set[w] = struct{}{}
	}
	out := []string{}
	for _, w := range a {
		if _, ok := set[w]; ok {
			out = append(out, w)
		}
	}
	return out
}
