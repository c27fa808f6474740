package matching

import (
	"math"
	"strings"

	"hirewave/placement-portal/internal/models"
)

const (
	// FloorScore is used when the computed score is zero or undefined.
	FloorScore = 40
	// PreMatchedFloor is the minimum score of a pre-matched listing.
	PreMatchedFloor = 85

	maxMissingKeywords = 3
	wordsPerTerm       = 5
)

// FillerKeywords stand in for missing keywords when every resume term was
// found in the listing.
var FillerKeywords = []string{"Cloud Services", "System Design", "Team Leadership"}

// Score computes how well a resume analysis matches a job listing.
func Score(analysis *models.ResumeAnalysis, listing models.JobListing) models.MatchResult {
	terms := resumeTerms(analysis)
	haystack := strings.ToLower(strings.Join([]string{listing.Title, listing.Description, listing.CompanyName}, " "))

	matched := 0
	missing := make([]string, 0, maxMissingKeywords)
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
			continue
		}
		if len(missing) < maxMissingKeywords {
			missing = append(missing, term)
		}
	}

	score := baseScore(matched, len(strings.Fields(haystack)))
	if listing.PreMatched && score < PreMatchedFloor {
		score = PreMatchedFloor
	}

	if len(missing) == 0 {
		missing = append(missing, FillerKeywords...)
	}

	return models.MatchResult{
		Score:           score,
		MissingKeywords: missing,
	}
}

func baseScore(matched, words int) int {
	if words == 0 {
		return FloorScore
	}

	raw := math.Round(100 * float64(matched) / (float64(words) / wordsPerTerm))
	if math.IsNaN(raw) || raw <= 0 {
		return FloorScore
	}
	if raw > 100 {
		return 100
	}
	return int(raw)
}

// resumeTerms returns the lower-cased technical skills, tools and suitable
// roles of the analysis, deduplicated in first-seen order.
func resumeTerms(analysis *models.ResumeAnalysis) []string {
	if analysis == nil {
		return nil
	}

	sources := [][]string{
		analysis.CategorizedSkills.Technical,
		analysis.CategorizedSkills.Tools,
		analysis.SuitableRoles,
	}

	seen := make(map[string]struct{})
	var terms []string
	for _, source := range sources {
		for _, raw := range source {
			term := strings.ToLower(strings.TrimSpace(raw))
			if term == "" {
				continue
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
	}
	return terms
}
