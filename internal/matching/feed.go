package matching

import (
	"sort"

	"hirewave/placement-portal/internal/models"
)

// MinFeedScore is the exclusive lower bound for a listing to appear in the
// blended feed.
const MinFeedScore = 10

// InternalFeed returns internal listings in their posting order.
func InternalFeed(listings []models.JobListing) []models.JobListing {
	out := make([]models.JobListing, len(listings))
	copy(out, listings)
	return out
}

// BlendedFeed scores internal and external listings against the analysis
// and returns them ranked by score, highest first. Equal scores keep their
// input order, so internal listings precede external ones.
func BlendedFeed(analysis *models.ResumeAnalysis, internal, external []models.JobListing) []models.RankedListing {
	ranked := make([]models.RankedListing, 0, len(internal)+len(external))
	for _, group := range [][]models.JobListing{internal, external} {
		for _, listing := range group {
			ranked = append(ranked, models.RankedListing{
				JobListing: listing,
				Match:      Score(analysis, listing),
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Match.Score > ranked[j].Match.Score
	})

	filtered := ranked[:0]
	for _, item := range ranked {
		if item.Match.Score > MinFeedScore {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
