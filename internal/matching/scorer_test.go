package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hirewave/placement-portal/internal/models"
)

func analysisWith(technical, tools, roles []string) *models.ResumeAnalysis {
	analysis := models.NewResumeAnalysis()
	analysis.CategorizedSkills.Technical = technical
	analysis.CategorizedSkills.Tools = tools
	analysis.SuitableRoles = roles
	return analysis
}

// listingOfWords builds a listing whose haystack has exactly words fields
// and whose description starts with lead.
func listingOfWords(lead string, words int) models.JobListing {
	fillerCount := words - 3 - len(strings.Fields(lead))
	filler := strings.TrimSpace(strings.Repeat("word ", fillerCount))
	return models.JobListing{
		Title:       "Platform Engineer",
		Description: lead + " " + filler,
		CompanyName: "Acme",
	}
}

func TestScore_ClampsToHundred(t *testing.T) {
	analysis := analysisWith([]string{"Go", "Docker"}, []string{"Git"}, []string{"Backend Developer"})
	listing := models.JobListing{
		Title:       "Backend Developer",
		Description: "Build services in Go with Docker",
		CompanyName: "Acme",
	}

	result := Score(analysis, listing)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, []string{"git"}, result.MissingKeywords)
}

func TestScore_ProportionalToWordCount(t *testing.T) {
	analysis := analysisWith([]string{"Kubernetes", "Terraform"}, nil, nil)

	// 2 matches over 40 words: 100 * 2 / 8 = 25
	listing := listingOfWords("kubernetes terraform", 40)
	assert.Len(t, strings.Fields(listing.Title+" "+listing.Description+" "+listing.CompanyName), 40)

	result := Score(analysis, listing)
	assert.Equal(t, 25, result.Score)
}

func TestScore_FloorWhenNothingMatches(t *testing.T) {
	analysis := analysisWith([]string{"Rust"}, []string{"Bazel"}, []string{"Systems Engineer"})
	listing := models.JobListing{Title: "Accountant", Description: "Ledgers and audits", CompanyName: "Books Ltd"}

	result := Score(analysis, listing)

	assert.Equal(t, FloorScore, result.Score)
	assert.Equal(t, []string{"rust", "bazel", "systems engineer"}, result.MissingKeywords)
}

func TestScore_FloorForEmptyHaystack(t *testing.T) {
	analysis := analysisWith([]string{"Go"}, nil, nil)

	result := Score(analysis, models.JobListing{})

	assert.Equal(t, FloorScore, result.Score)
}

func TestScore_PreMatchedFloor(t *testing.T) {
	analysis := analysisWith([]string{"Kubernetes", "Terraform"}, nil, nil)
	listing := listingOfWords("kubernetes terraform", 40)
	listing.PreMatched = true

	assert.Equal(t, PreMatchedFloor, Score(analysis, listing).Score)

	full := models.JobListing{Title: "Kubernetes Terraform", PreMatched: true}
	assert.Equal(t, 100, Score(analysis, full).Score)
}

func TestScore_MissingKeywordsCappedAtThree(t *testing.T) {
	analysis := analysisWith([]string{"Rust", "Zig", "Haskell", "OCaml"}, nil, nil)
	listing := models.JobListing{Title: "Writer", Description: "Blog posts", CompanyName: "Media"}

	result := Score(analysis, listing)

	assert.Equal(t, []string{"rust", "zig", "haskell"}, result.MissingKeywords)
}

// When nothing is missing the scorer reports generic improvement areas
// instead of an empty list.
func TestScore_FillerKeywordsWhenNothingMissing(t *testing.T) {
	analysis := analysisWith([]string{"Go"}, []string{"Docker"}, nil)
	listing := models.JobListing{Title: "Go Developer", Description: "Docker", CompanyName: "Acme"}

	result := Score(analysis, listing)

	assert.Equal(t, FillerKeywords, result.MissingKeywords)

	result.MissingKeywords[0] = "mutated"
	assert.Equal(t, "Cloud Services", FillerKeywords[0])
}

func TestScore_IgnoresEmptyAndDuplicateTerms(t *testing.T) {
	analysis := analysisWith([]string{"", "  ", "Rust", "rust"}, []string{"RUST"}, nil)
	listing := models.JobListing{Title: "Writer", Description: "Blog posts", CompanyName: "Media"}

	result := Score(analysis, listing)

	assert.Equal(t, FloorScore, result.Score)
	assert.Equal(t, []string{"rust"}, result.MissingKeywords)
}

func TestScore_NilAnalysis(t *testing.T) {
	result := Score(nil, models.JobListing{Title: "Go Developer"})

	assert.Equal(t, FloorScore, result.Score)
	assert.Equal(t, FillerKeywords, result.MissingKeywords)
}

func TestScore_Deterministic(t *testing.T) {
	analysis := analysisWith([]string{"Go", "SQL"}, []string{"Git"}, []string{"Backend Developer"})
	listing := listingOfWords("go sql", 30)

	first := Score(analysis, listing)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(analysis, listing))
	}
}

func TestScore_Bounds(t *testing.T) {
	analysis := analysisWith([]string{"a", "e", "i", "o", "u"}, []string{"x"}, []string{"y"})
	listings := []models.JobListing{
		{},
		{Title: "a"},
		{Title: "aeiou", Description: strings.Repeat("long text ", 200)},
		{Title: "nothing", PreMatched: true},
	}

	for _, listing := range listings {
		result := Score(analysis, listing)
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, 100)
	}
}
