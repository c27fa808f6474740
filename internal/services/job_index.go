package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
)

// JobIndex searches an external job listing index.
type JobIndex interface {
	Search(ctx context.Context, query string) ([]models.JobListing, error)
}

type AdzunaOptions struct {
	BaseURL        string
	AppID          string
	APIKey         string
	Country        string
	ResultsPerPage int
	Timeout        time.Duration
}

type adzunaClient struct {
	httpClient *http.Client
	opts       AdzunaOptions
	logger     *zap.Logger
}

type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RedirectURL string `json:"redirect_url"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

func NewAdzunaClient(opts AdzunaOptions, logger *zap.Logger) JobIndex {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ResultsPerPage <= 0 {
		opts.ResultsPerPage = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &adzunaClient{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		logger:     logger,
	}
}

// Search implements JobIndex.
func (c *adzunaClient) Search(ctx context.Context, query string) ([]models.JobListing, error) {
	if c.opts.AppID == "" || c.opts.APIKey == "" {
		return nil, fmt.Errorf("%w: job index credentials are not configured", ErrExternalFetchFailure)
	}

	endpoint := fmt.Sprintf("%s/%s/search/1", strings.TrimRight(c.opts.BaseURL, "/"), url.PathEscape(c.opts.Country))
	params := url.Values{}
	params.Set("app_id", c.opts.AppID)
	params.Set("app_key", c.opts.APIKey)
	params.Set("results_per_page", strconv.Itoa(c.opts.ResultsPerPage))
	params.Set("what", query)
	params.Set("content-type", "application/json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrExternalFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrExternalFetchFailure, resp.Status)
	}

	var payload adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrExternalFetchFailure, err)
	}

	listings := make([]models.JobListing, 0, len(payload.Results))
	for _, job := range payload.Results {
		listings = append(listings, models.JobListing{
			Title:       htmlToText(job.Title),
			Description: htmlToText(job.Description),
			SourceType:  models.SourceExternal,
			CompanyName: job.Company.DisplayName,
			Location:    job.Location.DisplayName,
			RedirectURL: job.RedirectURL,
		})
	}

	c.logger.Debug("job index search", zap.String("query", query), zap.Int("results", len(listings)))
	return listings, nil
}

// htmlToText drops markup such as highlight tags and collapses whitespace.
func htmlToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
