package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hirewave/placement-portal/internal/matching"
	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
)

// FeedService assembles the job listings a student sees.
type FeedService interface {
	// InternalJobs lists open postings annotated for the student.
	InternalJobs(ctx context.Context, userID uuid.UUID) ([]models.JobListing, error)
	// ExternalJobs searches the job index. A failed search yields an empty list.
	ExternalJobs(ctx context.Context, query string) []models.JobListing
	// Blended ranks internal and external listings against the student's
	// latest resume analysis.
	Blended(ctx context.Context, userID uuid.UUID, query string) (*models.FeedResponse, error)
}

type feedService struct {
	studentRepo  repositories.StudentRepository
	jobRepo      repositories.JobRepository
	appRepo      repositories.ApplicationRepository
	jobIndex     JobIndex
	defaultQuery string
	logger       *zap.Logger
}

func NewFeedService(
	studentRepo repositories.StudentRepository,
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	jobIndex JobIndex,
	defaultQuery string,
	logger *zap.Logger,
) FeedService {
	if strings.TrimSpace(defaultQuery) == "" {
		defaultQuery = "software engineer"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &feedService{
		studentRepo:  studentRepo,
		jobRepo:      jobRepo,
		appRepo:      appRepo,
		jobIndex:     jobIndex,
		defaultQuery: defaultQuery,
		logger:       logger,
	}
}

// InternalJobs implements FeedService.
func (s *feedService) InternalJobs(ctx context.Context, userID uuid.UUID) ([]models.JobListing, error) {
	student, err := s.studentRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.internalListings(student)
}

func (s *feedService) internalListings(student *models.Student) ([]models.JobListing, error) {
	jobs, err := s.jobRepo.ListOpen()
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}

	applications, err := s.appRepo.ListByStudent(student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	statusByJob := make(map[uuid.UUID]models.ApplicationStatus, len(applications))
	for _, app := range applications {
		statusByJob[app.JobID] = app.Status
	}

	listings := make([]models.JobListing, 0, len(jobs))
	for _, job := range jobs {
		id := job.ID
		required := matching.ParseQualification(job.EligibilityCriteria)
		listing := models.JobListing{
			ID:                    &id,
			Title:                 job.Title,
			Description:           job.Description,
			RequiredQualification: &required,
			SourceType:            models.SourceInternal,
			CompanyName:           job.CompanyName,
			Eligible:              matching.IsEligible(student.CGPA, required),
		}
		if status, ok := statusByJob[job.ID]; ok {
			listing.ApplicationStatus = &status
		}
		listings = append(listings, listing)
	}

	return matching.InternalFeed(listings), nil
}

// ExternalJobs implements FeedService.
func (s *feedService) ExternalJobs(ctx context.Context, query string) []models.JobListing {
	query = strings.TrimSpace(query)
	if query == "" {
		query = s.defaultQuery
	}
	if s.jobIndex == nil {
		return []models.JobListing{}
	}

	listings, err := s.jobIndex.Search(ctx, query)
	if err != nil {
		s.logger.Warn("external job search failed", zap.String("query", query), zap.Error(err))
		return []models.JobListing{}
	}

	for i := range listings {
		listings[i].SourceType = models.SourceExternal
	}
	return listings
}

// Blended implements FeedService.
func (s *feedService) Blended(ctx context.Context, userID uuid.UUID, query string) (*models.FeedResponse, error) {
	student, err := s.studentRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	analysis, err := student.Analysis()
	if err != nil {
		s.logger.Warn("stored resume analysis is unreadable", zap.String("student_id", student.ID.String()), zap.Error(err))
		analysis = nil
	}

	topRole := analysis.TopRole()
	query = strings.TrimSpace(query)
	if query == "" {
		query = topRole
	}
	if query == "" {
		query = s.defaultQuery
	}

	if analysis == nil {
		return &models.FeedResponse{Query: query, Items: []models.RankedListing{}}, nil
	}

	var internal, external []models.JobListing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listings, err := s.internalListings(student)
		if err != nil {
			return err
		}
		internal = listings
		return nil
	})
	g.Go(func() error {
		external = s.ExternalJobs(gctx, query)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if topRole != "" && strings.EqualFold(query, topRole) {
		for i := range external {
			external[i].PreMatched = true
		}
	}

	return &models.FeedResponse{
		Query:             query,
		AnalysisAvailable: true,
		Items:             matching.BlendedFeed(analysis, internal, external),
	}, nil
}
