package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
	"hirewave/placement-portal/internal/repositories/repotest"
)

type feedFixture struct {
	store   *repotest.Store
	student models.User
	company models.User
	index   *stubJobIndex
	feed    FeedService
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	store := repotest.NewStore()
	f := &feedFixture{
		store:   store,
		student: store.AddUser("asha", models.RoleStudent, models.UserApproved),
		company: store.AddUser("acme", models.RoleCompany, models.UserApproved),
		index:   &stubJobIndex{},
	}
	f.feed = NewFeedService(store.Students(), store.Jobs(), store.Applications(), f.index, "", zap.NewNop())
	return f
}

func (f *feedFixture) setAnalysis(t *testing.T, analysis *models.ResumeAnalysis) {
	t.Helper()
	payload, err := json.Marshal(analysis)
	require.NoError(t, err)
	f.store.SetStudent(f.student.ID, func(s *models.Student) { s.ResumeAnalysis = datatypes.JSON(payload) })
}

func TestInternalJobsAnnotatesEligibilityAndStatus(t *testing.T) {
	f := newFeedFixture(t)
	f.store.SetStudent(f.student.ID, func(s *models.Student) { s.CGPA = 8.2 })
	easy := f.store.AddJob(f.company.ID, "Backend Intern", "Go services", "7.5")
	hard := f.store.AddJob(f.company.ID, "Research Intern", "ML", "9.0")
	f.store.AddJob(f.company.ID, "Open Role", "Anything", "")

	student, err := f.store.Students().FindByUserID(f.student.ID)
	require.NoError(t, err)
	require.NoError(t, f.store.Applications().Create(&models.Application{StudentID: student.ID, JobID: hard.ID}))

	listings, err := f.feed.InternalJobs(context.Background(), f.student.ID)

	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, easy.ID, *listings[0].ID)
	assert.True(t, listings[0].Eligible)
	assert.Equal(t, 7.5, *listings[0].RequiredQualification)
	assert.Nil(t, listings[0].ApplicationStatus)
	assert.Equal(t, "acme", listings[0].CompanyName)
	assert.Equal(t, models.SourceInternal, listings[0].SourceType)

	assert.False(t, listings[1].Eligible)
	require.NotNil(t, listings[1].ApplicationStatus)
	assert.Equal(t, models.ApplicationApplied, *listings[1].ApplicationStatus)

	assert.False(t, listings[2].Eligible, "no stated requirement is not eligible")
	assert.Equal(t, 0.0, *listings[2].RequiredQualification)
}

func TestInternalJobsUnknownStudent(t *testing.T) {
	f := newFeedFixture(t)

	_, err := f.feed.InternalJobs(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestExternalJobsDegradesToEmpty(t *testing.T) {
	f := newFeedFixture(t)
	f.index.err = ErrExternalFetchFailure

	listings := f.feed.ExternalJobs(context.Background(), "")

	assert.NotNil(t, listings)
	assert.Empty(t, listings)
	assert.Equal(t, []string{"software engineer"}, f.index.queries)
}

func TestBlendedWithoutAnalysis(t *testing.T) {
	f := newFeedFixture(t)

	resp, err := f.feed.Blended(context.Background(), f.student.ID, "")

	require.NoError(t, err)
	assert.False(t, resp.AnalysisAvailable)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "software engineer", resp.Query)
	assert.Empty(t, f.index.queries)
}

func TestBlendedMarksTopRoleResultsPreMatched(t *testing.T) {
	f := newFeedFixture(t)
	analysis := models.NewResumeAnalysis()
	analysis.SuitableRoles = []string{"Data Analyst"}
	analysis.CategorizedSkills.Technical = []string{"sql"}
	f.setAnalysis(t, analysis)
	f.store.AddJob(f.company.ID, "Accountant", "ledgers and audits", "6")
	f.index.listings = []models.JobListing{{Title: "Reporting Associate", Description: "dashboards", CompanyName: "Beta"}}

	resp, err := f.feed.Blended(context.Background(), f.student.ID, "")

	require.NoError(t, err)
	assert.True(t, resp.AnalysisAvailable)
	assert.Equal(t, "Data Analyst", resp.Query)
	assert.Equal(t, []string{"Data Analyst"}, f.index.queries)
	require.Len(t, resp.Items, 2)

	assert.Equal(t, "Reporting Associate", resp.Items[0].Title)
	assert.True(t, resp.Items[0].PreMatched)
	assert.Equal(t, 85, resp.Items[0].Match.Score)
	assert.Equal(t, "Accountant", resp.Items[1].Title)
	assert.Equal(t, 40, resp.Items[1].Match.Score)
}

func TestBlendedExplicitQueryIsNotPreMatched(t *testing.T) {
	f := newFeedFixture(t)
	analysis := models.NewResumeAnalysis()
	analysis.SuitableRoles = []string{"Data Analyst"}
	f.setAnalysis(t, analysis)
	f.index.listings = []models.JobListing{{Title: "Barista", Description: "coffee", CompanyName: "Cafe"}}

	resp, err := f.feed.Blended(context.Background(), f.student.ID, "barista")

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.False(t, resp.Items[0].PreMatched)
	assert.Equal(t, 40, resp.Items[0].Match.Score)
}

func TestBlendedFailsWhenInternalJobsFail(t *testing.T) {
	f := newFeedFixture(t)
	f.setAnalysis(t, models.NewResumeAnalysis())
	f.store.ErrListOpen = errors.New("db down")

	_, err := f.feed.Blended(context.Background(), f.student.ID, "")

	assert.ErrorContains(t, err, "db down")
}
