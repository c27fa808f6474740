package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
	"hirewave/placement-portal/internal/repositories/repotest"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText([]byte) (string, error) { return s.text, s.err }

func (s *stubExtractor) ExtractTextFromFile(string) (string, error) { return s.text, s.err }

type resumeFixture struct {
	store   *repotest.Store
	user    models.User
	dir     string
	service ResumeService
}

func newResumeFixture(t *testing.T, extractor TextExtractor, providers ...Provider) *resumeFixture {
	t.Helper()
	store := repotest.NewStore()
	dir := t.TempDir()
	analyzer := NewResumeAnalyzer(providers, nil, 0, zap.NewNop())
	return &resumeFixture{
		store:   store,
		user:    store.AddUser("asha", models.RoleStudent, models.UserApproved),
		dir:     dir,
		service: NewResumeService(store.Students(), NewStorageService(dir), extractor, analyzer, zap.NewNop()),
	}
}

func TestProcessUploadPersistsAnalysis(t *testing.T) {
	f := newResumeFixture(t, &stubExtractor{text: "Go developer"}, &stubProvider{name: "m", response: validAnalysisJSON})

	resp, err := f.service.ProcessUpload(context.Background(), f.user.ID, multipartFile(t, "resume", "cv.pdf", []byte("%PDF-1.4")))

	require.NoError(t, err)
	assert.False(t, resp.Analysis.Degraded)
	assert.FileExists(t, filepath.Join(f.dir, resp.ResumePath))

	student, err := f.store.Students().FindByUserID(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ResumePath, student.ResumePath)
	assert.Equal(t, "Go, SQL, Docker", student.Skills)

	stored, err := f.service.LatestAnalysis(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Analysis, stored)
}

func TestProcessUploadDegradedAnalysisIsStillStored(t *testing.T) {
	f := newResumeFixture(t, &stubExtractor{text: "text"}, &stubProvider{name: "m", err: errors.New("429 Too Many Requests")})

	resp, err := f.service.ProcessUpload(context.Background(), f.user.ID, multipartFile(t, "resume", "cv.pdf", []byte("%PDF-1.4")))

	require.NoError(t, err)
	assert.True(t, resp.Analysis.Degraded)

	student, err := f.store.Students().FindByUserID(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "No skills detected", student.Skills)
}

func TestProcessUploadRejectsUnreadableDocument(t *testing.T) {
	f := newResumeFixture(t, &stubExtractor{err: ErrUnsupportedFormat})

	_, err := f.service.ProcessUpload(context.Background(), f.user.ID, multipartFile(t, "resume", "cv.pdf", []byte("garbage")))

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	entries, readErr := os.ReadDir(f.dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "rejected uploads are removed")

	student, _ := f.store.Students().FindByUserID(f.user.ID)
	assert.Empty(t, student.ResumePath)
}

func TestProcessUploadPersistenceFailure(t *testing.T) {
	f := newResumeFixture(t, &stubExtractor{text: "text"}, &stubProvider{name: "m", response: validAnalysisJSON})
	f.store.ErrUpdateResume = errors.New("connection reset")

	_, err := f.service.ProcessUpload(context.Background(), f.user.ID, multipartFile(t, "resume", "cv.pdf", []byte("%PDF-1.4")))

	assert.ErrorIs(t, err, ErrPersistence)
}

func TestProcessUploadUnknownStudent(t *testing.T) {
	f := newResumeFixture(t, &stubExtractor{text: "text"})

	_, err := f.service.ProcessUpload(context.Background(), uuid.New(), multipartFile(t, "resume", "cv.pdf", []byte("%PDF-1.4")))

	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestLatestAnalysisBeforeUpload(t *testing.T) {
	f := newResumeFixture(t, &stubExtractor{})

	analysis, err := f.service.LatestAnalysis(f.user.ID)

	require.NoError(t, err)
	assert.Nil(t, analysis)
}

func TestSkillsSummary(t *testing.T) {
	analysis := models.NewResumeAnalysis()
	assert.Equal(t, "No skills detected", SkillsSummary(analysis))
	assert.Equal(t, "No skills detected", SkillsSummary(nil))

	analysis.CategorizedSkills.Technical = []string{"Go", " Python "}
	analysis.CategorizedSkills.Tools = []string{"go", "Docker"}
	assert.Equal(t, "Go, Python, Docker", SkillsSummary(analysis))
}
