package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
)

const noSkillsDetected = "No skills detected"

// ResumeService runs the upload pipeline: store, extract, analyze, persist.
type ResumeService interface {
	ProcessUpload(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*models.UploadResponse, error)
	AnalyzeFile(ctx context.Context, filePath string) (*models.ResumeAnalysis, error)
	LatestAnalysis(userID uuid.UUID) (*models.ResumeAnalysis, error)
}

type resumeService struct {
	studentRepo repositories.StudentRepository
	storage     StorageService
	extractor   TextExtractor
	analyzer    ResumeAnalyzer
	logger      *zap.Logger
}

func NewResumeService(
	studentRepo repositories.StudentRepository,
	storage StorageService,
	extractor TextExtractor,
	analyzer ResumeAnalyzer,
	logger *zap.Logger,
) ResumeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &resumeService{
		studentRepo: studentRepo,
		storage:     storage,
		extractor:   extractor,
		analyzer:    analyzer,
		logger:      logger,
	}
}

// ProcessUpload implements ResumeService. The newest upload replaces the
// stored resume path, skills and analysis.
func (s *resumeService) ProcessUpload(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*models.UploadResponse, error) {
	if _, err := s.studentRepo.FindByUserID(userID); err != nil {
		return nil, err
	}

	filename, filePath, err := s.storage.SaveFile(file, userID.String())
	if err != nil {
		return nil, err
	}

	analysis, err := s.AnalyzeFile(ctx, filePath)
	if err != nil {
		if delErr := s.storage.DeleteFile(filename); delErr != nil {
			s.logger.Warn("failed to remove rejected upload", zap.String("file", filename), zap.Error(delErr))
		}
		return nil, err
	}

	skills := SkillsSummary(analysis)
	if err := s.studentRepo.UpdateResume(userID, filename, skills, analysis); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.Info("resume processed",
		zap.String("user_id", userID.String()),
		zap.String("file", filename),
		zap.Bool("degraded", analysis.Degraded),
	)

	return &models.UploadResponse{
		Message:    "Resume analyzed successfully",
		ResumePath: filename,
		Analysis:   analysis,
	}, nil
}

// AnalyzeFile implements ResumeService.
func (s *resumeService) AnalyzeFile(ctx context.Context, filePath string) (*models.ResumeAnalysis, error) {
	text, err := s.extractor.ExtractTextFromFile(filePath)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(ctx, text), nil
}

// LatestAnalysis implements ResumeService. It returns nil when no resume has
// been analyzed yet.
func (s *resumeService) LatestAnalysis(userID uuid.UUID) (*models.ResumeAnalysis, error) {
	student, err := s.studentRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	return student.Analysis()
}

// SkillsSummary joins the technical skills and tools of an analysis into the
// comma separated profile skills string.
func SkillsSummary(analysis *models.ResumeAnalysis) string {
	if analysis == nil {
		return noSkillsDetected
	}

	skills := make([]string, 0, len(analysis.CategorizedSkills.Technical)+len(analysis.CategorizedSkills.Tools))
	seen := make(map[string]struct{})
	for _, group := range [][]string{analysis.CategorizedSkills.Technical, analysis.CategorizedSkills.Tools} {
		for _, skill := range group {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			skills = append(skills, strings.TrimSpace(skill))
		}
	}

	if len(skills) == 0 {
		return noSkillsDetected
	}
	return strings.Join(skills, ", ")
}
