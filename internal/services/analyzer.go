package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hirewave/placement-portal/internal/config"
	"hirewave/placement-portal/internal/models"
)

const responsePreviewLimit = 500

var analysisKeys = []string{
	"summary", "summaryCritique", "feedback", "feedbackPoints", "scoreBreakdown",
	"overallProbability", "placementProbability", "categorizedSkills", "suitableRoles",
	"companyTypes", "roadmap", "atsCheck",
}

// ResumeAnalyzer turns raw resume text into a structured analysis. It never
// fails: when every provider fails it returns a degraded analysis.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText string) *models.ResumeAnalysis
	Candidates() []string
}

type resumeAnalyzer struct {
	providers      []Provider
	promptBuilder  *PromptBuilder
	attemptTimeout time.Duration
	logger         *zap.Logger
}

func NewResumeAnalyzer(providers []Provider, promptBuilder *PromptBuilder, attemptTimeout time.Duration, logger *zap.Logger) ResumeAnalyzer {
	if promptBuilder == nil {
		promptBuilder = NewPromptBuilder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &resumeAnalyzer{
		providers:      providers,
		promptBuilder:  promptBuilder,
		attemptTimeout: attemptTimeout,
		logger:         logger,
	}
}

// Candidates implements ResumeAnalyzer.
func (a *resumeAnalyzer) Candidates() []string {
	names := make([]string, 0, len(a.providers))
	for _, p := range a.providers {
		names = append(names, p.Name())
	}
	return names
}

// Analyze implements ResumeAnalyzer.
func (a *resumeAnalyzer) Analyze(ctx context.Context, resumeText string) *models.ResumeAnalysis {
	prompt := a.promptBuilder.BuildResumeAnalysisPrompt(resumeText)

	var attemptErrs []error
	for i, provider := range a.providers {
		a.logger.Debug("analysis attempt",
			zap.String("model", provider.Name()),
			zap.Int("attempt", i+1),
			zap.Int("prompt_length", len(prompt)),
		)

		analysis, err := a.attempt(ctx, provider, prompt)
		if err != nil {
			a.logger.Warn("analysis attempt failed",
				zap.String("model", provider.Name()),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			attemptErrs = append(attemptErrs, fmt.Errorf("%s: %w", provider.Name(), err))
			continue
		}

		a.logger.Info("analysis completed", zap.String("model", provider.Name()), zap.Int("attempt", i+1))
		return analysis
	}

	exhausted := fmt.Errorf("%w: %w", ErrBackendExhausted, errors.Join(attemptErrs...))
	a.logger.Error("all analysis backends failed", zap.Int("candidates", len(a.providers)), zap.Error(exhausted))
	return degradedAnalysis(attemptErrs)
}

func (a *resumeAnalyzer) attempt(ctx context.Context, provider Provider, prompt string) (*models.ResumeAnalysis, error) {
	if a.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.attemptTimeout)
		defer cancel()
	}

	raw, err := provider.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("analysis response received",
		zap.String("model", provider.Name()),
		zap.String("response_preview", config.TruncateForLog(raw, responsePreviewLimit)),
	)

	return ParseAnalysis(raw)
}

// ParseAnalysis decodes a backend response into a ResumeAnalysis. Missing
// fields take their defaults. Anything that is not a JSON object, or an
// object carrying none of the analysis fields, is an error.
func ParseAnalysis(raw string) (*models.ResumeAnalysis, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	if data == nil {
		return nil, errors.New("analysis response is not a JSON object")
	}
	if !hasAnalysisField(data) {
		if reported, ok := data["error"]; ok {
			detail, _ := json.Marshal(reported)
			return nil, fmt.Errorf("backend reported error: %s", detail)
		}
		return nil, errors.New("analysis response has no analysis fields")
	}

	analysis := models.NewResumeAnalysis()

	critique, _ := data["summaryCritique"].(map[string]any)
	analysis.Summary = coerceString(firstPresent(data["summary"], critique["summary"]))
	analysis.FeedbackPoints = stringList(firstPresent(data["feedbackPoints"], data["feedback"], critique["feedback"]), false)

	if scores, ok := data["scoreBreakdown"].(map[string]any); ok {
		analysis.ScoreBreakdown = models.ScoreBreakdown{
			Education:  clampScore(scores["education"], models.MaxSectionScore),
			Skills:     clampScore(scores["skills"], models.MaxSectionScore),
			Projects:   clampScore(scores["projects"], models.MaxSectionScore),
			Experience: clampScore(scores["experience"], models.MaxSectionScore),
		}
	}
	analysis.OverallProbability = clampScore(firstPresent(data["overallProbability"], data["placementProbability"]), 100)

	if skills, ok := data["categorizedSkills"].(map[string]any); ok {
		analysis.CategorizedSkills = models.CategorizedSkills{
			Technical: stringList(skills["technical"], true),
			Tools:     stringList(skills["tools"], true),
			Soft:      stringList(skills["soft"], true),
		}
	}
	analysis.SuitableRoles = stringList(data["suitableRoles"], true)
	analysis.CompanyTypes = stringList(data["companyTypes"], true)
	analysis.Roadmap = roadmapItems(data["roadmap"])

	if ats, ok := data["atsCheck"].(map[string]any); ok {
		analysis.ATSCheck = models.ATSCheck{
			Keywords:    normalizeDensity(ats["keywords"]),
			Formatting:  normalizeQuality(ats["formatting"]),
			Readability: normalizeQuality(ats["readability"]),
		}
	}

	return analysis, nil
}

func hasAnalysisField(data map[string]any) bool {
	for _, key := range analysisKeys {
		if _, ok := data[key]; ok {
			return true
		}
	}
	return false
}

func degradedAnalysis(attemptErrs []error) *models.ResumeAnalysis {
	analysis := models.NewResumeAnalysis()
	analysis.Degraded = true

	if isRateLimited(attemptErrs) {
		analysis.Summary = "Analysis unavailable: the AI quota was reached (429 Too Many Requests)."
		analysis.FeedbackPoints = []string{"The AI limit is reached. Please wait a minute and upload your resume again."}
		return analysis
	}

	reason := "no analysis backend is configured"
	if n := len(attemptErrs); n > 0 {
		reason = attemptErrs[n-1].Error()
	}
	analysis.Summary = fmt.Sprintf("Analysis unavailable: %s", reason)
	analysis.FeedbackPoints = []string{"Check the AI API key permissions and the configured model list, then try again."}
	return analysis
}

func isRateLimited(errs []error) bool {
	for _, err := range errs {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "429") ||
			strings.Contains(msg, "too many requests") ||
			strings.Contains(msg, "resource_exhausted") {
			return true
		}
	}
	return false
}

// extractJSON strips markdown fences and keeps the outermost object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func firstPresent(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func clampScore(v any, upper int) int {
	f := coerceFloat(v)
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > float64(upper) {
		return upper
	}
	return int(math.Round(f))
}

// stringList accepts an array of strings or a comma separated string. With
// unique set, entries are deduplicated case-insensitively keeping the first
// spelling.
func stringList(v any, unique bool) []string {
	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			items = append(items, coerceString(item))
		}
	case string:
		if unique {
			items = strings.Split(val, ",")
		} else {
			items = []string{val}
		}
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if unique {
			key := strings.ToLower(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}

func roadmapItems(v any) []models.RoadmapItem {
	list, _ := v.([]any)
	items := make([]models.RoadmapItem, 0, len(list))
	for _, entry := range list {
		switch val := entry.(type) {
		case map[string]any:
			suggestion := coerceString(val["suggestion"])
			if suggestion == "" {
				continue
			}
			items = append(items, models.RoadmapItem{
				Suggestion: suggestion,
				Priority:   normalizePriority(val["priority"]),
			})
		case string:
			if s := strings.TrimSpace(val); s != "" {
				items = append(items, models.RoadmapItem{Suggestion: s, Priority: models.PriorityOptional})
			}
		}
	}
	return items
}

func normalizePriority(v any) models.Priority {
	switch strings.ToLower(coerceString(v)) {
	case "high":
		return models.PriorityHigh
	case "medium":
		return models.PriorityMedium
	default:
		return models.PriorityOptional
	}
}

func normalizeDensity(v any) models.KeywordDensity {
	if strings.EqualFold(coerceString(v), string(models.KeywordsHigh)) {
		return models.KeywordsHigh
	}
	return models.KeywordsLow
}

func normalizeQuality(v any) models.Quality {
	if strings.EqualFold(coerceString(v), string(models.QualityBad)) {
		return models.QualityBad
	}
	return models.QualityGood
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
