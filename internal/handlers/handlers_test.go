package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/config"
	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories/repotest"
	"hirewave/placement-portal/internal/services"
)

const resumeAnalysisJSON = `{
  "summary": "Backend focused graduate.",
  "feedback": ["Quantify project impact"],
  "scoreBreakdown": {"education": 20, "skills": 20, "projects": 15, "experience": 5},
  "placementProbability": 60,
  "categorizedSkills": {"technical": ["Go", "PostgreSQL"], "tools": ["Docker"], "soft": ["Teamwork"]},
  "suitableRoles": ["Backend Engineer"],
  "companyTypes": ["Product"],
  "roadmap": [{"suggestion": "Learn Kubernetes", "priority": "High"}],
  "atsCheck": {"keywords": "High", "formatting": "Good", "readability": "Good"}
}`

type stubProvider struct{}

func (stubProvider) Name() string { return "stub-model" }

func (stubProvider) GenerateText(context.Context, string) (string, error) {
	return resumeAnalysisJSON, nil
}

type stubExtractor struct{}

func (stubExtractor) ExtractText([]byte) (string, error) { return "Go developer", nil }

func (stubExtractor) ExtractTextFromFile(string) (string, error) { return "Go developer", nil }

type stubJobIndex struct {
	listings []models.JobListing
}

func (s *stubJobIndex) Search(context.Context, string) ([]models.JobListing, error) {
	return append([]models.JobListing(nil), s.listings...), nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (s *recordingSink) Start(context.Context) {}
func (s *recordingSink) Stop()                 {}

func (s *recordingSink) Emit(event models.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Method+" "+e.Path)
	}
	return out
}

type testEnv struct {
	app   *fiber.App
	store *repotest.Store
	auth  services.AuthService
	audit *recordingSink
	index *stubJobIndex
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	store := repotest.NewStore()

	passwords, err := config.NewPasswordConfig(4)
	require.NoError(t, err)
	auth := services.NewAuthService(store.Users(), passwords, "handler-test-secret", 1, log)

	analyzer := services.NewResumeAnalyzer([]services.Provider{stubProvider{}}, nil, time.Second, log)
	storage := services.NewStorageService(t.TempDir())
	resume := services.NewResumeService(store.Students(), storage, stubExtractor{}, analyzer, log)
	index := &stubJobIndex{}
	feed := services.NewFeedService(store.Students(), store.Jobs(), store.Applications(), index, "", log)
	audit := &recordingSink{}

	router := &Router{
		Auth:             NewAuthHandler(auth, store.Users(), log),
		Student:          NewStudentHandler(store.Students(), store.Jobs(), store.Applications(), resume, feed, 1<<20, log),
		Company:          NewCompanyHandler(store.Companies(), store.Jobs(), store.Applications(), log),
		Admin:            NewAdminHandler(store.Users(), store.Students(), store.Applications(), store.Audit(), log),
		AuthService:      auth,
		AuditSink:        audit,
		UploadsPerMinute: 2,
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	router.Register(app)

	return &testEnv{app: app, store: store, auth: auth, audit: audit, index: index}
}

func (e *testEnv) token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := e.auth.GenerateToken(&user)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req, token)
}

func (e *testEnv) upload(t *testing.T, token, filename string, content []byte) (int, []byte) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/student/upload-resume", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return e.send(t, req, token)
}

func (e *testEnv) send(t *testing.T, req *http.Request, token string) (int, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	register := models.RegisterRequest{Username: "asha", Email: "asha@example.com", Password: "secret1", Role: models.RoleStudent}
	status, _ := env.do(t, http.MethodPost, "/api/auth/register", "", register)
	assert.Equal(t, http.StatusCreated, status)

	status, body := env.do(t, http.MethodPost, "/api/auth/register", "", register)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), "already exists")

	status, body = env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Identifier: "asha@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, status)
	login := decode[models.LoginResponse](t, body)
	assert.Equal(t, models.RoleStudent, login.Role)

	status, body = env.do(t, http.MethodGet, "/api/auth/verify", login.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "asha", decode[models.UserSummary](t, body).Username)

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Identifier: "asha", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodPost, "/api/auth/forgot-password", "", models.ForgotPasswordRequest{Username: "asha", Email: "asha@example.com", NewPassword: "changed"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Identifier: "asha", Password: "changed"})
	assert.Equal(t, http.StatusOK, status)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Username: "asha", Email: "not-an-email", Password: "secret1", Role: models.RoleStudent})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Email")

	status, _ = env.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Username: "root", Email: "root@example.com", Password: "secret1", Role: models.RoleAdmin})
	assert.Equal(t, http.StatusBadRequest, status, "admins cannot self-register")
}

func TestAuthorization(t *testing.T) {
	env := newTestEnv(t)
	company := env.store.AddUser("acme", models.RoleCompany, models.UserApproved)

	status, body := env.do(t, http.MethodGet, "/api/student/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, float64(http.StatusUnauthorized), decode[map[string]interface{}](t, body)["code"])

	status, _ = env.do(t, http.MethodGet, "/api/student/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodGet, "/api/student/profile", env.token(t, company), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodGet, "/api/admin/users", env.token(t, company), nil)
	assert.Equal(t, http.StatusForbidden, status)

	assert.Equal(t, []string{"GET /api/student/profile", "GET /api/admin/users"}, env.audit.paths())
}

func TestAuditEventSurvivesLaterRequests(t *testing.T) {
	env := newTestEnv(t)
	admin := env.store.AddUser("admin", models.RoleAdmin, models.UserApproved)
	token := env.token(t, admin)

	status, _ := env.do(t, http.MethodGet, "/api/admin/users", token, nil)
	require.Equal(t, http.StatusOK, status)

	for i := 0; i < 20; i++ {
		status, _ = env.do(t, http.MethodPut, "/api/admin/approve/zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", token, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	}

	paths := env.audit.paths()
	require.Len(t, paths, 21)
	assert.Equal(t, "GET /api/admin/users", paths[0])
	assert.Equal(t, "PUT /api/admin/approve/zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", paths[20])
}

func TestStudentProfile(t *testing.T) {
	env := newTestEnv(t)
	student := env.store.AddUser("asha", models.RoleStudent, models.UserApproved)
	token := env.token(t, student)

	status, _ := env.do(t, http.MethodPut, "/api/student/profile", token, models.UpdateProfileRequest{FullName: "Asha Rao", CGPA: 11, Department: "CSE"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPut, "/api/student/profile", token, models.UpdateProfileRequest{FullName: "Asha Rao", CGPA: 8.4, Department: "CSE", Skills: "Go"})
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodGet, "/api/student/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	profile := decode[models.StudentProfile](t, body)
	assert.Equal(t, "Asha Rao", profile.FullName)
	assert.Equal(t, 8.4, profile.CGPA)
	assert.Equal(t, "asha", profile.Username)
}

func TestJobLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.store.AddUser("admin", models.RoleAdmin, models.UserApproved)
	student := env.store.AddUser("asha", models.RoleStudent, models.UserApproved)
	company := env.store.AddUser("acme", models.RoleCompany, models.UserApproved)
	rival := env.store.AddUser("globex", models.RoleCompany, models.UserApproved)
	env.store.SetStudent(student.ID, func(s *models.Student) { s.CGPA = 8; s.Department = "CSE" })

	studentToken := env.token(t, student)
	companyToken := env.token(t, company)

	status, body := env.do(t, http.MethodPost, "/api/company/jobs", companyToken, models.CreateJobRequest{Title: "Backend Intern", Description: "Go services", EligibilityCriteria: "7.5"})
	require.Equal(t, http.StatusCreated, status)
	job := decode[models.Job](t, body)

	status, body = env.do(t, http.MethodGet, "/api/student/jobs", studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	listings := decode[[]models.JobListing](t, body)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].Eligible)
	assert.Equal(t, "acme", listings[0].CompanyName)

	status, _ = env.do(t, http.MethodPost, "/api/student/apply/"+job.ID.String(), studentToken, nil)
	assert.Equal(t, http.StatusCreated, status)
	status, _ = env.do(t, http.MethodPost, "/api/student/apply/"+job.ID.String(), studentToken, nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = env.do(t, http.MethodPost, "/api/student/apply/not-a-uuid", studentToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodGet, "/api/company/applicants/"+job.ID.String(), companyToken, nil)
	require.Equal(t, http.StatusOK, status)
	applicants := decode[[]models.Applicant](t, body)
	require.Len(t, applicants, 1)
	assert.Equal(t, "asha", applicants[0].Username)

	status, _ = env.do(t, http.MethodGet, "/api/company/applicants/"+job.ID.String(), env.token(t, rival), nil)
	assert.Equal(t, http.StatusForbidden, status)

	appPath := "/api/company/application/" + applicants[0].ApplicationID.String()
	status, _ = env.do(t, http.MethodPut, appPath, companyToken, map[string]string{"status": "hired"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = env.do(t, http.MethodPut, appPath, companyToken, models.UpdateApplicationStatusRequest{Status: models.ApplicationPlaced})
	assert.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/api/company/jobs", companyToken, nil)
	require.Equal(t, http.StatusOK, status)
	own := decode[[]models.CompanyJob](t, body)
	require.Len(t, own, 1)
	assert.Equal(t, int64(1), own[0].ApplicantCount)

	status, body = env.do(t, http.MethodGet, "/api/admin/reports", env.token(t, admin), nil)
	require.Equal(t, http.StatusOK, status)
	report := decode[models.ReportResponse](t, body)
	assert.Equal(t, int64(1), report.Total)
	assert.Equal(t, int64(1), report.Placed)
	assert.Equal(t, int64(0), report.Unplaced)

	status, _ = env.do(t, http.MethodPut, "/api/company/jobs/"+job.ID.String()+"/close", companyToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = env.do(t, http.MethodGet, "/api/student/jobs", studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.JobListing](t, body))
}

func TestResumeUploadAndFeed(t *testing.T) {
	env := newTestEnv(t)
	student := env.store.AddUser("asha", models.RoleStudent, models.UserApproved)
	company := env.store.AddUser("acme", models.RoleCompany, models.UserApproved)
	env.store.AddJob(company.ID, "Backend Engineer", "Go and PostgreSQL services", "7")
	env.index.listings = []models.JobListing{{Title: "Backend Engineer", Description: "docker", CompanyName: "Beta"}}
	token := env.token(t, student)

	status, _ := env.do(t, http.MethodGet, "/api/student/analysis", token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := env.do(t, http.MethodGet, "/api/student/feed", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[models.FeedResponse](t, body).AnalysisAvailable)

	status, _ = env.upload(t, token, "resume.docx", []byte("PK"))
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.upload(t, token, "resume.pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusOK, status, string(body))
	upload := decode[models.UploadResponse](t, body)
	assert.Equal(t, "Backend focused graduate.", upload.Analysis.Summary)

	status, _ = env.upload(t, token, "resume.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, body = env.do(t, http.MethodGet, "/api/student/analysis", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Backend Engineer"}, decode[models.ResumeAnalysis](t, body).SuitableRoles)

	status, body = env.do(t, http.MethodGet, "/api/student/feed", token, nil)
	require.Equal(t, http.StatusOK, status)
	feed := decode[models.FeedResponse](t, body)
	assert.True(t, feed.AnalysisAvailable)
	assert.Equal(t, "Backend Engineer", feed.Query)
	require.Len(t, feed.Items, 2)
	for _, item := range feed.Items {
		assert.Greater(t, item.Match.Score, 10)
	}
	assert.Equal(t, models.SourceInternal, feed.Items[0].SourceType, "ties keep internal listings first")
	assert.Equal(t, 100, feed.Items[0].Match.Score)
	assert.Equal(t, models.SourceExternal, feed.Items[1].SourceType)
	assert.True(t, feed.Items[1].PreMatched)

	status, body = env.do(t, http.MethodGet, "/api/student/external-jobs?search=golang", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.JobListing](t, body), 1)

	status, body = env.do(t, http.MethodGet, "/api/student/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Go, PostgreSQL, Docker", decode[models.StudentProfile](t, body).Skills)
}

func TestUploadRequiresFile(t *testing.T) {
	env := newTestEnv(t)
	student := env.store.AddUser("asha", models.RoleStudent, models.UserApproved)

	status, _ := env.do(t, http.MethodPost, "/api/student/upload-resume", env.token(t, student), nil)

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminApproval(t *testing.T) {
	env := newTestEnv(t)
	admin := env.store.AddUser("admin", models.RoleAdmin, models.UserApproved)
	pending := env.store.AddUser("initech", models.RoleCompany, models.UserPending)
	adminToken := env.token(t, admin)

	status, body := env.do(t, http.MethodGet, "/api/admin/reports", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), decode[models.ReportResponse](t, body).PendingCompanies)

	status, _ = env.do(t, http.MethodPut, "/api/admin/approve/"+pending.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodPut, "/api/admin/approve/00000000-0000-0000-0000-000000000001", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodGet, "/api/admin/reports", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	report := decode[models.ReportResponse](t, body)
	assert.Equal(t, int64(0), report.PendingCompanies)
	require.Len(t, report.RecentActions, 1)
	assert.Equal(t, "Approved company: initech", report.RecentActions[0].Action)

	status, body = env.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.UserSummary](t, body), 2)
}
