// Package repotest provides in-memory implementations of the repository
// interfaces for tests.
package repotest

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
)

// Store holds every table. Failures can be injected per operation through
// the Err* fields.
type Store struct {
	mu sync.Mutex

	users        []models.User
	students     []models.Student
	companies    []models.Company
	jobs         []models.Job
	applications []models.Application
	adminLogs    []models.AdminLog
	events       []models.AuditEvent

	ErrUpdateResume error
	ErrListOpen     error
	ErrCreateEvent  error
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Users() repositories.UserRepository               { return &userRepo{s} }
func (s *Store) Students() repositories.StudentRepository         { return &studentRepo{s} }
func (s *Store) Companies() repositories.CompanyRepository        { return &companyRepo{s} }
func (s *Store) Jobs() repositories.JobRepository                 { return &jobRepo{s} }
func (s *Store) Applications() repositories.ApplicationRepository { return &applicationRepo{s} }
func (s *Store) Audit() repositories.AuditRepository              { return &auditRepo{s} }

// AddUser registers a user with its profile and returns it.
func (s *Store) AddUser(username string, role models.Role, status models.UserStatus) models.User {
	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		Status:   status,
	}
	_ = s.Users().Register(&user)
	return user
}

// SetStudent replaces the student profile owned by userID.
func (s *Store) SetStudent(userID uuid.UUID, update func(*models.Student)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].UserID == userID {
			update(&s.students[i])
		}
	}
}

// AddJob stores an open job for the company owned by companyUserID.
func (s *Store) AddJob(companyUserID uuid.UUID, title, description, criteria string) models.Job {
	var companyID uuid.UUID
	if company, err := s.Companies().FindByUserID(companyUserID); err == nil {
		companyID = company.ID
	}
	job := models.Job{
		ID:                  uuid.New(),
		CompanyID:           companyID,
		Title:               title,
		Description:         description,
		EligibilityCriteria: criteria,
		Status:              models.JobOpen,
	}
	_ = s.Jobs().Create(&job)
	return job
}

func (s *Store) Events() []models.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditEvent(nil), s.events...)
}

func (s *Store) AdminLogs() []models.AdminLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AdminLog(nil), s.adminLogs...)
}

func (s *Store) now() time.Time {
	// Strictly increasing timestamps keep creation order stable.
	return time.Unix(0, 0).Add(time.Duration(len(s.users)+len(s.jobs)+len(s.applications)+len(s.adminLogs)+1) * time.Second)
}

func notFound(entity string) error {
	return fmt.Errorf("%s not found: %w", entity, repositories.ErrNotFound)
}

type userRepo struct{ s *Store }

func (r *userRepo) Register(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("user: %w", repositories.ErrDuplicate)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.s.now()
	r.s.users = append(r.s.users, *user)

	switch user.Role {
	case models.RoleStudent:
		r.s.students = append(r.s.students, models.Student{ID: uuid.New(), UserID: user.ID})
	case models.RoleCompany:
		r.s.companies = append(r.s.companies, models.Company{ID: uuid.New(), UserID: user.ID, CompanyName: user.Username})
	}
	return nil
}

func (r *userRepo) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, notFound("user")
}

func (r *userRepo) FindByID(id uuid.UUID) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *userRepo) FindByIdentifier(identifier string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == identifier || u.Email == identifier })
}

func (r *userRepo) FindByUsernameAndEmail(username, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username && u.Email == email })
}

func (r *userRepo) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	_, err := r.find(func(u models.User) bool { return u.Username == username || u.Email == email })
	return err == nil, nil
}

func (r *userRepo) UpdatePassword(id uuid.UUID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			r.s.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return notFound("user")
}

func (r *userRepo) Approve(id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID != id {
			continue
		}
		r.s.users[i].Status = models.UserApproved
		user := r.s.users[i]
		r.s.adminLogs = append(r.s.adminLogs, models.AdminLog{
			ID:        uuid.New(),
			Action:    fmt.Sprintf("Approved %s: %s", user.Role, user.Username),
			CreatedAt: r.s.now(),
		})
		if user.Role == models.RoleCompany && !r.s.hasCompany(user.ID) {
			r.s.companies = append(r.s.companies, models.Company{ID: uuid.New(), UserID: user.ID, CompanyName: user.Username})
		}
		return &user, nil
	}
	return nil, notFound("user")
}

func (s *Store) hasCompany(userID uuid.UUID) bool {
	for _, c := range s.companies {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

func (r *userRepo) List() ([]models.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.UserSummary, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, models.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, Status: u.Status})
	}
	return out, nil
}

func (r *userRepo) CountPending(role models.Role) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.Role == role && u.Status == models.UserPending {
			n++
		}
	}
	return n, nil
}

type studentRepo struct{ s *Store }

func (r *studentRepo) FindByUserID(userID uuid.UUID) (*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.students {
		if st.UserID == userID {
			student := st
			return &student, nil
		}
	}
	return nil, notFound("student")
}

func (r *studentRepo) FindProfile(userID uuid.UUID) (*models.StudentProfile, error) {
	student, err := r.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	user, err := (&userRepo{r.s}).FindByID(userID)
	if err != nil {
		return nil, err
	}
	return &models.StudentProfile{Student: *student, Username: user.Username}, nil
}

func (r *studentRepo) UpdateProfile(userID uuid.UUID, req *models.UpdateProfileRequest) error {
	if _, err := r.FindByUserID(userID); err != nil {
		return err
	}
	r.s.SetStudent(userID, func(st *models.Student) {
		st.FullName = req.FullName
		st.CGPA = req.CGPA
		st.Department = req.Department
		st.Skills = req.Skills
	})
	return nil
}

func (r *studentRepo) UpdateResume(userID uuid.UUID, resumePath, skills string, analysis *models.ResumeAnalysis) error {
	if r.s.ErrUpdateResume != nil {
		return r.s.ErrUpdateResume
	}
	if _, err := r.FindByUserID(userID); err != nil {
		return err
	}
	payload, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	r.s.SetStudent(userID, func(st *models.Student) {
		st.ResumePath = resumePath
		st.Skills = skills
		st.ResumeAnalysis = datatypes.JSON(payload)
	})
	return nil
}

func (r *studentRepo) Count() (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.students)), nil
}

func (r *studentRepo) DepartmentStats() ([]models.DepartmentStat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	placed := r.s.placedStudents()
	byDept := map[string]*models.DepartmentStat{}
	for _, st := range r.s.students {
		stat, ok := byDept[st.Department]
		if !ok {
			stat = &models.DepartmentStat{Department: st.Department}
			byDept[st.Department] = stat
		}
		stat.Total++
		if placed[st.ID] {
			stat.Placed++
		}
	}
	out := make([]models.DepartmentStat, 0, len(byDept))
	for _, stat := range byDept {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out, nil
}

func (s *Store) placedStudents() map[uuid.UUID]bool {
	placed := map[uuid.UUID]bool{}
	for _, app := range s.applications {
		if app.Status == models.ApplicationPlaced {
			placed[app.StudentID] = true
		}
	}
	return placed
}

type companyRepo struct{ s *Store }

func (r *companyRepo) FindByUserID(userID uuid.UUID) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.UserID == userID {
			company := c
			return &company, nil
		}
	}
	return nil, notFound("company")
}

type jobRepo struct{ s *Store }

func (r *jobRepo) Create(job *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = models.JobOpen
	}
	job.CreatedAt = r.s.now()
	r.s.jobs = append(r.s.jobs, *job)
	return nil
}

func (r *jobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, j := range r.s.jobs {
		if j.ID == id {
			job := j
			return &job, nil
		}
	}
	return nil, notFound("job")
}

func (r *jobRepo) ListOpen() ([]models.JobWithCompany, error) {
	if r.s.ErrListOpen != nil {
		return nil, r.s.ErrListOpen
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.JobWithCompany{}
	for _, j := range r.s.jobs {
		if j.Status != models.JobOpen {
			continue
		}
		name := ""
		for _, c := range r.s.companies {
			if c.ID == j.CompanyID {
				name = c.CompanyName
			}
		}
		out = append(out, models.JobWithCompany{Job: j, CompanyName: name})
	}
	return out, nil
}

func (r *jobRepo) ListByCompany(companyID uuid.UUID) ([]models.CompanyJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.CompanyJob{}
	for _, j := range r.s.jobs {
		if j.CompanyID != companyID {
			continue
		}
		var count int64
		for _, a := range r.s.applications {
			if a.JobID == j.ID {
				count++
			}
		}
		out = append(out, models.CompanyJob{Job: j, ApplicantCount: count})
	}
	return out, nil
}

func (r *jobRepo) UpdateStatus(id uuid.UUID, status models.JobStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.jobs {
		if r.s.jobs[i].ID == id {
			r.s.jobs[i].Status = status
			return nil
		}
	}
	return notFound("job")
}

type applicationRepo struct{ s *Store }

func (r *applicationRepo) Create(app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.StudentID == app.StudentID && a.JobID == app.JobID {
			return fmt.Errorf("application: %w", repositories.ErrDuplicate)
		}
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = models.ApplicationApplied
	}
	app.AppliedAt = r.s.now()
	r.s.applications = append(r.s.applications, *app)
	return nil
}

func (r *applicationRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.applications {
		if a.ID == id {
			app := a
			return &app, nil
		}
	}
	return nil, notFound("application")
}

func (r *applicationRepo) ListByStudent(studentID uuid.UUID) ([]models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Application{}
	for _, a := range r.s.applications {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *applicationRepo) ListApplicants(jobID uuid.UUID) ([]models.Applicant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Applicant{}
	for _, a := range r.s.applications {
		if a.JobID != jobID {
			continue
		}
		applicant := models.Applicant{ApplicationID: a.ID, ApplicationStatus: a.Status, StudentID: a.StudentID}
		for _, st := range r.s.students {
			if st.ID != a.StudentID {
				continue
			}
			applicant.FullName = st.FullName
			applicant.CGPA = st.CGPA
			applicant.Department = st.Department
			applicant.Skills = st.Skills
			applicant.ResumePath = st.ResumePath
			for _, u := range r.s.users {
				if u.ID == st.UserID {
					applicant.Username = u.Username
				}
			}
		}
		out = append(out, applicant)
	}
	return out, nil
}

func (r *applicationRepo) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.applications {
		if r.s.applications[i].ID == id {
			r.s.applications[i].Status = status
			return nil
		}
	}
	return notFound("application")
}

func (r *applicationRepo) CountPlacedStudents() (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.placedStudents())), nil
}

type auditRepo struct{ s *Store }

func (r *auditRepo) CreateEvent(event *models.AuditEvent) error {
	if r.s.ErrCreateEvent != nil {
		return r.s.ErrCreateEvent
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = append(r.s.events, *event)
	return nil
}

func (r *auditRepo) RecentAdminLogs(limit int) ([]models.AdminLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	logs := append([]models.AdminLog(nil), r.s.adminLogs...)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	if logs == nil {
		logs = []models.AdminLog{}
	}
	return logs, nil
}
