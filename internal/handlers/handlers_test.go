package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/office-task-api/internal/database"
	"github.com/yukikurage/office-task-api/internal/deadline"
	"github.com/yukikurage/office-task-api/internal/models"
	"github.com/yukikurage/office-task-api/internal/repository"
	"github.com/yukikurage/office-task-api/internal/services"
	"github.com/yukikurage/office-task-api/internal/uploads"
	"go.uber.org/zap"
)

const testUploadLimit = 1 << 20

// APITestSuite serves the full router over a temporary flat-file store.
type APITestSuite struct {
	suite.Suite
	dataDir      string
	uploadDir    string
	repos        repository.Set
	users        *services.UserService
	enforceRoles bool
	router       *gin.Engine
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.dataDir = s.T().TempDir()
	store, err := database.NewFileStore(s.dataDir)
	s.Require().NoError(err)
	s.repos = repository.NewFileSet(store)

	calendar, err := deadline.NewCalendar(deadline.DefaultHolidays)
	s.Require().NoError(err)
	s.uploadDir = s.T().TempDir()
	files, err := uploads.NewStore(s.uploadDir, testUploadLimit)
	s.Require().NoError(err)

	tasks := services.NewTaskService(s.repos.Tasks, s.repos.Users, calendar, nil)
	s.users = services.NewUserService(s.repos.Users)

	s.router = NewRouter(Dependencies{
		Tasks:        tasks,
		Users:        s.users,
		Complaints:   services.NewComplaintService(s.repos.Complaints),
		Reports:      services.NewReportService(tasks),
		Calendar:     calendar,
		Uploads:      files,
		Sessions:     cookie.NewStore([]byte("test-secret")),
		Logger:       zap.NewNop(),
		EnforceRoles: s.enforceRoles,
	})
}

func (s *APITestSuite) seedOfficer(id, name string, role models.Role) {
	s.Require().NoError(s.repos.Users.Create(&models.User{ID: id, Username: name, Role: role, Status: models.UserStatusActive}))
}

func (s *APITestSuite) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// doMultipart sends fields plus one file under fileField.
func (s *APITestSuite) doMultipart(method, path string, fields map[string]string, fileField, fileName string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		s.Require().NoError(mw.WriteField(k, v))
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		s.Require().NoError(err)
		_, err = part.Write(content)
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) uploadedFiles() []string {
	entries, err := os.ReadDir(s.uploadDir)
	s.Require().NoError(err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// apiError mirrors the error body written by the errors package.
type apiError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}
