package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
	otherToken = "other-token"
)

type fixture struct {
	app        *fiber.App
	auth       *fakeAuth
	admin      *models.User
	user       *models.User
	other      *models.User
	users      *MockUserRepository
	jobs       *MockJobRepository
	applicants *MockApplicantRepository
	cvs        *MockCVRepository
	interviews *MockInterviewRepository
	interview  *MockInterviewService
	knowledge  *fakeKnowledge
	storage    *MockStorageService
	worker     *MockWorker
	stt        *MockSpeechToText
	runner     *MockSessionRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		admin:      &models.User{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin},
		user:       &models.User{ID: uuid.New(), Email: "jane@example.com", Role: models.RoleUser},
		other:      &models.User{ID: uuid.New(), Email: "bob@example.com", Role: models.RoleUser},
		users:      &MockUserRepository{},
		jobs:       &MockJobRepository{},
		applicants: &MockApplicantRepository{},
		cvs:        &MockCVRepository{},
		interviews: &MockInterviewRepository{},
		interview:  &MockInterviewService{},
		knowledge:  newFakeKnowledge(),
		storage:    &MockStorageService{},
		worker:     &MockWorker{},
		stt:        &MockSpeechToText{},
		runner:     &MockSessionRunner{},
	}
	f.auth = &fakeAuth{tokens: map[string]*models.User{
		adminToken: f.admin,
		userToken:  f.user,
		otherToken: f.other,
	}}

	logger := zap.NewNop()
	h := &Handlers{
		Auth:      NewAuthHandler(f.auth, logger),
		User:      NewUserHandler(f.users),
		Job:       NewJobHandler(f.jobs, f.knowledge, logger),
		Applicant: NewApplicantHandler(f.applicants, f.jobs, f.users, f.cvs, f.interviews, logger),
		CV:        NewCVHandler(f.applicants, f.cvs, f.storage, f.worker, 1024, logger),
		Interview: NewInterviewHandler(f.applicants, f.interview, logger),
		Speech:    NewSpeechHandler(f.applicants, f.interview, f.stt, 1024, logger),
		Live:      NewLiveHandler(context.Background(), f.applicants, f.interview, f.runner, logger),
	}

	f.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(f.app, h, f.auth, nil, logger)
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &decoded))
	}
	return resp, decoded
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(method, path, field, filename, contentType string, data []byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, _ := w.CreatePart(header)
	_, _ = part.Write(data)
	_ = w.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
