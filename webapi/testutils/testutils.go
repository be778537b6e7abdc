// Package testutils builds a fully wired HTTP app over an in-memory database for handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	infra_repository "github.com/amirasaad/txnimport/infra/repository"
	"github.com/amirasaad/txnimport/internal/fixtures"
	"github.com/amirasaad/txnimport/pkg/app"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/importer"
	authsvc "github.com/amirasaad/txnimport/pkg/service/auth"
	"github.com/amirasaad/txnimport/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// E2ETestSuite provides a suite with a fresh sqlite database and app per test.
type E2ETestSuite struct {
	suite.Suite
	App *fiber.App
	Uow *infra_repository.UoW
	DB  *gorm.DB
	Cfg *config.App
}

// NewTestConfig returns a config with a fixed secret and a generous rate limit.
func NewTestConfig() *config.App {
	return &config.App{
		Env:       "test",
		Log:       &config.Log{},
		DB:        &config.DB{},
		Auth:      &config.Auth{Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Import:    &config.Import{MaxUploadBytes: 1 << 20},
	}
}

// NewApp wires the HTTP app over uow.
func NewApp(uow *infra_repository.UoW, cfg *config.App) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := config.Deps{
		Uow:        uow,
		Dispatcher: importer.NewDispatcher(importer.DefaultRegistry(), uow, nil, logger),
		Logger:     logger,
		Config:     cfg,
	}
	return webapi.SetupApp(app.New(deps))
}

func (s *E2ETestSuite) SetupTest() {
	s.Uow, s.DB = fixtures.NewTestUoW(s.T())
	s.Cfg = NewTestConfig()
	s.App = NewApp(s.Uow, s.Cfg)
}

// Token signs a token for a random user.
func (s *E2ETestSuite) Token() (uuid.UUID, string) {
	id := uuid.New()
	token, err := authsvc.New(s.Cfg.Auth.Jwt, nil).GenerateToken(authsvc.Identity{
		UserID:   id,
		Username: "user-" + id.String()[:8],
	})
	s.Require().NoError(err)
	return id, token
}

// CompletedUser returns a token whose user already has a complete profile.
func (s *E2ETestSuite) CompletedUser() (uuid.UUID, string) {
	id, token := s.Token()
	resp := s.MakeRequest(fiber.MethodPut, "/user/profile", `{"first_name":"Marco","last_name":"Rossi"}`, token)
	defer resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	return id, token
}

// MakeRequest sends a JSON request.
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	return MakeRequestWithApp(s.App, method, path, body, token)
}

// Upload sends a multipart request with one file part named "file".
func (s *E2ETestSuite) Upload(path, token, filename string, content []byte, fields map[string]string) *http.Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", filename)
	s.Require().NoError(err)
	_, err = part.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// Decode reads a JSON body into out.
func (s *E2ETestSuite) Decode(resp *http.Response, out any) {
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

// MakeRequestWithApp sends a JSON request to app.
func MakeRequestWithApp(app *fiber.App, method, path, body, token string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	return resp
}
