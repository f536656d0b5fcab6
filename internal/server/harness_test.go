package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/foliohq/folio/internal/app"
	"github.com/foliohq/folio/internal/common"
	"github.com/foliohq/folio/internal/importer"
	"github.com/foliohq/folio/internal/interfaces"
	"github.com/foliohq/folio/internal/models"
	"github.com/foliohq/folio/internal/services/portfolio"
	"github.com/foliohq/folio/internal/storage/memory"
)

// stubGemini returns a fixed response for import and summary tests.
type stubGemini struct {
	response string
}

func (g *stubGemini) GenerateContent(context.Context, string) (string, error) {
	return g.response, nil
}

func (g *stubGemini) Close() error { return nil }

// newTestServer creates a test server backed by in-memory storage.
// gemini may be nil for tests that do not exercise AI endpoints.
func newTestServer(t *testing.T, gemini interfaces.GeminiClient) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "memory"

	store := memory.NewManager()
	t.Cleanup(func() { store.Close() })

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          store,
		GeminiClient:     gemini,
		PortfolioService: portfolio.NewService(store, gemini, logger),
		ImportService:    importer.NewService(gemini, logger),
	}

	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return bytes.NewBuffer(data)
}

// createTestUser stores a user with a bcrypt-hashed password.
func createTestUser(t *testing.T, srv *Server, username, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := srv.app.Storage.UserStore().SaveUser(context.Background(), user); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
}

// tokenFor signs a JWT for a test user.
func tokenFor(t *testing.T, srv *Server, username string) string {
	t.Helper()
	token, err := signJWT(&models.User{Username: username, Role: "user"}, &srv.app.Config.Auth)
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}
	return token
}

// doRequest runs a request through the full middleware-wrapped handler.
func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// authedRequest builds a request carrying a valid bearer token for username.
func authedRequest(t *testing.T, srv *Server, method, path string, body *bytes.Buffer, username string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, srv, username))
	return req
}
