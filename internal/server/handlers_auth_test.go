package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleAuthLogin_Success(t *testing.T) {
	srv := newTestServer(t, nil)
	createTestUser(t, srv, "alice", "secret123", "user")

	body := jsonBody(t, map[string]string{"username": "alice", "password": "secret123"})
	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)

	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the response")
	}

	user := resp["user"].(map[string]interface{})
	if user["username"] != "alice" {
		t.Errorf("expected username alice, got %v", user["username"])
	}

	// The returned token authenticates subsequent requests.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = doRequest(srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleAuthLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t, nil)
	createTestUser(t, srv, "alice", "secret123", "user")

	body := jsonBody(t, map[string]string{"username": "alice", "password": "wrong"})
	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleAuthLogin_UnknownUserSameResponse(t *testing.T) {
	srv := newTestServer(t, nil)
	createTestUser(t, srv, "alice", "secret123", "user")

	wrongPass := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		jsonBody(t, map[string]string{"username": "alice", "password": "wrong"})))
	unknownUser := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		jsonBody(t, map[string]string{"username": "nobody", "password": "wrong"})))

	if wrongPass.Code != unknownUser.Code {
		t.Errorf("status differs: %d vs %d", wrongPass.Code, unknownUser.Code)
	}
	if wrongPass.Body.String() != unknownUser.Body.String() {
		t.Errorf("body differs: %q vs %q", wrongPass.Body.String(), unknownUser.Body.String())
	}
}

func TestHandleAuthLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		jsonBody(t, map[string]string{"username": "alice"})))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAuthValidate_NoToken(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBearerMiddleware_InvalidToken(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := doRequest(srv, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected WWW-Authenticate header")
	}
}
