package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mkravets/userhub/internal/http/handlers"
	"github.com/mkravets/userhub/internal/store"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementations of the handlers.AccountStore interface

type fakeAccountStore struct {
	createFn func(ctx context.Context, id, password string, profile map[string]any) error
	verifyFn func(ctx context.Context, id, password string) error
	fetchFn  func(ctx context.Context, id string) (map[string]any, error)
}

func (f *fakeAccountStore) CreateAccount(ctx context.Context, id, password string, profile map[string]any) error {
	if f.createFn != nil {
		return f.createFn(ctx, id, password, profile)
	}
	return nil
}

func (f *fakeAccountStore) VerifyCredentials(ctx context.Context, id, password string) error {
	if f.verifyFn != nil {
		return f.verifyFn(ctx, id, password)
	}
	return nil
}

func (f *fakeAccountStore) FetchProfile(ctx context.Context, id string) (map[string]any, error) {
	if f.fetchFn != nil {
		return f.fetchFn(ctx, id)
	}
	return map[string]any{}, nil
}

type fakeMinter struct {
	token string
	err   error
}

func (f *fakeMinter) Mint(string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.token != "" {
		return f.token, nil
	}
	return "token-123", nil
}

func newTestRouter(st handlers.AccountStore, minter handlers.TokenMinter) *gin.Engine {
	h := handlers.NewAccountsHandler(st, minter, nil)

	r := gin.New()
	r.PUT("/users/:id", h.Create)
	r.PUT("/users/:id/auth", h.Login)
	r.GET("/users/:id", h.GetProfile)

	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func bodyJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
	return out
}

func TestCreateAccountCreated(t *testing.T) {
	var gotID, gotPw string

	st := &fakeAccountStore{
		createFn: func(_ context.Context, id, password string, profile map[string]any) error {
			gotID, gotPw = id, password
			if profile["age"] != float64(30) {
				t.Errorf("profile age = %v, want 30", profile["age"])
			}
			return nil
		},
	}

	r := newTestRouter(st, &fakeMinter{})

	w := doJSON(r, http.MethodPut, "/users/bob?pw=secret", `{"age":30}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	if gotID != "bob" || gotPw != "secret" {
		t.Errorf("store got (%q, %q), want (bob, secret)", gotID, gotPw)
	}

	out := bodyJSON(t, w)

	if out["status"] != "CREATED" {
		t.Errorf("status field = %v, want CREATED", out["status"])
	}

	if out["authToken"] != "token-123" {
		t.Errorf("authToken = %v, want token-123", out["authToken"])
	}
}

func TestCreateAccountExists(t *testing.T) {
	st := &fakeAccountStore{
		createFn: func(context.Context, string, string, map[string]any) error {
			return store.ErrAlreadyExists
		},
	}

	r := newTestRouter(st, &fakeMinter{})

	w := doJSON(r, http.MethodPut, "/users/bob?pw=secret", `{"age":30}`)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303, body=%s", w.Code, w.Body.String())
	}

	loc := w.Header().Get("Location")

	if loc != "http://example.com/users/bob" {
		t.Errorf("Location = %q, want absolute resource URL", loc)
	}

	out := bodyJSON(t, w)

	if out["status"] != "EXISTS" {
		t.Errorf("status field = %v, want EXISTS", out["status"])
	}
}

func TestCreateAccountBadRequests(t *testing.T) {
	r := newTestRouter(&fakeAccountStore{}, &fakeMinter{})

	cases := []struct {
		name string
		path string
		body string
	}{
		{"missing pw", "/users/bob", `{"age":30}`},
		{"missing body", "/users/bob?pw=secret", ``},
		{"null body", "/users/bob?pw=secret", `null`},
		{"malformed body", "/users/bob?pw=secret", `{"age":`},
		{"array body", "/users/bob?pw=secret", `[1,2]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPut, tc.path, tc.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body=%s", w.Code, w.Body.String())
			}

			out := bodyJSON(t, w)

			if out["status"] != "ERROR_BAD_REQUEST" {
				t.Errorf("status field = %v, want ERROR_BAD_REQUEST", out["status"])
			}
		})
	}
}

func TestCreateAccountStoreFailureIsOpaque(t *testing.T) {
	st := &fakeAccountStore{
		createFn: func(context.Context, string, string, map[string]any) error {
			return errors.New("pg: connection refused to host db-internal-01")
		},
	}

	r := newTestRouter(st, &fakeMinter{})

	w := doJSON(r, http.MethodPut, "/users/bob?pw=secret", `{"age":30}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	if bytes.Contains(w.Body.Bytes(), []byte("db-internal-01")) {
		t.Error("internal error detail leaked to the caller")
	}
}

func TestLoginOK(t *testing.T) {
	st := &fakeAccountStore{}

	r := newTestRouter(st, &fakeMinter{token: "fresh-token"})

	w := doJSON(r, http.MethodPut, "/users/bob/auth", `{"pw":"secret"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	out := bodyJSON(t, w)

	if out["status"] != "OK" || out["authToken"] != "fresh-token" {
		t.Errorf("body = %v, want OK with fresh-token", out)
	}
}

func TestLoginFailures(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		storeErr   error
		wantStatus int
	}{
		{"missing body", ``, nil, http.StatusBadRequest},
		{"malformed body", `{`, nil, http.StatusBadRequest},
		{"missing pw field", `{}`, nil, http.StatusUnauthorized},
		{"empty pw", `{"pw":""}`, nil, http.StatusUnauthorized},
		{"wrong password", `{"pw":"nope"}`, store.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown user", `{"pw":"secret"}`, store.ErrNotFound, http.StatusNotFound},
		{"store failure", `{"pw":"secret"}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := &fakeAccountStore{
				verifyFn: func(context.Context, string, string) error {
					return tc.storeErr
				},
			}

			r := newTestRouter(st, &fakeMinter{})

			w := doJSON(r, http.MethodPut, "/users/bob/auth", tc.body)

			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestGetProfile(t *testing.T) {
	st := &fakeAccountStore{
		fetchFn: func(_ context.Context, id string) (map[string]any, error) {
			if id == "ghost" {
				return nil, store.ErrNotFound
			}
			return map[string]any{"age": 30}, nil
		},
	}

	r := newTestRouter(st, &fakeMinter{})

	w := doJSON(r, http.MethodGet, "/users/bob", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	out := bodyJSON(t, w)

	if out["age"] != float64(30) {
		t.Errorf("age = %v, want 30", out["age"])
	}

	if _, ok := out["id"]; ok {
		t.Error("profile response contains an id field")
	}

	w = doJSON(r, http.MethodGet, "/users/ghost", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
