package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mkravets/userhub/internal/auth"
	"github.com/mkravets/userhub/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	subject string
	err     error
}

func (f *fakeVerifier) Verify(string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: f.subject},
	}, nil
}

func protectedRouter(v middlewares.TokenVerifier, enforceSubject bool) *gin.Engine {
	m := middlewares.NewAuthMiddleware(v, enforceSubject)

	r := gin.New()
	r.GET("/users/:id", m.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.AccountIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"subject": id})
	})

	return r
}

func get(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRequireAuthHeaderShapes(t *testing.T) {
	r := protectedRouter(&fakeVerifier{subject: "bob"}, false)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"empty header", " ", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized},
		{"bearer no token", "Bearer ", http.StatusUnauthorized},
		{"lowercase scheme", "bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer some-token", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(r, "/users/bob", tc.header)

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d, body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestRequireAuthVerifyFailure(t *testing.T) {
	r := protectedRouter(&fakeVerifier{err: errors.New("bad signature")}, false)

	w := get(r, "/users/bob", "Bearer whatever")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthSubjectEnforcement(t *testing.T) {
	// default mode: a token for alice reads bob's resource
	r := protectedRouter(&fakeVerifier{subject: "alice"}, false)

	if w := get(r, "/users/bob", "Bearer tok"); w.Code != http.StatusOK {
		t.Errorf("without enforcement: status = %d, want 200", w.Code)
	}

	// enforcing: the token must name the path's account
	r = protectedRouter(&fakeVerifier{subject: "alice"}, true)

	if w := get(r, "/users/bob", "Bearer tok"); w.Code != http.StatusUnauthorized {
		t.Errorf("with enforcement: status = %d, want 401", w.Code)
	}

	if w := get(r, "/users/alice", "Bearer tok"); w.Code != http.StatusOK {
		t.Errorf("with enforcement, own resource: status = %d, want 200", w.Code)
	}
}
