package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/blog-backend/internal/config"
	"github.com/yourusername/blog-backend/internal/database"
	"github.com/yourusername/blog-backend/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "blog.db"), false)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.InitSchema(context.Background(), db); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
		BcryptCost:      bcrypt.MinCost,
	}
	manager, err := NewManager(cfg, store.NewUserStore(db), NewMemoryRevocationStore())
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return manager
}

func newTestRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/register", m.Register)
	router.POST("/login", m.Login)
	protected := router.Group("")
	protected.Use(m.RequireToken())
	protected.POST("/logout", m.Logout)
	protected.GET("/whoami", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return router
}

func doJSON(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()
	rec := doJSON(router, http.MethodPost, "/login",
		`{"username":"`+username+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d body=%s", rec.Code, rec.Body.String())
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}
	if payload["token"] == "" {
		t.Fatal("expected token in login response")
	}
	return payload["token"]
}

func TestRegisterSuccess(t *testing.T) {
	router := newTestRouter(newTestManager(t))

	rec := doJSON(router, http.MethodPost, "/register",
		`{"username":"username","password":"password","email":"testuser@example.com"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "User registered successfully" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRegisterMissingFieldNamesIt(t *testing.T) {
	router := newTestRouter(newTestManager(t))

	cases := map[string]struct {
		body  string
		field string
		msg   string
	}{
		"username": {`{"password":"p","email":"a@example.com"}`, "username", "Username is required"},
		"password": {`{"username":"u","email":"a@example.com"}`, "password", "Password is required"},
		"email":    {`{"username":"u","password":"p","email":"not-an-email"}`, "email", "Valid email is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(router, http.MethodPost, "/register", tc.body, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: %d", rec.Code)
			}
			var payload struct {
				Errors []struct {
					Field string `json:"field"`
					Msg   string `json:"msg"`
				} `json:"errors"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if len(payload.Errors) != 1 || payload.Errors[0].Field != tc.field || payload.Errors[0].Msg != tc.msg {
				t.Fatalf("unexpected errors: %+v", payload.Errors)
			}
		})
	}
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	router := newTestRouter(newTestManager(t))
	body := `{"username":"dup","password":"p","email":"dup@example.com"}`

	if rec := doJSON(router, http.MethodPost, "/register", body, ""); rec.Code != http.StatusCreated {
		t.Fatalf("first register failed: %d", rec.Code)
	}
	rec := doJSON(router, http.MethodPost, "/register", body, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	router := newTestRouter(newTestManager(t))
	doJSON(router, http.MethodPost, "/register",
		`{"username":"alice","password":"secret","email":"alice@example.com"}`, "")

	unknown := doJSON(router, http.MethodPost, "/login", `{"username":"nobody","password":"secret"}`, "")
	wrong := doJSON(router, http.MethodPost, "/login", `{"username":"alice","password":"nope"}`, "")

	if unknown.Code != http.StatusBadRequest || wrong.Code != http.StatusBadRequest {
		t.Fatalf("unexpected statuses: unknown=%d wrong=%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("responses differ: %s vs %s", unknown.Body.String(), wrong.Body.String())
	}
}

func TestLoginTokenCarriesUserID(t *testing.T) {
	manager := newTestManager(t)
	router := newTestRouter(manager)
	doJSON(router, http.MethodPost, "/register",
		`{"username":"alice","password":"secret","email":"alice@example.com"}`, "")

	token := login(t, router, "alice", "secret")
	claims, err := manager.Tokens().Parse(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != 1 {
		t.Fatalf("unexpected user id: %d", claims.UserID)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("unexpected lifetime: %s", got)
	}

	rec := doJSON(router, http.MethodGet, "/whoami", "", token)
	if rec.Code != http.StatusOK || rec.Body.String() != `{"id":1}` {
		t.Fatalf("unexpected whoami response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequireTokenStatuses(t *testing.T) {
	manager := newTestManager(t)
	router := newTestRouter(manager)

	if rec := doJSON(router, http.MethodGet, "/whoami", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: unexpected status %d", rec.Code)
	}

	if rec := doJSON(router, http.MethodGet, "/whoami", "", "garbage"); rec.Code != http.StatusForbidden {
		t.Fatalf("malformed token: unexpected status %d", rec.Code)
	}

	expired := NewTokenIssuer([]byte("test-secret"), time.Hour)
	expired.now = fixedClock(time.Now().Add(-2 * time.Hour))
	token, _, err := expired.Issue(1)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if rec := doJSON(router, http.MethodGet, "/whoami", "", token); rec.Code != http.StatusForbidden {
		t.Fatalf("expired token: unexpected status %d", rec.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	router := newTestRouter(newTestManager(t))
	doJSON(router, http.MethodPost, "/register",
		`{"username":"alice","password":"secret","email":"alice@example.com"}`, "")
	token := login(t, router, "alice", "secret")

	if rec := doJSON(router, http.MethodPost, "/logout", "", token); rec.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", rec.Code)
	}
	if rec := doJSON(router, http.MethodGet, "/whoami", "", token); rec.Code != http.StatusForbidden {
		t.Fatalf("revoked token: unexpected status %d", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"Bearer":       "",
		"Bearer abc":   "abc",
		"Token xyz":    "xyz",
		"Bearer  tok":  "",
		"Token  xyz  ": "",
	}
	for header, want := range cases {
		if got := bearerToken(header); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestAuthErrorMessages(t *testing.T) {
	router := newTestRouter(newTestManager(t))
	doJSON(router, http.MethodPost, "/register",
		`{"username":"alice","password":"secret","email":"alice@example.com"}`, "")
	token := login(t, router, "alice", "secret")
	doJSON(router, http.MethodPost, "/logout", "", token)

	cases := []struct {
		name  string
		token string
		want  string
	}{
		{"missing", "", "Authentication token is required"},
		{"malformed", "garbage", "Invalid or expired token"},
		{"revoked", token, "Token has been revoked"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(router, http.MethodGet, "/whoami", "", tc.token)
			var payload map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if payload["message"] != tc.want {
				t.Fatalf("unexpected message: %v", payload["message"])
			}
		})
	}
}
