package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zohair-aabidi/ajenda/internal/auth"
)

// =============================================================================
// Mocks
// =============================================================================

type mockAuthenticator struct {
	authenticateFunc func(ctx context.Context, header string) *auth.Principal
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, header string) *auth.Principal {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, header)
	}
	return nil
}

type recordingObserver struct {
	outcomes []string
}

func (o *recordingObserver) ObserveDecision(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}

// =============================================================================
// Test Helpers
// =============================================================================

var (
	testUser  = auth.NewPrincipal(1, "alice", "alice@example.com", []string{"USER"})
	testAdmin = auth.NewPrincipal(2, "root", "root@example.com", []string{"USER", "ADMIN"})
)

// tokenAuthenticator maps fixed header values to principals.
func tokenAuthenticator() *mockAuthenticator {
	return &mockAuthenticator{
		authenticateFunc: func(ctx context.Context, header string) *auth.Principal {
			switch header {
			case "Bearer user-token":
				return testUser
			case "Bearer admin-token":
				return testAdmin
			default:
				return nil
			}
		},
	}
}

func serve(r *gin.Engine, method, path, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

// =============================================================================
// Authenticate Tests
// =============================================================================

func TestAuthenticate_NeverRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Authenticate(tokenAuthenticator()))
	r.GET("/whoami", func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, p.Username)
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "valid token", header: "Bearer user-token", want: "alice"},
		{name: "no header", header: "", want: "anonymous"},
		{name: "bad token", header: "Bearer nope", want: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/whoami", tt.header)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			if w.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.want)
			}
		})
	}
}

func TestCurrentPrincipal_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if p := CurrentPrincipal(c); p != nil {
		t.Errorf("CurrentPrincipal() = %+v, want nil", p)
	}

	SetPrincipal(c, testUser)
	if p := CurrentPrincipal(c); p != testUser {
		t.Errorf("CurrentPrincipal() = %+v, want %+v", p, testUser)
	}
}

// =============================================================================
// Require Tests
// =============================================================================

func TestRequire(t *testing.T) {
	gin.SetMode(gin.TestMode)

	observer := &recordingObserver{}
	r := gin.New()
	r.Use(Authenticate(tokenAuthenticator()))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/public", Require(auth.Public(), observer), ok)
	r.GET("/private", Require(auth.Authenticated(), observer), ok)
	r.GET("/admin", Require(auth.HasRole("ADMIN"), observer), ok)
	r.GET("/staff", Require(auth.HasAnyRole("USER", "ADMIN"), observer), ok)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantResult string
	}{
		{name: "public anonymous", path: "/public", wantStatus: http.StatusOK, wantResult: "allowed"},
		{name: "private anonymous", path: "/private", wantStatus: http.StatusUnauthorized, wantResult: "unauthenticated"},
		{name: "private invalid token", path: "/private", header: "Bearer expired", wantStatus: http.StatusUnauthorized, wantResult: "unauthenticated"},
		{name: "private user", path: "/private", header: "Bearer user-token", wantStatus: http.StatusOK, wantResult: "allowed"},
		{name: "admin as user", path: "/admin", header: "Bearer user-token", wantStatus: http.StatusForbidden, wantResult: "forbidden"},
		{name: "admin as admin", path: "/admin", header: "Bearer admin-token", wantStatus: http.StatusOK, wantResult: "allowed"},
		{name: "admin anonymous", path: "/admin", wantStatus: http.StatusUnauthorized, wantResult: "unauthenticated"},
		{name: "staff as user", path: "/staff", header: "Bearer user-token", wantStatus: http.StatusOK, wantResult: "allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer.outcomes = nil

			w := serve(r, http.MethodGet, tt.path, tt.header)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if len(observer.outcomes) != 1 || observer.outcomes[0] != tt.wantResult {
				t.Errorf("outcomes = %v, want [%s]", observer.outcomes, tt.wantResult)
			}
		})
	}
}

func TestRequire_NilObserver(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/private", Require(auth.Authenticated(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, http.MethodGet, "/private", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// =============================================================================
// Request Logging Tests
// =============================================================================

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, http.MethodGet, "/", "")
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Errorf("generated id = %q, body = %q", generated, w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "caller-id" {
		t.Errorf("propagated id = %q, want caller-id", got)
	}
}

func TestRequestLogger_OmitsAuthorization(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log), Authenticate(tokenAuthenticator()))
	r.GET("/private", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/private", "Bearer user-token")

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("user-token")) {
		t.Errorf("log leaked the token: %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"user_id":1`)) {
		t.Errorf("log = %s, want user_id", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"status":200`)) {
		t.Errorf("log = %s, want status", out)
	}
}
