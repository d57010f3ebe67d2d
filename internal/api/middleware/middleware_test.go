package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/jwt"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "middleware-test-secret",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 30 * 24 * time.Hour,
	})
}

func decode(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func TestJWTAuth(t *testing.T) {
	mgr := newJWTManager()
	access, err := mgr.GenerateAccessToken("school-1", "DIRECTOR", "21EBH0001Z")
	if err != nil {
		t.Fatal(err)
	}
	refresh, err := mgr.GenerateRefreshToken("school-1", "DIRECTOR", "21EBH0001Z", false)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"NoHeader", "", http.StatusUnauthorized},
		{"NotBearer", "Basic " + access, http.StatusUnauthorized},
		{"Garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"RefreshToken", "Bearer " + refresh, http.StatusUnauthorized},
		{"AccessToken", "Bearer " + access, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotRole, gotCCT string
			var gotExp time.Time

			r := gin.New()
			r.GET("/me", JWTAuth(mgr, nil), func(c *gin.Context) {
				gotUser = c.GetString("user_id")
				gotRole = c.GetString("role")
				gotCCT = c.GetString("cct")
				gotExp = c.MustGet("token_exp").(time.Time)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus != http.StatusOK {
				if resp := decode(w); resp.Code != 10002 {
					t.Errorf("expected code 10002, got %d", resp.Code)
				}
				return
			}
			if gotUser != "school-1" || gotRole != "DIRECTOR" || gotCCT != "21EBH0001Z" {
				t.Errorf("unexpected claims in context: %s %s %s", gotUser, gotRole, gotCCT)
			}
			if gotExp.Before(time.Now()) {
				t.Errorf("expected a future expiry, got %v", gotExp)
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
		wantCode   int
	}{
		{"NoRole", "", http.StatusUnauthorized, 10002},
		{"Allowed", "ATP_ADMIN", http.StatusOK, 0},
		{"Reader", "ATP_LECTOR", http.StatusForbidden, 10003},
		{"Director", "DIRECTOR", http.StatusForbidden, 10003},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.PUT("/cycles/:id/activate", func(c *gin.Context) {
				if tt.role != "" {
					c.Set("role", tt.role)
				}
				c.Next()
			}, RoleAuth("SUPER_ADMIN", "ATP_ADMIN"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("PUT", "/cycles/c-1/activate", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantCode != 0 {
				if resp := decode(w); resp.Code != tt.wantCode {
					t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
				}
			}
		})
	}
}

func TestCronSecret(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
	}{
		{"Match", "s3cret", "Bearer s3cret", http.StatusOK},
		{"Wrong", "s3cret", "Bearer other", http.StatusUnauthorized},
		{"Missing", "s3cret", "", http.StatusUnauthorized},
		{"UnsetSecretRejectsEverything", "", "Bearer ", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/cron/reminders", CronSecret(tt.secret), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/cron/reminders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestBodyLimit_RejectsByContentLength(t *testing.T) {
	r := gin.New()
	r.POST("/upload", BodyLimit(16), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/upload", strings.NewReader(strings.Repeat("x", 64))))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	if resp := decode(w); resp.Code != 10005 {
		t.Errorf("expected code 10005, got %d", resp.Code)
	}
}

func TestBodyLimit_AllowsSmallBody(t *testing.T) {
	r := gin.New()
	r.POST("/upload", BodyLimit(1024), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/upload", strings.NewReader("small")))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.POST("/auth/login", RateLimit(nil, 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/auth/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected the incoming id to be kept, got %q", got)
	}
}

func TestValidCCT(t *testing.T) {
	tests := []struct {
		cct  string
		want bool
	}{
		{"21EBH0001Z", true},
		{"21ECT0017T", true},
		{"21ebh0088t", true},
		{" 21EBH0088T ", true},
		{"21EBH00889", true},
		{"21EB0001Z", false},
		{"2XEBH0001Z", false},
		{"21EBH0001ZZ", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidCCT(tt.cct); got != tt.want {
			t.Errorf("ValidCCT(%q) = %v, want %v", tt.cct, got, tt.want)
		}
	}
}
