package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/repository"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		name             string
		origin           string
		allowed          []string
		allowCredentials bool
		want             string
	}{
		{"wildcard", "https://app.example.com", []string{"*"}, false, "*"},
		{"wildcard with credentials echoes origin", "https://app.example.com", []string{"*"}, true, "https://app.example.com"},
		{"exact match", "https://app.example.com", []string{"https://app.example.com"}, false, "https://app.example.com"},
		{"case insensitive match", "https://APP.example.com", []string{"https://app.example.com"}, false, "https://APP.example.com"},
		{"no match", "https://evil.example.com", []string{"https://app.example.com"}, false, ""},
		{"empty origin without wildcard", "", []string{"https://app.example.com"}, false, ""},
		{"empty allowed list", "https://app.example.com", nil, false, ""},
	}
	for _, tc := range cases {
		if got := resolveAllowedOrigin(tc.origin, tc.allowed, tc.allowCredentials); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware())

	var seen string
	engine.GET("/ping", func(c *gin.Context) {
		seen = getRequestID(c)
		c.Status(http.StatusOK)
	})

	// 客户端传入的 ID 原样透传
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set(requestIDHeader, "req-abc")
	engine.ServeHTTP(recorder, request)
	if seen != "req-abc" {
		t.Fatalf("expected propagated request id, got %q", seen)
	}
	if recorder.Header().Get(requestIDHeader) != "req-abc" {
		t.Fatalf("expected request id header echoed, got %q", recorder.Header().Get(requestIDHeader))
	}

	// 未传入时生成新 ID
	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if seen == "" || seen == "req-abc" {
		t.Fatalf("expected generated request id, got %q", seen)
	}
	if recorder.Header().Get(requestIDHeader) != seen {
		t.Fatalf("expected generated id in header, got %q", recorder.Header().Get(requestIDHeader))
	}
}

func setupAuthMiddlewareTest(t *testing.T) (*gin.Engine, repository.UserRepository, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:middleware_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	userRepo := repository.NewUserRepository(db)
	user := &models.User{
		Email:        "user@example.com",
		Status:       "active",
		TokenVersion: 1,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return gin.New(), userRepo, user
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var envelope response.Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return envelope
}

func TestUserJWTAuthMiddlewareMissingSecret(t *testing.T) {
	engine, userRepo, _ := setupAuthMiddlewareTest(t)
	engine.GET("/me", UserJWTAuthMiddleware("", userRepo), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	if envelope := decodeEnvelope(t, recorder); envelope.StatusCode != response.CodeUnauthorized {
		t.Fatalf("expected unauthorized envelope, got %+v", envelope)
	}
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	engine, userRepo, user := setupAuthMiddlewareTest(t)
	var gotUserID uint
	engine.GET("/me", UserJWTAuthMiddleware("test-secret", userRepo), func(c *gin.Context) {
		gotUserID = c.GetUint("user_id")
		c.Status(http.StatusOK)
	})

	token, err := service.IssueUserToken(user, "test-secret", 1)
	if err != nil {
		t.Fatalf("issue user token failed: %v", err)
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected authorized request, got %d %s", recorder.Code, recorder.Body.String())
	}
	if gotUserID != user.ID {
		t.Fatalf("expected user id %d in context, got %d", user.ID, gotUserID)
	}

	// 令牌版本不一致视为已吊销
	user.TokenVersion = 2
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("update user failed: %v", err)
	}
	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(recorder, request)
	if envelope := decodeEnvelope(t, recorder); envelope.StatusCode != response.CodeUnauthorized {
		t.Fatalf("expected revoked token rejected, got %+v", envelope)
	}
}

func TestUserJWTAuthMiddlewareDisabledUser(t *testing.T) {
	engine, userRepo, user := setupAuthMiddlewareTest(t)
	engine.GET("/me", UserJWTAuthMiddleware("test-secret", userRepo), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := service.IssueUserToken(user, "test-secret", 1)
	if err != nil {
		t.Fatalf("issue user token failed: %v", err)
	}
	user.Status = "disabled"
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("update user failed: %v", err)
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(recorder, request)
	if envelope := decodeEnvelope(t, recorder); envelope.StatusCode != response.CodeUnauthorized {
		t.Fatalf("expected disabled user rejected, got %+v", envelope)
	}
}

func TestOptionalUserJWTMiddlewareGuestPassThrough(t *testing.T) {
	engine, userRepo, user := setupAuthMiddlewareTest(t)
	var hadUser bool
	engine.GET("/payments", OptionalUserJWTMiddleware("test-secret", userRepo), func(c *gin.Context) {
		_, hadUser = c.Get("user_id")
		c.Status(http.StatusOK)
	})

	// 无令牌按游客继续
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/payments", nil))
	if recorder.Code != http.StatusOK || hadUser {
		t.Fatalf("expected guest pass through, code=%d hadUser=%v", recorder.Code, hadUser)
	}

	// 非法令牌同样按游客继续
	recorder = httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/payments", nil)
	request.Header.Set("Authorization", "Bearer not-a-token")
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK || hadUser {
		t.Fatalf("expected invalid token pass through, code=%d hadUser=%v", recorder.Code, hadUser)
	}

	token, err := service.IssueUserToken(user, "test-secret", 1)
	if err != nil {
		t.Fatalf("issue user token failed: %v", err)
	}
	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/payments", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(recorder, request)
	if !hadUser {
		t.Fatalf("expected user identity injected for valid token")
	}
}

func TestAdminJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	var gotUsername string
	engine.GET("/admin/ping", AdminJWTAuthMiddleware("admin-secret"), func(c *gin.Context) {
		gotUsername = c.GetString("admin_username")
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	if envelope := decodeEnvelope(t, recorder); envelope.StatusCode != response.CodeUnauthorized {
		t.Fatalf("expected missing header rejected, got %+v", envelope)
	}

	token, err := service.IssueAdminToken("ops", "admin-secret", 1)
	if err != nil {
		t.Fatalf("issue admin token failed: %v", err)
	}
	recorder = httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK || gotUsername != "ops" {
		t.Fatalf("expected admin authorized, code=%d username=%q", recorder.Code, gotUsername)
	}

	// 错误密钥签出的令牌不可用
	badToken, err := service.IssueAdminToken("ops", "other-secret", 1)
	if err != nil {
		t.Fatalf("issue admin token failed: %v", err)
	}
	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	request.Header.Set("Authorization", "Bearer "+badToken)
	engine.ServeHTTP(recorder, request)
	if envelope := decodeEnvelope(t, recorder); envelope.StatusCode != response.CodeUnauthorized {
		t.Fatalf("expected forged token rejected, got %+v", envelope)
	}
}
