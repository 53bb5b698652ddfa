package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/bridgetunes-raffle/internal/config"
	"github.com/ArowuTest/bridgetunes-raffle/internal/handlers"
	"github.com/ArowuTest/bridgetunes-raffle/internal/middleware"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories/file"
	"github.com/ArowuTest/bridgetunes-raffle/internal/services"
	"github.com/ArowuTest/bridgetunes-raffle/internal/utils"
	pkgjwt "github.com/ArowuTest/bridgetunes-raffle/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, accessCode string, loginsPerMinute int) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{AllowedHosts: []string{"*"}},
		Upload: config.UploadConfig{AllowedExtensions: []string{"csv"}, MaxBytes: 1 << 20},
	}

	drawService := services.NewDrawService(
		file.NewGiftLimitRepository(filepath.Join(dir, "gift_limits.json")),
		file.NewAuditRepository(filepath.Join(dir, "draw_log.csv"), filepath.Join(dir, "delete_log.csv")),
		nil,
	)
	authService, err := services.NewAuthService(accessCode, pkgjwt.NewSessionTokenService("test-secret", time.Hour))
	require.NoError(t, err)

	return SetupRouter(cfg, HandlerDependencies{
		AuthService:   authService,
		AuthHandler:   handlers.NewAuthHandler(authService, false),
		DrawHandler:   handlers.NewDrawHandler(drawService),
		RosterHandler: handlers.NewRosterHandler(drawService, utils.NewRosterImporter(cfg.Upload.AllowedExtensions, cfg.Upload.MaxBytes), filepath.Join(dir, "uploads")),
		LoginLimiter:  middleware.NewLimiterStore(loginsPerMinute, time.Minute),
	})
}

func login(router *gin.Engine, code string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(url.Values{"access_code": {code}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "192.0.2.10:5555"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_AccessGate(t *testing.T) {
	router := newTestRouter(t, "event-2025", 10)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, login(router, "wrong").Code)

	w = login(router, "event-2025")
	require.Equal(t, http.StatusOK, w.Code)
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/limits", nil)
	req.Header.Set("Authorization", "Bearer "+session.Value)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "4등 커피머신")
}

func TestRouter_OpenWithoutAccessCode(t *testing.T) {
	router := newTestRouter(t, "", 10)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	router := newTestRouter(t, "event-2025", 2)

	assert.Equal(t, http.StatusUnauthorized, login(router, "guess-1").Code)
	assert.Equal(t, http.StatusUnauthorized, login(router, "guess-2").Code)
	assert.Equal(t, http.StatusTooManyRequests, login(router, "event-2025").Code)
}

func TestRouter_Logout(t *testing.T) {
	router := newTestRouter(t, "event-2025", 10)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
