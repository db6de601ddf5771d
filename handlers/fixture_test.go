package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/devfolio/devfolio/internal/authgate"
	"github.com/devfolio/devfolio/internal/config"
	"github.com/devfolio/devfolio/internal/operators"
	"github.com/devfolio/devfolio/internal/sessions"
	"github.com/devfolio/devfolio/internal/site"
	"github.com/devfolio/devfolio/internal/storage"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/middleware"
	"github.com/devfolio/devfolio/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	ownerEmail    = "owner@example.com"
	ownerPassword = "correct horse"
)

// 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type fakeClaims map[string]map[string]interface{}

func (f fakeClaims) VerifyClaims(_ context.Context, raw string) (map[string]interface{}, error) {
	c, ok := f[raw]
	if !ok {
		return nil, errFakeToken
	}
	return c, nil
}

var errFakeToken = errors.New("unknown id token")

type app struct {
	t       *testing.T
	engine  *gin.Engine
	store   *store.MemoryStore
	objects *storage.MemoryStorage
	op      *operators.Operator
}

// newApp wires every handler against the memory store the way main does.
func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.JWT.Secret = "testsecret123456789012345678901234"
	cfg.JWT.AccessTokenTTL = 15 * time.Minute
	cfg.JWT.RefreshTokenTTL = time.Hour

	s := store.NewMemoryStore()
	opsSvc := operators.NewService(operators.NewStoreRepository(s))
	op, err := opsSvc.EnsureBootstrap(ctx, config.AdminConfig{Email: ownerEmail, Name: "Owner", Password: ownerPassword})
	require.NoError(t, err)
	sessSvc := sessions.NewService(sessions.NewStoreRepository(s))
	bl := sessions.NewMemoryBlacklist()
	objects := storage.NewMemoryStorage()
	images := storage.NewImages(objects, 1<<20)
	renderer := site.NewRenderer(s, nil)

	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())

	auth := NewAuthHandler(cfg, opsSvc, sessSvc, bl).WithOIDC(fakeClaims{
		"owner-token":    {"sub": "idp|1", "email": ownerEmail, "name": "Owner"},
		"stranger-token": {"sub": "idp|2", "email": "stranger@example.com"},
	})
	auth.Register(&r.RouterGroup)

	media := NewMediaHandler(objects, images)
	media.Register(r)

	NewSiteHandler(s, renderer).Register(r, nil)

	gate := authgate.New(sessSvc, opsSvc, time.Hour, false)
	adminGroup := NewAdminHandler(s, gate, opsSvc, images).Register(r)
	adminGroup.POST("/uploads", media.Upload)

	content := NewContentHandler(s, renderer)
	api := r.Group("/api/v1")
	content.RegisterPublic(api, nil)
	adminAPI := api.Group("/admin", middleware.AuthMiddleware(auth.Verifier(), bl))
	content.RegisterAdmin(adminAPI)
	adminAPI.POST("/uploads", media.Upload)
	RegisterSwagger(r)

	return &app{t: t, engine: r, store: s, objects: objects, op: op}
}

func (a *app) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// doJSON sends body as JSON with an optional bearer token.
func (a *app) doJSON(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

// postForm sends an urlencoded form with optional cookies.
func (a *app) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.serve(req)
}

func (a *app) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.serve(req)
}

// login signs in through the JSON API and returns the access and refresh tokens.
func (a *app) login() (string, string) {
	w := a.doJSON(http.MethodPost, "/auth/login", "", gin.H{"mode": "password", "email": ownerEmail, "password": ownerPassword})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken, resp.RefreshToken
}

// adminCookie signs in through the console form and returns the session cookie.
func (a *app) adminCookie() *http.Cookie {
	w := a.postForm("/admin/login", url.Values{"email": {ownerEmail}, "password": {ownerPassword}})
	require.Equal(a.t, http.StatusSeeOther, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == authgate.DefaultCookieName {
			return c
		}
	}
	a.t.Fatal("no session cookie set")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
