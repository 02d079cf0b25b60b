package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hairizuanbinnoorazman/wise-institute/admin"
	"github.com/hairizuanbinnoorazman/wise-institute/cmd/backend/handlers"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
	"github.com/hairizuanbinnoorazman/wise-institute/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	return &Config{
		Session: SessionConfig{CookieName: "admin-session", Duration: time.Hour},
		Storage: StorageConfig{Type: "local", BaseDir: t.TempDir()},
		Content: ContentConfig{
			Backend:      ContentBackendGorm,
			ExpectedType: media.ContentTypeWiseInstitute,
			AssetBaseURL: "//localhost:8080",
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestNewRouter_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &admin.Admin{}, &media.Record{}, &media.Asset{})

	cfg := testConfig(t)
	log := logger.NewTestLogger()
	content, err := newContentBackend(context.Background(), cfg, db, log)
	require.NoError(t, err)
	require.NotNil(t, content.catalog)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	checks := map[string]handlers.HealthCheck{"database": sqlDB.PingContext}

	router := newRouter(cfg, admin.NewMySQLStore(db, log), content, checks, log)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/media", http.StatusOK},
		{http.MethodGet, "/api/media/missing", http.StatusNotFound},
		{http.MethodGet, "/api/admin/session", http.StatusUnauthorized},
		{http.MethodPost, "/api/admin/media/abc/save-thumbnail", http.StatusUnauthorized},
		{http.MethodPost, "/api/admin/login", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(""))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewContentBackend_Contentful(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Backend = ContentBackendContentful
	cfg.Content.Locale = "en-US"
	cfg.Content.Contentful = ContentfulConfig{
		SpaceID:     "space1",
		Environment: "master",
		AccessToken: "token",
		BaseURL:     "http://127.0.0.1:1",
		UploadURL:   "http://127.0.0.1:1",
		Timeout:     time.Second,
	}

	content, err := newContentBackend(context.Background(), cfg, nil, logger.NewTestLogger())
	require.NoError(t, err)
	assert.NotNil(t, content.store)
	assert.Nil(t, content.catalog)
	assert.Nil(t, content.blobs)
}
