package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/hairizuanbinnoorazman/wise-institute/admin"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
	"github.com/hairizuanbinnoorazman/wise-institute/session"
	"github.com/hairizuanbinnoorazman/wise-institute/storage"
	"github.com/hairizuanbinnoorazman/wise-institute/testutil"
	"github.com/hairizuanbinnoorazman/wise-institute/thumbnail"
	"gorm.io/gorm"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

// testEnv wires the handlers against an in-memory database and local blobs.
type testEnv struct {
	db     *gorm.DB
	store  *media.GormStore
	admins admin.Store
	blobs  storage.BlobStorage
	log    *logger.TestLogger
	router *mux.Router
}

func setupTestEnv(t *testing.T) *testEnv {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &admin.Admin{}, &media.Record{}, &media.Asset{})

	blobs, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create blob storage: %v", err)
	}

	log := logger.NewTestLogger()
	env := &testEnv{
		db:     db,
		store:  media.NewGormStore(db, blobs, "//media.example.com", log),
		admins: admin.NewMySQLStore(db, log),
		blobs:  blobs,
		log:    log,
	}

	codec := session.PlainCodec{}
	cookie := session.CookieOptions{Name: session.DefaultCookieName}

	authHandler := NewAuthHandler(env.admins, codec, cookie, time.Hour, log)
	mediaHandler := NewMediaHandler(env.store, env.store, blobs, media.ContentTypeWiseInstitute, log)
	thumbHandler := NewThumbnailHandler(thumbnail.NewGateway(env.store, media.ContentTypeWiseInstitute, log), log)
	adminAuth := NewAdminAuth(codec, session.DefaultCookieName, log)

	r := mux.NewRouter()
	r.Use(RequestID, Recovery(log), Metrics)
	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/admin/logout", authHandler.Logout).Methods(http.MethodPost)
	r.HandleFunc("/api/media", mediaHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/media/{id}", mediaHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/assets/{id}/{file}", mediaHandler.ServeAsset).Methods(http.MethodGet)

	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(adminAuth.Handler)
	adminRouter.HandleFunc("/session", authHandler.Session).Methods(http.MethodGet)
	adminRouter.HandleFunc("/media", mediaHandler.Create).Methods(http.MethodPost)
	adminRouter.HandleFunc("/media/{id}/save-thumbnail", thumbHandler.Save).Methods(http.MethodPost)

	env.router = r
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// sessionCookie encodes a raw session object the way the site's login does.
func sessionCookie(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal session: %v", err)
	}
	return session.DefaultCookieName + "=" + base64.StdEncoding.EncodeToString(data)
}

func validSession(t *testing.T) string {
	return sessionCookie(t, map[string]string{"user": "a", "expires": "2999-01-01T00:00:00Z"})
}

func expiredSession(t *testing.T) string {
	return sessionCookie(t, map[string]string{"user": "a", "expires": "2000-01-01T00:00:00Z"})
}

func jsonRequest(t *testing.T, method, path string, body interface{}, cookie string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
}

func (e *testEnv) createRecord(t *testing.T, id, contentType, title string) *media.Record {
	t.Helper()
	rec := &media.Record{ID: id, ContentType: contentType, Title: title}
	testutil.CreateFixture(t, e.db, rec)
	return rec
}

func (e *testEnv) assetCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&media.Asset{}).Count(&n).Error; err != nil {
		t.Fatalf("failed to count assets: %v", err)
	}
	return n
}
