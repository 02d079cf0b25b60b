package contentful

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
)

const (
	testSpace = "space1"
	testToken = "test-token"
)

// fakeContentful is an in-memory stand-in for the Management and Upload APIs.
type fakeContentful struct {
	mu           sync.Mutex
	entries      map[string]*entry
	assets       map[string]*asset
	uploads      map[string][]byte
	pollsLeft    map[string]int
	processPolls int
	seq          int
	calls        []string
}

func newFakeContentful() *fakeContentful {
	return &fakeContentful{
		entries:   make(map[string]*entry),
		assets:    make(map[string]*asset),
		uploads:   make(map[string][]byte),
		pollsLeft: make(map[string]int),
	}
}

func (f *fakeContentful) addEntry(id, contentType string, fields map[string]localized) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[id] = &entry{
		Sys: sys{
			ID:          id,
			Type:        "Entry",
			Version:     3,
			ContentType: &link{Sys: linkSys("Link", "ContentType", contentType)},
		},
		Fields: fields,
	}
}

func (f *fakeContentful) entry(id string) *entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[id]
}

func (f *fakeContentful) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeContentful) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeContentful) router() http.Handler {
	r := mux.NewRouter()
	base := "/spaces/{space}/environments/{env}"
	r.HandleFunc(base+"/uploads", f.createUpload).Methods(http.MethodPost)
	r.HandleFunc(base+"/assets", f.createAsset).Methods(http.MethodPost)
	r.HandleFunc(base+"/assets/{id}", f.getAsset).Methods(http.MethodGet)
	r.HandleFunc(base+"/assets/{id}/files/{locale}/process", f.processAsset).Methods(http.MethodPut)
	r.HandleFunc(base+"/assets/{id}/published", f.publishAsset).Methods(http.MethodPut)
	r.HandleFunc(base+"/entries/{id}", f.getEntry).Methods(http.MethodGet)
	r.HandleFunc(base+"/entries/{id}", f.updateEntry).Methods(http.MethodPut)
	r.HandleFunc(base+"/entries/{id}/published", f.publishEntry).Methods(http.MethodPut)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer "+testToken {
			writeError(w, http.StatusUnauthorized, "AccessTokenInvalid", "The access token you sent could not be found or is invalid.")
			return
		}
		f.mu.Lock()
		f.calls = append(f.calls, req.Method+" "+req.URL.Path)
		f.mu.Unlock()
		r.ServeHTTP(w, req)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, id, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"sys":     map[string]string{"type": "Error", "id": id},
		"message": msg,
	})
}

func (f *fakeContentful) checkVersion(w http.ResponseWriter, r *http.Request, current int) bool {
	if r.Header.Get("X-Contentful-Version") != fmt.Sprint(current) {
		writeError(w, http.StatusConflict, "VersionMismatch", "Version mismatch")
		return false
	}
	return true
}

func (f *fakeContentful) createUpload(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != "application/octet-stream" {
		writeError(w, http.StatusUnsupportedMediaType, "BadRequest", "expected octet-stream")
		return
	}
	data, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("upload")
	f.uploads[id] = data
	writeJSON(w, http.StatusCreated, upload{Sys: sys{ID: id, Type: "Upload"}})
}

func (f *fakeContentful) createAsset(w http.ResponseWriter, r *http.Request) {
	var a asset
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, file := range a.Fields.File {
		if file.UploadFrom == nil || f.uploads[file.UploadFrom.Sys.ID] == nil {
			writeError(w, http.StatusUnprocessableEntity, "ValidationFailed", "unknown upload")
			return
		}
	}
	now := time.Now().UTC()
	a.Sys = sys{ID: f.nextID("asset"), Type: "Asset", Version: 1, CreatedAt: &now}
	f.assets[a.Sys.ID] = &a
	writeJSON(w, http.StatusCreated, a)
}

func (f *fakeContentful) processAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[vars["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound", "The resource could not be found.")
		return
	}
	if !f.checkVersion(w, r, a.Sys.Version) {
		return
	}
	a.Sys.Version++
	f.pollsLeft[a.Sys.ID] = f.processPolls
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeContentful) getAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[vars["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound", "The resource could not be found.")
		return
	}
	if left, pending := f.pollsLeft[a.Sys.ID]; pending {
		if left > 0 {
			f.pollsLeft[a.Sys.ID] = left - 1
		} else {
			delete(f.pollsLeft, a.Sys.ID)
			for locale, file := range a.Fields.File {
				size := int64(len(f.uploads[file.UploadFrom.Sys.ID]))
				file.URL = "//images.ctfassets.net/" + testSpace + "/" + a.Sys.ID + "/" + file.FileName
				file.UploadFrom = nil
				file.Details = &struct {
					Size int64 `json:"size"`
				}{Size: size}
				a.Fields.File[locale] = file
			}
			a.Sys.Version++
		}
	}
	writeJSON(w, http.StatusOK, a)
}

func (f *fakeContentful) publishAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[vars["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound", "The resource could not be found.")
		return
	}
	if !f.checkVersion(w, r, a.Sys.Version) {
		return
	}
	a.Sys.PublishedVersion = a.Sys.Version
	a.Sys.Version++
	writeJSON(w, http.StatusOK, a)
}

func (f *fakeContentful) getEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[vars["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound", "The resource could not be found.")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (f *fakeContentful) updateEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var body struct {
		Fields map[string]localized `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "BadRequest", err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[vars["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound", "The resource could not be found.")
		return
	}
	if !f.checkVersion(w, r, e.Sys.Version) {
		return
	}
	e.Fields = body.Fields
	e.Sys.Version++
	writeJSON(w, http.StatusOK, e)
}

func (f *fakeContentful) publishEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[vars["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound", "The resource could not be found.")
		return
	}
	if !f.checkVersion(w, r, e.Sys.Version) {
		return
	}
	now := time.Now().UTC()
	e.Sys.PublishedVersion = e.Sys.Version
	e.Sys.PublishedAt = &now
	e.Sys.Version++
	writeJSON(w, http.StatusOK, e)
}

// setupTestClient starts a fake API server and returns a client pointed at it.
func setupTestClient(t *testing.T) (*fakeContentful, *Client) {
	fake := newFakeContentful()
	srv := httptest.NewServer(fake.router())
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		SpaceID:      testSpace,
		AccessToken:  testToken,
		BaseURL:      srv.URL,
		UploadURL:    srv.URL,
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  time.Second,
	}, logger.NewTestLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return fake, client
}

func linkSys(typ, linkType, id string) media.LinkSys {
	return media.LinkSys{Type: typ, LinkType: linkType, ID: id}
}

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return data
}
