package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/hairizuanbinnoorazman/wise-institute/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveThumbnailPath(id string) string {
	return "/api/admin/media/" + id + "/save-thumbnail"
}

func TestSaveThumbnail_Success(t *testing.T) {
	env := setupTestEnv(t)
	env.createRecord(t, "rec1", media.ContentTypeWiseInstitute, "Spring Program")

	body := map[string]string{"imageBase64": base64.StdEncoding.EncodeToString(jpegBytes)}
	w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), body, validSession(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SaveThumbnailResponse
	decodeBody(t, w, &resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.AssetID)
	assert.True(t, strings.HasPrefix(resp.ThumbnailURL, "https://"), resp.ThumbnailURL)

	rec, err := env.store.GetRecord(context.Background(), "rec1")
	require.NoError(t, err)
	require.Len(t, rec.Thumbnails, 1)
	assert.Equal(t, resp.AssetID, rec.Thumbnails[0].AssetID())
	assert.True(t, rec.IsPublished())

	// The stored asset is reachable through the asset route.
	assetReq := jsonRequest(t, http.MethodGet, "/assets/"+resp.AssetID+"/thumbnail-Spring-Program.jpg", nil, "")
	aw := env.do(assetReq)
	require.Equal(t, http.StatusOK, aw.Code)
	assert.Equal(t, "image/jpeg", aw.Header().Get("Content-Type"))
	assert.Equal(t, jpegBytes, aw.Body.Bytes())
}

func TestSaveThumbnail_DataURL(t *testing.T) {
	env := setupTestEnv(t)
	env.createRecord(t, "rec1", media.ContentTypeWiseInstitute, "Spring Program")

	body := map[string]string{"imageBase64": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)}
	w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), body, validSession(t)))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSaveThumbnail_WrongRecordType(t *testing.T) {
	env := setupTestEnv(t)
	env.createRecord(t, "rec1", "newsArticle", "Spring Program")

	body := map[string]string{"imageBase64": base64.StdEncoding.EncodeToString(jpegBytes)}
	w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), body, validSession(t)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	decodeBody(t, w, &resp)
	assert.Contains(t, resp.Error, "expected wiseInstitute")
	assert.Zero(t, env.assetCount(t))
}

func TestSaveThumbnail_ExpiredSession(t *testing.T) {
	bodies := []interface{}{
		map[string]string{"imageBase64": base64.StdEncoding.EncodeToString(jpegBytes)},
		map[string]interface{}{"imageBase64": 42},
		"not json",
		nil,
	}

	for i, body := range bodies {
		env := setupTestEnv(t)
		env.createRecord(t, "rec1", media.ContentTypeWiseInstitute, "Spring Program")

		w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), body, expiredSession(t)))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "body %d", i)

		var resp ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Authentication required", resp.Error)
		assert.Zero(t, env.assetCount(t))
	}
}

func TestSaveThumbnail_Unauthenticated(t *testing.T) {
	cookies := map[string]string{
		"no cookie":        "",
		"other cookie":     "theme=dark",
		"garbage":          "admin-session=%%%not-base64",
		"missing user":     sessionCookie(t, map[string]string{"expires": "2999-01-01T00:00:00Z"}),
		"missing expires":  sessionCookie(t, map[string]string{"user": "a"}),
		"unparseable date": sessionCookie(t, map[string]string{"user": "a", "expires": "tomorrow"}),
	}

	for name, cookie := range cookies {
		t.Run(name, func(t *testing.T) {
			env := setupTestEnv(t)
			env.createRecord(t, "rec1", media.ContentTypeWiseInstitute, "Spring Program")

			body := map[string]string{"imageBase64": base64.StdEncoding.EncodeToString(jpegBytes)}
			w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), body, cookie))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Zero(t, env.assetCount(t))
		})
	}
}

func TestSaveThumbnail_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing field", map[string]string{}},
		{"empty string", map[string]string{"imageBase64": ""}},
		{"number", map[string]interface{}{"imageBase64": 42}},
		{"object", map[string]interface{}{"imageBase64": map[string]string{"a": "b"}}},
		{"array", map[string]interface{}{"imageBase64": []string{"AAAA"}}},
		{"null", map[string]interface{}{"imageBase64": nil}},
		{"not json", "{imageBase64"},
		{"not base64", map[string]string{"imageBase64": "***"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			env.createRecord(t, "rec1", media.ContentTypeWiseInstitute, "Spring Program")

			w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), tt.body, validSession(t)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, env.assetCount(t))

			rec, err := env.store.GetRecord(context.Background(), "rec1")
			require.NoError(t, err)
			assert.Empty(t, rec.Thumbnails)
		})
	}
}

func TestSaveThumbnail_RecordNotFound(t *testing.T) {
	env := setupTestEnv(t)

	body := map[string]string{"imageBase64": base64.StdEncoding.EncodeToString(jpegBytes)}
	w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("missing"), body, validSession(t)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, env.assetCount(t))
}

func TestSaveThumbnail_StoreFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.createRecord(t, "rec1", media.ContentTypeWiseInstitute, "Spring Program")
	require.NoError(t, env.db.Migrator().DropTable(&media.Asset{}))

	body := map[string]string{"imageBase64": base64.StdEncoding.EncodeToString(jpegBytes)}
	w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), body, validSession(t)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.Error)
	assert.True(t, env.log.HasMessage("error", "failed to save thumbnail"))
}

func TestSaveThumbnail_AssetURLResolvesForAnyTitle(t *testing.T) {
	titles := []string{
		"Spring Program",
		"Q&A: What's next?",
		"AC/DC Night",
		"100% Online #1",
		"Trip /../../etc",
		"Café Night",
	}

	for _, title := range titles {
		t.Run(title, func(t *testing.T) {
			env := setupTestEnv(t)
			env.createRecord(t, "rec1", media.ContentTypeWiseInstitute, title)

			body := map[string]string{"imageBase64": base64.StdEncoding.EncodeToString(jpegBytes)}
			w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), body, validSession(t)))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp SaveThumbnailResponse
			decodeBody(t, w, &resp)

			u, err := url.Parse(resp.ThumbnailURL)
			require.NoError(t, err)
			assert.Equal(t, "https", u.Scheme)
			assert.Empty(t, u.RawQuery)
			assert.Empty(t, u.Fragment)

			aw := env.do(jsonRequest(t, http.MethodGet, u.EscapedPath(), nil, ""))
			require.Equal(t, http.StatusOK, aw.Code, resp.ThumbnailURL)
			assert.Equal(t, jpegBytes, aw.Body.Bytes())

			asset, err := env.store.GetAsset(context.Background(), resp.AssetID)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(asset.Path, "assets/"+resp.AssetID+"/"), asset.Path)
			assert.Equal(t, 2, strings.Count(asset.Path, "/"))
		})
	}
}

func TestSaveThumbnail_BodyTooLarge(t *testing.T) {
	env := setupTestEnv(t)
	env.createRecord(t, "rec1", media.ContentTypeWiseInstitute, "Spring Program")

	body := `{"imageBase64":"` + strings.Repeat("A", MaxThumbnailBodySize) + `"}`
	w := env.do(jsonRequest(t, http.MethodPost, saveThumbnailPath("rec1"), body, validSession(t)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, env.assetCount(t))
}
