package middleware_test

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SecureMemo/internal/cli/bootstrap"
	"SecureMemo/internal/config"
	"SecureMemo/internal/handlers"
	"SecureMemo/internal/middleware"
)

// memoAPI поднимает API над хранилищем с двумя заметками и возвращает роутер и токен.
func memoAPI(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Home:           dir,
		StoreDir:       filepath.Join(dir, "memos"),
		IndexPath:      filepath.Join(dir, "index.sqlite"),
		CredentialFile: filepath.Join(dir, "pwd.hash"),
		SecretFile:     filepath.Join(dir, "api.enc"),
		AuthSecret:     "gzip-secret",
	}
	ctx := context.Background()
	app, done, err := bootstrap.Open(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = done() })
	id, err := app.Unlock(ctx, func() (string, error) { return "", nil })
	require.NoError(t, err)
	for _, title := range []string{"shopping", "ideas"} {
		_, err := app.Memos.Create(ctx, id, title, "body of "+title)
		require.NoError(t, err)
	}
	token, err := middleware.IssueToken(cfg.AuthSecret, id.Partition, middleware.TokenTTL)
	require.NoError(t, err)
	return handlers.NewHandler(app.Memos, app.Auth, id, nil, cfg).Router, token
}

func listRequest(token, encoding string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/memos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if encoding != "" {
		req.Header.Set("Accept-Encoding", encoding)
	}
	return req
}

// Тест: без Accept-Encoding: gzip список заметок отдаётся как есть
func TestWithGzip_MemoListPlain(t *testing.T) {
	router, token := memoAPI(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, listRequest(token, ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	var list handlers.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list.Memos, 2)
}

// Тест: с Accept-Encoding: gzip список сжат и корректно распаковывается
func TestWithGzip_MemoListCompressed(t *testing.T) {
	router, token := memoAPI(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, listRequest(token, "gzip, deflate"))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	gr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	defer gr.Close()
	var list handlers.ListResponse
	require.NoError(t, json.NewDecoder(gr).Decode(&list))
	require.Len(t, list.Memos, 2)
	titles := []string{list.Memos[0].Title, list.Memos[1].Title}
	assert.ElementsMatch(t, []string{"shopping", "ideas"}, titles)
}

// Тест: не-JSON ответы (аудио и т.п.) не сжимаются
func TestWithGzip_SkipsBinary(t *testing.T) {
	h := middleware.WithGzip(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mp4")
		_, _ = w.Write([]byte{0x00, 0x01, 0x02})
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, rr.Body.Bytes())
}
