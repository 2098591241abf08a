// server_test.go
package boomerang

import (
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *Server {
	return NewServer(DefaultServerConfig())
}

func postForm(t *testing.T, handler http.Handler, path, source string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"source": {source}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func Test_Server_Index(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<textarea")
}

func Test_Server_UnknownPathIs404(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func postUpload(t *testing.T, handler http.Handler, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func Test_Server_Upload(t *testing.T) {
	rec := postUpload(t, testServer().Handler(), "main.bng", "x = 5;\nx + 1;")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	// The uploaded file lands in the editor unevaluated.
	assert.Contains(t, body, "x = 5;")
	assert.NotContains(t, body, "<h2>Results</h2>")
}

func Test_Server_Upload_InvalidFileType(t *testing.T) {
	rec := postUpload(t, testServer().Handler(), "main.txt", "x = 5;")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file type: txt")
	assert.NotContains(t, rec.Body.String(), "x = 5;")

	rec = postUpload(t, testServer().Handler(), "main", "x = 5;")
	assert.Contains(t, rec.Body.String(), "Invalid file type: no extension")
}

func Test_Server_Upload_NoFileInRequest(t *testing.T) {
	form := url.Values{"other": {"value"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file in request")
}

func Test_Server_Interpret(t *testing.T) {
	rec := postForm(t, testServer().Handler(), "/interpret", "1 + 1;\nprint <- (\"hi\",);")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<h2>Results</h2>")
	assert.Contains(t, body, "2")
	// The submitted source is echoed back into the editor.
	assert.Contains(t, body, "1 + 1;")
}

func Test_Server_Interpret_LanguageErrorIsNotHTTPError(t *testing.T) {
	rec := postForm(t, testServer().Handler(), "/interpret", "1 / 0;")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "division by zero")
}

func Test_Server_Interpret_InputIsBlockedOnWeb(t *testing.T) {
	rec := postForm(t, testServer().Handler(), "/interpret", `input <- ("name: ",);`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		"unsupported builtin function &#39;input&#39; for web platform")
}

func Test_Server_Interpret_RequestsAreIsolated(t *testing.T) {
	handler := testServer().Handler()
	postForm(t, handler, "/interpret", "x = 5;")
	rec := postForm(t, handler, "/interpret", "x;")
	assert.Contains(t, rec.Body.String(), "undefined variable: x")
}

func Test_Server_Interpret_GetNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/interpret", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func Test_Server_Visualize(t *testing.T) {
	rec := postForm(t, testServer().Handler(), "/visualize", "1 + 2;")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vnd.graphviz; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "digraph ast {")
}

func Test_Server_Visualize_ParseErrorRendersEditor(t *testing.T) {
	rec := postForm(t, testServer().Handler(), "/visualize", "1 +")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PARSE ERROR")
}

func Test_Server_Download(t *testing.T) {
	source := "x = 1;\nprint <- (x,);"
	rec := postForm(t, testServer().Handler(), "/download", source)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="main.bng"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, source, rec.Body.String())
}

func Test_LoadServerConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boomerang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nplatform: cli\n"), 0o644))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "cli", cfg.Platform)
}

func Test_LoadServerConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
}

func Test_LoadServerConfig_PartialFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boomerang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7000\"\n"), 0o644))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, PlatformWeb, cfg.Platform)
}

func Test_LoadServerConfig_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boomerang.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- broken"), 0o644))

	_, err := LoadServerConfig(path)
	assert.Error(t, err)
}
