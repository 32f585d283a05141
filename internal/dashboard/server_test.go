package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleIndex(t *testing.T) {
	dir := t.TempDir()
	writeExports(t, dir)
	srv := NewServer(dir)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, "Germany")
	assert.Contains(t, body, "https://portal.test/adv/1")
}

func TestHandleIndexFiltered(t *testing.T) {
	dir := t.TempDir()
	writeExports(t, dir)
	srv := NewServer(dir)

	req := httptest.NewRequest(http.MethodGet, "/?region=Germany", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Bravo")
	assert.NotContains(t, body, "https://portal.test/adv/1")
}

// An empty results directory renders the error banner, not a 500
func TestHandleIndexNoExports(t *testing.T) {
	srv := NewServer(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no *.csv files")
}

func TestHandleIndexUnknownPath(t *testing.T) {
	srv := NewServer(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAdvertisersAPI(t *testing.T) {
	dir := t.TempDir()
	writeExports(t, dir)
	srv := NewServer(dir)

	req := httptest.NewRequest(http.MethodGet, "/api/advertisers", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var advertisers []Advertiser
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &advertisers))
	assert.Len(t, advertisers, 3)
}

func TestHandleCreativesAPI(t *testing.T) {
	dir := t.TempDir()
	writeExports(t, dir)
	srv := NewServer(dir)

	req := httptest.NewRequest(http.MethodGet, "/api/creatives", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var creatives map[string][]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &creatives))
	assert.Len(t, creatives, 2)
}

func TestAPIWithoutExports(t *testing.T) {
	srv := NewServer(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/advertisers", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
