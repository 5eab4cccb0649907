package landing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler("JS-Flask Integration", zap.NewNop())
	require.NoError(t, err)
	return h
}

func TestIndex(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>JS-Flask Integration</title>")
	assert.Contains(t, body, `id="userForm"`)
	assert.Contains(t, body, `src="/static/script.js"`)
	assert.Contains(t, body, `href="/static/style.css"`)
	assert.Contains(t, body, `maxlength="50"`)
}

func TestIndex_EscapesServiceName(t *testing.T) {
	h, err := NewHandler("<script>x</script>", zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotContains(t, rec.Body.String(), "<script>x</script>")
}

func TestStatic(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"/static/script.js", http.StatusOK, "javascript", "fetch('/submit'"},
		{"/static/style.css", http.StatusOK, "text/css", ".response.show"},
		{"/static/missing.js", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Static(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, staticCacheControl, rec.Header().Get("Cache-Control"))
			if tt.contentType != "" {
				assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			}
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
		})
	}
}
