// templates/adapter.go
package templates

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"
)

// Render executes a full page as text/html with status 200. On failure it
// logs and responds 500 "template exec error".
func (e *Engine) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if e == nil {
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, data); err != nil {
		if e.Logger != nil {
			e.Logger.Error("template render failed",
				zap.String("name", name),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
