// internal/app/features/landing/landing.go
package landing

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/dalemusser/intake/templates"
	"github.com/dalemusser/intake/validate"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// staticCacheControl applies to every /static/* response.
const staticCacheControl = "public, max-age=3600"

// Page is the data passed to the index template.
type Page struct {
	Service string
	NameMin int
	NameMax int
}

// Handler renders the landing page and serves its assets.
type Handler struct {
	Engine  *templates.Engine
	Service string
	Logger  *zap.Logger

	static http.Handler
}

// NewHandler compiles the embedded templates. service is shown as the page
// title.
func NewHandler(service string, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine, err := templates.New(templateFS, logger, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("landing: %w", err)
	}
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("landing: static assets: %w", err)
	}
	return &Handler{
		Engine:  engine,
		Service: service,
		Logger:  logger,
		static:  http.StripPrefix("/static/", http.FileServerFS(assets)),
	}, nil
}

// Index renders GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.Engine.Render(w, r, "index", Page{
		Service: h.Service,
		NameMin: validate.NameMinLen,
		NameMax: validate.NameMaxLen,
	})
}

// Static serves GET /static/*.
func (h *Handler) Static(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", staticCacheControl)
	h.static.ServeHTTP(w, r)
}
