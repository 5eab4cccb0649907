// templates/engine.go
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"go.uber.org/zap"
)

// Engine holds one compiled template set parsed from an fs.FS.
// It is immutable after New and safe for concurrent use.
type Engine struct {
	root   *template.Template
	Logger *zap.Logger
}

// New parses every file in fsys matching patterns with the shared func map.
// At least one pattern must match.
func New(fsys fs.FS, logger *zap.Logger, patterns ...string) (*Engine, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("templates: no patterns given")
	}
	root, err := template.New("root").Funcs(Funcs()).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("templates: parse: %w", err)
	}
	if logger != nil {
		for _, t := range root.Templates() {
			if t.Name() != "root" {
				logger.Debug("template compiled", zap.String("name", t.Name()))
			}
		}
	}
	return &Engine{root: root, Logger: logger}, nil
}

// Has reports whether a template with the given name was compiled.
func (e *Engine) Has(name string) bool {
	return e != nil && e.root.Lookup(name) != nil
}

// Execute renders the named template into w. Output is buffered so a failed
// render never leaves a partial page behind.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	t := e.root.Lookup(name)
	if t == nil {
		return fmt.Errorf("templates: %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("templates: execute %q: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
