// templates/funcs.go
package templates

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// Funcs returns helpers available to all templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// {{ "a b" | urlquery }} → "a+b"
		"urlquery": url.QueryEscape,
		"lower":    strings.ToLower,
		"upper":    strings.ToUpper,
		"join":     strings.Join,
		"printf":   fmt.Sprintf,
		// {{ asset "script.js" }} → "/static/script.js"
		"asset": func(name string) string { return "/static/" + strings.TrimPrefix(name, "/") },
	}
}
