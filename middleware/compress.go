// middleware/compress.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/intake/config"
	"github.com/go-chi/chi/v5/middleware"
)

// compressibleTypes are the content types this service produces that are
// worth compressing.
var compressibleTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"text/javascript",
	"application/javascript",
	"application/json",
}

// CompressFromConfig returns chi's gzip/deflate middleware when
// coreCfg.EnableCompression is set, and an identity middleware otherwise.
// Levels outside 1-9 are clamped.
func CompressFromConfig(coreCfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if coreCfg == nil || !coreCfg.EnableCompression {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return Compress(coreCfg.CompressionLevel)
}

// Compress returns a compression middleware for the service's content types.
func Compress(level int) func(next http.Handler) http.Handler {
	if level < 1 {
		level = 1
	}
	if level > 9 {
		level = 9
	}
	return middleware.Compress(level, compressibleTypes...)
}
