// server/redirect.go
package server

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// httpRedirectHandler redirects any HTTP request to HTTPS preserving host + path.
// Hosts and request URIs that could inject headers are rejected with 400.
func httpRedirectHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if !isValidHost(host) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		reqURI := r.URL.RequestURI()
		if !isValidRequestURI(reqURI) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "https://"+host+reqURI, http.StatusMovedPermanently)
	})
}

// isValidRequestURI rejects URIs containing control characters.
func isValidRequestURI(uri string) bool {
	for _, c := range uri {
		if (c < 0x20 && c != '\t') || c == 0x7f {
			return false
		}
	}
	return true
}

// isValidHost checks that a Host header is safe to echo into a redirect.
func isValidHost(host string) bool {
	if host == "" {
		return false
	}

	hostPart, portStr, err := net.SplitHostPort(host)
	if err != nil {
		// no port
		hostPart = host
	} else if portStr != "" {
		port, parseErr := strconv.Atoi(portStr)
		if parseErr != nil || port <= 0 || port > 65535 {
			return false
		}
	}
	if hostPart == "" {
		return false
	}

	if strings.HasPrefix(hostPart, "[") && strings.HasSuffix(hostPart, "]") {
		if len(hostPart) < 3 {
			return false
		}
		ipv6Part := hostPart[1 : len(hostPart)-1]
		if zoneIdx := strings.Index(ipv6Part, "%"); zoneIdx != -1 {
			ipv6Part = ipv6Part[:zoneIdx]
		}
		if net.ParseIP(ipv6Part) == nil {
			return false
		}
	}

	for _, c := range hostPart {
		if c < 0x20 || c == 0x7f {
			return false
		}
	}

	if strings.Contains(host, "://") || strings.HasPrefix(host, "/") {
		return false
	}
	return true
}

// validateTLSFiles checks that the certificate and key exist as regular
// files. A key readable by group or others yields an error wrapping
// errInsecureKey so callers can downgrade it to a warning outside prod.
func validateTLSFiles(certFile, keyFile string) error {
	if strings.TrimSpace(certFile) == "" || strings.TrimSpace(keyFile) == "" {
		return fmt.Errorf("manual TLS selected but cert_file / key_file not provided")
	}
	if _, err := statRegular("certificate", certFile); err != nil {
		return err
	}
	keyInfo, err := statRegular("key", keyFile)
	if err != nil {
		return err
	}
	if runtime.GOOS != "windows" && keyInfo.Mode().Perm()&0o077 != 0 {
		return fmt.Errorf("TLS key file %s has %w %o (recommended: 0600)", keyFile, errInsecureKey, keyInfo.Mode().Perm())
	}
	return nil
}

func statRegular(kind, path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("TLS %s file does not exist: %s", kind, path)
		}
		return nil, fmt.Errorf("cannot access TLS %s file %s: %w", kind, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("TLS %s path is a directory, not a file: %s", kind, path)
	}
	return info, nil
}
