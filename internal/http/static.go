package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

func staticFallback(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir == "" || r.Method != http.MethodGet || strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		clean := path.Clean("/" + r.URL.Path)
		if file, ok := regularFile(dir, clean); ok {
			http.ServeFile(w, r, file)
			return
		}
		if index, ok := regularFile(dir, "/index.html"); ok {
			http.ServeFile(w, r, index)
			return
		}
		writeError(w, http.StatusNotFound, "not found")
	}
}

func regularFile(dir, urlPath string) (string, bool) {
	full := filepath.Join(dir, filepath.FromSlash(urlPath))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}
