package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// spaHandler serves the game's static assets from the configured directory.
// Any path that does not map to a real file falls back to index.html so the
// single-page app can handle routing client-side.
func (s *Server) spaHandler() http.Handler {
	root := s.cfg.StaticDir
	fileServer := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		// Reject traversal attempts before touching the filesystem.
		clean := filepath.Clean(r.URL.Path)
		if strings.Contains(clean, "..") {
			writeError(w, http.StatusBadRequest, "invalid path")
			return
		}

		full := filepath.Join(root, clean)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(root, "index.html"))
			return
		}

		fileServer.ServeHTTP(w, r)
	})
}
