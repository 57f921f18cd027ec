package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// setupWebRoutes serves the embedded game page. The game itself (rendering,
// physics, sound) lives entirely in the static assets; the server only
// hosts them next to the API so the browser can reach both from one origin.
func (s *Server) setupWebRoutes() {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		s.logger.Error("Failed to mount static assets", "error", err)
		return
	}

	fileServer := http.FileServerFS(sub)
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	})
	s.router.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}
