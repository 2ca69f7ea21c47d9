package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/dskvich/doc-reviewer/pkg/api/response"
)

const indexFile = "index.html"

type spa struct {
	dir    string
	writer response.JSONResponseWriter
}

// NewSPA serves the built client from dir. Paths that do not name a file
// get index.html so client-side routes survive a reload.
func NewSPA(dir string) *spa {
	return &spa{dir: dir, writer: response.JSONResponseWriter{}}
}

func (s *spa) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		s.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}

	index := filepath.Join(s.dir, indexFile)
	if _, err := os.Stat(index); err != nil {
		s.writer.WriteErrorResponse(w, http.StatusNotFound, "Not found")
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}
