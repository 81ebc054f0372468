package ui

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// Handler serves static UI assets from dir. When dir is empty or missing the
// handler answers every request with 404 and a short notice.
func Handler(dir string) http.Handler {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return notConfigured()
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return notConfigured()
	}
	return FSHandler(os.DirFS(dir))
}

// FSHandler serves files from fsys, mapping "/" and directories to index.html.
func FSHandler(fsys fs.FS) http.Handler {
	files := http.FS(fsys)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		p := path.Clean("/" + r.URL.Path)
		if strings.HasSuffix(p, "/") {
			p += "index.html"
		}
		p = strings.TrimPrefix(p, "/")
		if p == "" || p == "." {
			p = "index.html"
		}

		file, err := files.Open(p)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer file.Close()
		info, err := file.Stat()
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if info.IsDir() {
			index, err := files.Open(path.Join(p, "index.html"))
			if err != nil {
				http.NotFound(w, r)
				return
			}
			defer index.Close()
			if info, err = index.Stat(); err != nil {
				http.NotFound(w, r)
				return
			}
			http.ServeContent(w, r, info.Name(), info.ModTime(), index)
			return
		}
		http.ServeContent(w, r, info.Name(), info.ModTime(), file)
	})
}

func notConfigured() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "UI assets not configured", http.StatusNotFound)
	})
}
