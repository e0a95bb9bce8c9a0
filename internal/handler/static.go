package handler

import (
	"bytes"
	"io/fs"
	"net/http"
	"time"
)

const indexPath = "/static/index.html"

// RootRedirect handles GET / by sending the browser to the landing page
func RootRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, indexPath, http.StatusTemporaryRedirect)
}

// Static serves files from fsys under /static/.
// http.FileServer answers /index.html with a redirect to the directory, so
// the landing page itself is served directly.
func Static(fsys fs.FS) http.Handler {
	files := http.FileServer(http.FS(fsys))

	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "index.html" {
			files.ServeHTTP(w, r)
			return
		}

		data, err := fs.ReadFile(fsys, "index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(data))
	}))
}
