package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
)

// acceptsGzip reports whether the client negotiated gzip
func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// Compress compresses responses using gzip when the client accepts it.
// The decision is made when the response header is committed, so event
// streams and responses that were never written are passed through untouched.
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Accept"), "text/event-stream") || !acceptsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Accept-Encoding")

		grw := &gzipResponseWriter{ResponseWriter: w}
		defer grw.close()

		next.ServeHTTP(grw, r)
	})
}

// gzipResponseWriter starts a gzip stream on the first WriteHeader or Write
type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	wroteHeader bool
}

func (grw *gzipResponseWriter) Write(b []byte) (int, error) {
	if !grw.wroteHeader {
		if grw.Header().Get("Content-Type") == "" {
			grw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		grw.WriteHeader(http.StatusOK)
	}
	if grw.gz != nil {
		return grw.gz.Write(b)
	}
	return grw.ResponseWriter.Write(b)
}

// WriteHeader drops any Content-Length set by the handler (http.FileServer
// sets one for the uncompressed file).
func (grw *gzipResponseWriter) WriteHeader(code int) {
	if grw.wroteHeader || code < http.StatusOK {
		grw.ResponseWriter.WriteHeader(code)
		return
	}
	grw.wroteHeader = true

	if compressible(code, grw.Header()) {
		grw.Header().Set("Content-Encoding", "gzip")
		grw.Header().Del("Content-Length")
		grw.gz = gzip.NewWriter(grw.ResponseWriter)
	}
	grw.ResponseWriter.WriteHeader(code)
}

func (grw *gzipResponseWriter) Flush() {
	if !grw.wroteHeader {
		grw.WriteHeader(http.StatusOK)
	}
	if grw.gz != nil {
		_ = grw.gz.Flush()
	}
	if f, ok := grw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (grw *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return grw.ResponseWriter
}

func (grw *gzipResponseWriter) close() {
	if grw.gz != nil {
		_ = grw.gz.Close()
	}
}

func compressible(code int, h http.Header) bool {
	if code == http.StatusNoContent || code == http.StatusNotModified {
		return false
	}
	if h.Get("Content-Encoding") != "" {
		return false
	}
	return !strings.HasPrefix(h.Get("Content-Type"), "text/event-stream")
}
