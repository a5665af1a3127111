// Package responsewriter records the status and size of a response for the
// access log and the request metrics.
package responsewriter

import (
	"net/http"
)

// ResponseWriter remembers the first status code and counts body bytes.
type ResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
	wrote  bool
}

func Wrap(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader ignores every call after the first, like net/http does.
func (w *ResponseWriter) WriteHeader(status int) {
	if w.wrote {
		return
	}
	w.status = status
	w.wrote = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush forwards to the underlying writer when it supports flushing.
func (w *ResponseWriter) Flush() {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *ResponseWriter) StatusCode() int   { return w.status }
func (w *ResponseWriter) BytesWritten() int { return w.bytes }

// Wrote reports whether the status line has been sent.
func (w *ResponseWriter) Wrote() bool { return w.wrote }

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
