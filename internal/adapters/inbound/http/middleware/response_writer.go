package middleware

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"net/http"
)

// StatusRecorder captures the status code and body size written by the
// downstream handler so the access logger can report them.
type StatusRecorder struct {
	http.ResponseWriter

	Status      int
	BytesOut    int
	wroteHeader bool
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *StatusRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}

	r.Status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *StatusRecorder) Write(data []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}

	n, err := r.ResponseWriter.Write(data)
	r.BytesOut += n

	return n, err
}

func (r *StatusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (r *StatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}

	return hijacker.Hijack()
}

// BufferedResponseWriter holds the full response in memory so middleware can
// inspect headers and body before anything reaches the client.
type BufferedResponseWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func NewBufferedResponseWriter() *BufferedResponseWriter {
	return &BufferedResponseWriter{header: make(http.Header), status: http.StatusOK}
}

func (w *BufferedResponseWriter) Header() http.Header {
	return w.header
}

func (w *BufferedResponseWriter) WriteHeader(status int) {
	w.status = status
}

func (w *BufferedResponseWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *BufferedResponseWriter) Status() int {
	return w.status
}

func (w *BufferedResponseWriter) Body() []byte {
	return w.body.Bytes()
}

// FlushTo replays the buffered response onto the real writer.
func (w *BufferedResponseWriter) FlushTo(dst http.ResponseWriter) error {
	for key, values := range w.header {
		for _, value := range values {
			dst.Header().Add(key, value)
		}
	}

	dst.WriteHeader(w.status)

	_, err := dst.Write(w.body.Bytes())

	return err
}
