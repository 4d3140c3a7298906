package web

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Content codings supported by CompressionMiddleware, in preference order.
const (
	encodingZstd = "zstd"
	encodingGzip = "gzip"
)

// negotiateEncoding picks a content coding from an Accept-Encoding header.
// Codings with q=0 are refused.
func negotiateEncoding(header string) string {
	accepted := map[string]bool{}
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if q, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && q == 0 {
				continue
			}
		}
		accepted[name] = true
	}
	for _, enc := range []string{encodingZstd, encodingGzip} {
		if accepted[enc] {
			return enc
		}
	}
	return ""
}

// compressResponseWriter compresses the body once the handler writes to it.
// Responses that cannot carry a body are passed through untouched.
type compressResponseWriter struct {
	http.ResponseWriter
	encoding    string
	writer      io.WriteCloser
	wroteHeader bool
	bypass      bool
}

func (w *compressResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if code < http.StatusOK || code == http.StatusNoContent || code == http.StatusNotModified {
		w.bypass = true
	} else {
		w.Header().Set("Content-Encoding", w.encoding)
		w.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *compressResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.bypass {
		return w.ResponseWriter.Write(b)
	}
	if w.writer == nil {
		switch w.encoding {
		case encodingZstd:
			// One goroutine per encoder; responses are small and
			// concurrent requests already spread the load.
			enc, err := zstd.NewWriter(w.ResponseWriter,
				zstd.WithEncoderLevel(zstd.SpeedFastest),
				zstd.WithEncoderConcurrency(1))
			if err != nil {
				return 0, err
			}
			w.writer = enc
		default:
			w.writer = gzip.NewWriter(w.ResponseWriter)
		}
	}
	return w.writer.Write(b)
}

func (w *compressResponseWriter) Flush() {
	switch cw := w.writer.(type) {
	case *gzip.Writer:
		_ = cw.Flush()
	case *zstd.Encoder:
		_ = cw.Flush()
	}
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *compressResponseWriter) close() error {
	if w.writer == nil {
		return nil
	}
	return w.writer.Close()
}

// CompressionMiddleware compresses API responses with zstd or gzip,
// whichever the client prefers among those it accepts. Other routes, such as
// document downloads, are served as is.
func CompressionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAPIRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Add("Vary", "Accept-Encoding")

		encoding := negotiateEncoding(r.Header.Get("Accept-Encoding"))
		if encoding == "" {
			next.ServeHTTP(w, r)
			return
		}

		cw := &compressResponseWriter{ResponseWriter: w, encoding: encoding}
		defer cw.close()
		next.ServeHTTP(cw, r)
	})
}

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

type requestIDContextKey struct{}

// RequestIDFromContext returns the request ID set by RequestIDMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// RequestIDMiddleware tags each request with an ID, reusing a well-formed
// one supplied by the client.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDContextKey{}, id)))
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture the status code.
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// LoggingMiddleware logs HTTP requests and responses.
func LoggingMiddleware(logger logr.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the next handler with a request-scoped logger
		l := logger.WithValues("request_id", RequestIDFromContext(r.Context()))
		next.ServeHTTP(wrapped, r.WithContext(logr.NewContext(r.Context(), l)))

		// Log request details
		duration := time.Since(start)
		l.Info("HTTP request completed",
			"uri", r.RequestURI,
			"method", r.Method,
			"status", wrapped.statusCode,
			"remote", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"latency_ms", duration.Round(time.Millisecond).Milliseconds(),
		)
	})
}
