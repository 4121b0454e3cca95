package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HeaderRequestID is echoed back on every response
const HeaderRequestID = "X-Request-Id"

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID takes the incoming X-Request-Id or generates one
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id stored in ctx, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger returns log enriched with the request id of r
func Logger(log logrus.FieldLogger, r *http.Request) logrus.FieldLogger {
	if id := GetRequestID(r.Context()); id != "" {
		return log.WithField("request_id", id)
	}
	return log
}

// StructuredLogger logs one line per completed request
func StructuredLogger(log logrus.FieldLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				Logger(log, r).WithFields(logrus.Fields{
					"method":        r.Method,
					"path":          r.URL.Path,
					"status":        ww.Status(),
					"bytes_written": ww.BytesWritten(),
					"duration_ms":   float64(time.Since(start).Nanoseconds()) / 1e6,
				}).Info("Request completed")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// Recoverer turns a panic into a 500 and logs it
func Recoverer(log logrus.FieldLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					Logger(log, r).WithField("panic", rvr).Error("Panic recovered")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
