// Package middleware provides HTTP middleware components for the API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// userIDHolder and errorCodeHolder are mutable context values. The
// logging middleware injects them before calling the handler chain, so
// values set deeper in the chain are visible when the request log line
// is written.
type userIDHolder struct{ id string }

type errorCodeHolder struct{ code string }

type userIDKey struct{}

type errorCodeKey struct{}

// SetUserID records the authenticated user's ID on the context.
// Called by the auth middleware after validating the token.
func SetUserID(ctx context.Context, id string) context.Context {
	if h, ok := ctx.Value(userIDKey{}).(*userIDHolder); ok {
		h.id = id
		return ctx
	}
	return context.WithValue(ctx, userIDKey{}, &userIDHolder{id: id})
}

// GetUserID retrieves the user ID from context. Returns empty string if
// the request is unauthenticated.
func GetUserID(ctx context.Context) string {
	if h, ok := ctx.Value(userIDKey{}).(*userIDHolder); ok {
		return h.id
	}
	return ""
}

// SetErrorCode records an error code on the context. Handlers call this
// when returning error responses so the code appears in the request log.
func SetErrorCode(ctx context.Context, code string) context.Context {
	if h, ok := ctx.Value(errorCodeKey{}).(*errorCodeHolder); ok {
		h.code = code
		return ctx
	}
	return context.WithValue(ctx, errorCodeKey{}, &errorCodeHolder{code: code})
}

// GetErrorCode retrieves the error code from context. Returns empty
// string if not present.
func GetErrorCode(ctx context.Context) string {
	if h, ok := ctx.Value(errorCodeKey{}).(*errorCodeHolder); ok {
		return h.code
	}
	return ""
}

// responseWriter wraps http.ResponseWriter to capture status code and
// response size.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int
	wroteHeader bool
}

// WriteHeader captures the status code before writing it. Only the
// first call sets the status, matching http.ResponseWriter behavior.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size and writes the data.
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// NewLogger creates an slog.Logger based on the environment.
// Production uses a JSON handler at info level; anything else gets a
// text handler at debug level for development.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

// Logging logs each request with structured fields: method, path,
// status, latency, response size, request ID, user ID when
// authenticated, and the error code on 4xx/5xx responses.
//
// If a handler panics the log entry is not written; place a recovery
// middleware outside this one when that matters.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Inject the mutable holders so downstream middleware and
			// handlers can surface values into this log line.
			ctx := context.WithValue(r.Context(), userIDKey{}, &userIDHolder{})
			ctx = context.WithValue(ctx, errorCodeKey{}, &errorCodeHolder{})
			r = r.WithContext(ctx)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			latency := time.Since(start).Milliseconds()

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int64("latency_ms", latency),
				slog.Int("size", rw.size),
			}

			if requestID := GetRequestID(ctx); requestID != "" {
				attrs = append(attrs, slog.String("request_id", requestID))
			}
			if userID := GetUserID(ctx); userID != "" {
				attrs = append(attrs, slog.String("user_id", userID))
			}
			if rw.statusCode >= 400 {
				if errorCode := GetErrorCode(ctx); errorCode != "" {
					attrs = append(attrs, slog.String("error_code", errorCode))
				}
			}

			switch {
			case rw.statusCode >= 500:
				logger.LogAttrs(ctx, slog.LevelError, "request completed", attrs...)
			case rw.statusCode >= 400:
				logger.LogAttrs(ctx, slog.LevelWarn, "request completed", attrs...)
			default:
				logger.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
			}
		})
	}
}
