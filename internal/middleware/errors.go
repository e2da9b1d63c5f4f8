package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorEnvelope mirrors the api package's error response shape so
// middleware rejections look the same on the wire as handler errors.
// Duplicated here rather than imported; api depends on this package.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError records the error code for the request log and writes the
// JSON error envelope. Any headers must be set before calling.
func writeError(w http.ResponseWriter, ctx context.Context, status int, code, message string) {
	SetErrorCode(ctx, code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorDetail{Code: code, Message: message},
	}); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}
