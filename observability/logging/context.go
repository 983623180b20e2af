// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package logging

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	traceIDKey   contextKey = "trace_id"
	genesisIDKey contextKey = "genesis_id"
	authorKey    contextKey = "author"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, traceIDKey)
}

// WithGenesisID adds the genesis a log line concerns to the context.
func WithGenesisID(ctx context.Context, genesisID string) context.Context {
	return context.WithValue(ctx, genesisIDKey, genesisID)
}

// GetGenesisID retrieves the genesis ID from the context.
func GetGenesisID(ctx context.Context) string {
	return stringValue(ctx, genesisIDKey)
}

// WithAuthor adds the operation author to the context.
func WithAuthor(ctx context.Context, author string) context.Context {
	return context.WithValue(ctx, authorKey, author)
}

// GetAuthor retrieves the author from the context.
func GetAuthor(ctx context.Context) string {
	return stringValue(ctx, authorKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// extractContextFields extracts every known context field present in ctx.
func extractContextFields(ctx context.Context) []Field {
	fields := make([]Field, 0, 4)
	if v := GetRequestID(ctx); v != "" {
		fields = append(fields, String("request_id", v))
	}
	if v := GetTraceID(ctx); v != "" {
		fields = append(fields, String("trace_id", v))
	}
	if v := GetGenesisID(ctx); v != "" {
		fields = append(fields, String("genesis_id", v))
	}
	if v := GetAuthor(ctx); v != "" {
		fields = append(fields, String("author", v))
	}
	return fields
}
