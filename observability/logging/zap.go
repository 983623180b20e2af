// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts go.uber.org/zap to the Logger interface, for deployments
// that want zap's sampling and encoder ecosystem instead of StructuredLogger.
type ZapLogger struct {
	core  *zap.Logger
	level zap.AtomicLevel
}

// NewZapLogger builds a production JSON zap.Logger at the given level.
func NewZapLogger(level Level) (*ZapLogger, error) {
	atomic := zap.NewAtomicLevelAt(toZapLevel(level))
	cfg := zap.NewProductionConfig()
	cfg.Level = atomic
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{core: core, level: atomic}, nil
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(ctx context.Context, fields []Field) []zap.Field {
	all := extractContextFields(ctx)
	all = append(all, fields...)
	out := make([]zap.Field, 0, len(all))
	for _, f := range all {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func (z *ZapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	z.core.Debug(msg, toZapFields(ctx, fields)...)
}

func (z *ZapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	z.core.Info(msg, toZapFields(ctx, fields)...)
}

func (z *ZapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	z.core.Warn(msg, toZapFields(ctx, fields)...)
}

func (z *ZapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	z.core.Error(msg, toZapFields(ctx, fields)...)
}

func (z *ZapLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	z.core.Fatal(msg, toZapFields(ctx, fields)...)
}

func (z *ZapLogger) With(fields ...Field) Logger {
	zfields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zfields = append(zfields, zap.Any(f.Key, f.Value))
	}
	return &ZapLogger{core: z.core.With(zfields...), level: z.level}
}

func (z *ZapLogger) SetLevel(level Level) {
	z.level.SetLevel(toZapLevel(level))
}

// SetSamplingRate is a no-op for ZapLogger: sampling is configured once, at
// construction, through zap's own SamplingConfig.
func (z *ZapLogger) SetSamplingRate(float64) {}
