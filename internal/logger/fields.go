package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by log entries about the AI advisor.
const (
	FieldAdvisor      = "advisor"
	FieldAdvisorModel = "advisor_model"
)

// WithFields attaches the given fields to the logger, substituting a
// no-op logger when nil.
func WithFields(log *zap.Logger, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// WithAdvisorFields tags log entries with the advisor provider and
// model. Blank values are skipped so entries stay compact when the
// information is missing.
func WithAdvisorFields(log *zap.Logger, provider, model string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldAdvisor, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldAdvisorModel, model))
	}
	return WithFields(log, fields...)
}
