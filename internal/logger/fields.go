package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured log field keys shared across the engine.
const (
	FieldCandidate = "candidate_id"
	FieldJob       = "job_id"
	FieldFactor    = "factor"
	FieldCommunity = "community_id"
	FieldSnapshot  = "snapshot_id"
	FieldRole      = "role"
)

// WithPair scopes logger to a candidate x job pair. Blank ids are left out
// and a nil logger becomes a no-op one.
func WithPair(logger *zap.Logger, candidateID, jobID string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	var fields []zap.Field
	if id := strings.TrimSpace(candidateID); id != "" {
		fields = append(fields, zap.String(FieldCandidate, id))
	}
	if id := strings.TrimSpace(jobID); id != "" {
		fields = append(fields, zap.String(FieldJob, id))
	}
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}
