package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithPair(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		candidate string
		job       string
		expect    map[string]any
	}{
		"both ids":      {candidate: " c1 ", job: "j1", expect: map[string]any{FieldCandidate: "c1", FieldJob: "j1"}},
		"blank job id":  {candidate: "c1", job: "  ", expect: map[string]any{FieldCandidate: "c1"}},
		"no ids at all": {expect: map[string]any{}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			core, observed := observer.New(zapcore.InfoLevel)

			WithPair(zap.New(core), tt.candidate, tt.job).Info("scored")

			ctx := observed.All()[0].ContextMap()
			if len(ctx) != len(tt.expect) {
				t.Fatalf("expected %d fields, got %v", len(tt.expect), ctx)
			}
			for k, v := range tt.expect {
				if ctx[k] != v {
					t.Fatalf("field %s: expected %v, got %v", k, v, ctx[k])
				}
			}
		})
	}
}

func TestWithPairNilLogger(t *testing.T) {
	if WithPair(nil, "c1", "j1") == nil {
		t.Fatal("expected a no-op logger for nil input")
	}
}
