package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, nil, 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}
	t.Setenv("TALENTGRAPH_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		errPart string
	}{
		{name: "file wins", src: Source{File: keyFile, Env: "TALENTGRAPH_TEST_KEY", Value: "inline"}, expect: "from-file"},
		{name: "env wins over value", src: Source{Env: "TALENTGRAPH_TEST_KEY", Value: "inline"}, expect: "from-env"},
		{name: "inline value", src: Source{Env: "TALENTGRAPH_UNSET_KEY", Value: " inline "}, expect: "inline"},
		{name: "empty file", src: Source{Name: "api key", File: emptyFile}, errPart: "is empty"},
		{name: "missing file", src: Source{File: filepath.Join(dir, "missing")}, errPart: "reading secret"},
		{name: "nothing configured", src: Source{Name: "api key", Env: "TALENTGRAPH_UNSET_KEY"}, errPart: "set TALENTGRAPH_UNSET_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.errPart != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errPart) {
					t.Fatalf("expected error containing %q, got %v", tt.errPart, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
