package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(existing, []byte("mode = \"monitor\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	missing := filepath.Join(dir, "absent.toml")

	tests := []struct {
		name     string
		path     string
		explicit bool
		want     string
	}{
		{"default path missing is skipped", missing, false, ""},
		{"default path present is used", existing, false, existing},
		{"explicit missing path is kept for a hard failure", missing, true, missing},
		{"explicit present path is used", existing, true, existing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveConfigPath(tt.path, tt.explicit); got != tt.want {
				t.Errorf("resolveConfigPath(%q, %v) = %q, want %q", tt.path, tt.explicit, got, tt.want)
			}
		})
	}
}
