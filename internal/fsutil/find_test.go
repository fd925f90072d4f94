package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern  string
		rel      string
		expected bool
	}{
		{"**/routes.py", "routes.py", true},
		{"**/routes.py", "backend/app/routes.py", true},
		{"**/api/*.py", "backend/api/users.py", true},
		{"**/api/*.py", "backend/api/sub/users.py", false},
		{"*/package.json", "frontend/package.json", true},
		{"*/package.json", "package.json", false},
		{"*/*/pyproject.toml", "apps/backend/pyproject.toml", true},
		{"**/*.test.ts", "src/user.test.ts", true},
		{"**/test_*.py", "tests/test_auth.py", true},
		{"**/test_*.py", "tests/auth_test.py", false},
		{"pyproject.toml", "pyproject.toml", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.rel, func(t *testing.T) {
			if got := MatchPattern(tt.pattern, tt.rel); got != tt.expected {
				t.Errorf("MatchPattern(%q, %q) = %v, want %v", tt.pattern, tt.rel, got, tt.expected)
			}
		})
	}
}

func TestFindFilesSkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "backend/routes.py")
	writeFile(t, root, "node_modules/pkg/routes.py")
	writeFile(t, root, ".venv/lib/routes.py")
	writeFile(t, root, "backend/__pycache__/routes.py")

	files := FindFiles(root, []string{"**/routes.py"})
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d: %v", len(files), files)
	}
	if filepath.Base(filepath.Dir(files[0])) != "backend" {
		t.Errorf("unexpected file: %s", files[0])
	}
}

func TestFindFilesDeduplicatesAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/schemas.py")
	writeFile(t, root, "a/schemas.py")

	files := FindFiles(root, []string{"**/schemas.py", "**/*.py"})
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
	if files[0] > files[1] {
		t.Errorf("files not sorted: %v", files)
	}
}

func TestFindFilesMissingRoot(t *testing.T) {
	files := FindFiles(filepath.Join(t.TempDir(), "nope"), []string{"**/*.py"})
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}
