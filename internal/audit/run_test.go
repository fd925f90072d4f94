package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjaikaran/matt-stack/internal/auditor"
	"github.com/mattjaikaran/matt-stack/internal/model"
)

func TestRunMissingDir(t *testing.T) {
	_, _, err := Run(auditor.Config{ProjectPath: "/does/not/exist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestRunAllAuditors(t *testing.T) {
	dir := t.TempDir()
	content := "def main():\n    print(\"x\")\n    return 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte(content), 0o644))

	rep, fixCount, err := Run(auditor.Config{ProjectPath: dir})
	require.NoError(t, err)
	assert.Zero(t, fixCount)
	require.NotEmpty(t, rep.RunID)

	assert.Equal(t, []string{
		"types", "quality", "endpoints", "tests", "dependencies", "vulnerabilities",
	}, rep.AuditorsRun)

	debug := false
	for _, f := range rep.Findings {
		if f.Category == model.CategoryQuality && f.Severity == model.SeverityWarning {
			debug = true
		}
	}
	assert.True(t, debug, "the print() must surface as a quality warning")
}

func TestRunCategorySelection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("x = 1\n"), 0o644))

	rep, _, err := Run(auditor.Config{
		ProjectPath: dir,
		Categories:  []model.Category{model.CategoryQuality},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"quality"}, rep.AuditorsRun)
}

func TestRunMinSeverityFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("x = 1\n"), 0o644))

	rep, _, err := Run(auditor.Config{ProjectPath: dir, MinSeverity: model.SeverityError})
	require.NoError(t, err)
	for _, f := range rep.Findings {
		assert.GreaterOrEqual(t, f.Severity, model.SeverityError)
	}
}

func TestRunFixCount(t *testing.T) {
	dir := t.TempDir()
	content := "def main():\n    print(\"a\")\n    print(\"b\")\n    return 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte(content), 0o644))

	_, fixCount, err := Run(auditor.Config{
		ProjectPath: dir,
		Categories:  []model.Category{model.CategoryQuality},
		Fix:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, fixCount)
}
