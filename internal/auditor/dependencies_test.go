package auditor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

const depsPyproject = `[project]
name = "demo"
dependencies = [
    "django>=4.2",
    "requests",
    "nose>=1.3",
    "mypy>=1.8",
]

[tool.uv]
dev-dependencies = [
    "requests>=2.31",
]
`

func TestDependencyPythonChecks(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "pyproject.toml", depsPyproject)

	a := NewDependencyAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	unpinned := findingsMatching(findings, "Unpinned dependency: requests")
	require.Len(t, unpinned, 1)
	assert.Equal(t, model.SeverityWarning, unpinned[0].Severity)

	broad := findingsMatching(findings, "Overly broad constraint")
	assert.NotEmpty(t, broad)
	for _, f := range broad {
		assert.Equal(t, model.SeverityInfo, f.Severity)
	}

	deprecated := findingsMatching(findings, "Deprecated package: nose")
	require.Len(t, deprecated, 1)
	assert.Contains(t, deprecated[0].Suggestion, "pytest")

	dup := findingsMatching(findings, "Duplicate dependency: requests")
	require.Len(t, dup, 1)
	assert.Equal(t, model.SeverityError, dup[0].Severity)

	// mypy is present, so django and requests want their stub packages.
	stubs := findingsMatching(findings, "Missing type stubs")
	assert.Len(t, stubs, 2)
}

func TestDependencyNodeChecks(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "package.json", `{
  "name": "app",
  "dependencies": {
    "moment": "^2.29.0",
    "leftpad": "*",
    "react": "18.2.0",
    "weird": "abc"
  },
  "devDependencies": {
    "react": "^18.0.0"
  }
}
`)

	a := NewDependencyAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	deprecated := findingsMatching(findings, "Deprecated package: moment")
	require.Len(t, deprecated, 1)

	unpinned := findingsMatching(findings, "Unpinned dependency: leftpad")
	require.Len(t, unpinned, 1)

	unparseable := findingsMatching(findings, "Unrecognized version pin: weird")
	require.Len(t, unparseable, 1)
	assert.Equal(t, model.SeverityInfo, unparseable[0].Severity)

	dup := findingsMatching(findings, "Duplicate dependency: react")
	require.Len(t, dup, 1)
	assert.Equal(t, model.SeverityError, dup[0].Severity)
}

func TestDependencyCrossManifestConflict(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "package.json",
		`{"name": "root", "devDependencies": {"typescript": "^5.3.0"}}`)
	writeProjectFile(t, dir, "frontend/package.json",
		`{"name": "web", "devDependencies": {"typescript": "^5.4.0"}}`)

	a := NewDependencyAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	conflicts := findingsMatching(findings, "TypeScript version conflict")
	require.Len(t, conflicts, 2, "one warning per conflicting occurrence")
	for _, f := range conflicts {
		assert.Equal(t, model.SeverityWarning, f.Severity)
	}
}

func TestDependencyNoManifests(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "main.py", "x = 1\n")

	a := NewDependencyAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityInfo, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "No dependency manifests found")
}
