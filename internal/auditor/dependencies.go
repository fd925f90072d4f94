package auditor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/mattjaikaran/matt-stack/internal/model"
	"github.com/mattjaikaran/matt-stack/internal/parser"
)

// Known-deprecated packages and their migration paths.
var deprecatedPython = map[string]string{
	"nose":   "Use pytest instead",
	"mock":   "Use unittest.mock (stdlib) instead",
	"six":    "Python 2 compatibility layer — drop if Python 3 only",
	"future": "Python 2 compatibility layer — drop if Python 3 only",
}

var deprecatedJS = map[string]string{
	"moment":  "Use date-fns or dayjs instead",
	"request": "Use fetch (built-in) or axios instead",
	"tslint":  "Use eslint with typescript-eslint instead",
}

// Type checkers whose presence means stub packages may be needed.
var typeCheckers = map[string]bool{"mypy": true, "pyright": true, "pytype": true}

// Packages with a known companion stub package.
var stubPackages = map[string]string{
	"django":   "django-stubs",
	"requests": "types-requests",
	"pyyaml":   "types-pyyaml",
}

// DependencyAuditor checks manifests for unpinned, deprecated, duplicated
// and conflicting dependencies.
type DependencyAuditor struct {
	Base
}

func NewDependencyAuditor(cfg Config) *DependencyAuditor {
	return &DependencyAuditor{Base: NewBase(cfg, model.CategoryDependencies)}
}

func (a *DependencyAuditor) Run() []model.Finding {
	files := parser.FindManifests(a.Cfg.ProjectPath)
	if len(files) == 0 {
		a.AddFinding(model.SeverityInfo, ".", 0,
			"No dependency manifests found",
			"Expected pyproject.toml or package.json")
		return a.Findings()
	}

	var manifests []parser.Manifest
	for _, f := range files {
		switch filepath.Base(f) {
		case "pyproject.toml":
			m := parser.ParsePyprojectTOML(f)
			a.checkPythonDeps(m)
			manifests = append(manifests, m)
		case "package.json":
			m := parser.ParsePackageJSON(f)
			a.checkNodeDeps(m)
			manifests = append(manifests, m)
		}
	}

	a.checkCrossManifestConflicts(manifests)
	return a.Findings()
}

func (a *DependencyAuditor) checkPythonDeps(m parser.Manifest) {
	relFile := a.Rel(m.File)
	seen := map[string]parser.Dependency{}
	hasTypeChecker := false
	stubs := map[string]bool{}

	for _, dep := range m.Dependencies {
		lower := strings.ReplaceAll(strings.ToLower(dep.Name), "-", "_")

		if typeCheckers[lower] {
			hasTypeChecker = true
		}
		if strings.HasPrefix(lower, "types_") {
			stubs[lower] = true
		}

		switch {
		case dep.Constraint == "":
			a.AddFinding(model.SeverityWarning, relFile, dep.Line,
				fmt.Sprintf("Unpinned dependency: %s", dep.Name),
				fmt.Sprintf("Add version constraint, e.g. %s>=1.0", dep.Name))
		case strings.Contains(dep.Constraint, ">=") && !strings.Contains(dep.Constraint, "<"):
			a.AddFinding(model.SeverityInfo, relFile, dep.Line,
				fmt.Sprintf("Overly broad constraint: %s%s", dep.Name, dep.Constraint),
				"Consider adding an upper bound version constraint")
		}

		if hint, ok := deprecatedPython[lower]; ok {
			a.AddFinding(model.SeverityWarning, relFile, dep.Line,
				fmt.Sprintf("Deprecated package: %s", dep.Name), hint)
		}

		if prev, ok := seen[lower]; ok {
			if prev.Dev != dep.Dev {
				a.AddFinding(model.SeverityError, relFile, dep.Line,
					fmt.Sprintf("Duplicate dependency: %s in both regular and dev dependencies", dep.Name),
					"Remove from one of the dependency lists")
			}
		} else {
			seen[lower] = dep
		}
	}

	if hasTypeChecker {
		for pkg, stub := range stubPackages {
			stubKey := strings.ReplaceAll(strings.ToLower(stub), "-", "_")
			if dep, ok := seen[pkg]; ok && !stubs[stubKey] {
				a.AddFinding(model.SeverityInfo, relFile, dep.Line,
					fmt.Sprintf("Missing type stubs for %s", pkg),
					fmt.Sprintf("Add %s to dev dependencies", stub))
			}
		}
	}
}

func (a *DependencyAuditor) checkNodeDeps(m parser.Manifest) {
	relFile := a.Rel(m.File)
	seen := map[string]parser.Dependency{}

	for _, dep := range m.Dependencies {
		lower := strings.ToLower(dep.Name)

		if dep.Constraint == "" || dep.Constraint == "*" || dep.Constraint == "latest" {
			constraint := dep.Constraint
			if constraint == "" {
				constraint = "no version"
			}
			a.AddFinding(model.SeverityWarning, relFile, dep.Line,
				fmt.Sprintf("Unpinned dependency: %s (%s)", dep.Name, constraint),
				"Pin to a specific version range, e.g. ^1.0.0")
		} else if !parseableNodeConstraint(dep.Constraint) {
			a.AddFinding(model.SeverityInfo, relFile, dep.Line,
				fmt.Sprintf("Unrecognized version pin: %s %q", dep.Name, dep.Constraint),
				"Use a semver range like ^1.2.3 or ~1.2.3")
		}

		if hint, ok := deprecatedJS[lower]; ok {
			a.AddFinding(model.SeverityWarning, relFile, dep.Line,
				fmt.Sprintf("Deprecated package: %s", dep.Name), hint)
		}

		if prev, ok := seen[lower]; ok {
			if prev.Dev != dep.Dev {
				a.AddFinding(model.SeverityError, relFile, dep.Line,
					fmt.Sprintf("Duplicate dependency: %s in deps and devDeps", dep.Name),
					"Remove from one of the dependency objects")
			}
		} else {
			seen[lower] = dep
		}
	}
}

// parseableNodeConstraint reports whether a package.json constraint is a
// conventional range or a concrete semver version.
func parseableNodeConstraint(c string) bool {
	trimmed := strings.TrimLeft(c, "^~>=< ")
	if trimmed != c {
		// Range operators: leave validation to the package manager.
		return true
	}
	if strings.ContainsAny(c, " -|") {
		// Compound ranges.
		return true
	}
	_, err := semver.ParseTolerant(c)
	return err == nil
}

// checkCrossManifestConflicts flags shared tooling (typescript) declared
// with diverging constraints across manifests: one warning per occurrence.
func (a *DependencyAuditor) checkCrossManifestConflicts(manifests []parser.Manifest) {
	type occurrence struct {
		file       string
		constraint string
	}
	var tsVersions []occurrence
	for _, m := range manifests {
		for _, dep := range m.Dependencies {
			if strings.ToLower(dep.Name) == "typescript" {
				tsVersions = append(tsVersions, occurrence{file: m.File, constraint: dep.Constraint})
			}
		}
	}
	if len(tsVersions) < 2 {
		return
	}

	distinct := map[string]bool{}
	for _, v := range tsVersions {
		distinct[v.constraint] = true
	}
	if len(distinct) < 2 {
		return
	}

	for _, v := range tsVersions {
		a.AddFinding(model.SeverityWarning, a.Rel(v.file), 1,
			fmt.Sprintf("TypeScript version conflict: %s", v.constraint),
			"Align TypeScript versions across packages")
	}
}
