package auditor

import (
	"fmt"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/model"
	"github.com/mattjaikaran/matt-stack/internal/parser"
)

// featureAreas lists the feature areas expected to show up in test names,
// in report order.
var featureAreas = []struct {
	name     string
	keywords []string
}{
	{"auth", []string{"auth", "login", "register", "signup", "token", "password"}},
	{"user", []string{"user", "profile", "account"}},
	{"crud", []string{"create", "read", "update", "delete", "list", "get", "post", "put"}},
	{"org", []string{"org", "organization", "team", "member", "role", "permission"}},
}

// CoverageAuditor maps test suites against schemas and feature areas to
// surface coverage gaps, naming issues and empty suites.
type CoverageAuditor struct {
	Base
}

func NewCoverageAuditor(cfg Config) *CoverageAuditor {
	return &CoverageAuditor{Base: NewBase(cfg, model.CategoryTests)}
}

func (a *CoverageAuditor) Run() []model.Finding {
	testFiles := parser.FindTestFiles(a.Cfg.ProjectPath)
	if len(testFiles) == 0 {
		a.AddFinding(model.SeverityWarning, ".", 0,
			"No test files found",
			"Add tests in tests/ (pytest) or __tests__/ (vitest)")
		return a.Findings()
	}

	var suites []parser.TestSuite
	for _, f := range testFiles {
		suites = append(suites, parser.ParseTestFile(f))
	}

	a.checkSchemaCoverage(suites)
	a.checkFeatureCoverage(collectKeywords(suites))
	a.checkNaming(suites)
	a.checkEmptySuites(suites)
	return a.Findings()
}

func collectKeywords(suites []parser.TestSuite) map[string]bool {
	keywords := map[string]bool{}
	for _, suite := range suites {
		for _, tc := range suite.Cases {
			for _, kw := range tc.Keywords {
				keywords[kw] = true
			}
		}
	}
	return keywords
}

// checkSchemaCoverage warns for each schema whose name appears in no test
// or test-class name.
func (a *CoverageAuditor) checkSchemaCoverage(suites []parser.TestSuite) {
	var schemas []parser.Schema
	for _, f := range parser.FindSchemaFiles(a.Cfg.ProjectPath) {
		schemas = append(schemas, parser.ParsePydanticFile(f)...)
	}
	if len(schemas) == 0 {
		return
	}

	testNames := map[string]bool{}
	for _, suite := range suites {
		for _, tc := range suite.Cases {
			testNames[strings.ToLower(tc.Name)] = true
			if tc.GroupName != "" {
				testNames[strings.ToLower(tc.GroupName)] = true
			}
		}
	}

	for _, schema := range schemas {
		nameLower := strings.ReplaceAll(strings.ToLower(schema.Name), "schema", "")
		hasTest := false
		for tn := range testNames {
			if strings.Contains(tn, nameLower) {
				hasTest = true
				break
			}
		}
		if !hasTest {
			a.AddFinding(model.SeverityWarning, a.Rel(schema.File), schema.Line,
				fmt.Sprintf("No tests found for schema '%s'", schema.Name),
				fmt.Sprintf("Add tests for %s CRUD and validation", schema.Name))
		}
	}
}

func (a *CoverageAuditor) checkFeatureCoverage(tested map[string]bool) {
	for _, area := range featureAreas {
		covered := false
		for _, kw := range area.keywords {
			if tested[kw] {
				covered = true
				break
			}
		}
		if !covered {
			a.AddFinding(model.SeverityInfo, ".", 0,
				fmt.Sprintf("No tests cover the '%s' feature area", area.name),
				fmt.Sprintf("Add tests for: %s", strings.Join(area.keywords[:3], ", ")))
		}
	}
}

func (a *CoverageAuditor) checkNaming(suites []parser.TestSuite) {
	for _, suite := range suites {
		if suite.Framework != "pytest" {
			continue
		}
		for _, tc := range suite.Cases {
			if !strings.HasPrefix(tc.Name, "test_") {
				a.AddFinding(model.SeverityInfo, a.Rel(tc.File), tc.Line,
					fmt.Sprintf("Pytest function '%s' doesn't start with 'test_'", tc.Name),
					"Prefix test functions with 'test_' for pytest discovery")
			}
		}
	}
}

func (a *CoverageAuditor) checkEmptySuites(suites []parser.TestSuite) {
	for _, suite := range suites {
		if len(suite.Cases) == 0 {
			a.AddFinding(model.SeverityWarning, a.Rel(suite.File), 1,
				fmt.Sprintf("Empty test file: %s", a.Rel(suite.File)),
				"Add test cases or remove the file")
		}
	}
}
