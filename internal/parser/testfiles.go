package parser

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/fsutil"
)

// TestCase is one discovered test, tagged with the feature keywords its name
// mentions.
type TestCase struct {
	Name      string
	File      string
	Line      int
	GroupName string // enclosing class (pytest) or describe label (vitest)
	Keywords  []string
}

// TestSuite is all test cases found in one file.
type TestSuite struct {
	File      string
	Framework string // "pytest" or "vitest"
	Cases     []TestCase
}

var (
	pytestFuncRe   = regexp.MustCompile(`(?m)^(?:async\s+)?def\s+(test_\w+)\s*\(`)
	pytestClassRe  = regexp.MustCompile(`(?m)^class\s+(Test\w+)\s*[:(]`)
	pytestMethodRe = regexp.MustCompile(`(?m)^\s{4}(?:async\s+)?def\s+(test_\w+)\s*\(`)

	vitestDescribeRe = regexp.MustCompile(`describe\s*\(\s*['"]([^'"]+)['"]`)
	vitestTestRe     = regexp.MustCompile(`(?:it|test)\s*\(\s*['"]([^'"]+)['"]`)
)

// featureKeywords is the fixed taxonomy matched against test names.
var featureKeywords = []string{
	"auth", "login", "register", "signup", "user", "profile",
	"todo", "task", "item", "list",
	"org", "organization", "team", "member", "role", "permission",
	"api", "endpoint", "route",
	"create", "read", "update", "delete", "crud",
}

// ParsePytestFile parses function- and class-based test cases from a Python
// test file.
func ParsePytestFile(path string) TestSuite {
	suite := TestSuite{File: path, Framework: "pytest"}
	data, err := os.ReadFile(path)
	if err != nil {
		return suite
	}
	text := string(data)

	for _, idx := range pytestFuncRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[idx[2]:idx[3]]
		suite.Cases = append(suite.Cases, TestCase{
			Name:     name,
			File:     path,
			Line:     LineAt(text, idx[0]),
			Keywords: extractKeywords(name),
		})
	}

	for _, classIdx := range pytestClassRe.FindAllStringSubmatchIndex(text, -1) {
		className := text[classIdx[2]:classIdx[3]]
		classEnd := strings.Index(text[classIdx[1]:], "\nclass ")
		if classEnd == -1 {
			classEnd = len(text) - classIdx[1]
		}
		classBody := text[classIdx[1] : classIdx[1]+classEnd]

		for _, mIdx := range pytestMethodRe.FindAllStringSubmatchIndex(classBody, -1) {
			name := classBody[mIdx[2]:mIdx[3]]
			suite.Cases = append(suite.Cases, TestCase{
				Name:      name,
				File:      path,
				Line:      LineAt(text, classIdx[1]+mIdx[0]),
				GroupName: className,
				Keywords:  extractKeywords(className + "_" + name),
			})
		}
	}

	return suite
}

// ParseVitestFile parses it()/test() cases from a vitest or jest file. The
// group label is the nearest preceding describe() by text position — an
// intentional approximation, not real scope resolution.
func ParseVitestFile(path string) TestSuite {
	suite := TestSuite{File: path, Framework: "vitest"}
	data, err := os.ReadFile(path)
	if err != nil {
		return suite
	}
	text := string(data)

	type describe struct {
		name  string
		start int
	}
	var describes []describe
	for _, idx := range vitestDescribeRe.FindAllStringSubmatchIndex(text, -1) {
		describes = append(describes, describe{name: text[idx[2]:idx[3]], start: idx[0]})
	}

	for _, idx := range vitestTestRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[idx[2]:idx[3]]
		group := ""
		for _, d := range describes {
			if d.start < idx[0] {
				group = d.name
			}
		}
		suite.Cases = append(suite.Cases, TestCase{
			Name:      name,
			File:      path,
			Line:      LineAt(text, idx[0]),
			GroupName: group,
			Keywords:  extractKeywords(name),
		})
	}

	return suite
}

// ParseTestFile dispatches on file extension.
func ParseTestFile(path string) TestSuite {
	if filepath.Ext(path) == ".py" {
		return ParsePytestFile(path)
	}
	return ParseVitestFile(path)
}

func extractKeywords(name string) []string {
	lowered := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(name))
	var found []string
	for _, kw := range featureKeywords {
		if strings.Contains(lowered, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// FindTestFiles locates pytest and vitest/jest test files.
func FindTestFiles(projectPath string) []string {
	return fsutil.FindFiles(projectPath, []string{
		"**/test_*.py", "**/*_test.py", "**/tests.py",
		"**/*.test.ts", "**/*.test.tsx", "**/*.spec.ts", "**/*.spec.tsx",
		"**/*.test.js", "**/*.test.jsx", "**/*.spec.js", "**/*.spec.jsx",
	})
}
