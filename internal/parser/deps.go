package parser

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/fsutil"
)

// Dependency is one entry from a manifest file.
type Dependency struct {
	Name       string
	Constraint string
	File       string
	Line       int
	Dev        bool
}

// Manifest is the parsed content of a pyproject.toml or package.json.
type Manifest struct {
	File          string
	Dependencies  []Dependency
	PythonVersion string
	NodeVersion   string
}

var (
	sectionRe     = regexp.MustCompile(`(?m)^\[.*\]\s*$`)
	projectRe     = regexp.MustCompile(`(?m)^\[project\]\s*$`)
	optDepsRe     = regexp.MustCompile(`(?m)^\[project\.optional-dependencies\]\s*$`)
	uvDevRe       = regexp.MustCompile(`(?m)^\[tool\.uv\.dev-dependencies\]\s*$`)
	uvSectionRe   = regexp.MustCompile(`(?m)^\[tool\.uv\]\s*$`)
	depsKeyRe     = regexp.MustCompile(`(?m)^dependencies\s*=\s*\[`)
	devDepsKeyRe  = regexp.MustCompile(`(?m)^dev-dependencies\s*=\s*\[`)
	optGroupKeyRe = regexp.MustCompile(`(?m)^(\w+)\s*=\s*\[`)
	pythonReqRe   = regexp.MustCompile(`requires-python\s*=\s*"(.+?)"`)
	depNameRe     = regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9_.\-]*)(.*)$`)
)

// ParsePyprojectTOML parses dependencies out of a pyproject.toml without a
// TOML library: sections are located by regex and list bodies are extracted
// with depth-counted bracket matching so that every entry keeps a verifiable
// line number. An unreadable file yields an empty manifest.
func ParsePyprojectTOML(path string) Manifest {
	manifest := Manifest{File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest
	}
	text := string(data)

	if m := pythonReqRe.FindStringSubmatch(text); m != nil {
		manifest.PythonVersion = m[1]
	}

	if loc := projectRe.FindStringIndex(text); loc != nil {
		manifest.Dependencies = append(manifest.Dependencies,
			parseSectionDeps(text, loc[1], depsKeyRe, path, false)...)
	}

	if loc := optDepsRe.FindStringIndex(text); loc != nil {
		// Every "<group> = [...]" key in the section is a dev group.
		section := sectionText(text, loc[1])
		for _, key := range optGroupKeyRe.FindAllStringIndex(section, -1) {
			manifest.Dependencies = append(manifest.Dependencies,
				parseListAt(text, section, loc[1], key[0], path, true)...)
		}
	}

	if loc := uvDevRe.FindStringIndex(text); loc != nil {
		manifest.Dependencies = append(manifest.Dependencies,
			parseSectionDeps(text, loc[1], depsKeyRe, path, true)...)
	}

	if loc := uvSectionRe.FindStringIndex(text); loc != nil {
		manifest.Dependencies = append(manifest.Dependencies,
			parseSectionDeps(text, loc[1], devDepsKeyRe, path, true)...)
	}

	return manifest
}

// sectionText returns the text between a section header end offset and the
// next section header.
func sectionText(text string, from int) string {
	if next := sectionRe.FindStringIndex(text[from:]); next != nil {
		return text[from : from+next[0]]
	}
	return text[from:]
}

func parseSectionDeps(text string, sectionEnd int, keyRe *regexp.Regexp, path string, dev bool) []Dependency {
	section := sectionText(text, sectionEnd)
	key := keyRe.FindStringIndex(section)
	if key == nil {
		return nil
	}
	return parseListAt(text, section, sectionEnd, key[0], path, dev)
}

// parseListAt extracts the bracketed list that starts at keyPos within the
// section and parses each line as a dependency. Line numbers are computed
// from the absolute offset of the opening bracket in the full text.
func parseListAt(text, section string, sectionEnd, keyPos int, path string, dev bool) []Dependency {
	content, bracketPos := BracketBlock(section, keyPos)
	if bracketPos == -1 {
		return nil
	}
	baseLine := LineAt(text, sectionEnd+bracketPos)

	var deps []Dependency
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if dep, ok := parseDepLine(line, path, baseLine+i, dev); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

// parseDepLine parses one quoted entry like `"django>=5.0",`. Lines that do
// not look like a dependency are skipped silently.
func parseDepLine(line, path string, lineNum int, dev bool) (Dependency, bool) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ",")
	if len(line) >= 2 &&
		(line[0] == '"' && line[len(line)-1] == '"' || line[0] == '\'' && line[len(line)-1] == '\'') {
		line = line[1 : len(line)-1]
	} else {
		return Dependency{}, false
	}
	if line == "" {
		return Dependency{}, false
	}

	m := depNameRe.FindStringSubmatch(line)
	if m == nil {
		return Dependency{}, false
	}
	name := strings.TrimSpace(m[1])
	constraint := strings.TrimSpace(m[2])

	// Strip extras: "uvicorn[standard]>=0.30" -> name uvicorn.
	if strings.HasPrefix(constraint, "[") {
		if end := strings.Index(constraint, "]"); end != -1 {
			constraint = strings.TrimSpace(constraint[end+1:])
		}
	}

	return Dependency{
		Name:       name,
		Constraint: constraint,
		File:       path,
		Line:       lineNum,
		Dev:        dev,
	}, true
}

// ParsePackageJSON parses dependencies out of a package.json. Malformed JSON
// yields an empty manifest. Entry line numbers are best-effort: the first
// line containing the quoted key.
func ParsePackageJSON(path string) Manifest {
	manifest := Manifest{File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest
	}

	var doc struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
		Engines         struct {
			Node string `json:"node"`
		} `json:"engines"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return manifest
	}
	manifest.NodeVersion = doc.Engines.Node

	lines := strings.Split(string(data), "\n")
	findLine := func(key string) int {
		needle := `"` + key + `"`
		for i, line := range lines {
			if strings.Contains(line, needle) {
				return i + 1
			}
		}
		return 1
	}

	appendDeps := func(m map[string]string, dev bool) {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			manifest.Dependencies = append(manifest.Dependencies, Dependency{
				Name:       name,
				Constraint: m[name],
				File:       path,
				Line:       findLine(name),
				Dev:        dev,
			})
		}
	}
	appendDeps(doc.Dependencies, false)
	appendDeps(doc.DevDependencies, true)

	return manifest
}

// FindManifests locates pyproject.toml and package.json files at the project
// root and up to two directory levels deep.
func FindManifests(projectPath string) []string {
	return fsutil.FindFiles(projectPath, []string{
		"pyproject.toml", "package.json",
		"*/pyproject.toml", "*/package.json",
		"*/*/pyproject.toml", "*/*/package.json",
	})
}
