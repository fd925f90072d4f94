package parser

import (
	"os"
	"regexp"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/fsutil"
)

// InterfaceField is one declared field on a TypeScript interface.
type InterfaceField struct {
	Name     string
	Type     string
	Optional bool
}

// Interface is one TypeScript interface declaration.
type Interface struct {
	Name    string
	File    string
	Line    int
	Fields  []InterfaceField
	Extends string
}

var (
	tsInterfaceRe = regexp.MustCompile(`(?m)^(?:export\s+)?interface\s+(\w+)(?:\s+extends\s+(\w+))?\s*\{`)
	tsFieldRe     = regexp.MustCompile(`(?m)^\s+(\w+)(\?)?:\s*(.+?)\s*;?\s*$`)
	tsNullableRe  = regexp.MustCompile(`\|\s*(null|undefined)\s*$`)
)

// ParseTypeScriptFile extracts all interface declarations from a .ts/.tsx
// file. Brace matching is string-literal aware so a brace inside a quoted
// field type cannot terminate the body early.
func ParseTypeScriptFile(path string) []Interface {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	text := string(data)
	var interfaces []Interface

	for _, idx := range tsInterfaceRe.FindAllStringSubmatchIndex(text, -1) {
		groups := groupStrings(text, idx)

		open := strings.Index(text[idx[0]:], "{")
		if open == -1 {
			continue
		}
		body := BraceBlock(text, idx[0]+open)

		interfaces = append(interfaces, Interface{
			Name:    groups[1],
			File:    path,
			Line:    LineAt(text, idx[0]),
			Fields:  parseTSFields(body),
			Extends: groups[2],
		})
	}

	return interfaces
}

func parseTSFields(body string) []InterfaceField {
	var fields []InterfaceField
	for _, m := range tsFieldRe.FindAllStringSubmatch(body, -1) {
		typeStr := strings.TrimSuffix(strings.TrimSpace(m[3]), ";")
		optional := m[2] == "?"
		if tsNullableRe.MatchString(typeStr) {
			optional = true
		}
		fields = append(fields, InterfaceField{
			Name:     m[1],
			Type:     typeStr,
			Optional: optional,
		})
	}
	return fields
}

// FindInterfaceFiles locates TypeScript files likely to declare types.
func FindInterfaceFiles(projectPath string) []string {
	return fsutil.FindFiles(projectPath, []string{
		"**/types.ts", "**/types/*.ts", "**/types.tsx",
		"**/interfaces.ts", "**/interfaces/*.ts",
	})
}
