package parser

import (
	"os"
	"regexp"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/fsutil"
)

// ZodField is one field in a z.object() schema, with the constraints pulled
// from its fluent chain.
type ZodField struct {
	Name        string
	Type        string
	Optional    bool
	Constraints map[string]string
}

// ZodSchema is one z.object() declaration.
type ZodSchema struct {
	Name   string
	File   string
	Line   int
	Fields []ZodField
}

var (
	zodSchemaRe     = regexp.MustCompile(`(?m)(?:export\s+)?(?:const|let)\s+(\w+)\s*=\s*z\.object\(\s*\{`)
	zodFieldRe      = regexp.MustCompile(`(?m)^\s+(\w+)\s*:\s*(z\..+?)\s*,?\s*$`)
	zodTypeRe       = regexp.MustCompile(`z\.(\w+)\(\)`)
	zodConstraintRe = regexp.MustCompile(`\.(\w+)\(([^)]*)\)`)
)

// ParseZodFile extracts all z.object() schemas from a TypeScript file.
func ParseZodFile(path string) []ZodSchema {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	text := string(data)
	var schemas []ZodSchema

	for _, idx := range zodSchemaRe.FindAllStringSubmatchIndex(text, -1) {
		groups := groupStrings(text, idx)

		// The match ends at the opening brace of the object literal.
		body := BraceBlock(text, idx[1]-1)

		schemas = append(schemas, ZodSchema{
			Name:   groups[1],
			File:   path,
			Line:   LineAt(text, idx[0]),
			Fields: parseZodFields(body),
		})
	}

	return schemas
}

func parseZodFields(body string) []ZodField {
	var fields []ZodField
	for _, m := range zodFieldRe.FindAllStringSubmatch(body, -1) {
		name := m[1]
		chain := strings.TrimSuffix(strings.TrimSpace(m[2]), ",")

		typeStr := "unknown"
		if tm := zodTypeRe.FindStringSubmatch(chain); tm != nil {
			typeStr = tm[1]
		}

		optional := strings.Contains(chain, ".optional()") || strings.Contains(chain, ".nullable()")

		// Every chained call other than the base type and the optionality
		// markers becomes a constraint; no argument means "true".
		constraints := map[string]string{}
		for _, cm := range zodConstraintRe.FindAllStringSubmatch(chain, -1) {
			method := cm[1]
			arg := strings.Trim(strings.TrimSpace(cm[2]), `'"`)
			if method == "optional" || method == "nullable" || method == typeStr {
				continue
			}
			if arg == "" {
				arg = "true"
			}
			constraints[method] = arg
		}

		fields = append(fields, ZodField{
			Name:        name,
			Type:        typeStr,
			Optional:    optional,
			Constraints: constraints,
		})
	}
	return fields
}

// FindZodFiles locates TypeScript files likely to declare Zod schemas.
func FindZodFiles(projectPath string) []string {
	return fsutil.FindFiles(projectPath, []string{
		"**/schemas.ts", "**/schemas/*.ts",
		"**/forms/**/*.tsx", "**/forms/**/*.ts",
		"**/validation.ts", "**/validators.ts",
	})
}
