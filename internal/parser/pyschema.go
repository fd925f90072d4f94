package parser

import (
	"os"
	"regexp"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/fsutil"
)

// SchemaField is one declared field on a backend validation class.
type SchemaField struct {
	Name        string
	Type        string
	Optional    bool
	Default     string
	Constraints map[string]string
}

// Schema is one Pydantic-style class declaration.
type Schema struct {
	Name   string
	File   string
	Line   int
	Fields []SchemaField
	Parent string
}

var (
	pyClassRe      = regexp.MustCompile(`(?m)^class\s+(\w+)\s*\(\s*(Schema|BaseModel|ModelSchema)\s*\)\s*:`)
	pyFieldRe      = regexp.MustCompile(`(?m)^\s{4}(\w+)\s*:\s*(.+?)(?:\s*=\s*(.+))?\s*$`)
	pyConstraintRe = regexp.MustCompile(`(\w+)\s*=\s*([^,)]+)`)
	pyOptionalRe   = regexp.MustCompile(`Optional\[(.+)\]|(\w+)\s*\|\s*None|None\s*\|\s*(\w+)`)
)

// ParsePydanticFile extracts all Schema/BaseModel class declarations from a
// Python source file.
func ParsePydanticFile(path string) []Schema {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	text := string(data)
	lines := strings.Split(text, "\n")
	var schemas []Schema

	for _, idx := range pyClassRe.FindAllStringSubmatchIndex(text, -1) {
		groups := groupStrings(text, idx)
		classLine := LineAt(text, idx[0])

		// Body = the indented block following the declaration.
		var body []string
		for _, line := range lines[min(classLine, len(lines)):] {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" && !strings.HasPrefix(line, "    ") && !strings.HasPrefix(trimmed, "#") {
				break
			}
			body = append(body, line)
		}

		schemas = append(schemas, Schema{
			Name:   groups[1],
			File:   path,
			Line:   classLine,
			Fields: parsePyFields(strings.Join(body, "\n")),
			Parent: groups[2],
		})
	}

	return schemas
}

func parsePyFields(body string) []SchemaField {
	var fields []SchemaField

	for _, idx := range pyFieldRe.FindAllStringSubmatchIndex(body, -1) {
		groups := groupStrings(body, idx)
		name := groups[1]
		typeStr := strings.TrimSpace(groups[2])
		defaultVal := strings.TrimSpace(groups[3])

		// Skip private attrs, nested Meta/Config and stray keywords.
		if strings.HasPrefix(name, "_") || name == "class" || name == "def" ||
			name == "Meta" || name == "Config" {
			continue
		}

		constraints := map[string]string{}
		if strings.Contains(defaultVal, "Field(") {
			for _, cm := range pyConstraintRe.FindAllStringSubmatch(defaultVal, -1) {
				key := strings.TrimSpace(cm[1])
				if key == "default" || key == "default_factory" {
					continue
				}
				constraints[key] = strings.TrimSpace(cm[2])
			}
		}

		fields = append(fields, SchemaField{
			Name:        name,
			Type:        normalizePyType(typeStr),
			Optional:    pyOptionalRe.MatchString(typeStr),
			Default:     defaultVal,
			Constraints: constraints,
		})
	}

	return fields
}

// normalizePyType strips an Optional[...] or "X | None" wrapper down to the
// inner type name.
func normalizePyType(t string) string {
	t = strings.TrimSpace(t)
	if m := pyOptionalRe.FindStringSubmatch(t); m != nil && strings.HasPrefix(t, m[0]) {
		for _, inner := range m[1:] {
			if inner != "" {
				return strings.TrimSpace(inner)
			}
		}
	}
	return t
}

// FindSchemaFiles locates Python files likely to declare schemas.
func FindSchemaFiles(projectPath string) []string {
	return fsutil.FindFiles(projectPath, []string{
		"**/schemas.py", "**/schemas/*.py", "**/schema.py", "**/models.py",
	})
}
