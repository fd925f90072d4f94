package auditor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/model"
	"github.com/mattjaikaran/matt-stack/internal/parser"
)

// typeMap maps a Python annotation to the TypeScript types it may appear as.
var typeMap = map[string][]string{
	"str":      {"string"},
	"int":      {"number"},
	"float":    {"number"},
	"bool":     {"boolean"},
	"list":     {"array", "Array"},
	"dict":     {"object", "Record"},
	"datetime": {"string", "Date"},
	"date":     {"string", "Date"},
	"uuid":     {"string"},
	"UUID":     {"string"},
	"Decimal":  {"number", "string"},
}

var (
	snakeRe = regexp.MustCompile(`_([a-z])`)
	camelRe = regexp.MustCompile(`([A-Z])`)
)

func SnakeToCamel(name string) string {
	return snakeRe.ReplaceAllStringFunc(name, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

func CamelToSnake(name string) string {
	s := camelRe.ReplaceAllString(name, "_$1")
	return strings.TrimLeft(strings.ToLower(s), "_")
}

// TypeAuditor cross-checks Pydantic schemas against TypeScript interfaces
// and Zod schemas: field presence, type compatibility, optionality and
// length-constraint sync.
type TypeAuditor struct {
	Base
}

func NewTypeAuditor(cfg Config) *TypeAuditor {
	return &TypeAuditor{Base: NewBase(cfg, model.CategoryTypes)}
}

func (a *TypeAuditor) Run() []model.Finding {
	var pySchemas []parser.Schema
	for _, f := range parser.FindSchemaFiles(a.Cfg.ProjectPath) {
		pySchemas = append(pySchemas, parser.ParsePydanticFile(f)...)
	}

	if len(pySchemas) == 0 {
		a.AddFinding(model.SeverityInfo, ".", 0,
			"No Pydantic schemas found",
			"Define schemas in */schemas/*.py")
		return a.Findings()
	}

	var interfaces []parser.Interface
	for _, f := range parser.FindInterfaceFiles(a.Cfg.ProjectPath) {
		interfaces = append(interfaces, parser.ParseTypeScriptFile(f)...)
	}
	var zodSchemas []parser.ZodSchema
	for _, f := range parser.FindZodFiles(a.Cfg.ProjectPath) {
		zodSchemas = append(zodSchemas, parser.ParseZodFile(f)...)
	}

	a.compareWithTS(pySchemas, interfaces)
	a.compareWithZod(pySchemas, zodSchemas)
	return a.Findings()
}

func (a *TypeAuditor) compareWithTS(pySchemas []parser.Schema, interfaces []parser.Interface) {
	byName := map[string]parser.Interface{}
	for _, i := range interfaces {
		byName[i.Name] = i
	}

	for _, schema := range pySchemas {
		ts, ok := byName[schema.Name]
		if !ok {
			a.AddFinding(model.SeverityWarning, a.Rel(schema.File), schema.Line,
				fmt.Sprintf("Pydantic '%s' has no matching TS interface", schema.Name),
				fmt.Sprintf("Create 'interface %s' in frontend types", schema.Name))
			continue
		}
		a.compareFieldsTS(schema, ts)
	}
}

func (a *TypeAuditor) compareFieldsTS(py parser.Schema, ts parser.Interface) {
	tsFields := map[string]parser.InterfaceField{}
	for _, f := range ts.Fields {
		tsFields[f.Name] = f
	}

	for _, pf := range py.Fields {
		camel := SnakeToCamel(pf.Name)
		tf, ok := tsFields[pf.Name]
		if !ok {
			tf, ok = tsFields[camel]
		}
		if !ok {
			a.AddFinding(model.SeverityWarning, a.Rel(ts.File), ts.Line,
				fmt.Sprintf("TS interface '%s' missing field '%s' (from Python '%s')",
					ts.Name, camel, pf.Name),
				fmt.Sprintf("Add '%s: %s' to %s", camel, pyToFrontendType(pf.Type), ts.Name))
			continue
		}

		if expected := typeMap[pf.Type]; len(expected) > 0 && !containsAny(tf.Type, expected) {
			a.AddFinding(model.SeverityWarning, a.Rel(ts.File), ts.Line,
				fmt.Sprintf("Type mismatch: Python '%s.%s' is '%s' but TS '%s.%s' is '%s'",
					py.Name, pf.Name, pf.Type, ts.Name, tf.Name, tf.Type),
				fmt.Sprintf("Expected TS type containing one of: %s", strings.Join(expected, ", ")))
		}

		if pf.Optional && !tf.Optional {
			a.AddFinding(model.SeverityInfo, a.Rel(ts.File), ts.Line,
				fmt.Sprintf("Optionality mismatch: '%s.%s' is optional in Python but required in TS '%s.%s'",
					py.Name, pf.Name, ts.Name, tf.Name),
				fmt.Sprintf("Consider making '%s' optional with '?'", tf.Name))
		}
	}
}

func (a *TypeAuditor) compareWithZod(pySchemas []parser.Schema, zodSchemas []parser.ZodSchema) {
	byName := map[string]parser.ZodSchema{}
	for _, z := range zodSchemas {
		byName[z.Name] = z
		byName[strings.ToLower(z.Name)] = z
	}

	for _, schema := range pySchemas {
		candidates := []string{
			schema.Name,
			strings.ToLower(schema.Name),
			strings.ReplaceAll(schema.Name, "Schema", ""),
			lowerFirst(schema.Name),
		}
		var zod parser.ZodSchema
		found := false
		for _, c := range candidates {
			if z, ok := byName[c]; ok {
				zod, found = z, true
				break
			}
		}
		// A schema without a Zod counterpart is common and not reported.
		if !found {
			continue
		}
		a.compareFieldsZod(schema, zod)
	}
}

func (a *TypeAuditor) compareFieldsZod(py parser.Schema, zod parser.ZodSchema) {
	zodFields := map[string]parser.ZodField{}
	for _, f := range zod.Fields {
		zodFields[f.Name] = f
	}

	for _, pf := range py.Fields {
		camel := SnakeToCamel(pf.Name)
		zf, ok := zodFields[pf.Name]
		if !ok {
			zf, ok = zodFields[camel]
		}
		if !ok {
			a.AddFinding(model.SeverityWarning, a.Rel(zod.File), zod.Line,
				fmt.Sprintf("Zod schema '%s' missing field '%s' (from Python '%s')",
					zod.Name, camel, pf.Name),
				fmt.Sprintf("Add '%s: z.%s()' to %s", camel, pyToFrontendType(pf.Type), zod.Name))
			continue
		}

		if v, has := pf.Constraints["min_length"]; has {
			if _, synced := zf.Constraints["min"]; !synced {
				a.AddFinding(model.SeverityInfo, a.Rel(zod.File), zod.Line,
					fmt.Sprintf("Python '%s.%s' has min_length=%s but Zod '%s.%s' has no .min() constraint",
						py.Name, pf.Name, v, zod.Name, zf.Name),
					fmt.Sprintf("Add .min(%s) to match backend validation", v))
			}
		}
		if v, has := pf.Constraints["max_length"]; has {
			if _, synced := zf.Constraints["max"]; !synced {
				a.AddFinding(model.SeverityInfo, a.Rel(zod.File), zod.Line,
					fmt.Sprintf("Python '%s.%s' has max_length=%s but Zod '%s.%s' has no .max() constraint",
						py.Name, pf.Name, v, zod.Name, zf.Name),
					fmt.Sprintf("Add .max(%s) to match backend validation", v))
			}
		}
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func pyToFrontendType(pyType string) string {
	switch pyType {
	case "str":
		return "string"
	case "int", "float":
		return "number"
	case "bool":
		return "boolean"
	}
	return pyType
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
