package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is ordered: comparisons like sev >= SeverityWarning are valid.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", s)
}

// Category names one auditor concern. Plugin auditors get a free-form
// "plugin:<Name>" category, so this is a string type rather than an enum.
type Category string

const (
	CategoryTypes           Category = "types"
	CategoryQuality         Category = "quality"
	CategoryEndpoints       Category = "endpoints"
	CategoryTests           Category = "tests"
	CategoryDependencies    Category = "dependencies"
	CategoryVulnerabilities Category = "vulnerabilities"
)

// Categories lists the built-in audit categories in registration order.
var Categories = []Category{
	CategoryTypes,
	CategoryQuality,
	CategoryEndpoints,
	CategoryTests,
	CategoryDependencies,
	CategoryVulnerabilities,
}

func PluginCategory(name string) Category {
	return Category("plugin:" + name)
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown audit category %q", s)
}

// Finding is one detected issue. Constructed once by an auditor and never
// mutated afterward.
type Finding struct {
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
}

// Location renders "file:line", or just the file for findings that are not
// tied to a specific line.
func (f Finding) Location() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}
