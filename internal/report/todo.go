package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

const (
	auditStart = "<!-- audit:start -->"
	auditEnd   = "<!-- audit:end -->"
)

// WriteTodo writes errors and warnings into the audit section of
// <project>/tasks/todo.md. The section is bounded by marker comments so
// repeated runs replace it in place and never touch the rest of the file.
// Returns the written path, or "" when there was nothing actionable.
func WriteTodo(r *model.Report, projectPath string) (string, error) {
	var actionable []model.Finding
	for _, f := range r.Findings {
		if f.Severity >= model.SeverityWarning {
			actionable = append(actionable, f)
		}
	}
	if len(actionable) == 0 {
		return "", nil
	}

	todoDir := filepath.Join(projectPath, "tasks")
	if err := os.MkdirAll(todoDir, 0o755); err != nil {
		return "", fmt.Errorf("creating tasks dir: %w", err)
	}
	todoPath := filepath.Join(todoDir, "todo.md")

	section := buildAuditSection(actionable)

	var content string
	if existing, err := os.ReadFile(todoPath); err == nil {
		content = replaceAuditSection(string(existing), section)
	} else {
		content = fmt.Sprintf("# Project TODO\n\n%s\n", section)
	}

	if err := os.WriteFile(todoPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", todoPath, err)
	}
	return todoPath, nil
}

func buildAuditSection(findings []model.Finding) string {
	lines := []string{auditStart, "## Audit Findings", ""}

	byCategory := map[string][]model.Finding{}
	for _, f := range findings {
		byCategory[string(f.Category)] = append(byCategory[string(f.Category)], f)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		lines = append(lines, fmt.Sprintf("### %s", titleCase(cat)))
		for _, f := range byCategory[cat] {
			icon := " "
			if f.Severity == model.SeverityError {
				icon = "x"
			}
			lines = append(lines, fmt.Sprintf("- [%s] **%s** `%s` — %s",
				icon, strings.ToUpper(f.Severity.String()), f.Location(), f.Message))
			if f.Suggestion != "" {
				lines = append(lines, fmt.Sprintf("  - %s", f.Suggestion))
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, auditEnd)
	return strings.Join(lines, "\n")
}

func replaceAuditSection(content, section string) string {
	start := strings.Index(content, auditStart)
	end := strings.Index(content, auditEnd)
	if start >= 0 && end >= 0 {
		return content[:start] + section + content[end+len(auditEnd):]
	}
	return strings.TrimRight(content, "\n") + "\n\n" + section + "\n"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
