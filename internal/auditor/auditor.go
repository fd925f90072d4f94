// Package auditor implements the audit checks. Every auditor consumes the
// shared Config and parser output and emits findings for one category.
package auditor

import (
	"fmt"
	"path/filepath"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

// Config is built once per invocation and read by every auditor. The command
// layer validates it; auditors assume category and severity names are sound.
type Config struct {
	ProjectPath string
	Categories  []model.Category // nil = run all
	Live        bool
	WriteTodo   bool
	JSONOutput  bool
	Fix         bool
	BaseURL     string
	MinSeverity model.Severity
}

func (c Config) RunAll() bool {
	return c.Categories == nil
}

func (c Config) ShouldRun(cat model.Category) bool {
	if c.RunAll() {
		return true
	}
	for _, want := range c.Categories {
		if want == cat {
			return true
		}
	}
	return false
}

// Auditor is the capability contract shared by built-in and plugin auditors.
// Run must be safe against an empty or irrelevant project: missing input
// becomes an INFO/WARNING finding, never an error.
type Auditor interface {
	Category() model.Category
	Run() []model.Finding
}

// Base carries the shared finding-accumulation behavior. Embed it and set
// the category once in the constructor.
type Base struct {
	Cfg      Config
	cat      model.Category
	findings []model.Finding
}

func NewBase(cfg Config, cat model.Category) Base {
	return Base{Cfg: cfg, cat: cat}
}

func (b *Base) Category() model.Category { return b.cat }

func (b *Base) Findings() []model.Finding { return b.findings }

// AddFinding appends one finding stamped with the auditor's category.
func (b *Base) AddFinding(sev model.Severity, file string, line int, message, suggestion string) {
	b.findings = append(b.findings, model.Finding{
		Category:   b.cat,
		Severity:   sev,
		File:       file,
		Line:       line,
		Message:    message,
		Suggestion: suggestion,
	})
}

func (b *Base) ErrorCount() int   { return b.countBy(model.SeverityError) }
func (b *Base) WarningCount() int { return b.countBy(model.SeverityWarning) }

func (b *Base) countBy(sev model.Severity) int {
	n := 0
	for _, f := range b.findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// Summary is the one-line per-auditor result used for logging.
func (b *Base) Summary() string {
	info := len(b.findings) - b.ErrorCount() - b.WarningCount()
	return fmt.Sprintf("%s: %d errors, %d warnings, %d info",
		b.cat, b.ErrorCount(), b.WarningCount(), info)
}

// Rel makes a path project-relative for display, falling back to the input.
func (b *Base) Rel(path string) string {
	rel, err := filepath.Rel(b.Cfg.ProjectPath, path)
	if err != nil {
		return path
	}
	return rel
}
