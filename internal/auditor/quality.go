package auditor

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/fsutil"
	"github.com/mattjaikaran/matt-stack/internal/model"
	"github.com/mattjaikaran/matt-stack/internal/parser"
)

var (
	todoRe = regexp.MustCompile(`(?i)(?:#|//)\s*(TODO|FIXME|HACK|XXX)\b`)

	mockRe = regexp.MustCompile(`(?i)\b(mock_|fake_|lorem\s*ipsum|placeholder|hardcoded|localhost:\d+)\b`)

	// Hardcoded-secret shapes: common credential literals, SaaS key
	// prefixes, and generic API_KEY assignments. Never skipped, not even in
	// test files.
	credentialRe = regexp.MustCompile(`(?i)\b(admin[/:]admin|password123|test@test\.com|changeme|secret123|12345)\b` +
		`|sk_live_[A-Za-z0-9]{8,}|pk_live_[A-Za-z0-9]{8,}|sk-[A-Za-z0-9]{20,}` +
		`|ghp_[A-Za-z0-9]{20,}|AKIA[0-9A-Z]{16}` +
		`|API_KEY\s*=\s*["'][^"']+["']`)

	pyDebugRe = regexp.MustCompile(`^\s*(print\s*\(|breakpoint\s*\(|import\s+pdb)`)
	jsDebugRe = regexp.MustCompile(`^\s*(console\.(log|debug|warn|info)\s*\(|debugger\b)`)

	stubFuncRe = regexp.MustCompile(`(?m)^\s+(pass|\.\.\.|raise NotImplementedError)\s*$`)
)

var pyExts = map[string]bool{".py": true}
var jsExts = map[string]bool{".ts": true, ".tsx": true, ".js": true, ".jsx": true}

// QualityAuditor scans source files line by line for TODO markers, mock
// data, hardcoded credentials, debug statements and stub bodies. With Fix
// set it also blanks debug-statement lines, one rewrite per file.
type QualityAuditor struct {
	Base
	fixCount int
}

func NewQualityAuditor(cfg Config) *QualityAuditor {
	return &QualityAuditor{Base: NewBase(cfg, model.CategoryQuality)}
}

// FixCount reports how many debug-statement lines were removed.
func (a *QualityAuditor) FixCount() int { return a.fixCount }

func (a *QualityAuditor) Run() []model.Finding {
	files := fsutil.FindFiles(a.Cfg.ProjectPath, []string{
		"**/*.py", "**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx",
	})
	if len(files) == 0 {
		a.AddFinding(model.SeverityInfo, ".", 0,
			"No source files found to scan", "")
		return a.Findings()
	}
	for _, path := range files {
		a.scanFile(path)
	}
	return a.Findings()
}

func (a *QualityAuditor) scanFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	text := string(data)
	lines := strings.Split(text, "\n")

	ext := filepath.Ext(path)
	isPython := pyExts[ext]
	isJS := jsExts[ext]
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), ext))
	isTest := strings.Contains(stem, "test") || strings.Contains(stem, "spec")
	relPath := a.Rel(path)

	fixed := false
	for i, line := range lines {
		lineNum := i + 1

		if m := todoRe.FindStringSubmatch(line); m != nil {
			tag := strings.ToUpper(m[1])
			sev := model.SeverityInfo
			if tag == "TODO" || tag == "FIXME" {
				sev = model.SeverityWarning
			}
			a.AddFinding(sev, relPath, lineNum,
				fmt.Sprintf("%s comment: %s", tag, truncate(strings.TrimSpace(line), 80)),
				fmt.Sprintf("Resolve or track this %s", tag))
		}

		if !isTest {
			if m := mockRe.FindString(line); m != "" {
				a.AddFinding(model.SeverityWarning, relPath, lineNum,
					fmt.Sprintf("Possible mock/placeholder: '%s'", m),
					"Replace with real implementation or configuration")
			}
		}

		if m := credentialRe.FindString(line); m != "" {
			a.AddFinding(model.SeverityError, relPath, lineNum,
				fmt.Sprintf("Hardcoded credential: '%s'", m),
				"Move to environment variable")
		}

		if !isTest {
			if isPython && pyDebugRe.MatchString(line) {
				a.reportDebug(relPath, lineNum, line, "print()")
				if a.Cfg.Fix {
					lines[i] = ""
					a.fixCount++
					fixed = true
				}
			} else if isJS && jsDebugRe.MatchString(line) {
				a.reportDebug(relPath, lineNum, line, "console.log()")
				if a.Cfg.Fix {
					lines[i] = ""
					a.fixCount++
					fixed = true
				}
			}
		}
	}

	// All edits for the file are collected above; write exactly once so a
	// later edit can never clobber an earlier one.
	if fixed {
		_ = os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
	}

	if isPython && !isTest {
		for _, idx := range stubFuncRe.FindAllStringIndex(text, -1) {
			match := text[idx[0]:idx[1]]
			a.AddFinding(model.SeverityWarning, relPath, parser.LineAt(text, idx[0]),
				fmt.Sprintf("Stub implementation: %s", strings.TrimSpace(match)),
				"Implement the function body")
		}
	}
}

func (a *QualityAuditor) reportDebug(relPath string, lineNum int, line, kind string) {
	a.AddFinding(model.SeverityWarning, relPath, lineNum,
		fmt.Sprintf("Debug statement: %s", truncate(strings.TrimSpace(line), 60)),
		fmt.Sprintf("Remove %s before shipping", kind))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
