package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		RunID:       "run-123",
		AuditorsRun: []string{"quality", "endpoints"},
		Findings: []model.Finding{
			{Category: model.CategoryQuality, Severity: model.SeverityInfo,
				File: "a.py", Line: 3, Message: "TODO comment: # TODO fix"},
			{Category: model.CategoryEndpoints, Severity: model.SeverityError,
				File: "api.py", Line: 10, Message: "Duplicate route: GET /todos",
				Suggestion: "Remove duplicate or use unique paths"},
			{Category: model.CategoryQuality, Severity: model.SeverityWarning,
				File: "b.py", Line: 7, Message: "Debug statement: print(x)",
				Suggestion: "Remove print() before shipping"},
		},
	}
}

func TestFilterMinSeverity(t *testing.T) {
	r := sampleReport()

	got := FilterMinSeverity(r.Findings, model.SeverityWarning)
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got))
	}
	// Order is preserved.
	if got[0].Severity != model.SeverityError || got[1].Severity != model.SeverityWarning {
		t.Errorf("unexpected order: %+v", got)
	}

	if got := FilterMinSeverity(r.Findings, model.SeverityInfo); len(got) != 3 {
		t.Errorf("info threshold must keep everything, got %d", len(got))
	}
	if got := FilterMinSeverity(r.Findings, model.SeverityError); len(got) != 1 {
		t.Errorf("error threshold, got %d", len(got))
	}
}

func TestSortForDisplay(t *testing.T) {
	sorted := SortForDisplay(sampleReport().Findings)
	if sorted[0].Severity != model.SeverityError {
		t.Errorf("errors must sort first, got %+v", sorted[0])
	}
	if sorted[2].Severity != model.SeverityInfo {
		t.Errorf("info must sort last, got %+v", sorted[2])
	}
}

func TestWriteConsole(t *testing.T) {
	var buf bytes.Buffer
	WriteConsole(&buf, sampleReport())
	out := buf.String()

	for _, want := range []string{"Duplicate route", "api.py:10", "Summary:", "1 errors", "1 warnings", "1 info"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteConsoleEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteConsole(&buf, &model.Report{RunID: "run-0"})
	if !strings.Contains(buf.String(), "No issues found.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		RunID       string   `json:"run_id"`
		AuditorsRun []string `json:"auditors_run"`
		Summary     struct {
			Errors   int `json:"errors"`
			Warnings int `json:"warnings"`
			Info     int `json:"info"`
			Total    int `json:"total"`
		} `json:"summary"`
		Findings []map[string]any `json:"findings"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.RunID != "run-123" || doc.Summary.Total != 3 || doc.Summary.Errors != 1 {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Findings[1]["severity"] != "error" {
		t.Errorf("severity must serialize as its lowercase name: %v", doc.Findings[1])
	}
}

func TestWriteTodoIdempotent(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()

	path, err := WriteTodo(r, dir)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "tasks", "todo.md") {
		t.Fatalf("path = %q", path)
	}

	first, _ := os.ReadFile(path)
	if !strings.Contains(string(first), "# Project TODO") {
		t.Error("new file must get the default header")
	}
	if !strings.Contains(string(first), "- [x] **ERROR**") {
		t.Error("errors render as checked items")
	}
	if !strings.Contains(string(first), "- [ ] **WARNING**") {
		t.Error("warnings render as unchecked items")
	}
	if strings.Contains(string(first), "TODO comment") {
		t.Error("info findings must not reach the todo file")
	}

	// A second run replaces the section instead of appending.
	if _, err := WriteTodo(r, dir); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)
	if strings.Count(string(second), "<!-- audit:start -->") != 1 {
		t.Errorf("audit section duplicated:\n%s", second)
	}
	if string(first) != string(second) {
		t.Errorf("rewrite must be stable:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestWriteTodoPreservesUserContent(t *testing.T) {
	dir := t.TempDir()
	todoPath := filepath.Join(dir, "tasks", "todo.md")
	if err := os.MkdirAll(filepath.Dir(todoPath), 0o755); err != nil {
		t.Fatal(err)
	}
	manual := "# Project TODO\n\n- [ ] ship the billing page\n"
	if err := os.WriteFile(todoPath, []byte(manual), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteTodo(sampleReport(), dir); err != nil {
		t.Fatal(err)
	}
	content, _ := os.ReadFile(todoPath)
	if !strings.Contains(string(content), "ship the billing page") {
		t.Error("existing todo items must survive")
	}
	if !strings.Contains(string(content), "<!-- audit:start -->") {
		t.Error("audit section must be appended")
	}
}

func TestWriteTodoNothingActionable(t *testing.T) {
	dir := t.TempDir()
	r := &model.Report{Findings: []model.Finding{
		{Category: model.CategoryQuality, Severity: model.SeverityInfo, File: "a.py", Message: "note"},
	}}

	path, err := WriteTodo(r, dir)
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("expected no write, got %q", path)
	}
	if _, err := os.Stat(filepath.Join(dir, "tasks", "todo.md")); !os.IsNotExist(err) {
		t.Error("todo.md must not be created for info-only reports")
	}
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteHTML(sampleReport(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != HTMLFileName {
		t.Errorf("path = %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(content)
	for _, want := range []string{
		"run run-123",
		`data-severity="error"`,
		"Duplicate route: GET /todos",
		"Generated by matt-stack audit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestWriteHTMLEmpty(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteHTML(&model.Report{RunID: "run-0"}, dir)
	if err != nil {
		t.Fatal(err)
	}
	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "No findings") {
		t.Error("empty report must render the empty state")
	}
}
