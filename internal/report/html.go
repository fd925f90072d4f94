package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

// HTMLFileName is written at the root of the audited project.
const HTMLFileName = "audit-report.html"

type htmlRow struct {
	Severity   string
	Category   string
	Location   string
	Message    string
	Suggestion string
}

type htmlData struct {
	ProjectName string
	ProjectPath string
	GeneratedAt string
	RunID       string
	Total       int
	Errors      int
	Warnings    int
	Info        int
	Rows        []htmlRow
}

// WriteHTML renders the standalone dashboard into the audited project and
// returns the written path.
func WriteHTML(r *model.Report, projectPath string) (string, error) {
	rows := make([]htmlRow, 0, len(r.Findings))
	for _, f := range SortForDisplay(r.Findings) {
		rows = append(rows, htmlRow{
			Severity:   f.Severity.String(),
			Category:   string(f.Category),
			Location:   f.Location(),
			Message:    f.Message,
			Suggestion: f.Suggestion,
		})
	}

	data := htmlData{
		ProjectName: filepath.Base(projectPath),
		ProjectPath: projectPath,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		RunID:       r.RunID,
		Total:       len(r.Findings),
		Errors:      r.ErrorCount(),
		Warnings:    r.WarningCount(),
		Info:        r.InfoCount(),
		Rows:        rows,
	}

	outPath := filepath.Join(projectPath, HTMLFileName)
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := htmlTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return outPath, nil
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Audit Report &mdash; {{.ProjectName}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       background: #f5f6fa; color: #2d3436; line-height: 1.6; }
header { background: #2d3436; color: #fff; padding: 2rem; }
header h1 { font-size: 1.5rem; font-weight: 600; }
header p { color: #b2bec3; margin-top: 0.25rem; font-size: 0.9rem; }
.container { max-width: 1200px; margin: 0 auto; padding: 1.5rem; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 1.5rem; }
.card { background: #fff; border-radius: 8px; padding: 1.25rem 1.5rem;
        flex: 1; min-width: 140px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.card .label { font-size: 0.8rem; text-transform: uppercase; letter-spacing: 0.05em;
               color: #636e72; margin-bottom: 0.25rem; }
.card .value { font-size: 1.75rem; font-weight: 700; }
.card.total .value { color: #2d3436; }
.card.error .value { color: #d63031; }
.card.warning .value { color: #fdcb6e; }
.card.info .value { color: #0984e3; }
.filters { margin-bottom: 1rem; display: flex; gap: 0.5rem; flex-wrap: wrap; }
.filters button { padding: 0.4rem 1rem; border: 1px solid #dfe6e9; border-radius: 4px;
                  background: #fff; cursor: pointer; font-size: 0.85rem; transition: all 0.15s; }
.filters button:hover { background: #dfe6e9; }
.filters button.active { background: #2d3436; color: #fff; border-color: #2d3436; }
table { width: 100%; border-collapse: collapse; background: #fff;
        border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
th { background: #dfe6e9; text-align: left; padding: 0.75rem 1rem; font-size: 0.8rem;
     text-transform: uppercase; letter-spacing: 0.05em; cursor: pointer; user-select: none; }
th:hover { background: #b2bec3; }
th.sort-asc::after { content: ' ^'; }
th.sort-desc::after { content: ' v'; }
td { padding: 0.65rem 1rem; border-top: 1px solid #f1f2f6; font-size: 0.9rem; }
tr:hover td { background: #fafafa; }
.badge { display: inline-block; padding: 0.15rem 0.6rem; border-radius: 3px;
         font-size: 0.75rem; font-weight: 600; text-transform: uppercase; }
.badge-error { color: #d63031; background: #fab1a0; }
.badge-warning { background: #ffeaa7; color: #e17055; }
.badge-info { background: #81ecec; color: #00707a; }
.empty-state { text-align: center; padding: 3rem; color: #636e72; }
footer { text-align: center; padding: 2rem; color: #b2bec3; font-size: 0.8rem; }
</style>
</head>
<body>
<header>
  <div class="container">
    <h1>Audit Report &mdash; {{.ProjectName}}</h1>
    <p>{{.ProjectPath}} &middot; {{.GeneratedAt}} &middot; run {{.RunID}}</p>
  </div>
</header>
<div class="container">
  <div class="cards">
    <div class="card total"><div class="label">Total Findings</div><div class="value">{{.Total}}</div></div>
    <div class="card error"><div class="label">Errors</div><div class="value">{{.Errors}}</div></div>
    <div class="card warning"><div class="label">Warnings</div><div class="value">{{.Warnings}}</div></div>
    <div class="card info"><div class="label">Info</div><div class="value">{{.Info}}</div></div>
  </div>
{{if .Rows}}
  <div class="filters">
    <button class="active" data-filter="all">All</button>
    <button data-filter="error">Errors</button>
    <button data-filter="warning">Warnings</button>
    <button data-filter="info">Info</button>
  </div>
  <table id="findings-table">
    <thead>
      <tr>
        <th data-col="0">Severity</th>
        <th data-col="1">Category</th>
        <th data-col="2">Location</th>
        <th data-col="3">Message</th>
        <th data-col="4">Suggestion</th>
      </tr>
    </thead>
    <tbody>
{{range .Rows}}      <tr data-severity="{{.Severity}}" data-category="{{.Category}}">
        <td><span class="badge badge-{{.Severity}}">{{.Severity}}</span></td>
        <td>{{.Category}}</td>
        <td>{{.Location}}</td>
        <td>{{.Message}}</td>
        <td>{{.Suggestion}}</td>
      </tr>
{{end}}    </tbody>
  </table>
{{else}}
  <div class="empty-state"><p>No findings. Project looks clean!</p></div>
{{end}}
</div>
<footer>Generated by matt-stack audit</footer>
<script>
(function() {
  var buttons = document.querySelectorAll('.filters button');
  buttons.forEach(function(btn) {
    btn.addEventListener('click', function() {
      buttons.forEach(function(b) { b.classList.remove('active'); });
      btn.classList.add('active');
      var filter = btn.getAttribute('data-filter');
      document.querySelectorAll('#findings-table tbody tr').forEach(function(row) {
        row.style.display = (filter === 'all' || row.getAttribute('data-severity') === filter) ? '' : 'none';
      });
    });
  });

  var headers = document.querySelectorAll('#findings-table th');
  var sortState = {};
  headers.forEach(function(th) {
    th.addEventListener('click', function() {
      var col = parseInt(th.getAttribute('data-col'));
      var tbody = document.querySelector('#findings-table tbody');
      if (!tbody) return;
      var rows = Array.from(tbody.querySelectorAll('tr'));
      var asc = sortState[col] !== 'asc';
      sortState = {};
      sortState[col] = asc ? 'asc' : 'desc';
      headers.forEach(function(h) { h.classList.remove('sort-asc', 'sort-desc'); });
      th.classList.add(asc ? 'sort-asc' : 'sort-desc');
      rows.sort(function(a, b) {
        var aText = a.children[col].textContent.toLowerCase();
        var bText = b.children[col].textContent.toLowerCase();
        if (aText < bText) return asc ? -1 : 1;
        if (aText > bText) return asc ? 1 : -1;
        return 0;
      });
      rows.forEach(function(row) { tbody.appendChild(row); });
    });
  });
})();
</script>
</body>
</html>
`))
