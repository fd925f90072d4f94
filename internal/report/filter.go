// Package report renders an audit report to the console, JSON, an HTML
// dashboard and the project todo file.
package report

import (
	"sort"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

// FilterMinSeverity drops findings below min, preserving order.
func FilterMinSeverity(findings []model.Finding, min model.Severity) []model.Finding {
	if min == model.SeverityInfo {
		return findings
	}
	var out []model.Finding
	for _, f := range findings {
		if f.Severity >= min {
			out = append(out, f)
		}
	}
	return out
}

// SortForDisplay orders findings most severe first, then by category, without
// mutating the input.
func SortForDisplay(findings []model.Finding) []model.Finding {
	out := make([]model.Finding, len(findings))
	copy(out, findings)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		return out[i].Category < out[j].Category
	})
	return out
}
