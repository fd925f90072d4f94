package model

// Report accumulates findings across all auditors that ran.
type Report struct {
	RunID       string
	Findings    []Finding
	AuditorsRun []string
}

// Counts are always recomputed from the findings list so they can never go
// stale when findings are merged or filtered.
func (r *Report) ErrorCount() int   { return r.countBy(SeverityError) }
func (r *Report) WarningCount() int { return r.countBy(SeverityWarning) }
func (r *Report) InfoCount() int    { return r.countBy(SeverityInfo) }

func (r *Report) countBy(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

type reportSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

type reportDoc struct {
	RunID       string        `json:"run_id"`
	AuditorsRun []string      `json:"auditors_run"`
	Summary     reportSummary `json:"summary"`
	Findings    []Finding     `json:"findings"`
}

// Doc returns the canonical serializable form used by the JSON renderer.
func (r *Report) Doc() any {
	findings := r.Findings
	if findings == nil {
		findings = []Finding{}
	}
	auditors := r.AuditorsRun
	if auditors == nil {
		auditors = []string{}
	}
	return reportDoc{
		RunID:       r.RunID,
		AuditorsRun: auditors,
		Summary: reportSummary{
			Errors:   r.ErrorCount(),
			Warnings: r.WarningCount(),
			Info:     r.InfoCount(),
			Total:    len(r.Findings),
		},
		Findings: findings,
	}
}
