package auditor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mattjaikaran/matt-stack/internal/logging"
	"github.com/mattjaikaran/matt-stack/internal/model"
	"github.com/mattjaikaran/matt-stack/internal/parser"
)

const osvQueryURL = "https://api.osv.dev/v1/query"

var versionSpecRe = regexp.MustCompile(`^[>=<~^!= ]+`)

// commandRunner executes a scanner binary and returns stdout plus the exit
// code. Split out so tests can substitute canned output.
type commandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, int, error)

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return stdout.Bytes(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return nil, 0, err
	}
	return stdout.Bytes(), 0, nil
}

// VulnerabilityAuditor checks manifests for known CVEs: pip-audit / npm audit
// when installed, the OSV.dev query API otherwise.
type VulnerabilityAuditor struct {
	Base

	Runner     commandRunner
	OSVURL     string
	HTTPClient *http.Client
}

func NewVulnerabilityAuditor(cfg Config) *VulnerabilityAuditor {
	return &VulnerabilityAuditor{
		Base:       NewBase(cfg, model.CategoryVulnerabilities),
		Runner:     runCommand,
		OSVURL:     osvQueryURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *VulnerabilityAuditor) Run() []model.Finding {
	for _, f := range parser.FindManifests(a.Cfg.ProjectPath) {
		switch filepath.Base(f) {
		case "pyproject.toml":
			a.checkPythonVulns(f)
		case "package.json":
			a.checkNodeVulns(f)
		}
	}
	return a.Findings()
}

func (a *VulnerabilityAuditor) checkPythonVulns(manifest string) {
	parsed := parser.ParsePyprojectTOML(manifest)
	if len(parsed.Dependencies) == 0 {
		return
	}
	if a.tryPipAudit(manifest) {
		return
	}
	logging.Logger.Debugw("pip-audit unavailable, falling back to OSV", "manifest", manifest)
	for _, dep := range parsed.Dependencies {
		a.checkOSV(dep.Name, dep.Constraint, "PyPI", manifest, dep.Line)
	}
}

func (a *VulnerabilityAuditor) checkNodeVulns(manifest string) {
	parsed := parser.ParsePackageJSON(manifest)
	if len(parsed.Dependencies) == 0 {
		return
	}
	if a.tryNpmAudit(manifest) {
		return
	}
	logging.Logger.Debugw("npm audit unavailable, falling back to OSV", "manifest", manifest)
	for _, dep := range parsed.Dependencies {
		a.checkOSV(dep.Name, dep.Constraint, "npm", manifest, dep.Line)
	}
}

type pipAuditVuln struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	FixVersions []string `json:"fix_versions"`
}

type pipAuditEntry struct {
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Vulns   []pipAuditVuln `json:"vulns"`
}

// tryPipAudit reports true when pip-audit ran and its output was consumed.
// Exit code 1 means vulnerabilities found and is still a successful run.
func (a *VulnerabilityAuditor) tryPipAudit(manifest string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	out, code, err := a.Runner(ctx, filepath.Dir(manifest),
		"pip-audit", "--format=json", "--desc", "-r", manifest)
	if err != nil || (code != 0 && code != 1) {
		return false
	}

	var entries []pipAuditEntry
	if json.Unmarshal(out, &entries) != nil {
		var wrapped struct {
			Dependencies []pipAuditEntry `json:"dependencies"`
		}
		if json.Unmarshal(out, &wrapped) != nil {
			return false
		}
		entries = wrapped.Dependencies
	}

	for _, entry := range entries {
		for _, vuln := range entry.Vulns {
			sev := model.SeverityWarning
			if len(vuln.FixVersions) > 0 {
				sev = model.SeverityError
			}
			a.AddFinding(sev, a.Rel(manifest), 0,
				fmt.Sprintf("Vulnerability in %s %s: %s — %s",
					entry.Name, entry.Version, vuln.ID, truncate(vuln.Description, 120)),
				fmt.Sprintf("Upgrade to: %s", strings.Join(vuln.FixVersions, ", ")))
		}
	}
	return true
}

type npmAuditVuln struct {
	Severity string            `json:"severity"`
	Via      []json.RawMessage `json:"via"`
}

func (a *VulnerabilityAuditor) tryNpmAudit(manifest string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	out, _, err := a.Runner(ctx, filepath.Dir(manifest), "npm", "audit", "--json")
	if err != nil {
		return false
	}

	var report struct {
		Vulnerabilities map[string]npmAuditVuln `json:"vulnerabilities"`
	}
	if json.Unmarshal(out, &report) != nil || report.Vulnerabilities == nil {
		return false
	}

	names := make([]string, 0, len(report.Vulnerabilities))
	for name := range report.Vulnerabilities {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := report.Vulnerabilities[name]
		msg := fmt.Sprintf("Vulnerability in %s", name)
		if title := npmViaTitle(info.Via); title != "" {
			msg = fmt.Sprintf("Vulnerability in %s: %s", name, title)
		}
		a.AddFinding(npmSeverity(info.Severity), a.Rel(manifest), 0, msg,
			fmt.Sprintf("Run 'npm audit fix' or update %s", name))
	}
	return true
}

func npmViaTitle(via []json.RawMessage) string {
	if len(via) == 0 {
		return ""
	}
	var advisory struct {
		Title string `json:"title"`
	}
	if json.Unmarshal(via[0], &advisory) != nil {
		return ""
	}
	return advisory.Title
}

func npmSeverity(s string) model.Severity {
	switch s {
	case "critical", "high":
		return model.SeverityError
	case "moderate":
		return model.SeverityWarning
	}
	return model.SeverityInfo
}

type osvVuln struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	Severity []struct {
		Type  string `json:"type"`
		Score string `json:"score"`
	} `json:"severity"`
}

// checkOSV queries OSV.dev for one pinned dependency. Network failures are
// skipped silently; the scan is best effort.
func (a *VulnerabilityAuditor) checkOSV(pkg, constraint, ecosystem, manifest string, line int) {
	version := versionSpecRe.ReplaceAllString(constraint, "")
	if version == "" {
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"package": map[string]string{"name": pkg, "ecosystem": ecosystem},
		"version": version,
	})

	resp, err := a.HTTPClient.Post(a.OSVURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return
	}
	defer resp.Body.Close()

	var result struct {
		Vulns []osvVuln `json:"vulns"`
	}
	if json.NewDecoder(resp.Body).Decode(&result) != nil {
		return
	}

	for _, vuln := range result.Vulns {
		a.AddFinding(osvSeverity(vuln), a.Rel(manifest), line,
			fmt.Sprintf("Known vulnerability in %s %s: %s — %s",
				pkg, version, vuln.ID, truncate(vuln.Summary, 120)),
			fmt.Sprintf("Check https://osv.dev/vulnerability/%s", vuln.ID))
	}
}

// osvSeverity maps an OSV record: CVSS_V3-scored entries rank as errors,
// anything else as a warning.
func osvSeverity(vuln osvVuln) model.Severity {
	for _, sev := range vuln.Severity {
		if sev.Type == "CVSS_V3" {
			return model.SeverityError
		}
	}
	return model.SeverityWarning
}
