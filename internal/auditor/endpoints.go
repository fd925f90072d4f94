package auditor

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mattjaikaran/matt-stack/internal/model"
	"github.com/mattjaikaran/matt-stack/internal/parser"
)

var writeMethods = map[string]bool{"POST": true, "PUT": true, "DELETE": true, "PATCH": true}

// EndpointAuditor statically analyzes discovered routes and, with Live set,
// GET-probes the non-parameterized ones against BaseURL.
type EndpointAuditor struct {
	Base

	// Client is swappable for tests; nil means a 5s-timeout default.
	Client *http.Client
}

func NewEndpointAuditor(cfg Config) *EndpointAuditor {
	return &EndpointAuditor{Base: NewBase(cfg, model.CategoryEndpoints)}
}

func (a *EndpointAuditor) Run() []model.Finding {
	var routes []parser.Route
	for _, f := range parser.FindRouteFiles(a.Cfg.ProjectPath) {
		routes = append(routes, parser.ParseRoutesFile(f)...)
	}

	if len(routes) == 0 {
		a.AddFinding(model.SeverityInfo, ".", 0,
			"No route definitions found",
			"Routes are expected in api.py, routes.py, controllers.py, etc.")
		return a.Findings()
	}

	a.checkDuplicates(routes)
	a.checkStubs(routes)
	a.checkAuth(routes)
	a.checkNaming(routes)

	if a.Cfg.Live {
		a.liveProbe(routes)
	}
	return a.Findings()
}

// checkDuplicates reports each method+path registered more than once, listing
// every location in one finding.
func (a *EndpointAuditor) checkDuplicates(routes []parser.Route) {
	type key struct{ method, path string }
	var order []key
	groups := map[key][]parser.Route{}

	for _, r := range routes {
		k := key{r.Method, r.Path}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	for _, k := range order {
		dupes := groups[k]
		if len(dupes) < 2 {
			continue
		}
		locs := make([]string, len(dupes))
		for i, r := range dupes {
			locs[i] = fmt.Sprintf("%s:%d", a.Rel(r.File), r.Line)
		}
		a.AddFinding(model.SeverityError, a.Rel(dupes[0].File), dupes[0].Line,
			fmt.Sprintf("Duplicate route: %s %s defined %d times (%s)",
				k.method, k.path, len(dupes), strings.Join(locs, ", ")),
			"Remove duplicate or use unique paths")
	}
}

func (a *EndpointAuditor) checkStubs(routes []parser.Route) {
	for _, r := range routes {
		if r.IsStub {
			a.AddFinding(model.SeverityWarning, a.Rel(r.File), r.Line,
				fmt.Sprintf("Stub endpoint: %s %s (%s)", r.Method, r.Path, r.FuncName),
				"Implement the endpoint handler")
		}
	}
}

func (a *EndpointAuditor) checkAuth(routes []parser.Route) {
	for _, r := range routes {
		if writeMethods[r.Method] && !r.HasAuth {
			a.AddFinding(model.SeverityWarning, a.Rel(r.File), r.Line,
				fmt.Sprintf("No auth on write endpoint: %s %s", r.Method, r.Path),
				"Add auth=... parameter to protect write operations")
		}
	}
}

func (a *EndpointAuditor) checkNaming(routes []parser.Route) {
	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			a.AddFinding(model.SeverityInfo, a.Rel(r.File), r.Line,
				fmt.Sprintf("Route path missing leading slash: '%s'", r.Path),
				fmt.Sprintf("Use '/%s' for consistency", r.Path))
		}
		if r.Path != "/" && strings.HasSuffix(r.Path, "/") {
			a.AddFinding(model.SeverityInfo, a.Rel(r.File), r.Line,
				fmt.Sprintf("Trailing slash on route: '%s'", r.Path),
				"Consider removing trailing slash for consistency")
		}
	}
}

// liveProbe GETs each non-parameterized GET route. Probing is read-only;
// write methods are never issued. One unreachable-server INFO ends the probe.
func (a *EndpointAuditor) liveProbe(routes []parser.Route) {
	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	for _, r := range routes {
		if r.Method != "GET" {
			continue
		}
		url := a.Cfg.BaseURL + r.Path
		if strings.ContainsAny(url, "{<") {
			continue
		}

		resp, err := client.Get(url)
		if err != nil {
			a.AddFinding(model.SeverityInfo, ".", 0,
				fmt.Sprintf("Could not reach %s — is the server running?", a.Cfg.BaseURL),
				"Start the backend with 'make backend-dev' before using --live")
			return
		}
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			a.AddFinding(model.SeverityError, a.Rel(r.File), r.Line,
				fmt.Sprintf("Live probe %s %s returned %d", r.Method, r.Path, resp.StatusCode),
				"Check server logs for the error")
		case resp.StatusCode == 404:
			a.AddFinding(model.SeverityWarning, a.Rel(r.File), r.Line,
				fmt.Sprintf("Live probe %s %s returned 404", r.Method, r.Path),
				"Route may not be registered or server isn't running")
		}
	}
}
