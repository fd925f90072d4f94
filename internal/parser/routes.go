package parser

import (
	"os"
	"regexp"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/fsutil"
)

// Route is one discovered HTTP route declaration. Duplicate method+path
// pairs are preserved here; deduplication is the endpoint auditor's concern.
type Route struct {
	Method   string // GET, POST, PUT, DELETE, PATCH
	Path     string
	FuncName string
	File     string
	Line     int
	HasAuth  bool
	IsStub   bool
}

// Decorators like @router.get("/path", auth=JWTAuth()) or @api.post("/path").
var routeRe = regexp.MustCompile(
	`(?i)@\w+\.(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"](?:[^)]*?auth\s*=\s*(\w+))?[^)]*\)`)

// Alternative style: @http_get("/path").
var httpDecoratorRe = regexp.MustCompile(
	`(?i)@http_(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"]`)

var funcDefRe = regexp.MustCompile(`(?m)^def\s+(\w+)\s*\(`)

var stubBodyRe = regexp.MustCompile(`(?m)^\s+(pass|\.\.\.|raise NotImplementedError)\s*$`)

// ParseRoutesFile extracts all route declarations from a Python source file.
func ParseRoutesFile(path string) []Route {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	text := string(data)
	lines := strings.Split(text, "\n")
	var routes []Route

	for _, re := range []*regexp.Regexp{routeRe, httpDecoratorRe} {
		for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
			groups := groupStrings(text, idx)
			method := strings.ToUpper(groups[1])
			routePath := groups[2]
			lineNum := LineAt(text, idx[0])

			hasAuth := false
			if re == routeRe && len(groups) > 3 && groups[3] != "" {
				ref := strings.ToLower(groups[3])
				hasAuth = ref != "none" && ref != "false"
			} else if strings.Contains(groups[0], "auth=") {
				hasAuth = true
			}

			// The nearest following def supplies the handler name.
			funcName := "unknown"
			isStub := false
			remaining := text[idx[1]:]
			if fm := funcDefRe.FindStringSubmatchIndex(remaining); fm != nil {
				funcName = remaining[fm[2]:fm[3]]

				// Stub check: only pass/.../NotImplementedError within the
				// few lines after the signature.
				funcEnd := idx[1] + fm[1]
				funcLine := strings.Count(text[:funcEnd], "\n")
				end := funcLine + 5
				if end > len(lines) {
					end = len(lines)
				}
				if funcLine < end {
					body := strings.Join(lines[funcLine:end], "\n")
					isStub = stubBodyRe.MatchString(body)
				}
			}

			routes = append(routes, Route{
				Method:   method,
				Path:     routePath,
				FuncName: funcName,
				File:     path,
				Line:     lineNum,
				HasAuth:  hasAuth,
				IsStub:   isStub,
			})
		}
	}

	return routes
}

// groupStrings converts a submatch index slice into the matched strings,
// empty string for unmatched groups.
func groupStrings(text string, idx []int) []string {
	out := make([]string, len(idx)/2)
	for i := 0; i < len(idx); i += 2 {
		if idx[i] == -1 {
			out[i/2] = ""
			continue
		}
		out[i/2] = text[idx[i]:idx[i+1]]
	}
	return out
}

// FindRouteFiles locates Python files likely to declare routes.
func FindRouteFiles(projectPath string) []string {
	return fsutil.FindFiles(projectPath, []string{
		"**/api.py", "**/api/*.py",
		"**/routes.py", "**/routes/*.py",
		"**/controllers.py", "**/controllers/*.py",
		"**/endpoints.py", "**/endpoints/*.py",
		"**/views.py", "**/views/*.py",
	})
}
