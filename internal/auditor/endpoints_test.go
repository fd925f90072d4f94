package auditor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

const staticRoutesFixture = `from ninja import Router

router = Router()


@router.get("/todos")
def list_todos(request):
    return []


@router.get("/todos")
def list_todos_again(request):
    return []


@router.post("/todos")
def create_todo(request):
    pass


@router.delete("/todos/{todo_id}", auth=JWTAuth())
def delete_todo(request, todo_id):
    return None


@router.get("items/")
def list_items(request):
    return []
`

func TestEndpointStaticChecks(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "api.py", staticRoutesFixture)

	a := NewEndpointAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	dupes := findingsMatching(findings, "Duplicate route")
	require.Len(t, dupes, 1)
	assert.Equal(t, model.SeverityError, dupes[0].Severity)
	assert.Contains(t, dupes[0].Message, "GET /todos defined 2 times")
	assert.Contains(t, dupes[0].Message, "api.py:6")
	assert.Contains(t, dupes[0].Message, "api.py:11")

	stubs := findingsMatching(findings, "Stub endpoint")
	require.Len(t, stubs, 1)
	assert.Contains(t, stubs[0].Message, "POST /todos (create_todo)")

	auth := findingsMatching(findings, "No auth on write endpoint")
	require.Len(t, auth, 1, "auth=JWTAuth() must not be flagged")
	assert.Contains(t, auth[0].Message, "POST /todos")

	assert.Len(t, findingsMatching(findings, "missing leading slash"), 1)
	assert.Len(t, findingsMatching(findings, "Trailing slash"), 1)
}

func TestEndpointNoRoutes(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "util.py", "x = 1\n")

	a := NewEndpointAuditor(Config{ProjectPath: dir})
	findings := a.Run()

	require.Len(t, findings, 1)
	assert.Equal(t, model.SeverityInfo, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "No route definitions found")
}

const liveRoutesFixture = `@router.get("/ok")
def ok(request):
    return []


@router.get("/missing")
def missing(request):
    return []


@router.get("/broken")
def broken(request):
    return []


@router.get("/items/{item_id}")
def get_item(request, item_id):
    return {}


@router.post("/ok", auth=JWTAuth())
def create_ok(request):
    return []
`

func TestEndpointLiveProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeProjectFile(t, dir, "routes.py", liveRoutesFixture)

	a := NewEndpointAuditor(Config{ProjectPath: dir, Live: true, BaseURL: srv.URL})
	findings := a.Run()

	broken := findingsMatching(findings, "returned 500")
	require.Len(t, broken, 1)
	assert.Equal(t, model.SeverityError, broken[0].Severity)

	missing := findingsMatching(findings, "returned 404")
	require.Len(t, missing, 1)
	assert.Equal(t, model.SeverityWarning, missing[0].Severity)

	assert.Empty(t, findingsMatching(findings, "GET /ok returned"))
	assert.Empty(t, findingsMatching(findings, "item"), "parameterized routes are not probed")
}

func TestEndpointLiveProbeUnreachable(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "routes.py", liveRoutesFixture)

	a := NewEndpointAuditor(Config{ProjectPath: dir, Live: true, BaseURL: "http://127.0.0.1:1"})
	findings := a.Run()

	unreachable := findingsMatching(findings, "Could not reach")
	require.Len(t, unreachable, 1, "probing stops after the first connection failure")
}

func findingsMatching(findings []model.Finding, substr string) []model.Finding {
	var out []model.Finding
	for _, f := range findings {
		if strings.Contains(f.Message, substr) {
			out = append(out, f)
		}
	}
	return out
}
