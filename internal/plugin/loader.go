// Package plugin discovers compiled auditor plugins next to the audited
// project and loads them with the runtime plugin mechanism.
package plugin

import (
	"os"
	"path/filepath"
	"plugin"
	"sort"
	"strings"

	"github.com/mattjaikaran/matt-stack/internal/auditor"
	"github.com/mattjaikaran/matt-stack/internal/logging"
)

// Dir is the per-project plugin directory.
const Dir = "matt-stack-plugins"

// NewAuditorFunc is the constructor every plugin must export as NewAuditor.
type NewAuditorFunc func(auditor.Config) auditor.Auditor

// Load opens every .so file in <project>/matt-stack-plugins and constructs
// its auditor. A broken plugin is logged and skipped; it never aborts the
// run. A missing plugin directory yields nil.
func Load(cfg auditor.Config) []auditor.Auditor {
	dir := filepath.Join(cfg.ProjectPath, Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".so") || strings.HasPrefix(name, "_") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)

	var auditors []auditor.Auditor
	for _, path := range paths {
		a, err := loadOne(path, cfg)
		if err != nil {
			logging.Logger.Warnw("skipping plugin", "plugin", filepath.Base(path), "error", err)
			continue
		}
		logging.Logger.Debugw("loaded plugin", "plugin", filepath.Base(path), "category", a.Category())
		auditors = append(auditors, a)
	}
	return auditors
}

func loadOne(path string, cfg auditor.Config) (auditor.Auditor, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	sym, err := p.Lookup("NewAuditor")
	if err != nil {
		return nil, err
	}
	construct, ok := sym.(func(auditor.Config) auditor.Auditor)
	if !ok {
		return nil, &symbolError{path: path}
	}
	return construct(cfg), nil
}

type symbolError struct {
	path string
}

func (e *symbolError) Error() string {
	return "NewAuditor has the wrong signature, want func(auditor.Config) auditor.Auditor"
}
