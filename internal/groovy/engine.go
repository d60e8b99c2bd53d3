package groovy

import (
	"fmt"
	"os"

	"github.com/tallhamn/sortdeps/internal/sorter"
)

// Engine sorts the dependencies of one Groovy build script.
type Engine struct {
	*sorter.Script
	path string
}

// Of reads and sorts the script at path.
func Of(path string, cfg sorter.Config) (*Engine, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	e := OfSource(string(src), cfg)
	e.path = path
	return e, nil
}

// OfSource sorts a script held in memory.
func OfSource(src string, cfg sorter.Config) *Engine {
	root, ts, errs := Parse(src)
	return &Engine{Script: sorter.NewScript(root, ts, errs, cfg)}
}

// Path returns the file the engine was built from, or "" for in-memory
// scripts.
func (e *Engine) Path() string {
	return e.path
}
