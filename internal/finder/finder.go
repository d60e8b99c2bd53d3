// Package finder discovers Gradle build scripts under a set of search paths.
package finder

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Options controls discovery.
type Options struct {
	// SkipHiddenAndBuildDirs prunes directories whose name starts with "."
	// and directories named "build".
	SkipHiddenAndBuildDirs bool
	// BuildFileRegex additionally accepts any *.gradle or *.gradle.kts file
	// whose base name matches. Nil accepts only build.gradle(.kts).
	BuildFileRegex *regexp.Regexp
}

// DefaultOptions skips hidden and build directories.
func DefaultOptions() Options {
	return Options{SkipHiddenAndBuildDirs: true}
}

// IsBuildScript reports whether a file name is a build script under opts.
func IsBuildScript(name string, opts Options) bool {
	if name == "build.gradle" || name == "build.gradle.kts" {
		return true
	}
	if opts.BuildFileRegex == nil {
		return false
	}
	if !strings.HasSuffix(name, ".gradle") && !strings.HasSuffix(name, ".gradle.kts") {
		return false
	}
	return opts.BuildFileRegex.MatchString(name)
}

// Find resolves each search path against root and returns the build scripts
// found, de-duplicated and sorted. A path naming a build script is taken as
// is; a directory is walked. Paths that do not exist are ignored.
func Find(root string, searchPaths []string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	var found []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			found = append(found, path)
		}
	}

	for _, p := range searchPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		p = filepath.Clean(p)

		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if IsBuildScript(filepath.Base(p), opts) {
				add(p)
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && opts.SkipHiddenAndBuildDirs && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsBuildScript(d.Name(), opts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(found)
	return found, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "build"
}
