package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tallhamn/sortdeps/internal/report"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadAndMerge(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[sort]
insert_blank_lines = false

[files]
skip_hidden_and_build_dirs = false
build_file_regex = "^.*\\.gradle(\\.kts)?$"

[run]
jobs = 3
context = "gradle"
verify = true

[log]
level = "info"
dir = "tmp/sortdeps"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	opts := Defaults()
	Merge(&opts, cfg, map[string]bool{})

	if opts.InsertBlankLines {
		t.Error("InsertBlankLines should be false from config")
	}
	if opts.SkipHiddenAndBuildDirs {
		t.Error("SkipHiddenAndBuildDirs should be false from config")
	}
	if opts.BuildFileRegex != `^.*\.gradle(\.kts)?$` {
		t.Errorf("BuildFileRegex: got %q", opts.BuildFileRegex)
	}
	if opts.Jobs != 3 {
		t.Errorf("Jobs: want 3, got %d", opts.Jobs)
	}
	if opts.Context != "gradle" {
		t.Errorf("Context: want gradle, got %q", opts.Context)
	}
	if !opts.Verify {
		t.Error("Verify should be true from config")
	}
	if opts.LogLevel != "info" || opts.LogDir != "tmp/sortdeps" {
		t.Errorf("log: got level %q dir %q", opts.LogLevel, opts.LogDir)
	}
}

func TestMerge_CLIFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[sort]
insert_blank_lines = false

[run]
jobs = 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	opts := Defaults()
	opts.Jobs = 8
	Merge(&opts, cfg, map[string]bool{"insert-blank-lines": true, "jobs": true})

	if !opts.InsertBlankLines {
		t.Error("CLI flag should override insert_blank_lines")
	}
	if opts.Jobs != 8 {
		t.Errorf("CLI flag should override jobs, got %d", opts.Jobs)
	}
}

func TestMerge_UnsetKeysKeepDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[run]\ncontext = \"gradle\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	opts := Defaults()
	Merge(&opts, cfg, nil)

	want := Defaults()
	want.Context = "gradle"
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}

func TestMerge_NilConfig(t *testing.T) {
	opts := Defaults()
	Merge(&opts, nil, nil)
	if opts != Defaults() {
		t.Error("nil config changed options")
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[sort]\nblank_lines = true\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "sort.blank_lines") {
		t.Errorf("want unknown key error, got %v", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[sort\n")
	if _, err := Load(path); err == nil {
		t.Error("want decode error")
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "app", "src")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(sub); got != "" {
		t.Errorf("found %q before one was written", got)
	}

	want := writeConfig(t, root, "")
	if got := FindConfigFile(sub); got != want {
		t.Errorf("FindConfigFile = %q, want %q", got, want)
	}
}

func TestFindConfigFile_StopsAtRepoRoot(t *testing.T) {
	outer := t.TempDir()
	writeConfig(t, outer, "")
	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(repo); got != "" {
		t.Errorf("lookup crossed the repository root: %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"defaults", func(*Options) {}, ""},
		{"check mode", func(o *Options) { o.Mode = report.ModeCheck }, ""},
		{"bad mode", func(o *Options) { o.Mode = "fix" }, "--mode"},
		{"bad report", func(o *Options) { o.Report = "xml" }, "--report"},
		{"zero jobs", func(o *Options) { o.Jobs = 0 }, "--jobs"},
		{"bad regex", func(o *Options) { o.BuildFileRegex = "(" }, "--build-file-regex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Defaults()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("want error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFinderOptions(t *testing.T) {
	opts := Defaults()
	opts.BuildFileRegex = `^deps.*`
	f, err := opts.Finder()
	if err != nil {
		t.Fatal(err)
	}
	if !f.SkipHiddenAndBuildDirs {
		t.Error("skip should default to true")
	}
	if f.BuildFileRegex == nil || !f.BuildFileRegex.MatchString("deps.gradle") {
		t.Error("regex not compiled")
	}
}
