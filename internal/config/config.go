// Package config holds the run options of sortdeps and loads them from
// .sortdeps.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/tallhamn/sortdeps/internal/finder"
	"github.com/tallhamn/sortdeps/internal/report"
	"github.com/tallhamn/sortdeps/internal/sorter"
)

// FileName is the name looked up by FindConfigFile.
const FileName = ".sortdeps.toml"

// Options is everything a run needs, after flags and the config file have
// been merged.
type Options struct {
	Mode                   report.Mode
	InsertBlankLines       bool
	SkipHiddenAndBuildDirs bool
	BuildFileRegex         string
	Jobs                   int
	// Context names the caller, e.g. "gradle", and shapes the fix hint.
	Context   string
	Diff      bool
	DryRun    bool
	Verify    bool
	Report    string
	Verbosity int
	Quiet     bool
	LogLevel  string
	LogFile   string
	LogDir    string
	// ConfigFile overrides the config lookup.
	ConfigFile string
}

// Defaults returns the options of a run with no flags and no config file.
func Defaults() Options {
	return Options{
		Mode:                   report.ModeSort,
		InsertBlankLines:       sorter.DefaultConfig().InsertBlankLines,
		SkipHiddenAndBuildDirs: finder.DefaultOptions().SkipHiddenAndBuildDirs,
		Jobs:                   runtime.GOMAXPROCS(0),
		Report:                 "text",
		LogLevel:               "debug",
	}
}

// Validate rejects option values no run can use.
func (o *Options) Validate() error {
	if o.Mode != report.ModeSort && o.Mode != report.ModeCheck {
		return fmt.Errorf("--mode must be \"sort\" or \"check\", got %q", o.Mode)
	}
	if o.Report != "text" && o.Report != "json" {
		return fmt.Errorf("--report must be \"text\" or \"json\", got %q", o.Report)
	}
	if o.Jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", o.Jobs)
	}
	if _, err := o.Finder(); err != nil {
		return err
	}
	return nil
}

// Sorter returns the sorter configuration.
func (o *Options) Sorter() sorter.Config {
	return sorter.Config{InsertBlankLines: o.InsertBlankLines}
}

// Finder returns the discovery options, compiling the build file regex.
func (o *Options) Finder() (finder.Options, error) {
	opts := finder.Options{SkipHiddenAndBuildDirs: o.SkipHiddenAndBuildDirs}
	if o.BuildFileRegex != "" {
		re, err := regexp.Compile(o.BuildFileRegex)
		if err != nil {
			return opts, fmt.Errorf("invalid --build-file-regex: %w", err)
		}
		opts.BuildFileRegex = re
	}
	return opts, nil
}

// Config represents the .sortdeps.toml configuration file. Unset keys are
// nil so that they never override a default.
type Config struct {
	Sort  ConfigSort  `toml:"sort"`
	Files ConfigFiles `toml:"files"`
	Run   ConfigRun   `toml:"run"`
	Log   ConfigLog   `toml:"log"`
}

// ConfigSort holds the [sort] section: how blocks are rewritten.
type ConfigSort struct {
	InsertBlankLines *bool `toml:"insert_blank_lines"`
}

// ConfigFiles holds the [files] section: which build scripts are found.
type ConfigFiles struct {
	SkipHiddenAndBuildDirs *bool   `toml:"skip_hidden_and_build_dirs"`
	BuildFileRegex         *string `toml:"build_file_regex"`
}

// ConfigRun holds the [run] section.
type ConfigRun struct {
	Jobs    *int    `toml:"jobs"`
	Context *string `toml:"context"`
	Verify  *bool   `toml:"verify"`
}

// ConfigLog holds the [log] section. Dir receives a timestamped log file
// per run.
type ConfigLog struct {
	Level *string `toml:"level"`
	Dir   *string `toml:"dir"`
}

// FindConfigFile walks up from dir looking for .sortdeps.toml and stops at
// the repository root (the directory containing .git).
func FindConfigFile(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads and parses a .sortdeps.toml file. Unknown keys are an error.
func Load(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return &cfg, nil
}

// Merge applies config file values to opts, except for options whose flag
// is in setFlags.
func Merge(opts *Options, cfg *Config, setFlags map[string]bool) {
	if cfg == nil {
		return
	}

	if cfg.Sort.InsertBlankLines != nil && !setFlags["insert-blank-lines"] {
		opts.InsertBlankLines = *cfg.Sort.InsertBlankLines
	}

	if cfg.Files.SkipHiddenAndBuildDirs != nil && !setFlags["skip-hidden-and-build-dirs"] {
		opts.SkipHiddenAndBuildDirs = *cfg.Files.SkipHiddenAndBuildDirs
	}
	if cfg.Files.BuildFileRegex != nil && !setFlags["build-file-regex"] {
		opts.BuildFileRegex = *cfg.Files.BuildFileRegex
	}

	if cfg.Run.Jobs != nil && !setFlags["jobs"] {
		opts.Jobs = *cfg.Run.Jobs
	}
	if cfg.Run.Context != nil && !setFlags["context"] {
		opts.Context = *cfg.Run.Context
	}
	if cfg.Run.Verify != nil && !setFlags["verify"] {
		opts.Verify = *cfg.Run.Verify
	}

	if cfg.Log.Level != nil && !setFlags["log-level"] {
		opts.LogLevel = *cfg.Log.Level
	}
	if cfg.Log.Dir != nil && !setFlags["log-dir"] {
		opts.LogDir = *cfg.Log.Dir
	}
}
