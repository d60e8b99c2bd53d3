package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tallhamn/sortdeps/internal/config"
	"github.com/tallhamn/sortdeps/internal/report"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := config.Defaults()
	var mode string

	cmd := &cobra.Command{
		Use:   "sortdeps [flags] [PATH]...",
		Short: "Sort the dependencies blocks of Gradle build scripts",
		Long: `sortdeps finds build.gradle and build.gradle.kts files under the given
paths (default: the current directory) and orders the declarations of every
dependencies block by configuration, declaration kind and coordinates.

In check mode nothing is written; the command fails when a script is not
sorted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Mode = report.Mode(mode)

			setFlags := make(map[string]bool)
			cmd.Flags().Visit(func(f *pflag.Flag) {
				setFlags[f.Name] = true
			})

			configPath := opts.ConfigFile
			if configPath == "" {
				if wd, err := os.Getwd(); err == nil {
					configPath = config.FindConfigFile(wd)
				}
			}
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					fmt.Fprintf(stderr, "warning: failed to load config %s: %v\n", configPath, err)
				} else {
					config.Merge(&opts, cfg, setFlags)
				}
			}

			if err := opts.Validate(); err != nil {
				return &statusError{code: exitError, err: err}
			}

			if len(args) == 0 {
				args = []string{"."}
			}
			return run(cmd.Context(), opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintln(stderr, c.UsageString())
		return &statusError{code: exitError, err: err}
	})

	f := cmd.Flags()
	f.StringVar(&mode, "mode", string(opts.Mode), "sort rewrites scripts, check only reports them")
	f.BoolVar(&opts.InsertBlankLines, "insert-blank-lines", opts.InsertBlankLines, "Separate configuration groups with a blank line")
	f.BoolVar(&opts.SkipHiddenAndBuildDirs, "skip-hidden-and-build-dirs", opts.SkipHiddenAndBuildDirs, "Do not descend into hidden and build/ directories")
	f.StringVar(&opts.BuildFileRegex, "build-file-regex", "", "Also process *.gradle(.kts) files whose name matches")
	f.BoolVar(&opts.Diff, "diff", false, "Print a unified diff of each change")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Compute changes without writing")
	f.BoolVar(&opts.Verify, "verify", false, "Check that sorting kept every declaration and the script still parses")
	f.StringVar(&opts.Report, "report", opts.Report, "Summary format: text or json")
	f.IntVarP(&opts.Jobs, "jobs", "j", opts.Jobs, "Number of scripts processed in parallel")
	f.StringVar(&opts.Context, "context", "", "Caller context; \"gradle\" prints the Gradle task as the fix")
	f.CountVarP(&opts.Verbosity, "verbose", "v", "Log more (repeatable)")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Log nothing to stderr")
	f.StringVar(&opts.LogFile, "log-file", "", "Also write the log to this file")
	f.StringVar(&opts.LogDir, "log-dir", "", "Write the log to a timestamped file in this directory")
	f.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Level of the log file")
	f.StringVar(&opts.ConfigFile, "config", "", "Path to .sortdeps.toml (default: searched up to the repository root)")

	return cmd
}
