// Command dtscheck parses and analyzes device tree source files and
// prints the findings as annotated source snippets.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dts-tools/go-dts-lsp/internal/analysis"
	"github.com/dts-tools/go-dts-lsp/internal/config"
	"github.com/dts-tools/go-dts-lsp/internal/dts"
	"github.com/dts-tools/go-dts-lsp/internal/render"
)

var (
	configPath string
	noColor    bool
)

func main() {
	root := &cobra.Command{
		Use:   "dtscheck [flags] file...",
		Short: "Check device tree source files",
		Long: `dtscheck parses and analyzes device tree source files and reports
syntax and semantic issues. It exits non-zero when any finding has
error severity.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVar(&configPath, "severity-config", "", "TOML file overriding diagnostic severities")
	root.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dtscheck: %v\n", err)
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	severities := dts.DefaultSeverities()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		severities = loaded
	}

	snapshots := make([]*analysis.Snapshot, len(args))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			snapshots[i] = analysis.Analyze(string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printer := render.NewPrinter(os.Stdout, !noColor)

	total := 0
	failed := false
	for i, path := range args {
		diags := dts.ApplySeverities(snapshots[i].Diagnostics(), severities)
		for _, diag := range diags {
			printer.PrintDiagnostic(path, snapshots[i], diag)
		}
		total += len(diags)
		if dts.HasErrors(diags) {
			failed = true
		}
	}

	if total == 0 {
		fmt.Println("OK; no issues found")
	}
	if failed {
		os.Exit(1)
	}
	return nil
}
