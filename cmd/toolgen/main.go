// Command toolgen fetches the tool schema document from a running tool server and
// writes the typed tool outputs as Go source.
//
//	TOOLS_SCHEMA_URL=http://localhost:8000 toolgen --out toolsgen/tools_gen.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skosovsky/toolview/codegen"
	"github.com/skosovsky/toolview/schemasource"
)

type flags struct {
	url     string
	out     string
	pkg     string
	timeout time.Duration
	verbose bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗")+" "+err.Error())
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "toolgen",
		Short: "Generate Go types for tool outputs",
		Long: `toolgen downloads the tool schema document (GET <url>/tools-schema) and
generates one Go type per tool output schema, a tool name registry and a
Renderers struct for type-safe dispatch.

The base URL comes from --url, then $` + schemasource.EnvBaseURL + `, then ` + schemasource.DefaultBaseURL + `.
The output file is replaced only when every tool compiles.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().StringVar(&f.url, "url", os.Getenv(schemasource.EnvBaseURL), "schema source base URL")
	cmd.Flags().StringVarP(&f.out, "out", "o", codegen.DefaultOutput, "output file")
	cmd.Flags().StringVarP(&f.pkg, "package", "p", "", "package name (default: output directory name)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "fetch timeout")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log every compiled tool")
	return cmd
}

func run(ctx context.Context, f flags, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	src, err := schemasource.New(f.url, schemasource.WithLogger(logger))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	opts := []codegen.Option{codegen.WithOutput(f.out), codegen.WithLogger(logger)}
	if f.pkg != "" {
		opts = append(opts, codegen.WithPackage(f.pkg))
	}
	res, err := codegen.Generate(ctx, src, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s wrote %s (package %s): %d tools, %d types, %d bytes\n",
		color.GreenString("✓"), res.Path, res.Package, len(res.Tools), res.Types, res.Bytes)
	if len(res.Tools) > 0 {
		fmt.Fprintf(stdout, "  tools:   %s\n", strings.Join(res.Tools, ", "))
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(stdout, "  %s %s\n", color.YellowString("skipped:"), strings.Join(res.Skipped, ", "))
	}
	return nil
}
