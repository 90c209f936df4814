package codegen

import (
	"context"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/skosovsky/toolview/schemasource"
)

// DefaultOutput is where a generation run writes unless WithOutput overrides it.
const DefaultOutput = "toolsgen/tools_gen.go"

// Fetcher returns the tools schema document. *schemasource.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context) (*schemasource.Document, error)
}

// Option configures Generate.
type Option func(*options)

type options struct {
	output string
	pkg    string
	logger *slog.Logger
}

// WithOutput sets the output file path (default DefaultOutput).
func WithOutput(path string) Option {
	return func(o *options) {
		o.output = path
	}
}

// WithPackage sets the package name of the generated file. By default it is the
// name of the output file's directory.
func WithPackage(name string) Option {
	return func(o *options) {
		o.pkg = name
	}
}

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Result summarizes a successful generation run.
type Result struct {
	Path    string
	Package string
	Tools   []string // tools with an output schema, in source order
	Skipped []string // tools without an output schema
	Types   int      // number of generated record types
	Bytes   int
}

// Generate runs the whole pipeline: fetch, compile every tool with an output schema in
// document order, emit, and atomically replace the output file. Nothing is written
// unless every step succeeds.
func Generate(ctx context.Context, src Fetcher, opts ...Option) (*Result, error) {
	o := options{output: DefaultOutput}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.pkg == "" {
		o.pkg = packageFromPath(o.output)
	}

	doc, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{Path: o.output, Package: o.pkg}
	var compiled []*ToolTypes
	for _, tool := range doc.Tools {
		if tool.Output == nil {
			o.logger.Info("skipping tool without output schema", "tool", tool.Name)
			res.Skipped = append(res.Skipped, tool.Name)
			continue
		}
		tt, err := Compile(tool.Name, tool.Output)
		if err != nil {
			return nil, err
		}
		o.logger.Debug("compiled tool output", "tool", tool.Name, "type", tt.Primary, "decls", len(tt.Decls))
		compiled = append(compiled, tt)
		res.Tools = append(res.Tools, tool.Name)
		res.Types += len(tt.Decls)
	}
	out, err := Emit(o.pkg, compiled)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(o.output, out, 0o644); err != nil {
		return nil, err
	}
	res.Bytes = len(out)
	o.logger.Info("generated tool types", "path", o.output, "tools", len(res.Tools), "types", res.Types)
	return res, nil
}

// packageFromPath derives a package name from the directory holding path.
func packageFromPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	name := strings.ToLower(filepath.Base(filepath.Dir(abs)))
	name = strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, name)
	if !token.IsIdentifier(name) {
		return "toolsgen"
	}
	return name
}

// writeFileAtomic writes data to a temporary file next to path and renames it over
// path, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temporary file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
