package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skosovsky/toolview/terminal"
)

type renderFlags struct {
	maxRows   int
	cellWidth int
	barWidth  int
}

func newRenderCmd(logger func() *slog.Logger) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render tool results found in chat messages",
		Long: `render reads a stream of JSON values from file (or stdin). Each value is a
message with a "parts" array or a single part. Tool parts with output are drawn
with the renderer registered for their tool; other parts are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}
			r := terminal.New(
				terminal.WithMaxRows(f.maxRows),
				terminal.WithCellWidth(f.cellWidth),
				terminal.WithBarWidth(f.barWidth),
			)
			return render(in, cmd.OutOrStdout(), r, logger())
		},
	}
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 20, "SQL rows drawn per result")
	cmd.Flags().IntVar(&f.cellWidth, "cell-width", 32, "maximum table cell width")
	cmd.Flags().IntVar(&f.barWidth, "bar-width", 30, "width of the longest chart bar")
	return cmd
}

// message is one chat message; only its parts matter here.
type message struct {
	Parts []json.RawMessage `json:"parts"`
}

func render(in io.Reader, out io.Writer, r *terminal.Renderer, logger *slog.Logger) error {
	renderers := r.Renderers()
	if missing := renderers.Missing(); len(missing) > 0 {
		logger.Warn("tools without a renderer", "tools", missing)
	}
	table := r.NewTable(logger)

	dec := json.NewDecoder(in)
	for n := 1; ; n++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("value %d: %w", n, err)
		}
		for _, view := range table.RenderMessage(partsOf(raw)) {
			fmt.Fprintln(out, view)
			fmt.Fprintln(out)
		}
	}
}

// partsOf returns the parts of a message, or the value itself as a single part.
// Parts stay raw so the extractor decodes their numbers exactly.
func partsOf(raw json.RawMessage) []any {
	var m message
	if err := json.Unmarshal(raw, &m); err == nil && m.Parts != nil {
		parts := make([]any, len(m.Parts))
		for i, p := range m.Parts {
			parts[i] = p
		}
		return parts
	}
	return []any{raw}
}
