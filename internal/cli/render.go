package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/pipeline"
)

// renderCommand creates the render command that turns a layout.json into
// DOT, SVG or PNG.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a computed layout to DOT, SVG or PNG",
		Long: `Render a computed layout to DOT, SVG or PNG.

Node positions are taken from the layout as is; Graphviz only draws the
boxes and routes the edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			if slices.Contains(formats, pipeline.FormatJSON) {
				return fmt.Errorf("%s is already a JSON layout; choose dot, svg or png", args[0])
			}
			return c.runRender(cmd.Context(), args[0], formats, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender reads the layout, renders every format and writes the files.
func (c *CLI) runRender(ctx context.Context, input string, formats []string, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	status := io.Discard
	if isatty.IsTerminal(os.Stderr.Fd()) {
		status = os.Stderr
	}
	spinner := newRenderSpinner(status, formats)
	spinner.Start(ctx)

	artifacts := make(map[string][]byte, len(formats))
	hit := true
	for i, format := range formats {
		spinner.Advance(i)
		out, cached, err := runner.RenderWithCacheInfo(ctx, l, pipeline.Options{Formats: []string{format}})
		if err != nil {
			spinner.Fail(format)
			return fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = out[format]
		hit = hit && cached
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	var paths []string
	for _, format := range formats {
		path := renderPath(input, output, format, len(formats) > 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Nodes), len(l.Edges), hit)
	return nil
}

// renderPath picks the output file for one format. Without an explicit
// output the layout's name is reused: foo.layout.json becomes foo.svg.
func renderPath(input, output, format string, multi bool) string {
	if output != "" {
		if !multi {
			return output
		}
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".layout")
	return base + "." + format
}
