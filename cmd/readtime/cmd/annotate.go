package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nick-skriabin/readtime/internal/document"
	"github.com/nick-skriabin/readtime/internal/importer"
	"github.com/nick-skriabin/readtime/internal/outline"
	"github.com/nick-skriabin/readtime/internal/render"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

var (
	annotateWPM     float64
	annotateFormat  string
	annotateOutline bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <file>...",
	Short: "Annotate a document's headers with reading time offsets",
	Long: `Annotate reads a document, splits it into sections by header, and
prints it back with a reading time annotation on every header row.

With --outline, prints just the heading tree instead of the full
document.

Example:
  readtime annotate README.md
  readtime annotate --outline --format short notes.md
  readtime annotate --wpm 180 paper.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := render.New(os.Stdout, noColor)
		cfg := resolveTimelineConfig(annotateWPM, annotateFormat)

		for i, path := range args {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			if err := annotateOne(r, cfg, path); err != nil {
				return err
			}
		}
		return nil
	},
}

func annotateOne(r *render.Renderer, cfg timeline.Config, path string) error {
	content, err := importer.Load(path)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	var headings []outline.Heading
	if importer.KindFor(path) == document.KindMarkdown {
		headings = outline.NewMarkdown().Outline([]byte(content))
	}
	tl := timeline.Compute(headings, document.SplitLines(content), cfg)

	if annotateOutline {
		r.Outline(name, headings, tl)
		return nil
	}
	doc := document.New("", name, importer.KindFor(path), content)
	r.Document(doc.Snapshot(), tl)
	return nil
}

func init() {
	annotateCmd.Flags().Float64Var(&annotateWPM, "wpm", 0, "reading rate in words per minute")
	annotateCmd.Flags().StringVar(&annotateFormat, "format", "", "annotation format: full, range, or short")
	annotateCmd.Flags().BoolVar(&annotateOutline, "outline", false, "print the heading tree instead of the document")
	rootCmd.AddCommand(annotateCmd)
}
