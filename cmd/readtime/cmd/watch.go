package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nick-skriabin/readtime/internal/document"
	"github.com/nick-skriabin/readtime/internal/importer"
	"github.com/nick-skriabin/readtime/internal/outline"
	"github.com/nick-skriabin/readtime/internal/render"
	"github.com/nick-skriabin/readtime/internal/session"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

var (
	watchWPM    float64
	watchFormat string
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a file and reprint reading times on every save",
	Long: `Watch keeps a document open and reprints its annotated heading tree
whenever the file changes on disk. Rapid saves are coalesced into a
single recompute.

Example:
  readtime watch draft.md
  readtime watch --format range draft.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		content, err := importer.Load(path)
		if err != nil {
			return err
		}

		name := filepath.Base(path)
		cfg := resolveTimelineConfig(watchWPM, watchFormat)
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		r := render.New(os.Stdout, noColor)

		doc := document.New(uuid.New().String(), name, importer.KindFor(path), content)
		redraw := func(tl *timeline.Timeline) {
			snap := doc.Snapshot()
			headings := outline.NewMarkdown().Outline([]byte(snap.Content()))
			fmt.Fprintf(os.Stdout, "\n-- %s\n", time.Now().Format("15:04:05"))
			r.Outline(name, headings, tl)
		}

		sess := session.New(doc.ID(), doc, cfg, log, session.Options{
			Debounce: fileCfg.DebounceDuration(),
			OnPass:   redraw,
		})
		defer sess.Close()

		if sess.Recompute() == nil {
			fmt.Fprintln(os.Stdout, "no annotatable sections, watching for changes")
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		// Watch the parent directory: editors that save by rename drop
		// a watch held on the file itself.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		sess.Start(ctx)

		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				content, err := importer.Load(path)
				if err != nil {
					log.Warn("reload failed", "path", path, "error", err)
					continue
				}
				sess.Changed(content)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warn("watch error", "error", err)
			}
		}
	},
}

func init() {
	watchCmd.Flags().Float64Var(&watchWPM, "wpm", 0, "reading rate in words per minute")
	watchCmd.Flags().StringVar(&watchFormat, "format", "", "annotation format: full, range, or short")
	rootCmd.AddCommand(watchCmd)
}
