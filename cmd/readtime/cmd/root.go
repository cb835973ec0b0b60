package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nick-skriabin/readtime/internal/config"
	"github.com/nick-skriabin/readtime/internal/timeline"
)

var (
	cfgPath string
	noColor bool
	fileCfg config.FileConfig
)

var rootCmd = &cobra.Command{
	Use:   "readtime",
	Short: "Reading time annotations for markdown documents",
	Long: `readtime estimates how long each section of a document takes to read
and annotates headers with cumulative time offsets, like chapter
marks on a podcast.

It reads markdown natively and imports text, HTML, PDF, DOCX, and
CSV files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		fileCfg, err = config.LoadFile(cfgPath)
		if err != nil {
			return err
		}
		if fileCfg.NoColor {
			noColor = true
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "path to the config file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// resolveTimelineConfig layers flag overrides over the file config.
// Invalid flag values warn on stderr and keep the previous setting.
func resolveTimelineConfig(wpm float64, format string) timeline.Config {
	cfg := timeline.DefaultConfig()
	if fileCfg.WordsPerMinute > 0 {
		cfg.WordsPerMinute = fileCfg.WordsPerMinute
	}
	if f, err := timeline.ParseFormat(fileCfg.Format); err == nil {
		cfg.Format = f
	}

	if wpm != 0 {
		if wpm > 0 {
			cfg.WordsPerMinute = wpm
		} else {
			fmt.Fprintf(os.Stderr, "warning: words per minute must be positive, keeping %v\n", cfg.WordsPerMinute)
		}
	}
	if format != "" {
		if f, err := timeline.ParseFormat(format); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v, keeping %q\n", err, cfg.Format)
		} else {
			cfg.Format = f
		}
	}
	return cfg
}
