package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/devskills/pkg/lint"
	"github.com/jingkaihe/devskills/pkg/logger"
	"github.com/jingkaihe/devskills/pkg/presenter"
	"github.com/jingkaihe/devskills/skills"
)

type LintConfig struct {
	Dir          string
	Watch        bool
	JSONOutput   bool
	NoSections   bool
	DebounceTime int
}

func NewLintConfig() *LintConfig {
	return &LintConfig{
		Dir:          "",
		Watch:        false,
		JSONOutput:   false,
		NoSections:   false,
		DebounceTime: 500,
	}
}

var lintCmd = &cobra.Command{
	Use:   "lint [dir]",
	Short: "Check a skill corpus for structural problems",
	Long: `Run the structural checks over a corpus: parseable frontmatter with
the required keys (name, description, license, metadata.author,
metadata.version), semantic version strings, resolving internal links, and
the recommended section layout.

Without a directory argument the repository's skills directory is linted if
present, otherwise the corpus embedded in the binary. Exits non-zero when
error-severity findings exist.

Examples:
  devskills lint
  devskills lint ./my-skills
  devskills lint ./my-skills --watch
  devskills lint --json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getLintConfigFromFlags(cmd)
		if len(args) > 0 {
			config.Dir = args[0]
		}

		if config.Watch {
			runLintWatch(cmd.Context(), config)
			return
		}

		result := runLint(config)
		if result.HasErrors() {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewLintConfig()
	lintCmd.Flags().Bool("watch", defaults.Watch, "Re-lint whenever files in the corpus change")
	lintCmd.Flags().Bool("json", defaults.JSONOutput, "Emit findings as JSON")
	lintCmd.Flags().Bool("no-sections", defaults.NoSections, "Skip the recommended-sections check")
	lintCmd.Flags().Int("debounce", defaults.DebounceTime, "Watch debounce in milliseconds")
	rootCmd.AddCommand(lintCmd)
}

func getLintConfigFromFlags(cmd *cobra.Command) *LintConfig {
	config := NewLintConfig()
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	if jsonOutput, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSONOutput = jsonOutput
	}
	if noSections, err := cmd.Flags().GetBool("no-sections"); err == nil {
		config.NoSections = noSections
	}
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounce
	}
	return config
}

func newLinter(config *LintConfig) *lint.Linter {
	var opts []lint.Option
	if config.NoSections {
		opts = append(opts, lint.WithoutSectionCheck())
	}
	return lint.New(opts...)
}

func runLint(config *LintConfig) *lint.Result {
	linter := newLinter(config)

	var (
		result *lint.Result
		err    error
	)

	switch {
	case config.Dir != "":
		result, err = linter.LintDir(config.Dir)
	case dirExists("skills"):
		result, err = linter.LintDir("skills")
	default:
		result, err = linter.LintFS(skills.FS)
	}
	if err != nil {
		presenter.Error(err, "Lint run failed")
		os.Exit(1)
	}

	if config.JSONOutput {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to encode findings")
			os.Exit(1)
		}
		fmt.Println(string(out))
		return result
	}

	for _, f := range result.Findings {
		presenter.Finding(f)
	}
	presenter.LintSummary(result)

	return result
}

// runLintWatch re-lints the corpus whenever something under it
// changes, debouncing bursts of events from editors that write
// multiple times per save.
func runLintWatch(ctx context.Context, config *LintConfig) {
	if config.Dir == "" {
		if !dirExists("skills") {
			presenter.Error(fmt.Errorf("no corpus directory to watch"), "Pass a directory with --watch")
			os.Exit(1)
		}
		config.Dir = "skills"
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		os.Exit(1)
	}
	defer watcher.Close()

	if err := watchTree(watcher, config.Dir); err != nil {
		presenter.Error(err, "Failed to watch corpus")
		os.Exit(1)
	}

	presenter.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", config.Dir))
	runLint(config)

	debounce := time.Duration(config.DebounceTime) * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			presenter.Info("Stopping watch")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			logger.G(ctx).WithField("event", event.String()).Debug("corpus changed")

			// New skill directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if dirExists(event.Name) {
					_ = watchTree(watcher, event.Name)
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.G(ctx).WithError(err).Warn("watcher error")
		case <-pending:
			presenter.Separator()
			runLint(config)
		}
	}
}

func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
