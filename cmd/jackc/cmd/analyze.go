package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/msto63/jackc/foundation/utils/filex"
	"github.com/msto63/jackc/internal/analyzer/service"
	"github.com/msto63/jackc/internal/analyzer/store"
	"github.com/msto63/jackc/internal/analyzer/watch"
	"github.com/msto63/jackc/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	analyzeOpts      analyzerOptions
	analyzeTokens    bool
	analyzeWorkers   int
	analyzeContinue  bool
	analyzeWatch     bool
	analyzeStdout    bool
	analyzeQuiet     bool
	analyzeNoHistory bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path...]",
	Short: "Parse Jack sources into tree files",
	Long: `Parses every .jack file below the given paths (default: the current
directory) and writes Foo.xml next to each Foo.jack.

By default the first failing file stops the run; files not yet started
are reported as skipped. Output written before a failure is kept.

Examples:
  jackc analyze Square/             # whole directory
  jackc analyze Main.jack --stdout  # print one tree
  jackc analyze . --tokens --style course
  jackc analyze src --watch         # re-analyze on change`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeOpts.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeTokens, "tokens", false, "also write the token stream (FooT.xml)")
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 0, "parallel files (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeContinue, "continue-on-error", false, "keep going after a failing file")
	analyzeCmd.Flags().BoolVar(&analyzeWatch, "watch", false, "keep running and re-analyze changed files")
	analyzeCmd.Flags().BoolVar(&analyzeStdout, "stdout", false, "print the tree of a single file instead of writing it")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "only report failures")
	analyzeCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "do not record this run")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) == 0 {
		args = []string{"."}
	}

	svc, closeFn, err := analyzeService(!analyzeNoHistory && !analyzeStdout)
	if err != nil {
		return err
	}
	defer closeFn()

	if analyzeStdout {
		return printTree(ctx, cmd, svc, args)
	}

	var firstErr error
	for _, root := range args {
		summary, err := svc.Run(ctx, root)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), summary, analyzeQuiet)
		if e := summary.Err(); e != nil && firstErr == nil {
			firstErr = e
		}
	}

	if analyzeWatch {
		return watchRoots(ctx, cmd, svc, args)
	}
	if firstErr != nil {
		return fmt.Errorf("analysis failed")
	}
	return nil
}

// analyzeService builds the service for analyze. The history store is
// opened when withHistory is set and history is enabled in the config.
func analyzeService(withHistory bool) (*service.Service, func(), error) {
	var hist store.Store
	if withHistory {
		h, err := openHistory()
		if err != nil {
			return nil, nil, err
		}
		hist = h
	}

	svc, err := newService(analyzeOpts, func(c *service.Config) {
		c.EmitTokens = c.EmitTokens || analyzeTokens
		c.ContinueOnError = c.ContinueOnError || analyzeContinue || analyzeWatch
		if analyzeWorkers > 0 {
			c.Workers = analyzeWorkers
		}
		if hist != nil {
			c.History = hist
		}
		c.Logger = logging.New("analyzer")
	})
	if err != nil {
		if hist != nil {
			hist.Close()
		}
		return nil, nil, err
	}
	return svc, func() {
		if hist != nil {
			hist.Close()
		}
	}, nil
}

func printTree(ctx context.Context, cmd *cobra.Command, svc *service.Service, args []string) error {
	if len(args) != 1 || !filex.IsFile(args[0]) {
		return fmt.Errorf("--stdout needs exactly one source file")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	cfg := svc.Config()
	tree, _, err := svc.AnalyzeSource(ctx, string(src), cfg.Style, cfg.Annotate)
	fmt.Fprint(cmd.OutOrStdout(), tree)
	return err
}

// watchRoots watches every directory argument until ctx is done.
func watchRoots(ctx context.Context, cmd *cobra.Command, svc *service.Service, roots []string) error {
	out := cmd.OutOrStdout()
	var watchers []*watch.Watcher
	for _, root := range roots {
		if !filex.IsDir(root) {
			continue
		}
		w, err := watch.New(svc, root, watch.Config{
			Debounce: appConfig.Watch.Debounce.Duration,
			OnResult: func(r service.Result) {
				fmt.Fprintf(out, "%s %s\n", statusBadge(r.Status), relPath(root, r.Source))
				if r.Err != nil {
					fmt.Fprintln(out, "         "+errorStyle.Render(r.Err.Error()))
				}
			},
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		watchers = append(watchers, w)
	}
	if len(watchers) == 0 {
		return fmt.Errorf("--watch needs at least one directory")
	}

	fmt.Fprintln(out, mutedStyle.Render("watching for changes, press Ctrl+C to stop"))
	for _, w := range watchers {
		<-w.Done()
	}
	return nil
}
