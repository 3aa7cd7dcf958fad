package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/msto63/jackc/internal/analyzer/store"
	"github.com/spf13/cobra"
)

var (
	historyLimit     int
	historyStatus    string
	historyRoot      string
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded analysis runs",
	Long: `Lists, shows and prunes the runs recorded in the history database.

Recording is enabled with [history] enabled = true in the config file.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show the per-file results of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete finished runs older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	historyListCmd.Flags().StringVar(&historyStatus, "status", "", "only runs with this status")
	historyListCmd.Flags().StringVar(&historyRoot, "root", "", "only runs of this root")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "age limit (default: retention from config)")
}

// withHistory opens the database whether or not recording is enabled.
func withHistory(fn func(ctx context.Context, s store.Store) error) error {
	s, err := openHistoryAt(appConfig.History.Path)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(context.Background(), s)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withHistory(func(ctx context.Context, s store.Store) error {
		runs, err := s.ListRuns(ctx, store.RunFilter{
			Status: store.RunStatus(historyStatus),
			Root:   historyRoot,
			Limit:  historyLimit,
		})
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("no runs recorded"))
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tFILES\tOK\tFAILED\tDURATION\tROOT")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%v\t%s\n",
				r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status,
				r.Files, r.Succeeded, r.Failed, r.Duration().Round(time.Millisecond), r.Root)
		}
		return tw.Flush()
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withHistory(func(ctx context.Context, s store.Store) error {
		run, err := s.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		results, err := s.Results(ctx, run.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("run "+run.ID))
		fmt.Fprintf(out, "root %s  style %s  status %s  started %s\n\n",
			run.Root, run.Style, run.Status, run.StartedAt.Local().Format(time.RFC3339))

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STATUS\tSOURCE\tTOKENS\tDURATION\tERROR")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%v\t%s\n",
				r.Status, relPath(run.Root, r.Source), r.Tokens, r.Duration.Round(time.Microsecond), r.Error)
		}
		return tw.Flush()
	})
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	age := historyOlderThan
	if age == 0 {
		age = time.Duration(appConfig.History.RetentionDays) * 24 * time.Hour
	}
	return withHistory(func(ctx context.Context, s store.Store) error {
		n, err := s.Prune(ctx, age)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d runs older than %v deleted\n", n, age)
		return nil
	})
}
