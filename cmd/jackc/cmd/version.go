package cmd

import (
	"fmt"
	"runtime"

	"github.com/msto63/jackc/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "jackc v%s\n", version.Tool)
		fmt.Fprintf(out, "  Analyzer API: %s\n", version.AnalyzerAPI)
		fmt.Fprintf(out, "  History:      %s\n", version.HistorySchema)
		fmt.Fprintf(out, "  Git Commit:   %s\n", version.GitCommit)
		fmt.Fprintf(out, "  Build Date:   %s\n", version.BuildDate)
		fmt.Fprintf(out, "  Go Version:   %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
