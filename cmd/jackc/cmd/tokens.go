package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/msto63/jackc/internal/analyzer/service"
	"github.com/spf13/cobra"
)

var tokensOut string

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a Jack file",
	Long: `Tokenizes FILE and prints a <tokens> document with one terminal per
line, in the format of the course's FooT.xml files.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().StringVarP(&tokensOut, "out", "o", "", "write to this file instead of stdout")
}

func runTokens(cmd *cobra.Command, args []string) error {
	src, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	var dst io.Writer = cmd.OutOrStdout()
	if tokensOut != "" {
		f, err := os.Create(tokensOut)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}

	n, err := service.WriteTokens(src, dst)
	if err != nil {
		return err
	}
	if tokensOut != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("%d tokens written to %s", n, tokensOut)))
	}
	return nil
}
