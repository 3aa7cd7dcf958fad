package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/msto63/jackc/internal/analyzer/server"
	"github.com/spf13/cobra"
)

var (
	remoteOpts    analyzerOptions
	remoteAddr    string
	remoteTokens  bool
	remoteTimeout time.Duration
)

var remoteCmd = &cobra.Command{
	Use:   "remote FILE",
	Short: "Analyze a file on a running jackc service",
	Long: `Sends FILE to a jackc service started with 'jackc serve' and prints the
returned parse tree, or the token stream with --tokens.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemote,
}

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteOpts.register(remoteCmd)
	remoteCmd.Flags().StringVar(&remoteAddr, "addr", "", "service address (default from config)")
	remoteCmd.Flags().BoolVar(&remoteTokens, "tokens", false, "request the token stream instead of the tree")
	remoteCmd.Flags().DurationVar(&remoteTimeout, "timeout", 10*time.Second, "request timeout")
}

func runRemote(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	addr := remoteAddr
	if addr == "" {
		addr = appConfig.ServerAddress()
	}
	client, err := server.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	req := server.AnalyzeRequest{
		Source:   string(src),
		Name:     filepath.Base(args[0]),
		Style:    remoteOpts.style,
		Annotate: remoteOpts.annotate,
	}
	var resp *server.AnalyzeResponse
	if remoteTokens {
		resp, err = client.Tokenize(ctx, req)
	} else {
		resp, err = client.Analyze(ctx, req)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), resp.XML)
	return nil
}
