package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msto63/jackc/internal/analyzer/server"
	"github.com/msto63/jackc/internal/analyzer/service"
	"github.com/msto63/jackc/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	serveOpts       analyzerOptions
	serveHost       string
	servePort       int
	serveReflection bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analyzer as a gRPC service",
	Long: `Starts the jackc.v1.Analyzer gRPC service together with the standard
gRPC health service.

Examples:
  jackc serve                  # 127.0.0.1:9310 from config
  jackc serve --port 9400 --reflection`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveOpts.register(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
	serveCmd.Flags().BoolVar(&serveReflection, "reflection", false, "enable gRPC server reflection")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.New("serve")

	svc, err := newService(serveOpts, func(c *service.Config) {
		c.Logger = logging.New("analyzer")
	})
	if err != nil {
		return err
	}

	cfg := server.ConfigFrom(appConfig.Server)
	if serveHost != "" {
		cfg.GRPC.Host = serveHost
	}
	if servePort != 0 {
		cfg.GRPC.Port = servePort
	}
	cfg.GRPC.EnableReflection = cfg.GRPC.EnableReflection || serveReflection

	hist, err := openHistory()
	if err != nil {
		logger.Warn("History store unavailable", "error", err.Error())
	} else if hist != nil {
		defer hist.Close()
		cfg.History = hist
	}

	srv, err := server.New(svc, cfg)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	go srv.WatchHealth(ctx, 30*time.Second)

	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("jackc analyzer")+" "+mutedStyle.Render("listening on "+srv.Address()))

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Shutting down", "signal", sig.String())
	}
	cancel()
	srv.Stop(10 * time.Second)
	return nil
}
