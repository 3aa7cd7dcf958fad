package cmd

import (
	"path/filepath"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/internal/analyzer/service"
	"github.com/msto63/jackc/internal/analyzer/store"
	"github.com/msto63/jackc/internal/jack/parser"
	"github.com/msto63/jackc/pkg/core/config"
	"github.com/msto63/jackc/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jackc",
	Short: "jackc - Jack syntax analyzer",
	Long: `jackc tokenizes and parses programs written in the Jack language and
writes their parse trees as tagged XML.

Commands:
  analyze  - parse files or directories into tree files
  tokens   - print the token stream of a file
  view     - browse a parse tree in the terminal
  history  - inspect recorded analysis runs
  serve    - run the analyzer as a gRPC service
  remote   - analyze a file on a running service`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $JACKC_CONFIG or ./jackc.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json, console, logfmt")
}

// setup loads the configuration and installs the process logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	format := cfg.General.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	lc := logging.DefaultLoggerConfig(cfg.General.Name)
	lc.Level = level
	lc.Format = format
	logging.Setup(lc)
	return nil
}

// analyzerOptions are the flags shared by commands that run the analyzer.
type analyzerOptions struct {
	style    string
	annotate bool
}

func (o *analyzerOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.style, "style", "", "tree style: full or course (default from config)")
	cmd.Flags().BoolVar(&o.annotate, "annotate", false, "add kind, index and usage attributes to identifiers")
}

// newService builds the analyzer service from the configuration, with the
// shared flags applied on top.
func newService(opts analyzerOptions, mutate func(*service.Config)) (*service.Service, error) {
	cfg, err := service.ConfigFrom(appConfig.Analyzer)
	if err != nil {
		return nil, err
	}
	if opts.style != "" {
		if cfg.Style, err = parser.ParseStyle(opts.style); err != nil {
			return nil, mdwerror.Wrap(err, "invalid --style").WithCode(mdwerror.CodeInvalidInput)
		}
	}
	cfg.Annotate = cfg.Annotate || opts.annotate
	if mutate != nil {
		mutate(&cfg)
	}
	return service.NewService(cfg)
}

// openHistory opens the history database. It returns nil when history is
// disabled in the configuration.
func openHistory() (store.Store, error) {
	if !appConfig.History.Enabled {
		return nil, nil
	}
	return openHistoryAt(appConfig.History.Path)
}

func openHistoryAt(path string) (store.Store, error) {
	if path == "" {
		path = filepath.Join(appConfig.General.DataDir, "history.db")
	}
	s, err := store.NewSQLiteStore(store.SQLiteConfig{Path: path})
	if err != nil {
		return nil, err
	}
	return s, nil
}
