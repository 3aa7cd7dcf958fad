package cmd

import (
	"github.com/msto63/jackc/internal/analyzer/service"
	"github.com/msto63/jackc/internal/tui/treeviewer"
	"github.com/msto63/jackc/pkg/core/logging"
	"github.com/spf13/cobra"
)

var viewOpts analyzerOptions

var viewCmd = &cobra.Command{
	Use:   "view FILE",
	Short: "Browse the parse tree of a Jack file",
	Long: `Opens a full-screen viewer with the parse tree of FILE. When the file
does not parse, the partial tree is shown together with the error.

Keys:
  t           switch between tree and token stream
  r           reload the file
  Up/Down     scroll
  PgUp/PgDn   page
  g / G       top / bottom
  q / Ctrl+C  quit`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewOpts.register(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	svc, err := newService(viewOpts, func(c *service.Config) {
		// the terminal belongs to the viewer
		c.Logger = logging.Discard()
	})
	if err != nil {
		return err
	}
	cfg := svc.Config()
	return treeviewer.Run(treeviewer.Config{
		Path:     args[0],
		Style:    cfg.Style,
		Annotate: cfg.Annotate,
		Service:  svc,
	})
}
