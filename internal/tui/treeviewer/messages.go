package treeviewer

import (
	"github.com/msto63/jackc/internal/jack/parser"
)

// sourceLoadedMsg carries the analysis of the viewed file. tree and
// tokens hold partial output when their error is set.
type sourceLoadedMsg struct {
	tree      string
	stats     parser.Stats
	treeErr   error
	tokens    string
	tokenN    int
	tokensErr error
	// err is set when the file could not be read at all.
	err error
}

// reloadMsg asks for the file to be analyzed again
type reloadMsg struct{}
