package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/jackc/internal/analyzer/service"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
)

func statusBadge(st service.Status) string {
	switch st {
	case service.StatusOK:
		return okStyle.Render("[ok]    ")
	case service.StatusFailed:
		return errorStyle.Render("[failed]")
	default:
		return skippedStyle.Render("[skip]  ")
	}
}

// relPath shortens path relative to root for display.
func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && rel != "." {
		return rel
	}
	return path
}

// printSummary writes one line per file and a closing total.
func printSummary(w io.Writer, s *service.Summary, quiet bool) {
	for _, r := range s.Results {
		if quiet && r.Status == service.StatusOK {
			continue
		}
		line := fmt.Sprintf("%s %s", statusBadge(r.Status), relPath(s.Root, r.Source))
		if r.Status == service.StatusOK {
			line += mutedStyle.Render(fmt.Sprintf("  %d tokens  %v", r.Tokens, r.Duration.Round(time.Microsecond)))
		}
		fmt.Fprintln(w, line)
		if r.Err != nil && r.Status == service.StatusFailed {
			fmt.Fprintln(w, "         "+errorStyle.Render(r.Err.Error()))
		}
	}

	total := fmt.Sprintf("%d files: %d ok, %d failed, %d skipped in %v",
		len(s.Results), s.Succeeded, s.Failed, s.Skipped, s.Duration.Round(time.Millisecond))
	if s.Failed > 0 {
		fmt.Fprintln(w, errorStyle.Render(total))
	} else {
		fmt.Fprintln(w, titleStyle.Render(total))
	}
	if s.RunID != "" {
		fmt.Fprintln(w, mutedStyle.Render("run "+s.RunID))
	}
}
