// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     treeviewer
// Description: Styles for the tree viewer TUI
// Author:      Mike Stoffels
// Created:     2025-12-11
// License:     MIT
// ============================================================================

package treeviewer

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorAccent    = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500

	// Token category colors
	ColorKeyword    = lipgloss.Color("#C084FC") // Purple 400
	ColorSymbol     = lipgloss.Color("#94A3B8") // Slate 400
	ColorIdentifier = lipgloss.Color("#38BDF8") // Sky 400
	ColorInteger    = lipgloss.Color("#FBBF24") // Amber 400
	ColorString     = lipgloss.Color("#34D399") // Emerald 400
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)
)

// Tree styles
var (
	NonTerminalStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)

	KeywordStyle    = lipgloss.NewStyle().Foreground(ColorKeyword).Bold(true)
	SymbolStyle     = lipgloss.NewStyle().Foreground(ColorSymbol)
	IdentifierStyle = lipgloss.NewStyle().Foreground(ColorIdentifier)
	IntegerStyle    = lipgloss.NewStyle().Foreground(ColorInteger)
	StringStyle     = lipgloss.NewStyle().Foreground(ColorString)

	AttrStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Italic(true)
)

// Panel styles
var (
	TreePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	ErrorPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Foreground(ColorError).
			Padding(0, 1)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StatusFailedStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	ModeStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Logo
const Logo = "jackc view"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// tagStyle picks the style of a tag by its name. Non-terminals are dimmed.
func tagStyle(tag string) lipgloss.Style {
	switch tag {
	case "keyword":
		return KeywordStyle
	case "symbol":
		return SymbolStyle
	case "identifier":
		return IdentifierStyle
	case "integerConstant":
		return IntegerStyle
	case "stringConstant":
		return StringStyle
	default:
		return NonTerminalStyle
	}
}
