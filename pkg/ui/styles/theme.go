// Package styles provides the shared theme for the agentchat UI so every pane
// draws with the same palette.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent color (purple)
	ColorAccent = lipgloss.Color("141")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")

	// Message roles
	ColorUser      = lipgloss.Color("117")
	ColorAssistant = lipgloss.Color("219")

	// Code/syntax colors
	ColorCode        = lipgloss.Color("213")
	ColorCodeBg      = lipgloss.Color("235")
	ColorPlaceholder = lipgloss.Color("240")

	// Border colors
	ColorBorder      = lipgloss.Color("141") // Focused pane (matches accent)
	ColorBorderMuted = lipgloss.Color("62")  // Unfocused pane
)

// Pane styles
var (
	// PaneStyle frames the focused pane
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// PaneStyleMuted frames a pane without focus
	PaneStyleMuted = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderMuted)
)

// Text styles
var (
	// TitleStyle for pane titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// TextStyle for normal text
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// TextMutedStyle for secondary/helper text
	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// TextBoldStyle for emphasized text
	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	UserLabelStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	AssistantLabelStyle = lipgloss.NewStyle().
				Foreground(ColorAssistant).
				Bold(true)

	// ThinkingStyle for the in-flight indicator
	ThinkingStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Italic(true)
)

// Selection and highlighting
var (
	// SelectedStyle for the highlighted row of a list
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorAccent).
			Bold(true)

	// ActiveStyle marks the active conversation when the list has no focus
	ActiveStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// Feedback styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// FooterStyle for footer/help text
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// CodeStyle for fenced code blocks
var CodeStyle = lipgloss.NewStyle().
	Foreground(ColorCode).
	Background(ColorCodeBg)

// Starter prompt styles
var (
	StarterBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99"))

	StarterKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")).
			Bold(true)

	StarterHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("248"))

	// VersionStyle for version info (dimmed)
	VersionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)
