// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docket TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTE
// =============================================================================

// Emerald - brand color, user messages, success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Purple - assistant messages, selections
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - info, links, key hints
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Rose - errors, danger states
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - warnings, pending states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Surface colors
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#1E293B"}
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#334155"}

// Text colors
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E2E8F0"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#94A3B8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#64748B"}

// Message bubbles
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#0F172A"}
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#D1FAE5", Dark: "#34D399"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E2E8F0"}
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F5F3FF", Dark: "#1E293B"}

// =============================================================================
// THEME
// =============================================================================

// Theme bundles the prebuilt styles the views share.
type Theme struct {
	Header      lipgloss.Style
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	Title       lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	UserMsg     lipgloss.Style
	AssistMsg   lipgloss.Style
	SystemMsg   lipgloss.Style
	CiteTag     lipgloss.Style
	CiteDocTag  lipgloss.Style
	Link        lipgloss.Style
	Selected    lipgloss.Style
	Unselected  lipgloss.Style
	InputBorder lipgloss.Style
}

// NewTheme builds the default theme.
func NewTheme() *Theme {
	return &Theme{
		Header: lipgloss.NewStyle().
			Foreground(Emerald).
			Bold(true).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(TextSecondary).
			Background(SurfaceDim).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(Cyan),
		Title: lipgloss.NewStyle().
			Foreground(TextPrimary).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(TextSecondary).
			Width(14),
		Muted: lipgloss.NewStyle().
			Foreground(TextMuted),
		Error: lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(Emerald).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true),
		UserMsg: lipgloss.NewStyle().
			Foreground(UserBubbleFg).
			Background(UserBubbleBg).
			Padding(0, 1),
		AssistMsg: lipgloss.NewStyle().
			Foreground(AssistantBubbleFg).
			Background(AssistantBubbleBg).
			Padding(0, 1),
		SystemMsg: lipgloss.NewStyle().
			Foreground(Amber).
			Italic(true),
		CiteTag: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),
		CiteDocTag: lipgloss.NewStyle().
			Foreground(Purple).
			Bold(true),
		Link: lipgloss.NewStyle().
			Foreground(Cyan).
			Underline(true),
		Selected: lipgloss.NewStyle().
			Foreground(Emerald).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(TextSecondary),
		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Overlay).
			Padding(0, 1),
	}
}

// =============================================================================
// STATUS MARKERS
// ASCII markers give a shape cue beyond color.
// =============================================================================

// RenderSuccess renders a bold success line with the [OK] marker.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).Render("[OK] " + message)
}

// RenderError renders a bold error line with the [X] marker.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).Render("[X] " + message)
}

// RenderWarning renders a bold warning line with the [!] marker.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).Render("[!] " + message)
}

// RenderInfo renders an info line with the [i] marker.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Cyan).Render("[i] " + message)
}
