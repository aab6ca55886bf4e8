// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components holds small render helpers shared by the TUI views.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docket-tui/internal/ui/styles"
	"github.com/jeranaias/docket-tui/internal/util"
)

// Header renders the one-line application header: brand on the left, the
// signed-in identity on the right.
func Header(theme *styles.Theme, width int, viewTitle, identity string) string {
	left := theme.Header.Render("docket") + theme.Muted.Render(" | "+viewTitle)
	right := theme.Muted.Render(identity)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return util.TruncateWidth(left, width)
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}
