// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/docket-tui/internal/ui/styles"
	"github.com/jeranaias/docket-tui/internal/util"
)

// KeyHint is one key binding shown in the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: key hints on the left, a transient status
// message on the right.
func StatusBar(theme *styles.Theme, width int, hints []KeyHint, status string) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, theme.StatusKey.Render(h.Key)+" "+h.Desc)
	}
	left := strings.Join(parts, "  ")

	line := left
	if status != "" {
		line = left + "  " + status
	}
	return theme.StatusBar.Width(width).Render(util.TruncateWidth(line, width-2))
}
