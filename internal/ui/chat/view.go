// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docket-tui/internal/model"
)

// markdownRenderer renders assistant replies. Nil when initialization fails;
// content then falls back to plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	markdownRenderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	return sb.String()
}

func (m Model) statusLine() string {
	switch {
	case m.errMsg != "":
		return m.theme.Error.Render(m.errMsg)
	case m.state == StateSending:
		return m.spin.View() + " " + m.theme.Muted.Render("Thinking...")
	case m.state == StateLoading:
		return m.spin.View() + " " + m.theme.Muted.Render("Loading session...")
	default:
		return m.theme.Muted.Render("enter send  pgup/pgdn scroll  esc sessions  ctrl+c quit")
	}
}

// syncViewport re-renders the transcript into the viewport.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}

func (m Model) renderMessages() string {
	if len(m.messages) == 0 {
		return m.renderWelcome()
	}

	var sb strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg))
	}
	return sb.String()
}

func (m Model) renderWelcome() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(m.theme.Title.Render("Ready when you are."))
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.Muted.Render("Ask about work hours, stamps, PPS numbers, tax, or everyday life admin."))
	sb.WriteString("\n")
	sb.WriteString(m.theme.Muted.Render(`Try: "Can I work more than 20 hours on Stamp 2?"`))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderMessage(msg model.Message) string {
	var sb strings.Builder

	switch msg.Role {
	case model.RoleUser:
		sb.WriteString(m.theme.UserMsg.Render(msg.Role.DisplayName()))
		sb.WriteString("\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	case model.RoleAssistant:
		sb.WriteString(m.theme.AssistMsg.Render(msg.Role.DisplayName()))
		sb.WriteString("\n")
		sb.WriteString(renderMarkdown(msg.Content))
		sb.WriteString(m.renderCitations(msg.Citations))
	default:
		sb.WriteString(m.theme.SystemMsg.Render(msg.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderCitations renders deduplicated sources under an assistant reply.
func (m Model) renderCitations(citations []model.Citation) string {
	citations = model.DedupeCitations(citations)
	if len(citations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.theme.Muted.Render(fmt.Sprintf("Sources (%d):", len(citations))))
	sb.WriteString("\n")

	for _, c := range citations {
		tag := m.theme.CiteDocTag.Render("[Your Document]")
		if c.Type == "legal" {
			tag = m.theme.CiteTag.Render("[Legal]")
		}
		sb.WriteString("  " + tag + " " + c.Title + "\n")
		if c.Snippet != "" {
			sb.WriteString(m.theme.Muted.Render(`    "`+c.Snippet+`"`) + "\n")
		}
		if c.URL != "" {
			sb.WriteString("    " + m.theme.Link.Render(c.URL) + "\n")
		}
	}
	return sb.String()
}

func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content + "\n"
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

func trimmedInput(s string) string {
	return strings.TrimSpace(s)
}
