// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package documents lists indexed documents and handles interactive uploads.
package documents

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/model"
	"github.com/jeranaias/docket-tui/internal/storage"
	"github.com/jeranaias/docket-tui/internal/ui/styles"
	"github.com/jeranaias/docket-tui/internal/util"
)

// =============================================================================
// TYPES
// =============================================================================

type listLoadedMsg struct{ docs []api.Document }

type listFailedMsg struct{ errText string }

type uploadDoneMsg struct {
	path   string
	result *api.UploadResult
}

type uploadFailedMsg struct {
	path    string
	errText string
}

// Mode selects between browsing the table and entering an upload path.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeUploadPath
)

// Model is the document manager state.
type Model struct {
	client *api.Client
	theme  *styles.Theme

	docs      []api.Document
	cursor    int
	mode      Mode
	pathInput textinput.Model
	loading   bool
	uploading bool
	status    string
	errMsg    string
	width     int
	height    int
}

// New builds an empty document manager. Call Reload to populate it.
func New(client *api.Client, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "/path/to/contract.pdf"
	input.Prompt = "> "
	input.CharLimit = 512

	return Model{client: client, theme: theme, pathInput: input}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Reload fetches the document list from the server.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	m.errMsg = ""
	client := m.client
	return func() tea.Msg {
		docs, err := client.ListDocuments(context.Background())
		if err != nil {
			return listFailedMsg{errText: err.Error()}
		}
		return listLoadedMsg{docs: docs}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pathInput.Width = msg.Width - 6
		return m, nil

	case listLoadedMsg:
		m.loading = false
		m.docs = msg.docs
		if m.cursor >= len(m.docs) {
			m.cursor = 0
		}
		return m, nil

	case listFailedMsg:
		m.loading = false
		m.errMsg = msg.errText
		return m, nil

	case uploadDoneMsg:
		m.uploading = false
		m.status = fmt.Sprintf("Uploaded %s (%d chunks indexed)",
			model.TitleForPath(msg.path), msg.result.ChunksIndexed)
		return m, m.Reload()

	case uploadFailedMsg:
		m.uploading = false
		m.errMsg = "Upload failed: " + msg.errText
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.mode == ModeUploadPath {
		switch msg.Type {
		case tea.KeyEsc:
			m.mode = ModeBrowse
			m.pathInput.Blur()
			return m, nil
		case tea.KeyEnter:
			return m.startUpload()
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.docs)-1 {
			m.cursor++
		}
	case "u":
		m.mode = ModeUploadPath
		m.status = ""
		m.errMsg = ""
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		return m, textinput.Blink
	case "r":
		return m, m.Reload()
	}
	return m, nil
}

func (m Model) startUpload() (Model, tea.Cmd) {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		return m, nil
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		m.errMsg = "Not a readable file: " + path
		return m, nil
	}

	m.mode = ModeBrowse
	m.pathInput.Blur()
	m.uploading = true
	m.errMsg = ""

	client := m.client
	return m, func() tea.Msg {
		result, err := client.UploadFile(context.Background(),
			path, model.TitleForPath(path), model.DocTypeForPath(path))
		if err != nil {
			return uploadFailedMsg{path: path, errText: err.Error()}
		}
		return uploadDoneMsg{path: path, result: result}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Documents"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.Muted.Render("Loading documents..."))
	case len(m.docs) == 0 && m.errMsg == "":
		b.WriteString(m.theme.Muted.Render("No documents yet. Press u to upload one."))
	default:
		b.WriteString(m.renderTable())
	}

	if m.mode == ModeUploadPath {
		b.WriteString("\n\n")
		b.WriteString(m.theme.Label.Render("Upload file"))
		b.WriteString("\n")
		b.WriteString(m.pathInput.View())
	}

	b.WriteString("\n\n")
	switch {
	case m.uploading:
		b.WriteString(m.theme.Muted.Render("Uploading..."))
	case m.errMsg != "":
		b.WriteString(m.theme.Error.Render(m.errMsg))
	case m.status != "":
		b.WriteString(m.theme.Success.Render(m.status))
	default:
		b.WriteString(m.theme.Muted.Render("u upload | r refresh"))
	}
	return b.String()
}

func (m Model) renderTable() string {
	titleWidth := m.width - 40
	if titleWidth < 20 {
		titleWidth = 20
	}

	var b strings.Builder
	header := fmt.Sprintf("  %s %s %s %s",
		util.PadRight("TITLE", titleWidth),
		util.PadRight("TYPE", 6),
		util.PadRight("STATUS", 10),
		"ADDED")
	b.WriteString(m.theme.Label.Render(header))
	b.WriteString("\n")

	for i, d := range m.docs {
		line := fmt.Sprintf("%s %s %s %s",
			util.PadRight(util.TruncateWidth(d.Title, titleWidth), titleWidth),
			util.PadRight(d.DocType, 6),
			util.PadRight(m.renderStatus(d.Status), 10),
			storage.RelativeTime(d.CreatedAt))
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("> " + line))
		} else {
			b.WriteString(m.theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatus(status string) string {
	switch status {
	case api.DocStatusUploaded:
		return "uploaded"
	case api.DocStatusIndexed:
		return "indexed"
	case api.DocStatusFailed:
		return "failed"
	default:
		return status
	}
}
