// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docket-tui/internal/api"
	"github.com/jeranaias/docket-tui/internal/model"
)

// sendCmd posts a question, creating the session first when none is active.
// Session creation and message send are sequential, never concurrent.
func sendCmd(client *api.Client, sessionID, question string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		created := false
		title := ""
		if sessionID == "" {
			session, err := client.CreateSession(ctx, model.SessionTitle(question))
			if err != nil {
				return classifySendFailure(err)
			}
			sessionID = session.ID
			title = session.Title
			created = true
		}

		reply, err := client.SendMessage(ctx, sessionID, question)
		if err != nil {
			return classifySendFailure(err)
		}

		return replyMsg{
			sessionID: sessionID,
			title:     title,
			created:   created,
			reply: model.Message{
				ID:        reply.ID,
				SessionID: reply.SessionID,
				Role:      model.Role(reply.Role),
				Content:   reply.Content,
				Citations: reply.Sources(),
				CreatedAt: reply.CreatedAt,
			},
		}
	}
}

// classifySendFailure maps a send error to its transcript behavior: expiry is
// swallowed and routed to the shell, transport failures degrade to the fixed
// fallback reply, everything else surfaces as a status-line error.
func classifySendFailure(err error) tea.Msg {
	if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrNoCredential) {
		return SessionExpiredMsg{}
	}
	if api.IsTransport(err) {
		fallback := model.NewFallbackMessage()
		return sendFailedMsg{fallback: &fallback}
	}
	return sendFailedMsg{errText: err.Error()}
}

// loadSessionCmd fetches a session's transcript.
func loadSessionCmd(client *api.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		wire, err := client.ListMessages(context.Background(), sessionID)
		if err != nil {
			if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrNoCredential) {
				return SessionExpiredMsg{}
			}
			return loadFailedMsg{errText: err.Error()}
		}

		messages := make([]model.Message, 0, len(wire))
		for _, msg := range wire {
			messages = append(messages, model.Message{
				ID:        msg.ID,
				SessionID: msg.SessionID,
				Role:      model.Role(msg.Role),
				Content:   msg.Content,
				Citations: msg.Sources(),
				CreatedAt: msg.CreatedAt,
			})
		}
		return transcriptLoadedMsg{sessionID: sessionID, messages: messages}
	}
}
