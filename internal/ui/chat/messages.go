// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/jeranaias/docket-tui/internal/model"

// SessionExpiredMsg tells the shell the session died mid-action. The gateway
// has already cleared the credential; the shell navigates to login and shows
// nothing else.
type SessionExpiredMsg struct{}

// SessionStartedMsg reports that the first send created a new session, so the
// sidebar can refresh.
type SessionStartedMsg struct {
	SessionID string
	Title     string
}

// replyMsg carries the assistant reply for a sent message.
type replyMsg struct {
	sessionID string
	title     string
	created   bool
	reply     model.Message
}

// sendFailedMsg reports a failed send. When fallback is non-nil the failure
// was transport-level and the fixed assistant reply is appended instead of an
// error; otherwise errText is shown in the status line.
type sendFailedMsg struct {
	fallback *model.Message
	errText  string
}

// transcriptLoadedMsg delivers a session's messages.
type transcriptLoadedMsg struct {
	sessionID string
	messages  []model.Message
}

// loadFailedMsg reports a failed transcript load.
type loadFailedMsg struct {
	errText string
}
