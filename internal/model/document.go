// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"path/filepath"
	"strings"
)

// Document types accepted by the backend indexer.
const (
	DocTypePDF   = "pdf"
	DocTypeDocx  = "docx"
	DocTypeText  = "text"
	DocTypeOther = "other"
)

// DocTypeForPath maps a file path to the backend doc_type by extension.
func DocTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return DocTypePDF
	case ".docx":
		return DocTypeDocx
	case ".txt":
		return DocTypeText
	default:
		return DocTypeOther
	}
}

// TitleForPath derives a default upload title from a file path: the base name
// without its extension.
func TitleForPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
