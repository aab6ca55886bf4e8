// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Citation is a retrieved source passage attached to an assistant reply.
// Type is "legal" for official sources and "document" for the user's own
// uploads; URL is only present for official sources.
type Citation struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url,omitempty"`
}

// CitationKey is the default key extractor for DedupeBy: the URL when one is
// present, empty otherwise. Entries without a key are never merged.
func CitationKey(c Citation) string {
	return c.URL
}

// DedupeBy removes duplicate citations, keeping the first occurrence of each
// key and preserving order. Entries whose key is empty are always kept.
// Running it on an already-deduplicated list returns an equal list.
func DedupeBy(citations []Citation, key func(Citation) string) []Citation {
	if len(citations) == 0 {
		return citations
	}
	seen := make(map[string]struct{}, len(citations))
	out := make([]Citation, 0, len(citations))
	for _, c := range citations {
		k := key(c)
		if k == "" {
			out = append(out, c)
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

// DedupeCitations deduplicates by URL. See DedupeBy.
func DedupeCitations(citations []Citation) []Citation {
	return DedupeBy(citations, CitationKey)
}
