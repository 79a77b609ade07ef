// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package citation

import (
	"regexp"
	"strconv"
)

// sourcePattern matches citation markers like "(source p.12)".
// Case-sensitive on the literal "source p." text; N is one or more digits.
var sourcePattern = regexp.MustCompile(`\(source p\.(\d+)\)`)

// =============================================================================
// SEGMENT TYPE
// =============================================================================

// Kind discriminates segment variants.
type Kind int

const (
	// KindText is a verbatim run of plain text.
	KindText Kind = iota

	// KindCitation is a page citation marker.
	KindCitation
)

// Segment is one piece of a parsed message: either plain text or a
// citation token. The zero value is an empty text segment.
type Segment struct {
	Kind Kind

	// Text holds the verbatim content for KindText segments, and the
	// original matched display text (e.g. "(source p.5)") for
	// KindCitation segments.
	Text string

	// Page and SourceID are set for KindCitation segments only.
	// SourceID is the stable section token "p" + page.
	Page     int
	SourceID string
}

// IsCitation reports whether the segment is a citation token.
func (s Segment) IsCitation() bool {
	return s.Kind == KindCitation
}

// =============================================================================
// PARSING
// =============================================================================

// Parse splits content into an ordered sequence of plain-text and citation
// segments, scanning left to right with non-overlapping matches.
//
// Text between and around markers is emitted verbatim. Content without any
// marker yields a single text segment equal to the input; empty content
// yields an empty sequence.
func Parse(content string) []Segment {
	if content == "" {
		return nil
	}

	matches := sourcePattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return []Segment{{Kind: KindText, Text: content}}
	}

	segments := make([]Segment, 0, len(matches)*2+1)
	last := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			segments = append(segments, Segment{Kind: KindText, Text: content[last:start]})
		}

		// The pattern guarantees digits, so Atoi cannot fail here.
		page, _ := strconv.Atoi(content[m[2]:m[3]])
		segments = append(segments, Segment{
			Kind:     KindCitation,
			Text:     content[start:end],
			Page:     page,
			SourceID: "p" + content[m[2]:m[3]],
		})

		last = end
	}

	if last < len(content) {
		segments = append(segments, Segment{Kind: KindText, Text: content[last:]})
	}

	return segments
}

// Citations returns only the citation segments of content, in order.
func Citations(content string) []Segment {
	var out []Segment
	for _, seg := range Parse(content) {
		if seg.IsCitation() {
			out = append(out, seg)
		}
	}
	return out
}

// Pages returns the distinct pages cited by content, in first-seen order.
func Pages(content string) []int {
	seen := make(map[int]bool)
	var pages []int
	for _, seg := range Citations(content) {
		if !seen[seg.Page] {
			seen[seg.Page] = true
			pages = append(pages, seg.Page)
		}
	}
	return pages
}
