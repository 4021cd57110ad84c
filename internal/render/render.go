// Package render prepares model output for display. It does not touch
// the network or the store.
package render

import (
	"strings"

	"ooad-assistant/internal/models"
)

type SegmentKind string

const (
	SegmentProse SegmentKind = "prose"
	SegmentCode  SegmentKind = "code"
)

// Segment is one displayable block: markdown prose or a fenced code
// block with the fence markers removed.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text"`
}

// Split breaks a response into segments. Only code-category responses
// containing fence markers are split; everything else renders as a
// single prose segment.
func Split(content string, category models.AgentCategory) []Segment {
	if category != models.AgentCode || !strings.Contains(content, "```") {
		return []Segment{{Kind: SegmentProse, Text: content}}
	}

	var segments []Segment
	for i, part := range strings.Split(content, "```") {
		if i%2 == 0 {
			if strings.TrimSpace(part) == "" {
				continue
			}
			segments = append(segments, Segment{Kind: SegmentProse, Text: part})
		} else {
			segments = append(segments, Segment{Kind: SegmentCode, Text: part})
		}
	}
	return segments
}
