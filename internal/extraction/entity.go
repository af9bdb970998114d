// Package extraction turns the flat entity list returned by the document-AI
// service into structured, reviewable invoice data: per-page classification,
// line-item assembly, field resolution, value normalization, confidence
// aggregation, totals validation and highlight-coordinate mapping.
package extraction

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Vertex is a bounding-box corner in normalized page coordinates [0,1].
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingPoly carries the four normalized vertices of an entity span.
type BoundingPoly struct {
	NormalizedVertices []Vertex `json:"normalizedVertices"`
}

// PageIndex is the zero-based page number of a page ref. The processor
// encodes int64 fields as JSON strings, so both forms are accepted.
type PageIndex int64

func (p *PageIndex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*p = PageIndex(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PageIndex(n)
	return nil
}

// PageRef anchors an entity to a page and a region on it.
type PageRef struct {
	Page         PageIndex     `json:"page"`
	BoundingPoly *BoundingPoly `json:"boundingPoly,omitempty"`
}

// PageAnchor is the page-position anchor of an entity.
type PageAnchor struct {
	PageRefs []PageRef `json:"pageRefs"`
}

// Entity is one labeled, positioned, confidence-scored text span as returned
// by the extraction service. Immutable once decoded; the type field is a
// slash-delimited taxonomy string such as "line_item/description".
type Entity struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	MentionText string      `json:"mentionText"`
	Confidence  float64     `json:"confidence"`
	PageAnchor  *PageAnchor `json:"pageAnchor,omitempty"`
	Properties  []Entity    `json:"properties,omitempty"`
}

// UIPage converts the zero-based processor page number to the one-based page
// shown in the review UI. Unanchored entities default to page 1.
func (e Entity) UIPage() int {
	if e.PageAnchor == nil || len(e.PageAnchor.PageRefs) == 0 {
		return 1
	}
	return int(e.PageAnchor.PageRefs[0].Page) + 1
}

// Document is the extraction-service response consumed by the engine.
type Document struct {
	Text       string   `json:"text"`
	Entities   []Entity `json:"entities"`
	Confidence float64  `json:"confidence,omitempty"`
}
