package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare() *BoundingPoly {
	return &BoundingPoly{NormalizedVertices: []Vertex{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}}
}

func TestMapToPixelsUnitSquare(t *testing.T) {
	rect := MapToPixels(unitSquare(), 800, 600)
	require.NotNil(t, rect)
	assert.Equal(t, PixelRect{Left: 0, Top: 0, Width: 800, Height: 600}, *rect)
}

func TestMapToPixelsPartialRegion(t *testing.T) {
	poly := &BoundingPoly{NormalizedVertices: []Vertex{
		{X: 0.1, Y: 0.2}, {X: 0.5, Y: 0.2}, {X: 0.5, Y: 0.4}, {X: 0.1, Y: 0.4},
	}}

	rect := MapToPixels(poly, 1000, 500)
	require.NotNil(t, rect)
	assert.InDelta(t, 100, rect.Left, 1e-9)
	assert.InDelta(t, 100, rect.Top, 1e-9)
	assert.InDelta(t, 400, rect.Width, 1e-9)
	assert.InDelta(t, 100, rect.Height, 1e-9)
}

func TestMapToPixelsUnorderedVertices(t *testing.T) {
	poly := &BoundingPoly{NormalizedVertices: []Vertex{
		{X: 0.5, Y: 0.4}, {X: 0.1, Y: 0.2}, {X: 0.1, Y: 0.4}, {X: 0.5, Y: 0.2},
	}}

	rect := MapToPixels(poly, 1000, 500)
	require.NotNil(t, rect)
	assert.InDelta(t, 100, rect.Left, 1e-9)
	assert.InDelta(t, 400, rect.Width, 1e-9)
}

func TestMapToPixelsRejectsMalformedPoly(t *testing.T) {
	assert.Nil(t, MapToPixels(nil, 800, 600))
	assert.Nil(t, MapToPixels(&BoundingPoly{}, 800, 600))
	assert.Nil(t, MapToPixels(&BoundingPoly{NormalizedVertices: []Vertex{{}, {}, {}}}, 800, 600))
	assert.Nil(t, MapToPixels(&BoundingPoly{NormalizedVertices: []Vertex{{}, {}, {}, {}, {}}}, 800, 600))
}

func TestHighlightPageGate(t *testing.T) {
	entity := &Entity{
		ID: "e1",
		PageAnchor: &PageAnchor{PageRefs: []PageRef{
			{Page: 1, BoundingPoly: unitSquare()},
		}},
	}

	assert.Nil(t, Highlight(entity, 1, 800, 600))
	rect := Highlight(entity, 2, 800, 600)
	require.NotNil(t, rect)
	assert.Equal(t, float64(800), rect.Width)
}

func TestHighlightUnanchored(t *testing.T) {
	assert.Nil(t, Highlight(&Entity{ID: "e1"}, 1, 800, 600))
	assert.Nil(t, Highlight(nil, 1, 800, 600))
}

func TestHighlightLineItem(t *testing.T) {
	item := AssembleLineItem(Entity{
		ID:   "li-1",
		Type: "line_item",
		PageAnchor: &PageAnchor{PageRefs: []PageRef{
			{Page: 0, BoundingPoly: unitSquare()},
		}},
	})

	require.NotNil(t, HighlightLineItem(&item, 1, 800, 600))
	assert.Nil(t, HighlightLineItem(&item, 2, 800, 600))
}
