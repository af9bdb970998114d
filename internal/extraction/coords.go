package extraction

// PixelRect is an absolute rectangle in rendered-image pixels.
type PixelRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MapToPixels converts a normalized bounding polygon into an axis-aligned
// pixel rectangle for a rendered page of the given dimensions. The polygon
// must carry exactly four vertices; anything else yields nil. Vertex order is
// not assumed, the rectangle is the min/max envelope of the four points.
func MapToPixels(poly *BoundingPoly, containerWidth, containerHeight float64) *PixelRect {
	if poly == nil || len(poly.NormalizedVertices) != 4 {
		return nil
	}

	minX, maxX := poly.NormalizedVertices[0].X, poly.NormalizedVertices[0].X
	minY, maxY := poly.NormalizedVertices[0].Y, poly.NormalizedVertices[0].Y
	for _, v := range poly.NormalizedVertices[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}

	return &PixelRect{
		Left:   minX * containerWidth,
		Top:    minY * containerHeight,
		Width:  (maxX - minX) * containerWidth,
		Height: (maxY - minY) * containerHeight,
	}
}

// Highlight maps an entity's anchor to pixels for the page currently on
// screen. Returns nil when the entity is unanchored, anchored to a different
// page, or its polygon is malformed, so a stale highlight never survives a
// page switch.
func Highlight(entity *Entity, currentPage int, containerWidth, containerHeight float64) *PixelRect {
	if entity == nil || entity.PageAnchor == nil || len(entity.PageAnchor.PageRefs) == 0 {
		return nil
	}
	if entity.UIPage() != currentPage {
		return nil
	}
	return MapToPixels(entity.PageAnchor.PageRefs[0].BoundingPoly, containerWidth, containerHeight)
}

// HighlightLineItem is the line-item counterpart of Highlight.
func HighlightLineItem(item *LineItem, currentPage int, containerWidth, containerHeight float64) *PixelRect {
	if item == nil || item.PageAnchor == nil || len(item.PageAnchor.PageRefs) == 0 {
		return nil
	}
	if item.UIPage() != currentPage {
		return nil
	}
	return MapToPixels(item.PageAnchor.PageRefs[0].BoundingPoly, containerWidth, containerHeight)
}
