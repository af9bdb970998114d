package extraction

import "strings"

// Property is one named sub-field of a line item.
type Property struct {
	Text       string
	Confidence float64
}

// LineItem is a line_item parent entity merged with its child properties.
// It owns copies of the property values, not references into the source
// entity slice. No property key is guaranteed present; consumers treat
// quantity, description, unit_price and amount as optional.
type LineItem struct {
	ID          string
	MentionText string
	Confidence  float64
	PageAnchor  *PageAnchor
	Properties  map[string]Property
}

// AssembleLineItem merges a line_item entity with its children. The property
// name is the segment after the slash in the child type (line_item/amount ->
// amount); a child type without a slash is malformed and ignored.
func AssembleLineItem(parent Entity) LineItem {
	item := LineItem{
		ID:          parent.ID,
		MentionText: parent.MentionText,
		Confidence:  parent.Confidence,
		PageAnchor:  parent.PageAnchor,
		Properties:  map[string]Property{},
	}
	for _, prop := range parent.Properties {
		_, name, ok := strings.Cut(prop.Type, "/")
		if !ok || name == "" {
			continue
		}
		item.Properties[name] = Property{
			Text:       prop.MentionText,
			Confidence: prop.Confidence,
		}
	}
	return item
}

// UIPage mirrors Entity.UIPage for assembled line items.
func (li LineItem) UIPage() int {
	if li.PageAnchor == nil || len(li.PageAnchor.PageRefs) == 0 {
		return 1
	}
	return int(li.PageAnchor.PageRefs[0].Page) + 1
}

// PropertyKey builds the override/validation key for a line-item sub-field.
func PropertyKey(lineItemID, property string) string {
	return lineItemID + "_" + property
}

// PropertyText returns the raw text of a property, or "" when absent.
func (li LineItem) PropertyText(name string) string {
	return li.Properties[name].Text
}
