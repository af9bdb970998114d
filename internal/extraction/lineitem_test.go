package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleLineItem(t *testing.T) {
	parent := Entity{
		ID:          "li-1",
		Type:        "line_item",
		MentionText: "2 Widget 10.00 20.00",
		Confidence:  0.91,
		PageAnchor:  anchored(0),
		Properties: []Entity{
			{Type: "line_item/quantity", MentionText: "2", Confidence: 0.95},
			{Type: "line_item/description", MentionText: "Widget", Confidence: 0.88},
			{Type: "line_item/unit_price", MentionText: "10.00", Confidence: 0.90},
			{Type: "line_item/amount", MentionText: "20.00", Confidence: 0.93},
		},
	}

	item := AssembleLineItem(parent)
	assert.Equal(t, "li-1", item.ID)
	assert.Equal(t, 0.91, item.Confidence)
	require.Len(t, item.Properties, 4)
	assert.Equal(t, "Widget", item.PropertyText("description"))
	assert.Equal(t, "2", item.PropertyText("quantity"))
	assert.Equal(t, 0.93, item.Properties["amount"].Confidence)
	assert.Equal(t, 1, item.UIPage())
}

func TestAssembleLineItemIgnoresMalformedProperty(t *testing.T) {
	parent := Entity{
		ID:   "li-2",
		Type: "line_item",
		Properties: []Entity{
			{Type: "quantity", MentionText: "2"},
			{Type: "line_item/", MentionText: "dangling"},
			{Type: "line_item/amount", MentionText: "20.00"},
		},
	}

	item := AssembleLineItem(parent)
	require.Len(t, item.Properties, 1)
	assert.Equal(t, "20.00", item.PropertyText("amount"))
}

func TestAssembleLineItemNoProperties(t *testing.T) {
	item := AssembleLineItem(Entity{ID: "li-3", Type: "line_item"})
	assert.NotNil(t, item.Properties)
	assert.Empty(t, item.Properties)
	assert.Equal(t, "", item.PropertyText("description"))
}

func TestPropertyKey(t *testing.T) {
	assert.Equal(t, "li-1_amount", PropertyKey("li-1", "amount"))
}
