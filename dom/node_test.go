package dom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrsMarshalPreservesOrder(t *testing.T) {
	a := Attrs{
		{Name: "z-index", Value: "9"},
		{Name: "href", Value: "https://example.com/?q=a&r=b"},
		{Name: "class", Value: "btn primary"},
		{Name: "data-empty", Value: ""},
	}
	out, err := json.Marshal(a)
	require.NoError(t, err)
	// encoding/json HTML-escapes & in string values.
	assert.Equal(t,
		`{"z-index":"9","href":"https://example.com/?q=a\u0026r=b","class":"btn primary","data-empty":""}`,
		string(out))

	var back Attrs
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, a, back)
}

func TestAttrsMarshalEmpty(t *testing.T) {
	out, err := json.Marshal(Attrs{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestAttrsUnmarshalRejectsNonObject(t *testing.T) {
	var a Attrs
	assert.Error(t, json.Unmarshal([]byte(`["href"]`), &a))
	assert.Error(t, json.Unmarshal([]byte(`"href"`), &a))
}

func TestDomNodeJSONShape(t *testing.T) {
	n := &DomNode{
		TagName:       "a",
		Attributes:    Attrs{{Name: "href", Value: "/x"}},
		XPath:         "html/body/a",
		IsVisible:     true,
		IsInteractive: true,
		IsTopElement:  true,
		InteractiveID: "L1",
		Children: []*DomNode{
			{Type: TextNodeType, Text: "go", IsVisible: true},
		},
	}
	out, err := json.Marshal(n)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "a", m["tagName"])
	assert.Equal(t, "L1", m["interactiveId"])
	assert.NotContains(t, m, "type", "element nodes carry no type marker")
	assert.NotContains(t, m, "shadowRoot")

	child := m["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "TEXT_NODE", child["type"])
	assert.Equal(t, "go", child["text"])
	assert.Equal(t, true, child["isVisible"])
	assert.NotContains(t, child, "tagName")
}

func TestDomNodeIsVisibleAlwaysEmitted(t *testing.T) {
	out, err := json.Marshal(&DomNode{TagName: "div"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"isVisible":false`)
}

func TestInteractiveNodesTraversalOrder(t *testing.T) {
	root := &DomNode{
		TagName: "body",
		Children: []*DomNode{
			{TagName: "a", InteractiveID: "L1"},
			{TagName: "div", Children: []*DomNode{
				{TagName: "button", InteractiveID: "B1"},
			}},
			{TagName: "a", InteractiveID: "L2"},
		},
	}
	var ids []string
	for _, n := range root.InteractiveNodes() {
		ids = append(ids, n.InteractiveID)
	}
	assert.Equal(t, []string{"L1", "B1", "L2"}, ids)

	assert.Equal(t, "button", root.ByInteractiveID("B1").TagName)
	assert.Nil(t, root.ByInteractiveID("B9"))
}
