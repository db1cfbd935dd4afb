package dom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectTags(root *DomNode) []string {
	var tags []string
	var visit func(n *DomNode)
	visit = func(n *DomNode) {
		if n.TagName != "" {
			tags = append(tags, n.TagName)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
	return tags
}

func TestBuildSingleAnchor(t *testing.T) {
	a := el("a", at(10, 10, 100, 20), attr("href", "/home"), kids(txt("Home", 12, 12, 40, 16)))
	p := newPage(a)

	root, overlay, err := Build(p, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, "body", root.TagName)

	nodes := root.InteractiveNodes()
	require.Len(t, nodes, 1)
	anchor := nodes[0]
	assert.Equal(t, "a", anchor.TagName)
	assert.Equal(t, "L1", anchor.InteractiveID)
	assert.True(t, anchor.IsVisible)
	assert.True(t, anchor.IsInteractive)
	assert.True(t, anchor.IsTopElement)
	assert.False(t, anchor.IsEditable)
	assert.Equal(t, "html/body/a", anchor.XPath)

	v, ok := anchor.Attributes.Get("href")
	assert.True(t, ok)
	assert.Equal(t, "/home", v)

	require.Len(t, anchor.Children, 1)
	assert.Equal(t, TextNodeType, anchor.Children[0].Type)
	assert.Equal(t, "Home", anchor.Children[0].Text)

	require.NotNil(t, overlay)
	require.Len(t, overlay.Boxes, 1)
	assert.Equal(t, "L1", overlay.Boxes[0].ID, "the on-screen label shows the identifier")
	assert.Equal(t, "html/body/a", overlay.Boxes[0].XPath)
}

func TestBuildIdentifierSequence(t *testing.T) {
	p := newPage(
		el("a", at(10, 10, 100, 20)),
		el("button", at(10, 40, 100, 20)),
		el("a", at(10, 70, 100, 20)),
		el("input", at(10, 100, 100, 20)),
	)
	root, _, err := Build(p, DefaultOptions())
	require.NoError(t, err)

	var ids []string
	for _, n := range root.InteractiveNodes() {
		ids = append(ids, n.InteractiveID)
	}
	assert.Equal(t, []string{"L1", "B1", "L2", "I1"}, ids)

	input := root.ByInteractiveID("I1")
	require.NotNil(t, input)
	assert.True(t, input.IsEditable)
}

func TestBuildFocusElement(t *testing.T) {
	p := newPage(
		el("a", at(10, 10, 100, 20)),
		el("a", at(10, 40, 100, 20)),
		el("a", at(10, 70, 100, 20)),
	)

	opts := DefaultOptions()
	opts.FocusElement = 2
	root, overlay, err := Build(p, opts)
	require.NoError(t, err)

	// Focus narrows the overlay only; the tree still carries every
	// identifier.
	assert.Len(t, root.InteractiveNodes(), 3)
	require.NotNil(t, overlay)
	require.Len(t, overlay.Boxes, 1)
	assert.Equal(t, "L3", overlay.Boxes[0].ID)

	opts.FocusElement = 99
	_, overlay, err = Build(p, opts)
	require.NoError(t, err)
	assert.Empty(t, overlay.Boxes, "focus past the last ordinal highlights nothing")
}

func TestBuildHighlightsDisabled(t *testing.T) {
	p := newPage(el("a", at(10, 10, 100, 20)))
	opts := DefaultOptions()
	opts.HighlightElements = false
	root, overlay, err := Build(p, opts)
	require.NoError(t, err)
	assert.Nil(t, overlay)
	assert.Len(t, root.InteractiveNodes(), 1)
}

func TestBuildHiddenInteractive(t *testing.T) {
	hidden := el("div", at(10, 10, 100, 20), display("none"), attr("role", "button"))
	p := newPage(hidden, el("a", at(10, 40, 100, 20)))

	root, overlay, err := Build(p, DefaultOptions())
	require.NoError(t, err)

	var div *DomNode
	for _, c := range root.Children {
		if c.TagName == "div" {
			div = c
		}
	}
	require.NotNil(t, div, "hidden elements stay in the tree")
	assert.True(t, div.IsInteractive)
	assert.False(t, div.IsVisible)
	assert.Empty(t, div.InteractiveID, "no identifier without visibility")

	assert.Len(t, root.InteractiveNodes(), 1)
	require.Len(t, overlay.Boxes, 1)
	assert.Equal(t, "L1", overlay.Boxes[0].ID)
}

func TestBuildGateInvariant(t *testing.T) {
	p := newPage(
		el("a", at(10, 10, 100, 20)),
		el("div", at(10, 40, 100, 20)),
		el("button", at(10, 70, 100, 20), visCSS("hidden")),
		el("input", at(10, 5000, 100, 20)),
	)
	root, _, err := Build(p, DefaultOptions())
	require.NoError(t, err)

	var visit func(n *DomNode)
	visit = func(n *DomNode) {
		if n.InteractiveID != "" {
			assert.True(t, n.IsInteractive && n.IsVisible && n.IsTopElement,
				"%s carries %s without qualifying", n.TagName, n.InteractiveID)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
}

func TestBuildViewportExpansionSentinel(t *testing.T) {
	far := el("a", at(10, 5000, 100, 20))
	p := newPage(far)

	opts := DefaultOptions()
	root, _, err := Build(p, opts)
	require.NoError(t, err)
	assert.Empty(t, root.InteractiveNodes(), "off-viewport element excluded at expansion 0")

	opts.ViewportExpansion = -1
	root, _, err = Build(p, opts)
	require.NoError(t, err)
	require.Len(t, root.InteractiveNodes(), 1)
	assert.Equal(t, "L1", root.InteractiveNodes()[0].InteractiveID)
}

func TestBuildWhitespaceTextDropped(t *testing.T) {
	p := newPage(el("p", at(0, 0, 200, 20),
		kids(txt("  \n\t ", 0, 0, 10, 10), txt("  kept  ", 10, 0, 40, 16))))
	root, _, err := Build(p, DefaultOptions())
	require.NoError(t, err)

	para := root.Children[0]
	require.Len(t, para.Children, 1)
	assert.Equal(t, "kept", para.Children[0].Text, "text arrives trimmed")
}

func TestBuildDeniedTags(t *testing.T) {
	p := newPage(
		el("script", kids(txt("var x;", 0, 0, 10, 10))),
		el("style"), el("svg"), el("link"), el("meta"),
		el("a", at(10, 10, 100, 20)),
	)
	root, _, err := Build(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"body", "a"}, collectTags(root))
}

func TestBuildShadowRoot(t *testing.T) {
	inner := el("button", at(20, 20, 80, 24))
	host := el("div", at(10, 10, 200, 100), shadow(inner))
	p := newPage(host)

	root, overlay, err := Build(p, DefaultOptions())
	require.NoError(t, err)

	hostOut := root.Children[0]
	assert.True(t, hostOut.ShadowRoot)
	require.Len(t, hostOut.Children, 1)

	btn := hostOut.Children[0]
	assert.Equal(t, "button", btn.TagName)
	assert.Equal(t, "B1", btn.InteractiveID)
	assert.Equal(t, "button", btn.XPath, "shadow paths are local to their root")

	require.Len(t, overlay.Boxes, 1)
	assert.Empty(t, overlay.Boxes[0].XPath, "no top-document marker for shadow content")
}

func TestBuildIframe(t *testing.T) {
	inner := el("a", at(10, 10, 50, 20))
	sub := newDoc(inner)
	iframe := el("iframe", at(100, 200, 400, 300), content(sub))
	p := newPage(iframe)

	root, overlay, err := Build(p, DefaultOptions())
	require.NoError(t, err)

	frameOut := root.Children[0]
	assert.Equal(t, "iframe", frameOut.TagName)
	require.Len(t, frameOut.Children, 1)
	assert.Equal(t, "a", frameOut.Children[0].TagName)
	assert.Equal(t, "L1", frameOut.Children[0].InteractiveID)

	require.Len(t, overlay.Boxes, 1)
	assert.Equal(t, 110.0, overlay.Boxes[0].X, "box shifted by the iframe position")
	assert.Equal(t, 210.0, overlay.Boxes[0].Y)
	assert.Empty(t, overlay.Boxes[0].XPath)
}

func TestBuildInaccessibleIframe(t *testing.T) {
	iframe := el("iframe", at(100, 100, 400, 300))
	p := newPage(iframe)

	root, _, err := Build(p, DefaultOptions())
	require.NoError(t, err, "a cross-origin frame is not an error")

	frameOut := root.Children[0]
	assert.Equal(t, "iframe", frameOut.TagName)
	assert.Empty(t, frameOut.Children)
}

func TestBuildDeterministic(t *testing.T) {
	build := func() ([]byte, []byte) {
		inner := el("a", at(10, 10, 50, 20))
		sub := newDoc(inner)
		p := newPage(
			el("a", at(10, 10, 100, 20), attr("href", "/x"), attr("class", "nav")),
			el("button", at(10, 40, 100, 20), shadow(el("span", at(12, 42, 20, 16), cursor("pointer")))),
			el("iframe", at(100, 200, 400, 300), content(sub)),
		)
		root, overlay, err := Build(p, DefaultOptions())
		require.NoError(t, err)
		tree, err := json.Marshal(root)
		require.NoError(t, err)
		boxes, err := json.Marshal(overlay.Boxes)
		require.NoError(t, err)
		return tree, boxes
	}

	tree1, boxes1 := build()
	tree2, boxes2 := build()
	assert.Equal(t, string(tree1), string(tree2))
	assert.Equal(t, string(boxes1), string(boxes2))
}

func TestBuildEmptyPage(t *testing.T) {
	_, _, err := Build(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyPage)

	d := &Document{Root: &Node{Type: DocumentNode}}
	d.Index()
	_, _, err = Build(&Page{Main: d}, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyPage)
}
