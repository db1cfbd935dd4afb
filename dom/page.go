// Package dom builds serializable snapshots of a captured web page:
// it classifies interactive and visible elements, assigns them short
// identifiers, and emits a DomNode tree an automation agent can act on.
//
// The package is pure: it operates on a Page model captured elsewhere
// (see the browser package) and touches no I/O.
package dom

import "strconv"

// NodeType mirrors the DOM node type constants for the node kinds the
// capture layer retains.
type NodeType int

const (
	ElementNode    NodeType = 1
	TextNode       NodeType = 3
	DocumentNode   NodeType = 9
	ShadowRootNode NodeType = 11 // document fragment hosting shadow content
)

// Rect is an axis-aligned box. Node rects are in client (viewport)
// coordinates of their owning document.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point (x, y) lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Center returns the rect's midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Shift returns the rect translated by (dx, dy).
func (r Rect) Shift(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Intersects reports whether the two rects overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.Width && r.X+r.Width >= o.X &&
		r.Y <= o.Y+o.Height && r.Y+r.Height >= o.Y
}

// Attr is a single element attribute. Attribute order is document order.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of the captured page model. It carries the raw facts
// the engine's heuristics consume: structure, geometry, computed style,
// and Chrome's clickability hint.
type Node struct {
	Type NodeType
	Tag  string // lowercased tag name, element nodes only
	Text string // text nodes only

	Attrs []Attr

	Parent   *Node
	Children []*Node // light-DOM children; an attached shadow root is not among them

	// Shadow is the node's attached shadow root, if any.
	Shadow *Node

	// ContentDoc is the content document of an iframe element. It is nil
	// when the document is cross-origin or otherwise inaccessible.
	ContentDoc *Document

	// Doc is the owning document, set by Document.Index.
	Doc *Document

	// Layout, in client coordinates of the owning document. HasLayout is
	// false for nodes Chrome produced no layout box for.
	HasLayout  bool
	Rect       Rect
	PaintOrder int

	// Computed style values. Empty string means unknown/not captured.
	Display    string
	Visibility string
	Opacity    string
	Cursor     string

	// Clickable is Chrome's own "has a click handler" hint
	// (DOMSnapshot isClickable). Best-effort; false when the capture
	// source cannot provide it.
	Clickable bool

	docOrder int
}

// Attr returns the named attribute's value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// paintable reports whether the node can win a hit-test: it has a laid
// out, nonzero box that is not styled out of rendering.
func (n *Node) paintable() bool {
	return n.Type == ElementNode && n.HasLayout && !n.Rect.Empty() &&
		n.Display != "none" && n.Visibility != "hidden"
}

// opacityZero reports whether a computed opacity value means fully
// transparent. Unknown values count as opaque.
func opacityZero(v string) bool {
	if v == "" {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f == 0
}

// containingShadowRoot returns the nearest enclosing shadow root node,
// or nil when the node lives in a document's light tree.
func containingShadowRoot(n *Node) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == ShadowRootNode {
			return p
		}
	}
	return nil
}

// Document is one document of the captured page: the top document or a
// same-origin iframe content document.
type Document struct {
	// Root is the document node; its children contain the html element.
	Root *Node

	ViewportWidth  float64
	ViewportHeight float64
	ScrollX        float64
	ScrollY        float64

	elements []*Node
	body     *Node
}

// Index finalizes a document after construction: it wires owner
// pointers, assigns document order, and collects the element list used
// for hit-testing. It must be called once before the document is used.
func (d *Document) Index() {
	d.elements = d.elements[:0]
	d.body = nil
	order := 0
	var visit func(n *Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		n.Doc = d
		n.docOrder = order
		order++
		if n.Type == ElementNode {
			d.elements = append(d.elements, n)
			if d.body == nil && n.Tag == "body" {
				d.body = n
			}
		}
		for _, c := range n.Children {
			visit(c)
		}
		if n.Shadow != nil {
			visit(n.Shadow)
		}
	}
	visit(d.Root)
}

// Body returns the document's body element, or nil.
func (d *Document) Body() *Node { return d.body }

// paintsAbove reports whether a paints on top of b. Paint order from the
// capture wins; document order breaks ties (later nodes paint on top).
func paintsAbove(a, b *Node) bool {
	if a.PaintOrder != b.PaintOrder {
		return a.PaintOrder > b.PaintOrder
	}
	return a.docOrder > b.docOrder
}

// ElementFromPoint returns the topmost paintable element at the given
// client coordinates, retargeted to the document's light tree the way
// document.elementFromPoint retargets shadow content to its host.
func (d *Document) ElementFromPoint(x, y float64) *Node {
	return d.elementFromPointIn(nil, x, y)
}

// elementFromPointIn hit-tests within a scope: nil for the document's
// light tree, or a shadow root node for shadow-local resolution.
func (d *Document) elementFromPointIn(scope *Node, x, y float64) *Node {
	var top *Node
	for _, e := range d.elements {
		if !e.paintable() || !e.Rect.Contains(x, y) {
			continue
		}
		if top == nil || paintsAbove(e, top) {
			top = e
		}
	}
	if top == nil {
		return nil
	}
	// Retarget: climb shadow hosts until the result lives in the
	// requested scope. A result shallower than a shadow scope is
	// returned as-is; the caller's ancestor walk rejects it.
	n := top
	for {
		s := containingShadowRoot(n)
		if s == scope || s == nil {
			return n
		}
		n = s.Parent
		if n == nil {
			return nil
		}
	}
}

// Page is a complete captured page: the top document plus any
// same-origin iframe documents reachable through it.
type Page struct {
	Main  *Document
	URL   string
	Title string
}
