package dom

// Test fixtures build captured page models by hand. The builders mirror
// how the capture layer assembles documents: light children, shadow
// roots, iframe content documents, client-coordinate rects.

type nodeMod func(*Node)

func el(tag string, mods ...nodeMod) *Node {
	n := &Node{Type: ElementNode, Tag: tag, HasLayout: true, Opacity: "1"}
	for _, m := range mods {
		m(n)
	}
	return n
}

func at(x, y, w, h float64) nodeMod {
	return func(n *Node) { n.Rect = Rect{X: x, Y: y, Width: w, Height: h} }
}

func attr(name, value string) nodeMod {
	return func(n *Node) { n.Attrs = append(n.Attrs, Attr{Name: name, Value: value}) }
}

func display(v string) nodeMod { return func(n *Node) { n.Display = v } }
func visCSS(v string) nodeMod  { return func(n *Node) { n.Visibility = v } }
func opacity(v string) nodeMod { return func(n *Node) { n.Opacity = v } }
func cursor(v string) nodeMod  { return func(n *Node) { n.Cursor = v } }
func paint(order int) nodeMod  { return func(n *Node) { n.PaintOrder = order } }
func clickable() nodeMod       { return func(n *Node) { n.Clickable = true } }
func noLayout() nodeMod        { return func(n *Node) { n.HasLayout = false; n.Rect = Rect{} } }

func kids(children ...*Node) nodeMod {
	return func(n *Node) {
		for _, c := range children {
			c.Parent = n
		}
		n.Children = append(n.Children, children...)
	}
}

func shadow(children ...*Node) nodeMod {
	return func(n *Node) {
		sr := &Node{Type: ShadowRootNode, Parent: n}
		for _, c := range children {
			c.Parent = sr
		}
		sr.Children = children
		n.Shadow = sr
	}
}

func content(d *Document) nodeMod {
	return func(n *Node) { n.ContentDoc = d }
}

func txt(s string, x, y, w, h float64) *Node {
	return &Node{Type: TextNode, Text: s, HasLayout: true, Rect: Rect{X: x, Y: y, Width: w, Height: h}}
}

const (
	testViewportW = 1280.0
	testViewportH = 720.0
)

// newDoc wraps body children into a full document and indexes it.
func newDoc(bodyKids ...*Node) *Document {
	body := el("body", at(0, 0, testViewportW, testViewportH), kids(bodyKids...))
	return docWithBody(body)
}

func docWithBody(body *Node) *Document {
	html := el("html", at(0, 0, testViewportW, testViewportH), kids(body))
	root := &Node{Type: DocumentNode, Children: []*Node{html}}
	html.Parent = root
	d := &Document{Root: root, ViewportWidth: testViewportW, ViewportHeight: testViewportH}
	d.Index()
	return d
}

// newPage builds a single-document page from body children.
func newPage(bodyKids ...*Node) *Page {
	return &Page{Main: newDoc(bodyKids...)}
}
