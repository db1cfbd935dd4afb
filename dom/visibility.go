package dom

// IsElementVisible reports whether an element renders with a nonzero
// box and is not styled out of view. Ancestor-driven invisibility is
// not checked here: a hidden ancestor already zeroes the element's own
// layout box.
func IsElementVisible(n *Node) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	return n.Rect.Width > 0 && n.Rect.Height > 0 &&
		n.Visibility != "hidden" && n.Display != "none"
}

// IsTextNodeVisible reports whether a text node renders on screen: a
// nonzero range box whose top falls inside the viewport's vertical
// span, under an ancestor chain that passes a checkVisibility-style
// test (display, CSS visibility, and zero opacity all checked).
//
// Text scrolled above the viewport (negative top) is deliberately
// excluded even though it is reachable by scrolling.
func IsTextNodeVisible(n *Node) bool {
	if n == nil || n.Type != TextNode || n.Doc == nil {
		return false
	}
	if n.Rect.Width <= 0 || n.Rect.Height <= 0 {
		return false
	}
	if n.Rect.Y < 0 || n.Rect.Y > n.Doc.ViewportHeight {
		return false
	}
	for p := n.Parent; p != nil && p.Type == ElementNode; p = p.Parent {
		if p.Display == "none" || p.Visibility == "hidden" || opacityZero(p.Opacity) {
			return false
		}
	}
	return true
}

// IsTopElement reports whether the element is the frontmost paintable
// node at its own visual center.
//
// Policy by context:
//   - An element in a document other than the page's top document is
//     always top (hit-testing does not cross document boundaries).
//   - Inside a shadow root, the shadow root's own resolver is used and
//     the hit is walked up to the shadow boundary.
//   - In the light DOM, the sentinel expansion -1 passes every element;
//     otherwise elements wholly outside the scroll-offset expanded
//     viewport are rejected without a hit-test, centers outside the
//     physical viewport are rejected, and everything else is resolved
//     through the document's hit-test.
//
// Dead-end hit-tests fail open: when in doubt, keep the candidate.
func IsTopElement(p *Page, n *Node, viewportExpansion int) bool {
	if p == nil || n == nil || n.Type != ElementNode || n.Doc == nil {
		return false
	}
	doc := n.Doc
	if doc != p.Main {
		return true
	}

	if scope := containingShadowRoot(n); scope != nil {
		cx, cy := n.Rect.Center()
		hit := doc.elementFromPointIn(scope, cx, cy)
		if hit == nil {
			return true
		}
		return walkUpContains(hit, n)
	}

	if viewportExpansion == -1 {
		return true
	}

	margin := float64(viewportExpansion)
	abs := n.Rect.Shift(doc.ScrollX, doc.ScrollY)
	expanded := Rect{
		X:      doc.ScrollX - margin,
		Y:      doc.ScrollY - margin,
		Width:  doc.ViewportWidth + 2*margin,
		Height: doc.ViewportHeight + 2*margin,
	}
	if !abs.Intersects(expanded) {
		return false
	}

	cx, cy := n.Rect.Center()
	if cx < 0 || cx > doc.ViewportWidth || cy < 0 || cy > doc.ViewportHeight {
		return false
	}

	hit := doc.ElementFromPoint(cx, cy)
	if hit == nil {
		return true
	}
	return walkUpContains(hit, n)
}

// walkUpContains walks parentElement-style from the hit result looking
// for target; crossing out of the element chain (document or shadow
// boundary) without finding it means the target is occluded.
func walkUpContains(hit, target *Node) bool {
	for e := hit; e != nil && e.Type == ElementNode; e = e.Parent {
		if e == target {
			return true
		}
	}
	return false
}
