package dom

import (
	"errors"
	"strings"
)

// Options are the traversal knobs of a single Build call.
type Options struct {
	// HighlightElements enables the highlight overlay.
	HighlightElements bool

	// FocusElement restricts highlighting to the single interactive
	// node with this 0-based traversal ordinal. Negative highlights all
	// qualifying nodes.
	FocusElement int

	// ViewportExpansion is the margin, in pixels, added to the viewport
	// on all four sides for the top-element check. The sentinel -1
	// treats every element as viewport-top, yielding a full-document
	// snapshot.
	ViewportExpansion int

	// EnablePointerCursor gates the cursor-style interactivity
	// heuristic.
	EnablePointerCursor bool
}

// DefaultOptions returns the standard snapshot configuration:
// highlights on, no focus filter, viewport-only extraction, cursor
// heuristic enabled.
func DefaultOptions() Options {
	return Options{
		HighlightElements:   true,
		FocusElement:        -1,
		ViewportExpansion:   0,
		EnablePointerCursor: true,
	}
}

// deniedTags are non-semantic leaves the tree neither emits nor
// descends into.
var deniedTags = map[string]bool{
	"svg": true, "script": true, "style": true, "link": true, "meta": true,
}

// ErrEmptyPage is returned when the captured page has no body to walk.
var ErrEmptyPage = errors.New("dom: captured page has no body")

// Build runs one snapshot traversal over the captured page and returns
// the serializable tree plus the highlight overlay (nil unless
// highlighting was requested). The traversal is synchronous and
// allocates all of its state per call, so concurrent builds over
// distinct pages are independent.
func Build(p *Page, opts Options) (*DomNode, *Overlay, error) {
	if p == nil || p.Main == nil {
		return nil, nil, ErrEmptyPage
	}
	body := p.Main.Body()
	if body == nil {
		return nil, nil, ErrEmptyPage
	}

	w := &walker{page: p, opts: opts, alloc: NewAllocator()}
	if opts.HighlightElements {
		w.overlay = NewOverlay(opts.FocusElement)
	}

	root, err := w.walk(body, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	if root == nil {
		return nil, nil, ErrEmptyPage
	}
	return root, w.overlay, nil
}

type walker struct {
	page    *Page
	opts    Options
	alloc   *Allocator
	overlay *Overlay
}

// walk emits the DomNode for one captured node, or nil when the node
// contributes nothing to the tree. offsetX/offsetY accumulate ancestor
// iframe positions in absolute top-document coordinates.
func (w *walker) walk(n *Node, offsetX, offsetY float64) (*DomNode, error) {
	if n == nil {
		return nil, nil
	}

	if n.Type == TextNode {
		text := strings.TrimSpace(n.Text)
		if text == "" || !IsTextNodeVisible(n) {
			return nil, nil
		}
		return &DomNode{Type: TextNodeType, Text: text, IsVisible: true}, nil
	}
	if n.Type != ElementNode || deniedTags[n.Tag] {
		return nil, nil
	}

	attrs := make(Attrs, len(n.Attrs))
	copy(attrs, n.Attrs)

	visible := IsElementVisible(n)
	interactive := isInteractive(n, w.opts.EnablePointerCursor)
	top := IsTopElement(w.page, n, w.opts.ViewportExpansion)

	node := &DomNode{
		TagName:       n.Tag,
		Attributes:    attrs,
		XPath:         XPathFromBoundary(n),
		IsVisible:     visible,
		IsInteractive: interactive,
		IsTopElement:  top,
		IsEditable:    IsEditableElement(n),
	}

	if interactive && visible && top {
		id, ordinal, err := w.alloc.Assign(n, interactive, visible, top)
		if err != nil {
			return nil, err
		}
		node.InteractiveID = id
		if w.overlay != nil {
			marker := ""
			if n.Doc == w.page.Main && containingShadowRoot(n) == nil {
				marker = node.XPath
			}
			w.overlay.Highlight(n, id, ordinal, offsetX, offsetY, marker)
		}
	}

	switch {
	case n.Shadow != nil:
		node.ShadowRoot = true
		if err := w.walkChildren(node, n.Shadow.Children, offsetX, offsetY); err != nil {
			return nil, err
		}
	case n.Tag == "iframe":
		// An inaccessible content document contributes zero children;
		// the iframe node itself stays in the tree.
		if n.ContentDoc != nil && n.ContentDoc.Body() != nil {
			childX := offsetX + n.Rect.X
			childY := offsetY + n.Rect.Y
			if n.Doc != nil {
				childX += n.Doc.ScrollX
				childY += n.Doc.ScrollY
			}
			if err := w.walkChildren(node, n.ContentDoc.Body().Children, childX, childY); err != nil {
				return nil, err
			}
		}
	default:
		if err := w.walkChildren(node, n.Children, offsetX, offsetY); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (w *walker) walkChildren(parent *DomNode, children []*Node, offsetX, offsetY float64) error {
	for _, c := range children {
		child, err := w.walk(c, offsetX, offsetY)
		if err != nil {
			return err
		}
		if child != nil {
			parent.Children = append(parent.Children, child)
		}
	}
	return nil
}
