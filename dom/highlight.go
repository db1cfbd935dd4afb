package dom

import "hash/fnv"

// OverlayContainerID is the element id of the on-page highlight layer.
const OverlayContainerID = "domlens-highlight-container"

// MarkerAttr is the synthetic attribute recorded on highlighted
// elements, back-referencing their identifier for cleanup and
// debugging. It is a non-owning marker, not a data relationship.
const MarkerAttr = "data-domlens-id"

// highlightPalette is the fixed 12-color palette highlight boxes are
// drawn from; the identifier hash picks the entry.
var highlightPalette = [12]string{
	"#FF0000", "#00FF00", "#0000FF", "#FFA500",
	"#800080", "#008080", "#FF69B4", "#4B0082",
	"#FF4500", "#2E8B57", "#DC143C", "#4682B4",
}

// ColorFor returns the deterministic palette color for an identifier.
func ColorFor(id string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return highlightPalette[h.Sum32()%uint32(len(highlightPalette))]
}

const (
	labelHeight  = 16.0
	labelCharW   = 8.0
	labelPadding = 2.0
)

// HighlightBox is one overlay box plus its identifier label, in
// absolute document coordinates of the top document (ancestor iframe
// offsets already applied).
type HighlightBox struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
	LabelX float64 `json:"labelX"`
	LabelY float64 `json:"labelY"`

	// XPath locates the highlighted element from the top document for
	// the marker attribute. Empty for shadow or iframe content, which a
	// single-document XPath cannot reach.
	XPath string `json:"xpath,omitempty"`
}

// Overlay collects the highlight boxes of one traversal. The engine
// fills it; the capture layer mounts it onto the live page.
type Overlay struct {
	// FocusOrdinal suppresses every box except the one whose allocator
	// ordinal matches. Negative means highlight all.
	FocusOrdinal int

	Boxes []HighlightBox
}

// NewOverlay returns an overlay with the given focus filter.
func NewOverlay(focusOrdinal int) *Overlay {
	return &Overlay{FocusOrdinal: focusOrdinal}
}

// Highlight adds a box for the node unless the focus filter suppresses
// it. offsetX/offsetY carry the ancestor iframe's absolute position;
// markerXPath is the top-document XPath of the element, or empty.
func (o *Overlay) Highlight(n *Node, id string, ordinal int, offsetX, offsetY float64, markerXPath string) {
	if o.FocusOrdinal >= 0 && ordinal != o.FocusOrdinal {
		return
	}
	abs := n.Rect
	if n.Doc != nil {
		abs = abs.Shift(n.Doc.ScrollX+offsetX, n.Doc.ScrollY+offsetY)
	}

	labelW := labelCharW*float64(len(id)) + 2*labelPadding
	labelX := abs.X + abs.Width - labelW - labelPadding
	labelY := abs.Y + labelPadding
	// Flip the label above the box when the box cannot legibly
	// contain it.
	if abs.Height < labelHeight+2*labelPadding || abs.Width < labelW+2*labelPadding {
		labelY = abs.Y - labelHeight - labelPadding
	}
	if labelX < abs.X {
		labelX = abs.X
	}

	o.Boxes = append(o.Boxes, HighlightBox{
		ID:     id,
		X:      abs.X,
		Y:      abs.Y,
		Width:  abs.Width,
		Height: abs.Height,
		Color:  ColorFor(id),
		LabelX: labelX,
		LabelY: labelY,
		XPath:  markerXPath,
	})
}

// EvalArg returns the payload MountScript expects as its argument.
func (o *Overlay) EvalArg() map[string]any {
	return map[string]any{
		"containerId": OverlayContainerID,
		"markerAttr":  MarkerAttr,
		"boxes":       o.Boxes,
	}
}

// MountScript returns a page function that draws the overlay: it
// lazily creates the full-viewport, pointer-transparent, max-z-index
// container and appends one box and one label per entry. Box
// coordinates arrive in absolute document space and are converted to
// the fixed container's viewport space against the current scroll.
func MountScript() string {
	return `(cfg) => {
	let c = document.getElementById(cfg.containerId);
	if (!c) {
		c = document.createElement('div');
		c.id = cfg.containerId;
		c.style.position = 'fixed';
		c.style.top = '0';
		c.style.left = '0';
		c.style.width = '100%';
		c.style.height = '100%';
		c.style.pointerEvents = 'none';
		c.style.zIndex = '2147483647';
		document.body.appendChild(c);
	}
	for (const b of cfg.boxes) {
		const box = document.createElement('div');
		box.style.position = 'fixed';
		box.style.left = (b.x - window.scrollX) + 'px';
		box.style.top = (b.y - window.scrollY) + 'px';
		box.style.width = b.width + 'px';
		box.style.height = b.height + 'px';
		box.style.border = '2px solid ' + b.color;
		box.style.backgroundColor = b.color + '1A';
		box.style.boxSizing = 'border-box';
		box.style.pointerEvents = 'none';
		box.setAttribute('data-highlight-for', b.id);
		c.appendChild(box);

		const label = document.createElement('div');
		label.textContent = b.id;
		label.style.position = 'fixed';
		label.style.left = (b.labelX - window.scrollX) + 'px';
		label.style.top = (b.labelY - window.scrollY) + 'px';
		label.style.background = b.color;
		label.style.color = '#fff';
		label.style.font = '12px monospace';
		label.style.padding = '1px 3px';
		label.style.borderRadius = '3px';
		label.style.pointerEvents = 'none';
		label.setAttribute('data-highlight-for', b.id);
		c.appendChild(label);

		if (b.xpath) {
			try {
				const r = document.evaluate('/' + b.xpath, document, null,
					XPathResult.FIRST_ORDERED_NODE_TYPE, null);
				if (r.singleNodeValue) {
					r.singleNodeValue.setAttribute(cfg.markerAttr, b.id);
				}
			} catch (e) {}
		}
	}
	return cfg.boxes.length;
}`
}

// ClearScript returns a page function that removes the overlay
// container and every marker attribute.
func ClearScript() string {
	return `(cfg) => {
	const c = document.getElementById(cfg.containerId);
	if (c) c.remove();
	for (const el of document.querySelectorAll('[' + cfg.markerAttr + ']')) {
		el.removeAttribute(cfg.markerAttr);
	}
}`
}

// ClearArg returns the payload ClearScript expects.
func ClearArg() map[string]any {
	return map[string]any{
		"containerId": OverlayContainerID,
		"markerAttr":  MarkerAttr,
	}
}
