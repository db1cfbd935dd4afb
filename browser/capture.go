package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/anxuanzi/domlens/dom"
)

// snapshotStyles is the computed-style whitelist requested from the
// capture, in the order parseCapture reads them back.
var snapshotStyles = []string{"display", "visibility", "opacity", "cursor"}

// Snapshot is one captured and classified page state.
type Snapshot struct {
	// Tree is the serializable element tree rooted at the body.
	Tree *dom.DomNode

	// Overlay carries the highlight boxes mounted on the page, nil when
	// highlighting was disabled.
	Overlay *dom.Overlay

	URL   string
	Title string
}

// Boxes returns the highlight boxes, or nil when highlighting was off.
func (s *Snapshot) Boxes() []dom.HighlightBox {
	if s.Overlay == nil {
		return nil
	}
	return s.Overlay.Boxes
}

// Snapshot captures the current page through DOMSnapshot.captureSnapshot,
// builds the classified tree, and mounts the highlight overlay onto the
// live page when the options ask for it.
func (b *Browser) Snapshot(ctx context.Context, opts dom.Options) (*Snapshot, error) {
	page := b.page.Context(ctx)

	metrics, err := proto.PageGetLayoutMetrics{}.Call(page)
	if err != nil {
		return nil, fmt.Errorf("layout metrics: %w", err)
	}

	raw, err := page.Call(ctx, "", "DOMSnapshot.captureSnapshot", map[string]any{
		"computedStyles":    snapshotStyles,
		"includeDOMRects":   true,
		"includePaintOrder": true,
	})
	if err != nil {
		return nil, fmt.Errorf("capture dom snapshot: %w", err)
	}

	p, err := parseCapture(raw, metrics)
	if err != nil {
		return nil, err
	}
	if info, err := page.Info(); err == nil {
		p.URL = info.URL
		p.Title = info.Title
	}

	tree, overlay, err := dom.Build(p, opts)
	if err != nil {
		return nil, fmt.Errorf("build dom tree: %w", err)
	}

	highlighted := 0
	if overlay != nil {
		if _, err := page.Eval(dom.MountScript(), overlay.EvalArg()); err != nil {
			return nil, fmt.Errorf("mount highlights: %w", err)
		}
		highlighted = len(overlay.Boxes)
	}

	b.log.Debug("snapshot built",
		"url", p.URL,
		"interactive", len(tree.InteractiveNodes()),
		"highlighted", highlighted)
	return &Snapshot{Tree: tree, Overlay: overlay, URL: p.URL, Title: p.Title}, nil
}

// ClearHighlights removes the overlay container and every marker
// attribute from the live page.
func (b *Browser) ClearHighlights(ctx context.Context) error {
	if _, err := b.page.Context(ctx).Eval(dom.ClearScript(), dom.ClearArg()); err != nil {
		return fmt.Errorf("clear highlights: %w", err)
	}
	return nil
}
