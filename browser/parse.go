package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-rod/rod/lib/proto"

	"github.com/anxuanzi/domlens/dom"
)

// The DOMSnapshot wire format is a set of flattened per-document node
// and layout tables indexing into one shared string table. Sparse
// fields arrive as rare-data pairs: the node indices that carry the
// field, plus a parallel value array for non-boolean data.

type rareBool struct {
	Index []int `json:"index"`
}

func (r rareBool) set() map[int]bool {
	m := make(map[int]bool, len(r.Index))
	for _, i := range r.Index {
		m[i] = true
	}
	return m
}

type rareInt struct {
	Index []int `json:"index"`
	Value []int `json:"value"`
}

func (r rareInt) lookup() map[int]int {
	m := make(map[int]int, len(r.Index))
	for i, idx := range r.Index {
		if i < len(r.Value) {
			m[idx] = r.Value[i]
		}
	}
	return m
}

type captureNodes struct {
	ParentIndex          []int    `json:"parentIndex"`
	NodeType             []int    `json:"nodeType"`
	NodeName             []int    `json:"nodeName"`
	NodeValue            []int    `json:"nodeValue"`
	Attributes           [][]int  `json:"attributes"`
	IsClickable          rareBool `json:"isClickable"`
	ContentDocumentIndex rareInt  `json:"contentDocumentIndex"`
}

type captureLayout struct {
	NodeIndex   []int       `json:"nodeIndex"`
	Styles      [][]int     `json:"styles"`
	Bounds      [][]float64 `json:"bounds"`
	PaintOrders []int       `json:"paintOrders"`
}

type captureDocument struct {
	ScrollOffsetX float64       `json:"scrollOffsetX"`
	ScrollOffsetY float64       `json:"scrollOffsetY"`
	Nodes         captureNodes  `json:"nodes"`
	Layout        captureLayout `json:"layout"`
}

type captureResponse struct {
	Documents []captureDocument `json:"documents"`
	Strings   []string          `json:"strings"`
}

// parseCapture converts a DOMSnapshot.captureSnapshot payload into the
// engine's page model. Document 0 is the top document; iframe content
// documents are linked through their host element's content-document
// index. Snapshot bounds are in document coordinates and are shifted by
// the document's scroll offset into the client coordinates the model
// expects.
func parseCapture(raw []byte, metrics *proto.PageGetLayoutMetricsResult) (*dom.Page, error) {
	var resp captureResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode dom snapshot: %w", err)
	}
	if len(resp.Documents) == 0 {
		return nil, fmt.Errorf("dom snapshot carries no documents")
	}

	str := func(i int) string {
		if i < 0 || i >= len(resp.Strings) {
			return ""
		}
		return resp.Strings[i]
	}

	docs := make([]*dom.Document, len(resp.Documents))
	type frameLink struct {
		host *dom.Node
		doc  int
	}
	var links []frameLink

	for di, cd := range resp.Documents {
		d := &dom.Document{ScrollX: cd.ScrollOffsetX, ScrollY: cd.ScrollOffsetY}
		docs[di] = d

		total := len(cd.Nodes.NodeType)
		nodes := make([]*dom.Node, total)
		clickable := cd.Nodes.IsClickable.set()
		frames := cd.Nodes.ContentDocumentIndex.lookup()

		for i := 0; i < total; i++ {
			switch dom.NodeType(cd.Nodes.NodeType[i]) {
			case dom.ElementNode:
				node := &dom.Node{
					Type:      dom.ElementNode,
					Tag:       strings.ToLower(str(cd.Nodes.NodeName[i])),
					Clickable: clickable[i],
				}
				if i < len(cd.Nodes.Attributes) {
					pairs := cd.Nodes.Attributes[i]
					for j := 0; j+1 < len(pairs); j += 2 {
						node.Attrs = append(node.Attrs, dom.Attr{
							Name:  str(pairs[j]),
							Value: str(pairs[j+1]),
						})
					}
				}
				nodes[i] = node
			case dom.TextNode:
				nodes[i] = &dom.Node{Type: dom.TextNode, Text: str(cd.Nodes.NodeValue[i])}
			case dom.DocumentNode:
				nodes[i] = &dom.Node{Type: dom.DocumentNode}
			case dom.ShadowRootNode:
				nodes[i] = &dom.Node{Type: dom.ShadowRootNode}
			}
			// Comments, doctypes and pseudo nodes are dropped.
		}

		// Parent wiring. A shadow root hangs off its host's Shadow link,
		// everything else joins the parent's child list.
		for i, node := range nodes {
			if node == nil {
				continue
			}
			pi := -1
			if i < len(cd.Nodes.ParentIndex) {
				pi = cd.Nodes.ParentIndex[i]
			}
			if pi < 0 || pi >= total || nodes[pi] == nil {
				if node.Type == dom.DocumentNode && d.Root == nil {
					d.Root = node
				}
				continue
			}
			parent := nodes[pi]
			node.Parent = parent
			if node.Type == dom.ShadowRootNode {
				parent.Shadow = node
			} else {
				parent.Children = append(parent.Children, node)
			}
		}
		if d.Root == nil {
			return nil, fmt.Errorf("dom snapshot document %d has no root", di)
		}

		for li, ni := range cd.Layout.NodeIndex {
			if ni < 0 || ni >= total || nodes[ni] == nil {
				continue
			}
			node := nodes[ni]
			node.HasLayout = true
			if li < len(cd.Layout.Bounds) && len(cd.Layout.Bounds[li]) >= 4 {
				bd := cd.Layout.Bounds[li]
				node.Rect = dom.Rect{
					X:      bd[0] - cd.ScrollOffsetX,
					Y:      bd[1] - cd.ScrollOffsetY,
					Width:  bd[2],
					Height: bd[3],
				}
			}
			if li < len(cd.Layout.PaintOrders) {
				node.PaintOrder = cd.Layout.PaintOrders[li]
			}
			if li < len(cd.Layout.Styles) {
				st := cd.Layout.Styles[li]
				read := func(j int) string {
					if j < len(st) {
						return str(st[j])
					}
					return ""
				}
				node.Display = read(0)
				node.Visibility = read(1)
				node.Opacity = read(2)
				node.Cursor = read(3)
			}
		}

		for i, node := range nodes {
			if node == nil {
				continue
			}
			if target, ok := frames[i]; ok {
				links = append(links, frameLink{host: node, doc: target})
			}
		}
	}

	// Content documents come later in the array than their host, so the
	// host's rect is already in client coordinates here.
	for _, l := range links {
		if l.doc <= 0 || l.doc >= len(docs) {
			continue
		}
		sub := docs[l.doc]
		l.host.ContentDoc = sub
		sub.ViewportWidth = l.host.Rect.Width
		sub.ViewportHeight = l.host.Rect.Height
	}

	main := docs[0]
	if metrics != nil && metrics.CSSLayoutViewport != nil {
		main.ViewportWidth = float64(metrics.CSSLayoutViewport.ClientWidth)
		main.ViewportHeight = float64(metrics.CSSLayoutViewport.ClientHeight)
	}

	for _, d := range docs {
		d.Index()
	}
	return &dom.Page{Main: main}, nil
}
