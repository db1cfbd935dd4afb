package dom

import (
	"fmt"
	"strings"
)

// XPathFromBoundary returns the element's XPath relative to its nearest
// shadow-root or document boundary, e.g. "html/body/div[2]/a".
//
// A positional index is added only when a same-named sibling exists
// before or after the element, keeping paths minimal where uniqueness
// does not require indexing.
func XPathFromBoundary(n *Node) string {
	if n == nil || n.Type != ElementNode {
		return ""
	}
	var segs []string
	for cur := n; cur != nil && cur.Type == ElementNode; cur = cur.Parent {
		segs = append(segs, xpathSegment(cur))
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, "/")
}

func xpathSegment(n *Node) string {
	if n.Parent == nil {
		return n.Tag
	}
	preceding := 0
	following := false
	seen := false
	for _, sib := range n.Parent.Children {
		if sib == n {
			seen = true
			continue
		}
		if sib.Type != ElementNode || sib.Tag != n.Tag {
			continue
		}
		if seen {
			following = true
		} else {
			preceding++
		}
	}
	if preceding > 0 || following {
		return fmt.Sprintf("%s[%d]", n.Tag, preceding+1)
	}
	return n.Tag
}
