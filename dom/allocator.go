package dom

import (
	"errors"
	"fmt"
)

// ErrNotQualifying is returned when an identifier is requested for a
// node that does not satisfy the interactive, visible and top-element
// conjunction. That is a programming error in the caller and must fail
// loudly, never be papered over with a fabricated ID.
var ErrNotQualifying = errors.New("dom: identifier requested for a non-qualifying node")

type bucket int

const (
	bucketLink bucket = iota
	bucketButton
	bucketInput
	bucketImage
	bucketOther
	bucketCount
)

var bucketPrefixes = [bucketCount]byte{'L', 'B', 'I', 'F', 'O'}

// buttonRoles map to the button bucket: button-like, menu and grouping
// roles.
var buttonRoles = map[string]bool{
	"button": true, "menu": true, "menuitem": true,
	"menuitemcheckbox": true, "menuitemradio": true, "tab": true,
	"tree": true, "treeitem": true, "grid": true,
	"a-button-inner": true, "a-dropdown-button": true,
	"a-button-text": true, "button-text": true, "button-icon": true,
	"button-icon-only": true, "button-text-icon-only": true,
	"dropdown": true,
}

// inputRoles map to the input bucket: form-control roles.
var inputRoles = map[string]bool{
	"textbox": true, "searchbox": true, "checkbox": true, "radio": true,
	"combobox": true, "listbox": true, "option": true, "slider": true,
	"spinbutton": true, "switch": true,
}

// bucketFor classifies a node into one of the five identifier buckets
// by tag first, then declared role.
func bucketFor(n *Node) bucket {
	switch n.Tag {
	case "a":
		return bucketLink
	case "button":
		return bucketButton
	case "input", "select", "textarea", "option", "optgroup":
		return bucketInput
	case "img", "figure":
		return bucketImage
	}
	role := elementRole(n)
	switch {
	case role == "link":
		return bucketLink
	case buttonRoles[role]:
		return bucketButton
	case inputRoles[role]:
		return bucketInput
	case role == "img" || role == "image" || role == "figure":
		return bucketImage
	}
	return bucketOther
}

// Allocator hands out category-prefixed short identifiers in traversal
// order. One allocator serves exactly one Build call; it is passed
// explicitly through the traversal and discarded afterwards, so
// repeated or concurrent traversals stay independent.
type Allocator struct {
	counts [bucketCount]int
	total  int
}

// NewAllocator returns an allocator with all counters at zero.
func NewAllocator() *Allocator { return &Allocator{} }

// Assign returns the node's identifier (for example "L1", "B3") and its
// 0-based total ordinal. The three booleans are the caller's
// classification results; Assign enforces the conjunction itself and
// errors when it does not hold.
func (a *Allocator) Assign(n *Node, interactive, visible, top bool) (string, int, error) {
	if !interactive || !visible || !top {
		return "", 0, fmt.Errorf("%w: <%s> interactive=%t visible=%t top=%t",
			ErrNotQualifying, n.Tag, interactive, visible, top)
	}
	b := bucketFor(n)
	a.counts[b]++
	ordinal := a.total
	a.total++
	return fmt.Sprintf("%c%d", bucketPrefixes[b], a.counts[b]), ordinal, nil
}

// Total returns how many identifiers have been assigned.
func (a *Allocator) Total() int { return a.total }
