package dom

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attrs is an ordered attribute map. It marshals to a JSON object whose
// key order is document order, which a plain Go map cannot guarantee.
type Attrs []Attr

// Get returns the named attribute's value and whether it is present.
func (a Attrs) Get(name string) (string, bool) {
	for _, kv := range a {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return "", false
}

// MarshalJSON encodes the attributes as a JSON object in order.
func (a Attrs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (a *Attrs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("dom: attributes must be a JSON object")
	}
	out := Attrs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("dom: attribute name must be a string")
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}
		out = append(out, Attr{Name: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// TextNodeType is the type marker carried by text leaves.
const TextNodeType = "TEXT_NODE"

// DomNode is one node of the snapshot output tree. Element nodes carry
// TagName, Attributes, XPath and the classification booleans; text
// leaves carry Type = TEXT_NODE, Text and IsVisible only.
//
// InteractiveID is present if and only if the node satisfied
// interactive, visible and top-element at classification time. The tree
// is a point-in-time projection: it is never mutated after Build
// returns and goes stale the moment the page changes.
type DomNode struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`

	TagName    string `json:"tagName,omitempty"`
	Attributes Attrs  `json:"attributes,omitempty"`
	XPath      string `json:"xpath,omitempty"`

	IsVisible     bool `json:"isVisible"`
	IsInteractive bool `json:"isInteractive,omitempty"`
	IsTopElement  bool `json:"isTopElement,omitempty"`
	IsEditable    bool `json:"isEditable,omitempty"`

	InteractiveID string `json:"interactiveId,omitempty"`
	ShadowRoot    bool   `json:"shadowRoot,omitempty"`

	Children []*DomNode `json:"children,omitempty"`
}

// IsText reports whether the node is a text leaf.
func (d *DomNode) IsText() bool { return d.Type == TextNodeType }

// InteractiveNodes returns every node in the subtree that carries an
// interactive identifier, in traversal order.
func (d *DomNode) InteractiveNodes() []*DomNode {
	var out []*DomNode
	var visit func(n *DomNode)
	visit = func(n *DomNode) {
		if n == nil {
			return
		}
		if n.InteractiveID != "" {
			out = append(out, n)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(d)
	return out
}

// ByInteractiveID returns the subtree node carrying the given
// identifier, or nil.
func (d *DomNode) ByInteractiveID(id string) *DomNode {
	for _, n := range d.InteractiveNodes() {
		if n.InteractiveID == id {
			return n
		}
	}
	return nil
}
