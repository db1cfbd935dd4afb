package dom

import "strings"

// interactiveTags are always treated as interactive.
var interactiveTags = map[string]bool{
	"a": true, "button": true, "details": true, "embed": true,
	"fieldset": true, "input": true, "label": true, "legend": true,
	"menu": true, "menuitem": true, "object": true, "optgroup": true,
	"option": true, "select": true, "summary": true, "textarea": true,
}

// interactiveRoles are ARIA roles that indicate interactivity,
// including vendor-specific roles emitted by known component libraries.
var interactiveRoles = map[string]bool{
	"button": true, "menu": true, "menuitem": true, "link": true,
	"checkbox": true, "radio": true, "slider": true, "tab": true,
	"tabpanel": true, "textbox": true, "combobox": true, "grid": true,
	"listbox": true, "option": true, "progressbar": true,
	"scrollbar": true, "searchbox": true, "switch": true, "tree": true,
	"treeitem": true, "spinbutton": true, "tooltip": true,
	"menuitemcheckbox": true, "menuitemradio": true,
	"a-button-inner": true, "a-dropdown-button": true, "click": true,
	"a-button-text": true, "button-text": true, "button-icon": true,
	"button-icon-only": true, "button-text-icon-only": true,
	"dropdown": true,
}

// interactiveCursors are cursor values that advertise an affordance.
var interactiveCursors = map[string]bool{
	"pointer": true, "move": true, "text": true, "grab": true,
	"grabbing": true, "cell": true, "copy": true, "alias": true,
	"all-scroll": true, "col-resize": true, "row-resize": true,
	"context-menu": true, "crosshair": true, "e-resize": true,
	"n-resize": true, "ne-resize": true, "nw-resize": true,
	"s-resize": true, "se-resize": true, "sw-resize": true,
	"w-resize": true, "ew-resize": true, "ns-resize": true,
	"nesw-resize": true, "nwse-resize": true, "zoom-in": true,
	"zoom-out": true, "vertical-text": true, "help": true,
}

// ariaStateAttrs classify a node as interactive by mere presence,
// regardless of their value.
var ariaStateAttrs = []string{"aria-expanded", "aria-pressed", "aria-selected", "aria-checked"}

// clickBindingAttrs are inline and framework click-binding conventions.
var clickBindingAttrs = []string{"onclick", "ng-click", "@click", "v-on:click"}

// handlerEvents are the events whose on<event> attributes count as an
// attached handler when no better listener signal is available.
var handlerEvents = []string{"click", "mousedown", "mouseup", "touchstart", "touchend"}

// dropdownActions are vendor data-action values marking dropdown controls.
var dropdownActions = map[string]bool{
	"a-dropdown-select": true,
	"a-dropdown-button": true,
}

// IsInteractiveElement reports whether the element is judged capable of
// receiving a meaningful user action. The heuristics deliberately favor
// false positives: an extra harmless candidate costs the consumer
// little, a missed real control costs it the task.
func IsInteractiveElement(n *Node) bool {
	return isInteractive(n, true)
}

func isInteractive(n *Node, pointerCursor bool) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}

	if interactiveTags[n.Tag] {
		return true
	}
	if interactiveRoles[elementRole(n)] {
		return true
	}
	if n.Tag != "body" {
		if ti, ok := n.Attr("tabindex"); ok && ti != "-1" {
			return true
		}
	}
	if action, ok := n.Attr("data-action"); ok && dropdownActions[action] {
		return true
	}
	if pointerCursor && n.Tag != "html" && interactiveCursors[n.Cursor] {
		return true
	}
	if hasClass(n, "address-input__container__input") {
		return true
	}

	for _, attr := range ariaStateAttrs {
		if n.HasAttr(attr) {
			return true
		}
	}
	for _, attr := range clickBindingAttrs {
		if n.HasAttr(attr) {
			return true
		}
	}
	if n.Clickable {
		return true
	}
	for _, ev := range handlerEvents {
		if n.HasAttr("on" + ev) {
			return true
		}
	}
	if v, ok := n.Attr("draggable"); ok && v == "true" {
		return true
	}
	return false
}

// editableTags are the form controls the editable-text classifier
// considers typeable.
var editableTags = map[string]bool{"input": true, "textarea": true}

// IsEditableElement reports whether text can be entered into the
// element right now: an enabled, non-readonly form control or
// contenteditable region.
func IsEditableElement(n *Node) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	if n.HasAttr("disabled") {
		return false
	}
	if v, _ := n.Attr("aria-disabled"); v == "true" {
		return false
	}
	if editableTags[n.Tag] {
		return !isReadonly(n)
	}
	if v, ok := n.Attr("contenteditable"); ok && v != "false" {
		return !isReadonly(n)
	}
	return false
}

func isReadonly(n *Node) bool {
	if n.HasAttr("readonly") {
		return true
	}
	v, _ := n.Attr("aria-readonly")
	return v == "true"
}

// elementRole returns the node's declared ARIA role, honoring the
// legacy aria-role spelling some component libraries emit.
func elementRole(n *Node) string {
	if v, ok := n.Attr("role"); ok {
		return v
	}
	v, _ := n.Attr("aria-role")
	return v
}

func hasClass(n *Node, class string) bool {
	v, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}
