package dom

import (
	"strings"
)

// Display values written to Element.Display
const (
	DisplayDefault = ""
	DisplayNone    = "none"
	DisplayBlock   = "block"
	DisplayFlex    = "flex"
)

// Element is a node of the login page tree
type Element struct {
	Tag     string
	ID      string
	Classes []string
	Content string // own markup/text, rendered before children
	Value   string // current value for input elements
	Display string // inline display style

	attrs    map[string]string
	parent   *Element
	children []*Element
	doc      *Document
}

// NewElement creates a detached element with the given tag
func NewElement(tag string) *Element {
	return &Element{
		Tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
	}
}

// WithID sets the element id and returns the element for chaining
func (e *Element) WithID(id string) *Element {
	e.ID = id
	return e
}

// WithClass adds classes and returns the element for chaining
func (e *Element) WithClass(classes ...string) *Element {
	e.Classes = append(e.Classes, classes...)
	return e
}

// WithContent sets the element content and returns the element for chaining
func (e *Element) WithContent(content string) *Element {
	e.Content = content
	return e
}

// WithAttr sets an attribute and returns the element for chaining
func (e *Element) WithAttr(name, value string) *Element {
	e.SetAttribute(name, value)
	return e
}

// HasClass reports whether the element carries the class
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// GetAttribute returns the attribute value, "" when absent
func (e *Element) GetAttribute(name string) string {
	return e.attrs[strings.ToLower(name)]
}

// HasAttribute reports whether the attribute is present
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.attrs[strings.ToLower(name)]
	return ok
}

// SetAttribute sets an attribute
func (e *Element) SetAttribute(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[strings.ToLower(name)] = value
}

// Append adds children and returns the element for chaining.
// A child that already has a parent is moved.
func (e *Element) Append(children ...*Element) *Element {
	for _, child := range children {
		if child == nil {
			continue
		}
		if child.parent != nil {
			child.parent.removeChild(child)
		}
		child.parent = e
		child.adopt(e.doc)
		e.children = append(e.children, child)
	}
	return e
}

func (e *Element) removeChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

func (e *Element) adopt(doc *Document) {
	e.doc = doc
	for _, c := range e.children {
		c.adopt(doc)
	}
}

// Parent returns the parent element, nil for the root or a detached element
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the direct children in document order
func (e *Element) Children() []*Element {
	return e.children
}

// Contains reports whether other is e or one of its descendants
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// TextContent returns the element content followed by the text of its descendants
func (e *Element) TextContent() string {
	var b strings.Builder
	e.writeText(&b)
	return b.String()
}

func (e *Element) writeText(b *strings.Builder) {
	b.WriteString(e.Content)
	for _, c := range e.children {
		c.writeText(b)
	}
}

// IsVisible reports whether neither the element nor an ancestor is display:none
func (e *Element) IsVisible() bool {
	for n := e; n != nil; n = n.parent {
		if n.Display == DisplayNone {
			return false
		}
	}
	return true
}

// Focus makes the element the document's active element
func (e *Element) Focus() {
	if e.doc != nil {
		e.doc.active = e
	}
}

// Focused reports whether the element is the document's active element
func (e *Element) Focused() bool {
	return e.doc != nil && e.doc.active == e
}

// QuerySelector returns the first descendant matching the selector, nil if none
func (e *Element) QuerySelector(selector string) *Element {
	m := parseSelector(selector)
	var found *Element
	e.walk(func(n *Element) bool {
		if n != e && m.matches(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// QuerySelectorAll returns all descendants matching the selector in document order
func (e *Element) QuerySelectorAll(selector string) []*Element {
	m := parseSelector(selector)
	var found []*Element
	e.walk(func(n *Element) bool {
		if n != e && m.matches(n) {
			found = append(found, n)
		}
		return true
	})
	return found
}

// walk visits e and its descendants depth-first until visit returns false
func (e *Element) walk(visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// selector is the subset of CSS selectors the page needs: .class, #id or tag
type selector struct {
	kind  byte
	value string
}

func parseSelector(s string) selector {
	s = strings.TrimSpace(s)
	if s == "" {
		return selector{}
	}
	switch s[0] {
	case '.', '#':
		return selector{kind: s[0], value: s[1:]}
	default:
		return selector{kind: 't', value: strings.ToLower(s)}
	}
}

func (s selector) matches(e *Element) bool {
	switch s.kind {
	case '.':
		return e.HasClass(s.value)
	case '#':
		return e.ID == s.value
	case 't':
		return e.Tag == s.value
	default:
		return false
	}
}

// Clone returns a detached deep copy of the element
func (e *Element) Clone() *Element {
	c := NewElement(e.Tag)
	c.ID = e.ID
	c.Classes = append([]string(nil), e.Classes...)
	c.Content = e.Content
	c.Value = e.Value
	c.Display = e.Display
	for k, v := range e.attrs {
		c.attrs[k] = v
	}
	for _, child := range e.children {
		c.Append(child.Clone())
	}
	return c
}

// SetInnerContent replaces the content and children of e with a copy of
// those of src, like assigning innerHTML
func (e *Element) SetInnerContent(src *Element) {
	for _, child := range e.children {
		child.parent = nil
		child.adopt(nil)
	}
	e.children = nil
	e.Content = src.Content
	for _, child := range src.children {
		e.Append(child.Clone())
	}
}
