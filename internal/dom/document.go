package dom

// Document owns an element tree and tracks keyboard focus
type Document struct {
	Body   *Element
	active *Element
}

// NewDocument creates a document with an empty body
func NewDocument() *Document {
	d := &Document{}
	d.Body = NewElement("body")
	d.Body.adopt(d)
	return d
}

// GetElementByID returns the element with the id, nil if none
func (d *Document) GetElementByID(id string) *Element {
	if d.Body.ID == id {
		return d.Body
	}
	return d.Body.QuerySelector("#" + id)
}

// QuerySelector returns the first element in the body matching the selector
func (d *Document) QuerySelector(selector string) *Element {
	return d.Body.QuerySelector(selector)
}

// QuerySelectorAll returns every element in the body matching the selector
func (d *Document) QuerySelectorAll(selector string) []*Element {
	return d.Body.QuerySelectorAll(selector)
}

// ActiveElement returns the focused element, or the body when nothing is focused
func (d *Document) ActiveElement() *Element {
	if d.active == nil {
		return d.Body
	}
	return d.active
}

// Blur drops focus back to the body
func (d *Document) Blur() {
	d.active = nil
}
