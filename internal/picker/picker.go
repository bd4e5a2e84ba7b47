// Package picker implements the issuer dropdown of the login page: a toggle
// button, a search field filtering the option rows, and a click on a row that
// fills the hidden issuer field and submits the login form.
package picker

import (
	"errors"
	"fmt"
	"strings"

	"issuerpick/internal/dom"
	"issuerpick/internal/domain"
	"issuerpick/internal/eventbus"
	"issuerpick/internal/logging"
)

// Element lookups performed by Bind
const (
	SelectorDropdown = ".dropdown"
	SelectorToggle   = ".dropdown-toggle"
	SelectorMenu     = ".dropdown-menu"
	SelectorInput    = "input"
	SelectorOption   = ".option"
	IssuerFieldID    = "issuer"
	FormID           = "form"

	AttrValue = "data-value"
	AttrTags  = "data-tags"
)

// ErrMissingElement is returned by Bind when the page lacks an element the
// widget needs
var ErrMissingElement = errors.New("missing element")

// Submitter submits a form element
type Submitter interface {
	Submit(form *dom.Element) error
}

// Picker is a bound issuer dropdown. It stays attached to the bus until
// Detach is called.
type Picker struct {
	bus       eventbus.EventBus
	submitter Submitter

	dropdown    *dom.Element
	toggle      *dom.Element
	menu        *dom.Element
	input       *dom.Element
	options     []*dom.Element
	issuerField *dom.Element
	form        *dom.Element

	state    domain.DropdownState
	unsubs   []func()
	detached bool
}

// Bind looks up the dropdown elements in doc, closes the panel and starts
// listening for clicks and input on bus
func Bind(doc *dom.Document, bus eventbus.EventBus, submitter Submitter) (*Picker, error) {
	p := &Picker{bus: bus, submitter: submitter}

	if p.dropdown = doc.QuerySelector(SelectorDropdown); p.dropdown == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingElement, SelectorDropdown)
	}
	if p.toggle = p.dropdown.QuerySelector(SelectorToggle); p.toggle == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingElement, SelectorToggle)
	}
	if p.menu = p.dropdown.QuerySelector(SelectorMenu); p.menu == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingElement, SelectorMenu)
	}
	if p.input = p.menu.QuerySelector(SelectorInput); p.input == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrMissingElement, SelectorMenu, SelectorInput)
	}
	p.options = p.menu.QuerySelectorAll(SelectorOption)
	if p.issuerField = doc.GetElementByID(IssuerFieldID); p.issuerField == nil {
		return nil, fmt.Errorf("%w: #%s", ErrMissingElement, IssuerFieldID)
	}
	if p.form = doc.GetElementByID(FormID); p.form == nil {
		return nil, fmt.Errorf("%w: #%s", ErrMissingElement, FormID)
	}

	p.setState(domain.Closed)

	p.listen(eventbus.EventClick, p.onToggleClick)
	for _, option := range p.options {
		p.listen(eventbus.EventClick, func(e eventbus.DomainEvent) { p.onOptionClick(option, e) })
	}
	p.listen(eventbus.EventClick, p.onDocumentClick)
	p.listen(eventbus.EventInput, p.onInput)

	logging.Debugf("picker bound with %d options", len(p.options))
	return p, nil
}

func (p *Picker) listen(eventType eventbus.EventType, handler eventbus.EventHandler) {
	p.unsubs = append(p.unsubs, p.bus.Subscribe(eventType, handler))
}

// Detach removes every listener registered by Bind. The element tree is left
// as it is.
func (p *Picker) Detach() {
	if p.detached {
		return
	}
	p.detached = true
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
}

// State returns the current panel state
func (p *Picker) State() domain.DropdownState {
	return p.state
}

// Input returns the search field
func (p *Picker) Input() *dom.Element {
	return p.input
}

// Toggle returns the toggle button
func (p *Picker) Toggle() *dom.Element {
	return p.toggle
}

// Filter returns the current search text
func (p *Picker) Filter() string {
	return p.input.Value
}

// Options returns every option row, visible or not, in document order
func (p *Picker) Options() []*dom.Element {
	return p.options
}

// VisibleOptions returns the option rows the current filter keeps visible
func (p *Picker) VisibleOptions() []*dom.Element {
	var visible []*dom.Element
	for _, o := range p.options {
		if o.Display != dom.DisplayNone {
			visible = append(visible, o)
		}
	}
	return visible
}

// setState is the only place the panel state changes
func (p *Picker) setState(s domain.DropdownState) {
	p.state = s
	if s == domain.Open {
		p.menu.Display = dom.DisplayBlock
	} else {
		p.menu.Display = dom.DisplayNone
	}
}

func (p *Picker) onToggleClick(e eventbus.DomainEvent) {
	click, ok := e.(eventbus.ClickEvent)
	if !ok || !p.toggle.Contains(click.Target) {
		return
	}
	if p.state == domain.Open {
		p.setState(domain.Closed)
		return
	}
	p.setState(domain.Open)
	if !p.input.Focused() {
		p.input.Focus()
	}
}

func (p *Picker) onOptionClick(option *dom.Element, e eventbus.DomainEvent) {
	click, ok := e.(eventbus.ClickEvent)
	if !ok || !option.Contains(click.Target) {
		return
	}
	p.toggle.SetInnerContent(option)
	value := option.GetAttribute(AttrValue)
	p.issuerField.Value = value
	p.setState(domain.Closed)

	logging.Infof("issuer selected: %s", value)
	if err := p.submitter.Submit(p.form); err != nil {
		logging.Errorf("failed to submit login form: %v", err)
		p.bus.Publish(eventbus.ErrorEvent{Message: "failed to submit login form", Err: err})
	}
}

func (p *Picker) onDocumentClick(e eventbus.DomainEvent) {
	click, ok := e.(eventbus.ClickEvent)
	if !ok {
		return
	}
	if !p.dropdown.Contains(click.Target) {
		p.setState(domain.Closed)
	}
}

func (p *Picker) onInput(e eventbus.DomainEvent) {
	input, ok := e.(eventbus.InputEvent)
	if !ok || input.Target != p.input {
		return
	}
	filter := strings.ToLower(p.input.Value)
	for _, option := range p.options {
		if Matches(filter, option.TextContent(), option.GetAttribute(AttrTags)) {
			option.Display = dom.DisplayFlex
		} else {
			option.Display = dom.DisplayNone
		}
	}
}
