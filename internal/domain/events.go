package domain

import "issuerpick/internal/dom"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventClick         EventType = "Click"
	EventInput         EventType = "Input"
	EventFormSubmitted EventType = "FormSubmitted"
	EventError         EventType = "Error"
	EventConfigLoaded  EventType = "ConfigLoaded"
	EventConfigChanged EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ClickEvent is dispatched when the user clicks on the page
type ClickEvent struct {
	Target *dom.Element // deepest element under the pointer, the body if none
}

func (e ClickEvent) Type() EventType { return EventClick }

// InputEvent is dispatched whenever the value of an input element changes
type InputEvent struct {
	Target *dom.Element
	Value  string
}

func (e InputEvent) Type() EventType { return EventInput }

// FormSubmittedEvent is emitted when the login form is submitted
type FormSubmittedEvent struct {
	Submission Submission
}

func (e FormSubmittedEvent) Type() EventType { return EventFormSubmitted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path    string
	Login   LoginSettings
	Issuers []Issuer
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigChangedEvent is emitted when the configuration file changed on disk
// and was reloaded successfully
type ConfigChangedEvent struct {
	Path    string
	Login   LoginSettings
	Issuers []Issuer
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
