// Package form turns a login form element into the request the browser
// would send when the form is submitted.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"issuerpick/internal/dom"
	"issuerpick/internal/domain"
	"issuerpick/internal/eventbus"
	"issuerpick/internal/logging"
)

var (
	// ErrAlreadySubmitted is returned once the page has navigated away
	ErrAlreadySubmitted = errors.New("form already submitted")
	// ErrUnsupportedMethod is returned for methods other than GET and POST
	ErrUnsupportedMethod = errors.New("unsupported form method")
	// ErrInvalidAction is returned when the action is not a valid URL
	ErrInvalidAction = errors.New("invalid form action")
)

// Submitter publishes a FormSubmittedEvent for the first form it submits
type Submitter struct {
	bus eventbus.EventBus

	mu        sync.Mutex
	submitted bool
}

// NewSubmitter creates a submitter publishing on bus
func NewSubmitter(bus eventbus.EventBus) *Submitter {
	return &Submitter{bus: bus}
}

// Submitted reports whether a form has been submitted
func (s *Submitter) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Submit builds the submission for form and publishes it
func (s *Submitter) Submit(form *dom.Element) error {
	s.mu.Lock()
	if s.submitted {
		s.mu.Unlock()
		return ErrAlreadySubmitted
	}
	sub, err := Build(form)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.submitted = true
	s.mu.Unlock()

	logging.Infof("submitting login form: %s %s", sub.Method, sub.Action)
	s.bus.Publish(eventbus.FormSubmittedEvent{Submission: sub})
	return nil
}

// Build collects the named input fields of form and resolves its method and
// action into a Submission
func Build(form *dom.Element) (domain.Submission, error) {
	method, err := Method(form.GetAttribute("method"))
	if err != nil {
		return domain.Submission{}, err
	}

	action := form.GetAttribute("action")
	target, err := url.Parse(action)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("%w: %q: %v", ErrInvalidAction, action, err)
	}

	fields := url.Values{}
	for _, input := range form.QuerySelectorAll("input") {
		name := input.GetAttribute("name")
		if name == "" {
			continue
		}
		fields.Add(name, input.Value)
	}

	if method == "GET" {
		query := target.Query()
		for name, values := range fields {
			query.Del(name)
			for _, v := range values {
				query.Add(name, v)
			}
		}
		target.RawQuery = query.Encode()
	}

	return domain.Submission{
		Method: method,
		Action: action,
		Fields: fields,
		URL:    target.String(),
	}, nil
}

// Method normalizes a form method attribute; empty means GET
func Method(attr string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(attr))
	switch m {
	case "":
		return "GET", nil
	case "GET", "POST":
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, attr)
	}
}
