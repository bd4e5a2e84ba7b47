package domain

import (
	"net/url"
	"strings"
)

// DropdownState is the visibility state of the issuer dropdown panel
type DropdownState int

const (
	Closed DropdownState = iota
	Open
)

func (s DropdownState) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Issuer is a login provider offered on the login page
type Issuer struct {
	ID               string   `toml:"id" mapstructure:"id" json:"id"`
	DisplayName      string   `toml:"display_name,omitempty" mapstructure:"display_name" json:"display_name,omitempty"`
	OrganizationName string   `toml:"organization_name,omitempty" mapstructure:"organization_name" json:"organization_name,omitempty"`
	Tags             []string `toml:"tags,omitempty" mapstructure:"tags" json:"tags,omitempty"`
}

// Label returns the name shown for the issuer: the display name, then the
// organization name, then the issuer id
func (i Issuer) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.OrganizationName != "" {
		return i.OrganizationName
	}
	return i.ID
}

// TagString joins the tags the way they are stored in data-tags
func (i Issuer) TagString() string {
	return strings.Join(i.Tags, " ")
}

// LoginSettings describes the login form the issuer field belongs to
type LoginSettings struct {
	Title       string `toml:"title" mapstructure:"title"`
	Action      string `toml:"action" mapstructure:"action"`
	Method      string `toml:"method" mapstructure:"method"`
	IssuerParam string `toml:"issuer_param" mapstructure:"issuer_param"`
	Next        string `toml:"next,omitempty" mapstructure:"next"`
}

// Submission is the request a submitted login form navigates to
type Submission struct {
	Method string
	Action string
	Fields url.Values
	URL    string // request URL; includes the encoded fields for GET
}

// Body returns the encoded request body, empty for GET
func (s Submission) Body() string {
	if s.Method == "GET" {
		return ""
	}
	return s.Fields.Encode()
}
