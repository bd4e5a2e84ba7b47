// Package page builds the login page element tree the issuer picker binds to.
package page

import (
	"sort"
	"strings"

	"issuerpick/internal/dom"
	"issuerpick/internal/domain"
)

const (
	DefaultTitle       = "Login"
	DefaultIssuerParam = "issuer"
	Heading            = "Choose an issuer to login"
	TogglePlaceholder  = "Choose issuer..."
	SearchPlaceholder  = "Search..."
)

// IssuerParams are the query parameter names a login endpoint accepts for
// the issuer
var IssuerParams = []string{"op", "entity_id", "entity", "iss", "issuer"}

// Build renders the login page for the given settings and issuers
func Build(login domain.LoginSettings, issuers []domain.Issuer) *dom.Document {
	doc := dom.NewDocument()

	title := login.Title
	if title == "" {
		title = DefaultTitle
	}
	param := login.IssuerParam
	if param == "" {
		param = DefaultIssuerParam
	}

	menu := dom.NewElement("div").WithClass("dropdown-menu")
	menu.Append(dom.NewElement("input").
		WithAttr("type", "text").
		WithAttr("placeholder", SearchPlaceholder))
	for _, iss := range SortIssuers(issuers) {
		menu.Append(dom.NewElement("div").WithClass("option").
			WithAttr("data-value", iss.ID).
			WithAttr("data-tags", iss.TagString()).
			WithContent(iss.Label()))
	}

	dropdown := dom.NewElement("div").WithClass("dropdown").Append(
		dom.NewElement("button").WithClass("dropdown-toggle").WithContent(TogglePlaceholder),
		menu,
	)

	form := dom.NewElement("form").WithID("form").
		WithAttr("action", login.Action).
		WithAttr("method", login.Method)
	form.Append(
		dropdown,
		dom.NewElement("input").WithID("issuer").
			WithAttr("type", "hidden").
			WithAttr("name", param),
	)
	if login.Next != "" {
		next := dom.NewElement("input").WithAttr("type", "hidden").WithAttr("name", "next")
		next.Value = login.Next
		form.Append(next)
	}

	doc.Body.Append(
		dom.NewElement("h2").WithContent(title),
		dom.NewElement("h4").WithContent(Heading),
		form,
	)
	return doc
}

// SortIssuers returns a copy of issuers ordered by label, case-insensitively,
// ties broken by id
func SortIssuers(issuers []domain.Issuer) []domain.Issuer {
	sorted := make([]domain.Issuer, len(issuers))
	copy(sorted, issuers)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := strings.ToLower(sorted[i].Label()), strings.ToLower(sorted[j].Label())
		if li != lj {
			return li < lj
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// ValidIssuerParam reports whether name is one of IssuerParams
func ValidIssuerParam(name string) bool {
	for _, p := range IssuerParams {
		if p == name {
			return true
		}
	}
	return false
}
