package picker

import (
	"strings"

	"issuerpick/internal/domain"
)

// Matches reports whether an option with the given text and tags stays
// visible for filter. Matching is case-insensitive substring containment on
// the text or on the raw tag string; an empty filter matches everything.
// Tags are not tokenized, so "am" matches the tag "saml".
func Matches(filter, text, tags string) bool {
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(text), f) ||
		strings.Contains(strings.ToLower(tags), f)
}

// FilterIssuers returns the issuers whose option row would stay visible
// for filter, in their original order
func FilterIssuers(issuers []domain.Issuer, filter string) []domain.Issuer {
	var visible []domain.Issuer
	for _, iss := range issuers {
		if Matches(filter, iss.Label(), iss.TagString()) {
			visible = append(visible, iss)
		}
	}
	return visible
}
