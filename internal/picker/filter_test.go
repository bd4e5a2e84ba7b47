package picker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"issuerpick/internal/dom"
	"issuerpick/internal/domain"
	"issuerpick/internal/eventbus"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		filter, text, tags string
		want               bool
	}{
		{"", "Google", "", true},
		{"oid", "Google", "oauth oidc", true},
		{"oid", "Okta", "saml", false},
		{"GOO", "Google", "", true},
		{"am", "Okta", "saml", true},
		{"oauth oidc", "Google", "oauth oidc", true},
		{"google oauth", "Google", "oauth oidc", false},
		{"x", "", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.filter, tt.text, tt.tags), "filter=%q text=%q tags=%q", tt.filter, tt.text, tt.tags)
	}
}

func TestFilterIssuersKeepsOrder(t *testing.T) {
	issuers := []domain.Issuer{
		{ID: "https://b", DisplayName: "Beta", Tags: []string{"saml"}},
		{ID: "https://a", DisplayName: "Alpha", Tags: []string{"oidc"}},
		{ID: "https://c", OrganizationName: "Gamma Org"},
	}

	assert.Len(t, FilterIssuers(issuers, ""), 3)
	assert.Equal(t, []domain.Issuer{issuers[1]}, FilterIssuers(issuers, "OIDC"))
	assert.Equal(t, []domain.Issuer{issuers[2]}, FilterIssuers(issuers, "gamma"))
	assert.Empty(t, FilterIssuers(issuers, "https"), "ids are not searchable when a name is shown")
}

var asciiWord = rapid.StringMatching(`[A-Za-z0-9 ,\-]{0,12}`)

func TestMatchesSubstringProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := asciiWord.Draw(t, "text")
		tags := asciiWord.Draw(t, "tags")
		source := rapid.SampledFrom([]string{text, tags}).Draw(t, "source")
		i := rapid.IntRange(0, len(source)).Draw(t, "i")
		j := rapid.IntRange(i, len(source)).Draw(t, "j")
		filter := source[i:j]
		if rapid.Bool().Draw(t, "upper") {
			filter = strings.ToUpper(filter)
		}

		if !Matches(filter, text, tags) {
			t.Fatalf("substring %q of %q not matched (text=%q tags=%q)", filter, source, text, tags)
		}
	})
}

func TestMatchesRejectsAbsentFilterProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-m ]{0,12}`).Draw(t, "text")
		tags := rapid.StringMatching(`[a-m ]{0,12}`).Draw(t, "tags")
		filter := rapid.StringMatching(`[n-z]{1,4}`).Draw(t, "filter")

		if Matches(filter, text, tags) {
			t.Fatalf("filter %q matched text=%q tags=%q", filter, text, tags)
		}
	})
}

// The widget and FilterIssuers must agree on which rows stay visible
func TestWidgetAgreesWithFilterIssuersProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(t, "n")
		issuers := make([]domain.Issuer, n)
		rows := make([][3]string, n)
		for k := 0; k < n; k++ {
			issuers[k] = domain.Issuer{
				ID:          "id-" + asciiWord.Draw(t, "id"),
				DisplayName: asciiWord.Draw(t, "name"),
				Tags:        []string{asciiWord.Draw(t, "tag1"), asciiWord.Draw(t, "tag2")},
			}
			rows[k] = [3]string{issuers[k].ID, issuers[k].Label(), issuers[k].TagString()}
		}
		filter := rapid.StringMatching(`[A-Za-z ]{0,3}`).Draw(t, "filter")

		pg := newPage(rows...)
		bus := eventbus.New()
		p, err := Bind(pg.doc, bus, &fakeSubmitter{})
		if err != nil {
			t.Fatal(err)
		}
		defer p.Detach()
		pg.input.Value = filter
		bus.Publish(eventbus.InputEvent{Target: pg.input, Value: filter})

		want := FilterIssuers(issuers, filter)
		got := p.VisibleOptions()
		if len(got) != len(want) {
			t.Fatalf("widget shows %d rows, FilterIssuers keeps %d", len(got), len(want))
		}
		for k := range got {
			if got[k].GetAttribute(AttrValue) != want[k].ID {
				t.Fatalf("row %d: widget %q, FilterIssuers %q", k, got[k].GetAttribute(AttrValue), want[k].ID)
			}
		}
		for _, o := range p.Options() {
			if o.Display != dom.DisplayFlex && o.Display != dom.DisplayNone {
				t.Fatalf("unexpected display %q after filtering", o.Display)
			}
		}
	})
}
