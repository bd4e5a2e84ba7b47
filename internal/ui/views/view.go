package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"issuerpick/internal/dom"
	"issuerpick/internal/page"
	"issuerpick/internal/picker"
)

const (
	maxBoxWidth = 48
	minBoxWidth = 16

	// ReadySignal is printed on the first line when end-to-end tests drive
	// the program
	ReadySignal = "__READY__"

	noMatches = "No matching issuer"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Doc           *dom.Document
	Search        string // rendered search field
	Status        string
	StatusIsError bool
	Footer        string
	Ready         bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	zones  *zone.Manager
	prefix string

	// Zone ids are stable for the elements of one document
	doc *dom.Document
	ids map[*dom.Element]string
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	zones := zone.New()
	return &Renderer{
		styles: NewStyles(),
		zones:  zones,
		prefix: zones.NewPrefix(),
	}
}

// Close stops the zone manager
func (r *Renderer) Close() {
	r.zones.Close()
}

// mark wraps v in the zone markers of el and records el as drawn in l
func (r *Renderer) mark(l *Layout, el *dom.Element, v string) string {
	id, ok := r.ids[el]
	if !ok {
		id = r.prefix + strconv.Itoa(len(r.ids))
		r.ids[el] = id
	}
	l.marks = append(l.marks, marked{id: id, el: el})
	return r.zones.Mark(id, v)
}

// BoxWidth returns the inner width of the toggle and menu boxes for a
// terminal of the given width
func BoxWidth(termWidth int) int {
	w := termWidth - 2*Margin - 2
	if termWidth <= 0 || w > maxBoxWidth {
		w = maxBoxWidth
	}
	if w < minBoxWidth {
		w = minBoxWidth
	}
	return w
}

// SearchWidth returns the width to give the search text input; the cursor
// takes one extra cell
func SearchWidth(termWidth int) int {
	return BoxWidth(termWidth) - 1
}

// Render draws the page and marks where each element lands
func (r *Renderer) Render(state ViewState) *Layout {
	doc := state.Doc
	if doc != r.doc {
		r.doc = doc
		r.ids = make(map[*dom.Element]string)
	}
	l := &Layout{zones: r.zones}
	if state.Ready {
		l.Lines = append(l.Lines, r.styles.Ready.Render(ReadySignal))
	}
	inner := BoxWidth(state.Width)

	if h2 := doc.QuerySelector("h2"); h2 != nil {
		l.blank()
		l.add(r.mark(l, h2, r.styles.Title.Render(h2.TextContent())))
	}
	if h4 := doc.QuerySelector("h4"); h4 != nil {
		l.add(r.mark(l, h4, r.styles.Heading.Render(h4.TextContent())))
	}
	l.blank()

	if dropdown := doc.QuerySelector(picker.SelectorDropdown); dropdown != nil && dropdown.IsVisible() {
		block := r.mark(l, dropdown, r.renderDropdown(l, dropdown, state.Search, inner))
		if f := doc.GetElementByID(picker.FormID); f != nil && f.Contains(dropdown) {
			block = r.mark(l, f, block)
		}
		l.add(block)
	}

	l.blank()
	if state.Status != "" {
		style := r.styles.StatusInfo
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		l.add(style.Render(truncate(state.Status, inner+2)))
	}
	if state.Footer != "" {
		l.add(r.styles.Help.Render(state.Footer))
	}
	return l
}

func (r *Renderer) renderDropdown(l *Layout, dropdown *dom.Element, search string, inner int) string {
	toggle := dropdown.QuerySelector(picker.SelectorToggle)
	menu := dropdown.QuerySelector(picker.SelectorMenu)
	open := menu != nil && menu.Display == dom.DisplayBlock

	var blocks []string
	if toggle != nil {
		arrow := "▾"
		style := r.styles.Toggle
		if open {
			arrow = "▴"
			style = r.styles.ToggleOpen
		}
		line := r.toggleLabel(toggle.TextContent(), inner-2) + " " + arrow
		blocks = append(blocks, r.mark(l, toggle, style.Render(line)))
	}
	if !open {
		return strings.Join(blocks, "\n")
	}

	var lines []string
	if input := menu.QuerySelector(picker.SelectorInput); input != nil {
		if pad := inner - lipgloss.Width(search); pad > 0 {
			search += strings.Repeat(" ", pad)
		}
		lines = append(lines, r.mark(l, input, search))
	}
	shown := 0
	for _, option := range menu.QuerySelectorAll(picker.SelectorOption) {
		if option.Display == dom.DisplayNone {
			continue
		}
		shown++
		row := r.styles.Option.Render(fill(truncate(option.TextContent(), inner), inner))
		lines = append(lines, r.mark(l, option, row))
	}
	if shown == 0 {
		lines = append(lines, r.styles.Dim.Render(fill(noMatches, inner)))
	}

	blocks = append(blocks, r.mark(l, menu, r.styles.Menu.Render(strings.Join(lines, "\n"))))
	return strings.Join(blocks, "\n")
}

// toggleLabel draws the toggle's text; the unchosen label is dimmed
func (r *Renderer) toggleLabel(text string, width int) string {
	label := fill(truncate(text, width), width)
	if text == page.TogglePlaceholder {
		return r.styles.Placeholder.Render(label)
	}
	return label
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func fill(s string, width int) string {
	return runewidth.FillRight(s, width)
}
