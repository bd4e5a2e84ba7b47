package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"issuerpick/internal/dom"
)

// Margin is the number of blank columns left of every rendered line
const Margin = 2

type marked struct {
	id string
	el *dom.Element
}

// Layout is one rendered frame. The elements drawn in it are wrapped in zone
// markers until Scan strips them and hands their positions to the zone
// manager.
type Layout struct {
	Lines []string

	zones *zone.Manager
	marks []marked
}

// String joins the rendered lines, zone markers included
func (l *Layout) String() string {
	return strings.Join(l.Lines, "\n")
}

// Scan returns the frame without zone markers and records where each marked
// element landed. Zone positions are stored asynchronously.
func (l *Layout) Scan() string {
	return l.zones.Scan(l.String())
}

// Has reports whether el was drawn in this frame
func (l *Layout) Has(el *dom.Element) bool {
	_, ok := l.idOf(el)
	return ok
}

// ZoneOf returns the recorded screen zone of el. It reports false when el
// is not part of this frame or its position is not known yet.
func (l *Layout) ZoneOf(el *dom.Element) (*zone.ZoneInfo, bool) {
	id, ok := l.idOf(el)
	if !ok {
		return nil, false
	}
	z := l.zones.Get(id)
	if z.IsZero() {
		return nil, false
	}
	return z, true
}

// Hit returns the innermost element drawn under the mouse, or nil when the
// cell belongs to no element
func (l *Layout) Hit(msg tea.MouseMsg) *dom.Element {
	var (
		best     *dom.Element
		bestArea int
	)
	for _, m := range l.marks {
		z := l.zones.Get(m.id)
		if !z.InBounds(msg) {
			continue
		}
		// Nested boxes are never larger than their parents; on a tie the
		// descendant wins
		a := area(z)
		if best == nil || a < bestArea || (a == bestArea && best.Contains(m.el)) {
			best, bestArea = m.el, a
		}
	}
	return best
}

func area(z *zone.ZoneInfo) int {
	return (z.EndX - z.StartX + 1) * (z.EndY - z.StartY + 1)
}

func (l *Layout) idOf(el *dom.Element) (string, bool) {
	for _, m := range l.marks {
		if m.el == el {
			return m.id, true
		}
	}
	return "", false
}

// blank appends an empty line
func (l *Layout) blank() {
	l.Lines = append(l.Lines, "")
}

// add appends a rendered block at the left margin
func (l *Layout) add(block string) {
	pad := strings.Repeat(" ", Margin)
	for _, line := range strings.Split(block, "\n") {
		l.Lines = append(l.Lines, pad+line)
	}
}
