package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"issuerpick/internal/dom"
	"issuerpick/internal/domain"
	"issuerpick/internal/eventbus"
	"issuerpick/internal/form"
	"issuerpick/internal/logging"
	"issuerpick/internal/page"
	"issuerpick/internal/picker"
	"issuerpick/internal/ui/views"
)

const statusTimeout = 4 * time.Second

// Options tune the program around the page
type Options struct {
	// ConfigPath is shown in the help screen
	ConfigPath string
	// ReadySignal prints a marker line for end-to-end tests
	ReadySignal bool
}

// Model hosts the login page in the terminal
type Model struct {
	bus       eventbus.EventBus
	opts      Options
	doc       *dom.Document
	picker    *picker.Picker
	submitter *form.Submitter

	search   textinput.Model
	help     help.Model
	renderer *views.Renderer
	// frame is the last layout handed to the terminal; mouse presses are
	// resolved against it
	frame *views.Layout

	width         int
	height        int
	status        string
	statusIsError bool
	inPagerMode   bool

	submission  *domain.Submission
	cancelled   bool
	unsubscribe func()

	// Program reference for terminal management
	program *tea.Program
}

// NewModel builds the page for login and issuers and binds the picker to it
func NewModel(bus eventbus.EventBus, login domain.LoginSettings, issuers []domain.Issuer, opts Options) (*Model, error) {
	m := &Model{
		bus:       bus,
		opts:      opts,
		submitter: form.NewSubmitter(bus),
		search:    newSearchInput(),
		help:      help.New(),
		renderer:  views.NewRenderer(),
	}
	if err := m.load(login, issuers); err != nil {
		return nil, err
	}

	// Submissions happen inside Update, so the handler runs on the program
	// goroutine
	m.unsubscribe = bus.Subscribe(eventbus.EventFormSubmitted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.FormSubmittedEvent); ok {
			s := event.Submission
			m.submission = &s
		}
	})
	return m, nil
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = page.SearchPlaceholder
	ti.PlaceholderStyle = views.NewStyles().Placeholder
	ti.Width = views.SearchWidth(0)
	return ti
}

// load renders a fresh page and binds a new picker to it. The previous
// picker is detached only once the new one is bound.
func (m *Model) load(login domain.LoginSettings, issuers []domain.Issuer) error {
	doc := page.Build(login, issuers)
	p, err := picker.Bind(doc, m.bus, m.submitter)
	if err != nil {
		return fmt.Errorf("bind issuer picker: %w", err)
	}
	if m.picker != nil {
		m.picker.Detach()
	}
	m.doc = doc
	m.picker = p
	m.frame = nil
	m.search.SetValue("")
	m.search.Blur()
	return nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Submission returns the submitted login request, if any
func (m *Model) Submission() (domain.Submission, bool) {
	if m.submission == nil {
		return domain.Submission{}, false
	}
	return *m.submission, true
}

// Cancelled reports whether the user quit without choosing an issuer
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Close detaches the picker and the model's own listeners from the bus and
// stops the renderer's zone tracking
func (m *Model) Close() {
	if m.picker != nil {
		m.picker.Detach()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
		m.renderer.Close()
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = views.SearchWidth(msg.Width)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		return m.handleEvent(msg.Event)

	case helpPagerMsg:
		if msg.err != nil {
			logging.Warnf("help pager failed: %v", msg.err)
			return m, m.setStatus("help unavailable: "+msg.err.Error(), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.status = ""
		m.statusIsError = false
		return m, nil
	}

	// Cursor blink and other textinput internals
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.inPagerMode {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	var target *dom.Element
	if m.frame != nil {
		target = m.frame.Hit(msg)
	}
	if target == nil {
		target = m.doc.Body
	}
	m.click(target)
	return m, m.afterDispatch()
}

// click moves focus the way a pointer press does, then dispatches the click
func (m *Model) click(target *dom.Element) {
	if target == m.picker.Input() {
		target.Focus()
	} else {
		m.doc.Blur()
	}
	logging.Debugf("click on <%s class=%v>", target.Tag, target.Classes)
	m.bus.Publish(eventbus.ClickEvent{Target: target})
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inPagerMode {
		return m, nil
	}
	if key.Matches(msg, keys.ForceQuit) {
		m.cancelled = true
		return m, tea.Quit
	}

	input := m.picker.Input()
	if input.Focused() {
		if key.Matches(msg, keys.Leave) {
			m.doc.Blur()
			return m, m.syncFocus()
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if value := m.search.Value(); value != input.Value {
			input.Value = value
			m.bus.Publish(eventbus.InputEvent{Target: input, Value: value})
		}
		return m, tea.Batch(cmd, m.afterDispatch())
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		return m, m.showHelp()
	case key.Matches(msg, keys.Open):
		// Keyboard activation of the toggle button
		m.click(m.picker.Toggle())
		return m, m.afterDispatch()
	}
	return m, nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case eventbus.ConfigChangedEvent:
		if err := m.load(e.Login, e.Issuers); err != nil {
			logging.Errorf("reload page: %v", err)
			return m, m.setStatus(err.Error(), true)
		}
		logging.Infof("page reloaded with %d issuers", len(e.Issuers))
		return m, m.setStatus(fmt.Sprintf("Reloaded %d issuers", len(e.Issuers)), false)

	case eventbus.ErrorEvent:
		text := e.Message
		if e.Err != nil {
			text = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return m, m.setStatus(text, true)
	}
	return m, nil
}

// afterDispatch runs once the bus has delivered an event: a submission ends
// the program, otherwise the text input follows the page's focus
func (m *Model) afterDispatch() tea.Cmd {
	if m.submission != nil {
		return tea.Quit
	}
	return m.syncFocus()
}

func (m *Model) syncFocus() tea.Cmd {
	focused := m.picker.Input().Focused()
	switch {
	case focused && !m.search.Focused():
		return m.search.Focus()
	case !focused && m.search.Focused():
		m.search.Blur()
	}
	return nil
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.status = text
	m.statusIsError = isError
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// showHelp returns a command that shows help using the ov pager
func (m *Model) showHelp() tea.Cmd {
	content := NewHelpRenderer().RenderHelpContent(m.opts.ConfigPath)
	program := m.program
	return func() tea.Msg {
		if program == nil {
			return helpPagerMsg{err: fmt.Errorf("program not set")}
		}
		program.Send(pauseRenderingMsg{})
		err := NewHelpOps(program).ShowHelpInPager(content)
		program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

func (m *Model) layout() *views.Layout {
	return m.renderer.Render(views.ViewState{
		Width:         m.width,
		Doc:           m.doc,
		Search:        m.search.View(),
		Status:        m.status,
		StatusIsError: m.statusIsError,
		Footer:        m.help.ShortHelpView(keys.shortHelp(m.search.Focused())),
		Ready:         m.opts.ReadySignal,
	})
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.submission != nil || m.cancelled {
		return ""
	}
	m.frame = m.layout()
	return m.frame.Scan()
}
