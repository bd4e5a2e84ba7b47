// Package cli wires the issuerpick commands together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"issuerpick/internal/config"
	"issuerpick/internal/domain"
	"issuerpick/internal/eventbus"
	"issuerpick/internal/form"
	"issuerpick/internal/logging"
	"issuerpick/internal/navigate"
	"issuerpick/internal/page"
	"issuerpick/internal/picker"
	"issuerpick/internal/ui"
)

// version is set at build time
var version = "dev"

const e2eEnv = "ISSUERPICK_E2E_TEST"

var (
	// ErrCancelled is returned when the page is closed without choosing
	ErrCancelled = errors.New("no issuer chosen")
	// ErrNoTerminal is returned when the interactive page has no terminal
	ErrNoTerminal = errors.New("the login page needs a terminal; use --issuer or the list command")
	// ErrUnknownIssuer is returned for an --issuer that is not configured
	ErrUnknownIssuer = errors.New("unknown issuer")
)

// app holds the state shared by the commands
type app struct {
	v        *viper.Viper
	closeLog func() error

	issuer string
	next   string
	open   bool
	copy   bool

	// isTerminal reports whether stdin is a terminal; replaced in tests
	isTerminal func() bool
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	a := newApp()
	cmd := a.rootCmd()
	err := cmd.Execute()
	a.shutdownLogging()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrCancelled):
		return 130
	default:
		return 1
	}
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	return &app{
		v:          v,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// NewRootCmd returns the issuerpick command tree
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issuerpick",
		Short:   "Choose an identity issuer and start a login",
		Version: version,
		Long: `issuerpick shows a login page with a searchable list of identity issuers.
Clicking an issuer submits the login form; the resulting request is printed
and can be opened in a browser or copied to the clipboard.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLogin(cmd.Context(), cmd.OutOrStdout())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is "+config.DefaultPath()+")")
	flags.String("log-file", "", "log file (default is "+logging.DefaultPath()+")")
	flags.Bool("debug", false, "enable debug logging")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("log_file", flags.Lookup("log-file"))
	_ = a.v.BindPFlag("debug", flags.Lookup("debug"))

	cmd.Flags().StringVar(&a.issuer, "issuer", "", "submit the login for this issuer id without showing the page")
	cmd.Flags().StringVar(&a.next, "next", "", "value of the next field sent with the login")
	cmd.Flags().BoolVar(&a.open, "open", false, "open the login URL in the system browser")
	cmd.Flags().BoolVar(&a.copy, "copy", false, "copy the login URL to the clipboard")

	cmd.AddCommand(a.listCmd(), a.configCmd())
	return cmd
}

func (a *app) setupLogging() error {
	if a.closeLog != nil {
		return nil
	}
	closeLog, err := logging.Init(a.v.GetString("log_file"), a.v.GetBool("debug"))
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	logging.Debugf("issuerpick %s starting", version)
	return nil
}

func (a *app) shutdownLogging() {
	if a.closeLog != nil {
		_ = a.closeLog()
		a.closeLog = nil
	}
}

func (a *app) configService(bus eventbus.EventBus) config.ConfigService {
	return config.NewConfigServiceWithBus(a.v.GetString("config"), bus)
}

func (a *app) loadConfig(bus eventbus.EventBus) (config.ConfigService, *config.Config, error) {
	svc := a.configService(bus)
	cfg, err := svc.Load()
	if errors.Is(err, config.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w (run \"issuerpick config init\" to create one)", err)
	}
	if err != nil {
		return nil, nil, err
	}
	if a.next != "" {
		cfg.Login.Next = a.next
	}
	return svc, cfg, nil
}

func (a *app) runLogin(ctx context.Context, out io.Writer) error {
	bus := eventbus.New()
	svc, cfg, err := a.loadConfig(bus)
	if err != nil {
		return err
	}

	var sub domain.Submission
	if a.issuer != "" {
		sub, err = a.directSubmission(cfg)
	} else {
		sub, err = a.interactiveSubmission(ctx, bus, svc, cfg)
	}
	if err != nil {
		return err
	}
	return navigate.Navigate(out, sub, navigate.Options{Open: a.open, Copy: a.copy})
}

// directSubmission fills the issuer field of the page and submits the form
// without showing it
func (a *app) directSubmission(cfg *config.Config) (domain.Submission, error) {
	if _, ok := cfg.FindIssuer(a.issuer); !ok {
		return domain.Submission{}, fmt.Errorf("%w: %q", ErrUnknownIssuer, a.issuer)
	}
	doc := page.Build(cfg.Login, cfg.Issuers)
	doc.GetElementByID(picker.IssuerFieldID).Value = a.issuer
	logging.Infof("submitting %s directly", a.issuer)
	return form.Build(doc.GetElementByID(picker.FormID))
}

func (a *app) interactiveSubmission(ctx context.Context, bus eventbus.EventBus, svc config.ConfigService, cfg *config.Config) (domain.Submission, error) {
	if !a.isTerminal() {
		return domain.Submission{}, ErrNoTerminal
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model, err := ui.NewModel(bus, cfg.Login, cfg.Issuers, ui.Options{
		ConfigPath:  svc.Path(),
		ReadySignal: os.Getenv(e2eEnv) == "1",
	})
	if err != nil {
		return domain.Submission{}, err
	}
	defer model.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		// Keep stdout clean for the printed request
		opts = append(opts, tea.WithOutput(os.Stderr))
	}
	p := tea.NewProgram(model, opts...)
	model.SetProgram(p)

	// Events published off the program goroutine reach the model as messages
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		if changed, ok := e.(eventbus.ConfigChangedEvent); ok && a.next != "" {
			changed.Login.Next = a.next
			e = changed
		}
		select {
		case eventChan <- e:
		default:
			logging.Warnf("event channel full, dropping %s", e.Type())
		}
	}
	unsubChanged := bus.Subscribe(eventbus.EventConfigChanged, forward)
	unsubError := bus.Subscribe(eventbus.EventError, forward)
	defer unsubChanged()
	defer unsubError()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			}
		}
	}()

	if w, err := config.NewWatcher(svc, bus); err != nil {
		logging.Warnf("config reload disabled: %v", err)
	} else if err := w.Start(ctx); err != nil {
		logging.Warnf("config reload disabled: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Quit()
		case <-ctx.Done():
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return domain.Submission{}, fmt.Errorf("run login page: %w", err)
	}
	sub, ok := model.Submission()
	if !ok {
		logging.Infof("login page closed without a choice")
		return domain.Submission{}, ErrCancelled
	}
	return sub, nil
}
