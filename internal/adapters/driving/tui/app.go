package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ccswitch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ccswitch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ccswitch/internal/core/domain"
)

// App is the account picker following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// accounts is the current registry snapshot in rotation order.
	accounts []domain.Account

	// activeID is the active account's ID, 0 when none.
	activeID int

	// selected is the highlighted row index.
	selected int

	// pendingRemove holds the account ID awaiting removal
	// confirmation, 0 when none. A second 'd' confirms; any other key
	// cancels.
	pendingRemove int

	// status is the last outcome line shown under the list.
	status string

	// statusIsErr marks the status line as an error.
	statusIsErr bool

	// err holds a fatal load error.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new picker with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: styles.DefaultStyles(),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ccswitch"),
		a.loadAccounts(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case messages.AccountsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, tea.Quit
		}
		a.accounts = msg.Accounts
		a.activeID = msg.ActiveID
		if a.selected >= len(a.accounts) {
			a.selected = max(0, len(a.accounts)-1)
		}
		return a, nil

	case messages.SwitchCompleted:
		if msg.Err != nil {
			a.setStatus(fmt.Sprintf("Switch failed: %v", msg.Err), true)
			return a, nil
		}
		if msg.Result.NoOp {
			a.setStatus(fmt.Sprintf("Already on %s.", msg.Result.To.Label), false)
		} else if msg.Result.TokenSyncErr != nil {
			a.setStatus(fmt.Sprintf("Switched to %s, but the token slot was not updated: %v",
				msg.Result.To.Label, msg.Result.TokenSyncErr), true)
		} else {
			a.setStatus(fmt.Sprintf("Switched to %s.", msg.Result.To.Label), false)
		}
		return a, a.loadAccounts()

	case messages.RemoveCompleted:
		if msg.Err != nil {
			a.setStatus(fmt.Sprintf("Remove failed: %v", msg.Err), true)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("Removed %s.", msg.Removed.Label), false)
		return a, a.loadAccounts()
	}

	return a, nil
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Any key other than a second 'd' cancels a pending removal.
	if a.pendingRemove != 0 && key != "d" {
		a.pendingRemove = 0
		a.status = ""
	}

	switch key {
	case "ctrl+c", "q", "esc":
		return a, tea.Quit

	case "up", "k":
		if a.selected > 0 {
			a.selected--
		}
		return a, nil

	case "down", "j":
		if a.selected < len(a.accounts)-1 {
			a.selected++
		}
		return a, nil

	case "enter":
		if acct, ok := a.selectedAccount(); ok {
			return a, a.switchTo(acct)
		}
		return a, nil

	case "d":
		acct, ok := a.selectedAccount()
		if !ok {
			return a, nil
		}
		if a.pendingRemove == acct.ID {
			a.pendingRemove = 0
			return a, a.remove(acct)
		}
		a.pendingRemove = acct.ID
		a.setStatus(fmt.Sprintf("Press d again to remove %s.", acct.Label), false)
		return a, nil

	case "a":
		a.setStatus("Run 'ccswitch add' from the shell to capture the current login.", false)
		return a, nil

	case "r":
		return a, a.loadAccounts()
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(a.styles.Title.Render("ccswitch"))
	b.WriteString("\n\n")

	if len(a.accounts) == 0 {
		b.WriteString(a.styles.Muted.Render("No accounts managed yet. Run 'ccswitch add' to start."))
		b.WriteString("\n")
	}

	for i, acct := range a.accounts {
		marker := "  "
		if acct.ID == a.activeID {
			marker = a.styles.Active.Render("* ")
		}

		line := fmt.Sprintf("[%d] %s (%s)", acct.ID, acct.Label, acct.Kind)
		if i == a.selected {
			line = a.styles.Selected.Render("> " + line)
		} else {
			line = "  " + a.styles.Normal.Render(line)
		}

		b.WriteString(marker)
		b.WriteString(line)
		b.WriteString("\n")
	}

	if a.status != "" {
		b.WriteString("\n")
		style := a.styles.Success
		if a.statusIsErr {
			style = a.styles.Error
		} else if a.pendingRemove != 0 {
			style = a.styles.Warning
		}
		b.WriteString(style.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[j/k] Navigate  [Enter] Switch  [d] Remove  [a] Add  [q] Quit"))

	return b.String()
}

// Err returns the fatal load error, if any.
func (a *App) Err() error {
	return a.err
}

// Selected returns the highlighted row index.
func (a *App) Selected() int {
	return a.selected
}

// SetDimensions sets the view dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
}

func (a *App) selectedAccount() (domain.Account, bool) {
	if a.selected < 0 || a.selected >= len(a.accounts) {
		return domain.Account{}, false
	}
	return a.accounts[a.selected], true
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusIsErr = isErr
}

func (a *App) loadAccounts() tea.Cmd {
	return func() tea.Msg {
		accounts, err := a.ports.Accounts.List(a.ctx)
		if err != nil {
			return messages.AccountsLoaded{Err: err}
		}
		var activeID int
		if active, err := a.ports.Accounts.Active(a.ctx); err == nil {
			activeID = active.ID
		}
		return messages.AccountsLoaded{Accounts: accounts, ActiveID: activeID}
	}
}

func (a *App) switchTo(acct domain.Account) tea.Cmd {
	return func() tea.Msg {
		res, err := a.ports.Swap.SwitchTo(a.ctx, strconv.Itoa(acct.ID))
		return messages.SwitchCompleted{Result: res, Err: err}
	}
}

func (a *App) remove(acct domain.Account) tea.Cmd {
	return func() tea.Msg {
		removed, err := a.ports.Swap.Remove(a.ctx, strconv.Itoa(acct.ID))
		return messages.RemoveCompleted{Removed: removed, Err: err}
	}
}
