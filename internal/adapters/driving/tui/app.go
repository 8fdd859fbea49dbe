package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/components/results"
	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/capsql/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/capsql/internal/logger"
)

// Console commands.
const (
	commandSave = ".save"
	commandQuit = ".quit"
	commandExit = ".exit"
	commandHelp = ".help"
)

const helpText = `Statements starting with SELECT, EXPLAIN, VALUES, a read-only PRAGMA or a
WITH that does not write print their rows; anything else runs as raw SQL.

  .save   write the database to the snapshot store (ctrl+s)
  .quit   leave the console (ctrl+c)
  .help   show this text`

// readKeywords start statements whose rows are printed.
var readKeywords = []string{"SELECT", "WITH", "EXPLAIN", "VALUES", "PRAGMA"}

// writeKeywords make a WITH statement a write.
var writeKeywords = []string{"INSERT", "UPDATE", "DELETE", "REPLACE"}

// App is the SQL console following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// database is the open database the console acts on.
	database string

	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.StatementInput
	status *status.Bar

	// output holds rendered blocks, oldest first.
	output []string

	// running is set while a statement or save is in flight.
	running bool

	// confirmQuit is set after a quit request with unsaved changes.
	confirmQuit bool

	// width and height are terminal dimensions.
	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a console for an already open database.
func NewApp(ports *Ports, database string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if database == "" {
		return nil, ErrMissingDatabase
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		database: database,
		styles:   s,
		keymap:   km,
		input:    input.NewStatementInput(s),
		status:   status.NewBar(s, km, database),
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
		a.input.Init(),
		tea.SetWindowTitle("capsql - "+a.database),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.QueryCompleted:
		a.running = false
		a.appendEcho(msg.Statement)
		if msg.Err != nil {
			a.appendError(msg.Err)
			return a, nil
		}
		if len(msg.Rows) == 0 {
			a.output = append(a.output, a.styles.Muted.Render("No rows."))
		} else {
			a.output = append(a.output, results.Render(msg.Rows, a.width, a.styles))
		}
		a.status.SetState(status.StateReady, fmt.Sprintf("%d row(s)", len(msg.Rows)))
		return a, nil

	case messages.ExecCompleted:
		a.running = false
		a.appendEcho(msg.Statement)
		if msg.Err != nil {
			a.appendError(msg.Err)
			return a, nil
		}
		summary := fmt.Sprintf("%d change(s), last insert id %d", msg.Changes.Changes, msg.Changes.LastID)
		a.output = append(a.output, a.styles.Success.Render(summary))
		a.status.SetDirty(true)
		a.status.SetState(status.StateReady, summary)
		return a, nil

	case messages.SaveCompleted:
		a.running = false
		if msg.Err != nil {
			a.appendError(msg.Err)
			return a, nil
		}
		a.status.SetDirty(false)
		a.status.SetState(status.StateSaved, "")
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keymap.Quit) {
		return a, a.quit()
	}
	a.confirmQuit = false

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, a.keymap.Save):
		cmd = a.save()
	case key.Matches(msg, a.keymap.Clear):
		a.output = nil
	case key.Matches(msg, a.keymap.Previous):
		a.input.Previous()
	case key.Matches(msg, a.keymap.Next):
		a.input.Next()
	case key.Matches(msg, a.keymap.Submit):
		if a.running {
			return a, nil
		}
		cmd = a.submit(strings.TrimSpace(a.input.Commit()))
	default:
		a.input, cmd = a.input.Update(msg)
	}
	return a, cmd
}

// quit leaves the console. With unsaved changes the first request only warns.
func (a *App) quit() tea.Cmd {
	if a.status.Dirty() && !a.confirmQuit {
		a.confirmQuit = true
		a.status.SetState(status.StateError, "unsaved changes; quit again to discard or save first")
		return nil
	}
	return tea.Quit
}

func (a *App) submit(statement string) tea.Cmd {
	switch strings.ToLower(statement) {
	case "":
		return nil
	case commandSave:
		return a.save()
	case commandQuit, commandExit:
		return a.quit()
	case commandHelp:
		a.output = append(a.output, a.styles.Muted.Render(helpText))
		return nil
	}

	a.running = true
	a.status.SetState(status.StateRunning, "")

	db, ctx, database := a.ports.Database, a.ctx, a.database
	if isRead(statement) {
		return func() tea.Msg {
			rows, err := db.Query(ctx, database, statement, nil)
			return messages.QueryCompleted{Statement: statement, Rows: rows, Err: err}
		}
	}
	return func() tea.Msg {
		changes, err := db.Execute(ctx, database, []string{statement})
		return messages.ExecCompleted{Statement: statement, Changes: changes, Err: err}
	}
}

func (a *App) save() tea.Cmd {
	if a.running {
		return nil
	}
	a.running = true
	a.status.SetState(status.StateRunning, "")

	db, ctx, database := a.ports.Database, a.ctx, a.database
	return func() tea.Msg {
		return messages.SaveCompleted{Err: db.SaveToStore(ctx, database)}
	}
}

func (a *App) appendEcho(statement string) {
	a.output = append(a.output, a.styles.Prompt.Render("sql> ")+statement)
}

func (a *App) appendError(err error) {
	a.output = append(a.output, a.styles.Error.Render(err.Error()))
	a.status.SetState(status.StateError, err.Error())
}

// isRead reports whether a statement's rows should be printed.
func isRead(statement string) bool {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimLeft(fields[0], "("))
	if !slices.Contains(readKeywords, first) {
		return false
	}
	switch first {
	case "PRAGMA":
		return !strings.Contains(statement, "=")
	case "WITH":
		return !slices.ContainsFunc(words(statement), func(w string) bool {
			return slices.Contains(writeKeywords, w)
		})
	}
	return true
}

// words returns the upper-cased identifiers of a statement, skipping
// quoted literals.
func words(statement string) []string {
	var out []string
	var word strings.Builder
	var quote rune
	flush := func() {
		if word.Len() > 0 {
			out = append(out, strings.ToUpper(word.String()))
			word.Reset()
		}
	}
	for _, r := range statement {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			flush()
			quote = r
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return out
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("capsql console"))
	b.WriteString(a.styles.Muted.Render("  .help for commands"))
	b.WriteString("\n\n")

	lines := strings.Split(strings.Join(a.output, "\n"), "\n")
	if len(a.output) == 0 {
		lines = nil
	}
	// Header, blank line, input and status bar take four rows.
	if a.height > 0 {
		if room := a.height - 4; room >= 0 && len(lines) > room {
			lines = lines[len(lines)-room:]
		}
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(a.input.View())
	b.WriteString("\n")
	b.WriteString(a.status.View())
	return b.String()
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.input.SetWidth(width)
	a.status.SetWidth(width)
}

// Database returns the database name.
func (a *App) Database() string {
	return a.database
}

// Dirty reports whether the console has run writes since the last save.
func (a *App) Dirty() bool {
	return a.status.Dirty()
}

// Output returns the rendered output blocks.
func (a *App) Output() []string {
	return a.output
}

// Run starts the console and blocks until the user quits.
func Run(ctx context.Context, ports *Ports, database string) error {
	app, err := NewApp(ports, database)
	if err != nil {
		return err
	}

	// Errors are shown in the console; log lines would corrupt the screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	p := tea.NewProgram(app.WithContext(ctx), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
