package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docsage/docsage/internal/adapters/driving/tui/messages"
	"github.com/docsage/docsage/internal/adapters/driving/tui/styles"
	"github.com/docsage/docsage/internal/core/domain"
)

// entry is one question/answer exchange in the transcript.
type entry struct {
	question string
	answer   *domain.Answer
	err      error
}

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model

	entries  []entry
	asking   bool
	docCount int

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask a question about your documents..."
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		input:   ti,
		spinner: sp,
		width:   80,
		height:  24,
	}, nil
}

// WithContext sets the context used for answer service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadDocumentCount())
}

// Update handles messages following the Elm architecture.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.AskCompleted:
		a.asking = false
		a.entries = append(a.entries, entry{question: msg.Question, answer: msg.Answer})
		a.refreshTranscript()
		return a, nil

	case messages.AskFailed:
		a.asking = false
		a.entries = append(a.entries, entry{question: msg.Question, answer: msg.Answer, err: msg.Err})
		a.refreshTranscript()
		return a, nil

	case messages.DocumentCount:
		a.docCount = msg.Count
		return a, nil

	case spinner.TickMsg:
		if !a.asking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmds []tea.Cmd
	var inputCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	var vpCmd tea.Cmd
	a.transcript, vpCmd = a.transcript.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return a, tea.Quit

	case tea.KeyEnter:
		question := strings.TrimSpace(a.input.Value())
		if question == "" || a.asking {
			return a, nil
		}
		a.input.Reset()
		a.asking = true
		return a, tea.Batch(a.spinner.Tick, a.ask(question))
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// ask runs the answer service call as an asynchronous command.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Answer.Ask(a.ctx, question, domain.AskOptions{})
		if err != nil {
			return messages.AskFailed{Question: question, Answer: answer, Err: err}
		}
		return messages.AskCompleted{Question: question, Answer: answer}
	}
}

// loadDocumentCount fetches the corpus size for the status line.
func (a *App) loadDocumentCount() tea.Cmd {
	if a.ports.Ingestion == nil {
		return nil
	}
	return func() tea.Msg {
		docs, err := a.ports.Ingestion.List(a.ctx)
		if err != nil {
			return messages.DocumentCount{Count: 0}
		}
		return messages.DocumentCount{Count: len(docs)}
	}
}

// resize recalculates component dimensions from the window size.
func (a *App) resize() {
	inputHeight := 3
	headerHeight := 2
	statusHeight := 1

	vpHeight := a.height - inputHeight - headerHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if a.transcript.Width == 0 {
		a.transcript = viewport.New(a.width, vpHeight)
	} else {
		a.transcript.Width = a.width
		a.transcript.Height = vpHeight
	}
	a.input.Width = a.width - 6
	a.refreshTranscript()
}

// refreshTranscript re-renders the transcript and scrolls to the bottom.
func (a *App) refreshTranscript() {
	a.transcript.SetContent(a.renderEntries())
	a.transcript.GotoBottom()
}

// renderEntries builds the transcript text from all exchanges.
func (a *App) renderEntries() string {
	if len(a.entries) == 0 {
		return a.styles.Muted.Render("No questions yet. Type one below and press enter.")
	}

	var b strings.Builder
	for i, e := range a.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(a.styles.Question.Render("? " + e.question))
		b.WriteString("\n")

		switch {
		case e.err != nil && e.answer != nil && len(e.answer.Citations) > 0:
			// Generation failed after retrieval succeeded; show what we have.
			b.WriteString(a.styles.Error.Render("Answer unavailable: " + e.err.Error()))
			b.WriteString("\n")
			b.WriteString(a.renderCitations(e.answer.Citations))
		case e.err != nil:
			b.WriteString(a.styles.Error.Render("Error: " + e.err.Error()))
		default:
			b.WriteString(a.styles.Answer.Render(e.answer.Text))
			if len(e.answer.Citations) > 0 {
				b.WriteString("\n")
				b.WriteString(a.renderCitations(e.answer.Citations))
			}
		}
	}
	return b.String()
}

// renderCitations formats citation lines under an answer.
func (a *App) renderCitations(citations []domain.Citation) string {
	lines := make([]string, len(citations))
	for i, c := range citations {
		lines[i] = a.styles.Citation.Render(fmt.Sprintf("  [%d] document %s, chunk %s", i+1, c.DocumentID, c.ChunkID))
	}
	return strings.Join(lines, "\n")
}

// View renders the full application.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("docsage chat"))
	b.WriteString("\n\n")
	b.WriteString(a.transcript.View())
	b.WriteString("\n")
	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	return b.String()
}

// statusLine renders the bottom status bar.
func (a *App) statusLine() string {
	if a.asking {
		return a.styles.StatusBar.Render(a.spinner.View() + " thinking...")
	}
	status := fmt.Sprintf("%d documents indexed", a.docCount)
	help := "enter: ask • esc: quit"
	return a.styles.StatusBar.Render(status + "  " + help)
}

// Run starts the TUI and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
