package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/adapters/driving/tui/messages"
	"github.com/docsage/docsage/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
	asked  []string
}

func (m *mockAnswerService) Ask(_ context.Context, question string, _ domain.AskOptions) (*domain.Answer, error) {
	m.asked = append(m.asked, question)
	return m.answer, m.err
}

// mockIngestionService only implements the List method meaningfully.
type mockIngestionService struct {
	documents []domain.Document
	err       error
}

func (m *mockIngestionService) Ingest(_ context.Context, _ string, _ []byte, _ string) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockIngestionService) Delete(_ context.Context, _ string) error { return m.err }

func (m *mockIngestionService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockIngestionService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func newTestApp(t *testing.T, answer *mockAnswerService) *App {
	t.Helper()
	app, err := NewApp(&Ports{Answer: answer})
	require.NoError(t, err)

	// Simulate terminal initialisation.
	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*App)
}

func TestNewApp_RequiresAnswerService(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.Nil(t, app)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAnswerService)
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(&Ports{Answer: &mockAnswerService{}})
	require.NoError(t, err)

	assert.Equal(t, "Loading...", app.View())
}

func TestApp_SubmitQuestionTriggersAsk(t *testing.T) {
	svc := &mockAnswerService{
		answer: &domain.Answer{Text: "Flywheels store rotational energy."},
	}
	app := newTestApp(t, svc)

	app.input.SetValue("How do flywheels work?")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	assert.True(t, app.asking)
	require.NotNil(t, cmd)

	// Execute the batched command and feed resulting messages back in.
	runCmd(t, app, cmd)
	assert.Equal(t, []string{"How do flywheels work?"}, svc.asked)
}

func TestApp_EmptyQuestionIsIgnored(t *testing.T) {
	svc := &mockAnswerService{}
	app := newTestApp(t, svc)

	app.input.SetValue("   ")
	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	assert.False(t, app.asking)
	assert.Empty(t, svc.asked)
}

func TestApp_AskCompletedAppendsEntry(t *testing.T) {
	app := newTestApp(t, &mockAnswerService{})
	app.asking = true

	model, _ := app.Update(messages.AskCompleted{
		Question: "What is sourdough?",
		Answer: &domain.Answer{
			Text:      "A naturally leavened bread.",
			Citations: []domain.Citation{{DocumentID: "d1", ChunkID: "c1"}},
		},
	})
	app = model.(*App)

	assert.False(t, app.asking)
	require.Len(t, app.entries, 1)

	view := app.View()
	assert.Contains(t, view, "What is sourdough?")
	assert.Contains(t, view, "A naturally leavened bread.")
	assert.Contains(t, view, "document d1")
}

func TestApp_AskFailedShowsErrorWithCitations(t *testing.T) {
	app := newTestApp(t, &mockAnswerService{})
	app.asking = true

	model, _ := app.Update(messages.AskFailed{
		Question: "What is sourdough?",
		Answer:   &domain.Answer{Citations: []domain.Citation{{DocumentID: "d1", ChunkID: "c1"}}},
		Err:      errors.New("generation unavailable"),
	})
	app = model.(*App)

	assert.False(t, app.asking)
	view := app.View()
	assert.Contains(t, view, "generation unavailable")
	assert.Contains(t, view, "document d1")
}

func TestApp_QuitKeys(t *testing.T) {
	app := newTestApp(t, &mockAnswerService{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_DocumentCount(t *testing.T) {
	app := newTestApp(t, &mockAnswerService{})

	model, _ := app.Update(messages.DocumentCount{Count: 7})
	app = model.(*App)

	assert.Contains(t, app.View(), "7 documents indexed")
}

// runCmd executes a command tree, feeding produced messages back into
// the model. Batched commands are executed in order.
func runCmd(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, c := range m {
			runCmd(t, app, c)
		}
	default:
		if m != nil {
			app.Update(m)
		}
	}
}
