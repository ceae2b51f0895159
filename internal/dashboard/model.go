// internal/dashboard/model.go
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"betabot/internal/models"
)

// Asker is the backend call the dashboard makes per submitted question.
// Satisfied by *Client; stubbed in tests.
type Asker interface {
	Ask(ctx context.Context, question string, mode models.Mode) (*AskResult, error)
}

type turn struct {
	role    string // "user" or "assistant" or "error"
	content string
	at      time.Time
}

// Messages for tea updates
type (
	answerMsg *AskResult
	askErrMsg error
)

// Model is the evidence-presenter TUI: transcript on the left, inspection
// panel for the latest answer on the right.
type Model struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer

	client  Asker
	mode    models.Mode
	history []turn
	last    *AskResult

	isLoading bool
	ready     bool
	width     int
	height    int
	askCount  int
}

// NewModel creates the dashboard model around a backend client.
func NewModel(client Asker) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about Nigerian tax or business compliance... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4000
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.SetContent("")

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)

	return Model{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		renderer:  renderer,
		client:    client,
		mode:      models.ModeTax,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlT:
			// Toggle persona between tax and therapy.
			if m.mode == models.ModeTax {
				m.mode = models.ModeTherapy
			} else {
				m.mode = models.ModeTax
			}
			return m, nil

		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		transcriptWidth := m.transcriptWidth()
		contentHeight := msg.Height - 7
		if contentHeight < 5 {
			contentHeight = 5
		}

		if !m.ready {
			m.viewport = viewport.New(transcriptWidth, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = transcriptWidth
			m.viewport.Height = contentHeight
		}

		m.textinput.Width = msg.Width - 4

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(transcriptWidth-4),
			)
		}
		m.viewport.SetContent(m.renderHistory())

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case answerMsg:
		m.isLoading = false
		m.askCount++
		m.last = msg
		m.history = append(m.history, turn{
			role:    "assistant",
			content: msg.Answer.Text,
			at:      time.Now(),
		})
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()

	case askErrMsg:
		m.isLoading = false
		m.history = append(m.history, turn{
			role:    "error",
			content: msg.Error(),
			at:      time.Now(),
		})
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	m.history = append(m.history, turn{
		role:    "user",
		content: input,
		at:      time.Now(),
	})
	m.textinput.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	m.isLoading = true

	return m, tea.Batch(
		m.spinner.Tick,
		m.ask(input),
	)
}

func (m Model) ask(question string) tea.Cmd {
	mode := m.mode
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()

		result, err := m.client.Ask(ctx, question, mode)
		if err != nil {
			return askErrMsg(err)
		}
		return answerMsg(result)
	}
}

func (m Model) transcriptWidth() int {
	// Two-column layout: transcript takes the left two thirds.
	w := m.width * 2 / 3
	if w < 40 {
		w = m.width - 4
	}
	return w
}

func (m Model) renderHistory() string {
	var sb strings.Builder

	for _, t := range m.history {
		switch t.role {
		case "user":
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(t.content)
			sb.WriteString("\n\n")
		case "error":
			sb.WriteString(errorStyle.Render("Error: " + t.content))
			sb.WriteString("\n\n")
		default:
			sb.WriteString(botStyle.Render("BetaBot") + "\n")
			sb.WriteString(m.safeRenderMarkdown(t.content))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

// inspectorLines builds the side-panel content for the latest answer.
func (m Model) inspectorLines() []string {
	if m.last == nil {
		return []string{"No answer yet.", "", "Submit a question to inspect", "the engine's evidence."}
	}

	a := m.last.Answer
	lines := []string{
		labelStyle.Render("Latency"),
		fmt.Sprintf("%.1f ms", a.LatencyMs),
		"",
		labelStyle.Render("Model"),
		a.ModelID,
		"",
		labelStyle.Render(fmt.Sprintf("Sources (%d)", len(a.Evidence))),
	}
	for _, item := range a.Evidence {
		lines = append(lines, "• "+item.Label)
	}

	if a.EconomicContext != "" {
		lines = append(lines, "", labelStyle.Render("Economic Context"))
		lines = append(lines, strings.Split(a.EconomicContext, "\n")...)
	}

	lines = append(lines, "", labelStyle.Render("Raw Payload"))
	lines = append(lines, strings.Split(m.last.Raw, "\n")...)

	return lines
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()

	transcript := m.viewport.View()
	if m.isLoading {
		transcript += "\n" + m.spinner.View() + " Consulting the engine..."
	}

	panelWidth := m.width - m.transcriptWidth() - 4
	var body string
	if panelWidth >= 24 {
		panel := panelStyle.Width(panelWidth).Height(m.viewport.Height).
			Render(strings.Join(m.inspectorLines(), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, transcript, panel)
	} else {
		body = transcript
	}

	inputArea := inputStyle.Render(m.textinput.View())
	footer := m.renderFooter()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		inputArea,
		footer,
	)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(" BetaBot Evidence Presenter ")

	persona := "tax advisor"
	if m.mode == models.ModeTherapy {
		persona = "supportive listener"
	}
	modeBadge := badgeStyle.Render("mode: " + persona)

	var status string
	if m.isLoading {
		status = warnStyle.Render("● Processing")
	} else {
		status = okStyle.Render("● Ready")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", modeBadge, "  ", status)
}

func (m Model) renderFooter() string {
	return mutedStyle.Render(
		fmt.Sprintf("answers: %d • Enter: send • Ctrl+T: toggle persona • Ctrl+C: exit", m.askCount))
}
