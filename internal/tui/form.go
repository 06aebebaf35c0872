// Package tui renders the enrollment form in a terminal.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noah-isme/yoga-admission/internal/models"
	"github.com/noah-isme/yoga-admission/internal/service"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true)
	inputStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).Width(32)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("37")).Foreground(lipgloss.Color("231"))
	disabledBtn  = buttonStyle.Background(lipgloss.Color("240"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("196")).Padding(0, 1)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var placeholders = map[models.Field]string{
	models.FieldDateOfBirth: "YYYY-MM-DD",
	models.FieldBatchID:     "← → to choose",
	models.FieldMonth:       "YYYY-MM",
}

// submittedMsg carries the result of the in-flight submission.
type submittedMsg struct {
	state service.FormState
}

// Model is the bubbletea model of the enrollment form. Focus index
// len(models.AllFields) is the submit button.
type Model struct {
	ctx   context.Context
	ctrl  *service.EnrollmentController
	state service.FormState
	focus int
}

// New builds the model around a controller.
func New(ctx context.Context, ctrl *service.EnrollmentController) Model {
	return Model{ctx: ctx, ctrl: ctrl, state: ctrl.State()}
}

// State returns the last observed form state.
func (m Model) State() service.FormState {
	return m.state
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		m.state = msg.state
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.state.Phase {
	case service.PhaseSucceeded:
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			return m, tea.Quit
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case service.PhaseSubmitting:
		return m, nil
	}

	if m.state.Notice != "" {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.state = m.ctrl.DismissNotice()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.moveFocus(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.moveFocus(-1)
		return m, nil
	case tea.KeyEnter:
		if m.onSubmitButton() {
			return m.submit()
		}
		m.moveFocus(1)
		return m, nil
	}

	field, ok := m.focusedField()
	if !ok {
		return m, nil
	}
	value := m.state.Draft.Value(field)

	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(value); len(r) > 0 {
			m.state = m.ctrl.Edit(field, string(r[:len(r)-1]))
		}
	case tea.KeyLeft, tea.KeyRight:
		if field == models.FieldBatchID {
			step := 1
			if msg.Type == tea.KeyLeft {
				step = -1
			}
			m.state = m.ctrl.Edit(field, cycleBatch(value, step))
		}
	case tea.KeyRunes, tea.KeySpace:
		m.state = m.ctrl.Edit(field, value+string(msg.Runes))
	}
	return m, nil
}

func (m *Model) moveFocus(step int) {
	if field, ok := m.focusedField(); ok {
		m.state = m.ctrl.Blur(field)
	}
	n := len(models.AllFields) + 1
	m.focus = (m.focus + step + n) % n
}

func (m Model) focusedField() (models.Field, bool) {
	if m.focus < 0 || m.focus >= len(models.AllFields) {
		return "", false
	}
	return models.AllFields[m.focus], true
}

func (m Model) onSubmitButton() bool {
	return m.focus == len(models.AllFields)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	state, payload := m.ctrl.Begin()
	m.state = state
	if payload == nil {
		return m, nil
	}
	ctx, ctrl, p := m.ctx, m.ctrl, *payload
	return m, func() tea.Msg {
		s, _ := ctrl.Perform(ctx, p)
		return submittedMsg{state: s}
	}
}

func cycleBatch(current string, step int) string {
	idx := -1
	if b, ok := models.LookupBatch(current); ok {
		for i, candidate := range models.Batches {
			if candidate.ID == b.ID {
				idx = i
				break
			}
		}
	}
	n := len(models.Batches)
	if idx < 0 {
		if step > 0 {
			return models.Batches[0].Label
		}
		return models.Batches[n-1].Label
	}
	return models.Batches[(idx+step+n)%n].Label
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Yoga Admission form"))
	b.WriteString("\n")

	if m.state.Phase == service.PhaseSucceeded {
		b.WriteString(successStyle.Render("✔ Form Submitted Successfully!!"))
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("press enter to exit"))
		return b.String()
	}

	visible := m.state.VisibleErrors()
	for i, field := range models.AllFields {
		label := labelStyle.Render(field.Label())
		if i == m.focus {
			label = focusStyle.Render("› " + field.Label())
		}
		value := m.state.Draft.Value(field)
		if value == "" {
			value = hintStyle.Render(placeholders[field])
		}
		b.WriteString(label + "\n" + inputStyle.Render(value) + "\n")
		if verr, ok := visible[field]; ok {
			b.WriteString(errorStyle.Render(verr.Message) + "\n")
		}
		b.WriteString("\n")
	}

	button := "Enroll Now"
	switch {
	case m.state.Phase == service.PhaseSubmitting:
		b.WriteString(disabledBtn.Render(button + " …"))
	case m.onSubmitButton():
		b.WriteString(buttonStyle.Underline(true).Render(button))
	default:
		b.WriteString(buttonStyle.Render(button))
	}
	b.WriteString("\n")

	if m.state.Notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.state.Notice+"\n"+hintStyle.Render("enter to dismiss")) + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("tab/shift+tab move • enter submit • esc quit"))
	return b.String()
}
