// Package tui implements the interactive cover letter form.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/coverforge/internal/generator"
	"github.com/amishk599/coverforge/internal/model"
	"github.com/amishk599/coverforge/internal/prompt"
)

const noLetterYet = "No cover letter generated.... yet!"

// Rows given to each multi-line field.
const textareaHeight = 4

// LetterGenerator runs one submission. *generator.Generator implements it.
type LetterGenerator interface {
	Generate(ctx context.Context, sub generator.Submission) generator.Result
}

// field enumerates the focusable form controls in tab order.
type field int

const (
	fieldModel field = iota
	fieldPosition
	fieldCompany
	fieldJobDescription
	fieldExperiences
	fieldExample1
	fieldExample2
	fieldExample3
	fieldAPIKey
	fieldGenerate
	fieldCount
)

// letterGeneratedMsg is sent when an async generation completes.
type letterGeneratedMsg struct {
	result generator.Result
}

// tokensCountedMsg carries the token count of a rendered prompt.
type tokensCountedMsg struct {
	model  model.ChatModel
	prompt string
	count  int
}

type spinnerTickMsg struct{}

type tokenState struct {
	model  model.ChatModel
	prompt string
	count  int
}

type formModel struct {
	ctx       context.Context
	session   generator.Session
	generator LetterGenerator
	counter   prompt.Counter

	position       textinput.Model
	company        textinput.Model
	apiKey         textinput.Model
	jobDescription textarea.Model
	experiences    textarea.Model
	examples       [model.MaxExamples]textarea.Model
	focus          field

	formViewport viewport.Model
	outViewport  viewport.Model
	fieldLines   [fieldCount][2]int // first and last rendered line of each field
	width        int
	height       int
	ready        bool

	frame   int
	ticking bool // a spinnerTickMsg is pending; at most one tick chain runs
	tokens  tokenState
}

func newFormModel(ctx context.Context, session generator.Session, gen LetterGenerator, counter prompt.Counter) formModel {
	form := session.Form

	m := formModel{
		ctx:       ctx,
		session:   session,
		generator: gen,
		counter:   counter,
		focus:     fieldPosition,
	}

	m.position = newInput("Job Position", form.Position)
	m.company = newInput("Company Name", form.Company)
	m.apiKey = newInput("API Key", form.APIKey)
	m.apiKey.EchoMode = textinput.EchoPassword
	m.apiKey.EchoCharacter = '•'

	m.jobDescription = newTextarea("Job Description", form.JobDescription)
	m.experiences = newTextarea("Work experiences, projects, etc.", form.Experiences)
	for i := range m.examples {
		m.examples[i] = newTextarea(fmt.Sprintf("Cover Letter Example %d", i+1), form.Examples[i])
	}

	m.position.Focus()
	return m
}

func newInput(placeholder, value string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "> "
	in.SetValue(value)
	return in
}

func newTextarea(placeholder, value string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(textareaHeight)
	ta.SetValue(value)
	ta.Blur()
	return ta
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case letterGeneratedMsg:
		if m.session.Resolve(msg.result) {
			m.refreshOutput()
			m.outViewport.GotoTop()
		}
		return m, nil

	case spinnerTickMsg:
		if !m.session.Generating {
			m.ticking = false
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		m.refreshOutput()
		return m, tick()

	case tokensCountedMsg:
		m.tokens = tokenState{model: msg.model, prompt: msg.prompt, count: msg.count}
		m.refreshOutput()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m formModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+g":
		return m.submit()
	case "ctrl+p":
		m.session.ShowPrompt()
		m.refreshOutput()
		m.outViewport.GotoTop()
		return m, m.countTokensCmd()
	case "ctrl+r":
		m.session.ShowResult()
		m.refreshOutput()
		m.outViewport.GotoTop()
		return m, nil
	case "tab":
		return m.moveFocus(1)
	case "shift+tab":
		return m.moveFocus(-1)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.outViewport, cmd = m.outViewport.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case fieldModel:
		switch msg.String() {
		case "left", "h":
			m.session.Form.Model = m.session.Form.Model.Prev()
		case "right", "l", " ":
			m.session.Form.Model = m.session.Form.Model.Next()
		default:
			return m, nil
		}
		return m.formChanged()
	case fieldGenerate:
		if msg.String() == "enter" || msg.String() == " " {
			return m.submit()
		}
		return m, nil
	}

	cmd := m.updateFocused(msg)
	next, countCmd := m.formChanged()
	return next, tea.Batch(cmd, countCmd)
}

// formChanged copies the inputs into the session and refreshes dependent views.
func (m formModel) formChanged() (tea.Model, tea.Cmd) {
	m.syncForm()
	m.refreshForm()
	m.refreshOutput()
	if m.session.View == generator.ViewPrompt {
		return m, m.countTokensCmd()
	}
	return m, nil
}

func (m *formModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldPosition:
		m.position, cmd = m.position.Update(msg)
	case fieldCompany:
		m.company, cmd = m.company.Update(msg)
	case fieldAPIKey:
		m.apiKey, cmd = m.apiKey.Update(msg)
	case fieldJobDescription:
		m.jobDescription, cmd = m.jobDescription.Update(msg)
	case fieldExperiences:
		m.experiences, cmd = m.experiences.Update(msg)
	case fieldExample1, fieldExample2, fieldExample3:
		i := int(m.focus - fieldExample1)
		m.examples[i], cmd = m.examples[i].Update(msg)
	}
	return cmd
}

func (m *formModel) syncForm() {
	f := &m.session.Form
	f.Position = m.position.Value()
	f.Company = m.company.Value()
	f.APIKey = m.apiKey.Value()
	f.JobDescription = m.jobDescription.Value()
	f.Experiences = m.experiences.Value()
	for i := range m.examples {
		f.Examples[i] = m.examples[i].Value()
	}
}

func (m formModel) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.blurFocused()
	m.focus = field((int(m.focus) + delta + int(fieldCount)) % int(fieldCount))
	cmd := m.focusField()
	m.refreshForm()
	m.ensureFocusVisible()
	return m, cmd
}

func (m *formModel) blurFocused() {
	switch m.focus {
	case fieldPosition:
		m.position.Blur()
	case fieldCompany:
		m.company.Blur()
	case fieldAPIKey:
		m.apiKey.Blur()
	case fieldJobDescription:
		m.jobDescription.Blur()
	case fieldExperiences:
		m.experiences.Blur()
	case fieldExample1, fieldExample2, fieldExample3:
		m.examples[m.focus-fieldExample1].Blur()
	}
}

func (m *formModel) focusField() tea.Cmd {
	switch m.focus {
	case fieldPosition:
		return m.position.Focus()
	case fieldCompany:
		return m.company.Focus()
	case fieldAPIKey:
		return m.apiKey.Focus()
	case fieldJobDescription:
		return m.jobDescription.Focus()
	case fieldExperiences:
		return m.experiences.Focus()
	case fieldExample1, fieldExample2, fieldExample3:
		return m.examples[m.focus-fieldExample1].Focus()
	}
	return nil
}

func (m formModel) submit() (tea.Model, tea.Cmd) {
	m.syncForm()
	sub := m.session.Submit()
	m.refreshOutput()
	m.outViewport.GotoTop()

	cmds := []tea.Cmd{m.generateCmd(sub)}
	if !m.ticking {
		m.ticking = true
		cmds = append(cmds, tick())
	}
	return m, tea.Batch(cmds...)
}

func (m formModel) generateCmd(sub generator.Submission) tea.Cmd {
	gen := m.generator
	ctx := m.ctx
	return func() tea.Msg {
		return letterGeneratedMsg{result: gen.Generate(ctx, sub)}
	}
}

func (m formModel) countTokensCmd() tea.Cmd {
	counter := m.counter
	chatModel := m.session.Form.Model
	text := m.session.Prompt()
	if m.tokens.model == chatModel && m.tokens.prompt == text {
		return nil
	}
	return func() tea.Msg {
		return tokensCountedMsg{model: chatModel, prompt: text, count: counter.Count(chatModel, text)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m *formModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	formWidth := max((m.width-5)*2/5, 30)
	outWidth := max(m.width-5-formWidth, 30)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.formViewport = viewport.New(formWidth, paneHeight)
		m.outViewport = viewport.New(outWidth, paneHeight)
		m.ready = true
	} else {
		m.formViewport.Width = formWidth
		m.formViewport.Height = paneHeight
		m.outViewport.Width = outWidth
		m.outViewport.Height = paneHeight
	}

	inputWidth := max(formWidth-2, 10)
	m.jobDescription.SetWidth(inputWidth)
	m.experiences.SetWidth(inputWidth)
	for i := range m.examples {
		m.examples[i].SetWidth(inputWidth)
	}

	m.refreshForm()
	m.refreshOutput()
}

// refreshForm re-renders the form pane and records where each field sits.
func (m *formModel) refreshForm() {
	var b strings.Builder
	line := 0

	write := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
		line += lipgloss.Height(s)
	}
	place := func(f field, s string) {
		start := line
		write(s)
		m.fieldLines[f] = [2]int{start, line - 1}
	}
	section := func(title, hint string, fields ...field) {
		st := sectionStyle
		for _, f := range fields {
			if f == m.focus {
				st = focusedSectionStyle
			}
		}
		write(st.Render(title))
		if hint != "" {
			write(hintStyle.Width(max(m.formViewport.Width-1, 10)).Render(hint))
		}
	}

	section("Chat GPT Model:", "", fieldModel)
	place(fieldModel, m.renderModelChoice())
	write("")

	section("Position Details",
		"The position and company you are applying for, plus the parts of the job description you have experience with.",
		fieldPosition, fieldCompany, fieldJobDescription)
	place(fieldPosition, m.position.View())
	place(fieldCompany, m.company.View())
	place(fieldJobDescription, m.jobDescription.View())
	write("")

	section("Your Experiences",
		"Work experience and projects. Be descriptive and specific to the posting.",
		fieldExperiences)
	place(fieldExperiences, m.experiences.View())
	write("")

	section("Cover Letter Examples",
		"Letters you have used before, used as a reference for tone and structure.",
		fieldExample1, fieldExample2, fieldExample3)
	for i := range m.examples {
		place(fieldExample1+field(i), m.examples[i].View())
	}
	write("")

	section("API Key", "", fieldAPIKey)
	place(fieldAPIKey, m.apiKey.View())
	write("")

	btn := buttonStyle
	if m.focus == fieldGenerate {
		btn = focusedButtonStyle
	}
	place(fieldGenerate, btn.Render("Generate"))

	m.formViewport.SetContent(b.String())
}

func (m formModel) renderModelChoice() string {
	var parts []string
	for _, cm := range model.ChatModels {
		mark := "( )"
		if cm == m.session.Form.Model {
			mark = "(•)"
		}
		parts = append(parts, mark+" "+string(cm))
	}
	s := strings.Join(parts, "  ")
	if m.focus == fieldModel {
		return focusedSectionStyle.Render(s)
	}
	return s
}

func (m *formModel) ensureFocusVisible() {
	vp := &m.formViewport
	top, bottom := m.fieldLines[m.focus][0], m.fieldLines[m.focus][1]

	if top < vp.YOffset {
		vp.SetYOffset(top)
	} else if bottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(bottom - vp.Height + 1)
	}
}

// refreshOutput renders the active view into the right pane.
func (m *formModel) refreshOutput() {
	width := max(m.outViewport.Width-1, 10)
	m.outViewport.SetContent(m.renderOutput(width))
}

func (m formModel) renderOutput(width int) string {
	wrap := bodyStyle.Width(width)

	if m.session.View == generator.ViewPrompt {
		text := m.session.Prompt()
		out := wrap.Render(text)
		if m.tokens.model == m.session.Form.Model && m.tokens.prompt == text {
			out += "\n\n" + renderBudget(prompt.NewBudget(m.tokens.model, m.tokens.count))
		}
		return out
	}

	if m.session.Generating {
		spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
		return fmt.Sprintf("%s Generating cover letter with %s...", spinner, m.session.Form.Model)
	}
	if !m.session.HasLetter || m.session.Letter == "" {
		return hintStyle.Render(noLetterYet)
	}
	return wrap.Render(m.session.Letter)
}

func renderBudget(b prompt.Budget) string {
	line := fmt.Sprintf("≈%d prompt tokens of %d (%d left for the letter)", b.PromptTokens, b.Window, b.Remaining)
	if b.Tight() {
		return warnStyle.Render("⚠ " + line + ". Consider gpt-3.5-turbo-16k or shorter examples.")
	}
	return hintStyle.Render(line)
}

func (m formModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	formWidth := m.formViewport.Width
	outWidth := m.outViewport.Width

	promptTab, letterTab := inactiveTabStyle, activeTabStyle
	if m.session.View == generator.ViewPrompt {
		promptTab, letterTab = activeTabStyle, inactiveTabStyle
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(formWidth+2).Render(titleStyle.Render("COVER LETTER GENERATOR")),
		" ",
		lipgloss.NewStyle().Width(outWidth+2).Render(
			promptTab.Render("Prompt")+" "+letterTab.Render("Cover Letter"),
		),
	)

	formPane := activeBorderStyle.Width(formWidth).Render(m.formViewport.View())
	outPane := inactiveBorderStyle.Width(outWidth).Render(m.outViewport.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, formPane, " ", outPane)

	status := " tab/shift+tab field  ←/→ model  ctrl+g generate  ctrl+p prompt  ctrl+r letter  pgup/pgdn scroll  esc quit"
	if m.session.Generating {
		status = " generating...  " + status
	}
	statusBar := statusBarStyle.Width(m.width).Render(status)

	return headerRow + "\n" + panes + "\n" + statusBar
}

// RunForm launches the interactive form. It returns the session as it was when
// the user quit; any generation still in flight is cancelled.
func RunForm(ctx context.Context, session generator.Session, gen LetterGenerator, counter prompt.Counter) (generator.Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newFormModel(ctx, session, gen, counter)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil {
		return session, err
	}
	final := result.(formModel)
	return final.session, nil
}
