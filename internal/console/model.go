// Package console is the terminal front end of the content layer: one
// collection at a time, with the maintainer toggle, the add/edit form,
// inline edits, deletion and the chat assistant.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/lifecycle"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/NTPCPHARMACY/HRPC/pkg/assistant"
	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/form"
	"github.com/NTPCPHARMACY/HRPC/pkg/gate"
	"github.com/NTPCPHARMACY/HRPC/pkg/inline"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
	"github.com/NTPCPHARMACY/HRPC/pkg/schema"
)

type overlay int

const (
	overlayNone overlay = iota
	overlaySecret
	overlayForm
	overlayConfirm
	overlayInline
	overlayChat
)

type (
	changeMsg     struct{ event lifecycle.Event }
	eventsDoneMsg struct{}
	chatDoneMsg   struct{}
)

// Model is the bubbletea model of the console.
type Model struct {
	ctx    context.Context
	coord  *mutation.Coordinator
	gate   *gate.Gate
	conv   *assistant.Conversation
	events <-chan lifecycle.Event
	logger *slog.Logger
	styles Styles

	kind    int
	cursor  int
	overlay overlay
	status  string
	failed  bool

	secret textinput.Model

	form   *form.Engine
	inputs []textinput.Model
	focus  int

	inline      *inline.Field
	inlineField string
	inlineInput textinput.Model

	pendingID int64

	chat textinput.Model
}

// Option configures a Model.
type Option func(*Model)

// WithGate sets the maintainer gate.
func WithGate(g *gate.Gate) Option {
	return func(m *Model) {
		if g != nil {
			m.gate = g
		}
	}
}

// WithConversation sets the chat conversation.
func WithConversation(conv *assistant.Conversation) Option {
	return func(m *Model) {
		if conv != nil {
			m.conv = conv
		}
	}
}

// WithEvents makes the console refresh on every event received.
func WithEvents(events <-chan lifecycle.Event) Option {
	return func(m *Model) {
		m.events = events
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates the console over coord.
func New(ctx context.Context, coord *mutation.Coordinator, opts ...Option) *Model {
	m := &Model{
		ctx:    ctx,
		coord:  coord,
		gate:   gate.New(""),
		logger: slog.Default(),
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.conv == nil {
		m.conv = assistant.NewConversation(assistant.NewGeminiSender(""), assistant.WithLogger(m.logger))
	}
	m.form = form.New(m.save)

	m.secret = textinput.New()
	m.secret.Placeholder = "維護密碼"
	m.secret.EchoMode = textinput.EchoPassword
	m.secret.EchoCharacter = '•'

	m.inlineInput = textinput.New()
	m.inlineInput.CharLimit = 500

	m.chat = textinput.New()
	m.chat.Placeholder = "輸入您的問題..."
	m.chat.CharLimit = 500
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsDoneMsg{}
		}
		return changeMsg{event: e}
	}
}

// Kind returns the collection being shown.
func (m *Model) Kind() content.Kind { return content.Kinds()[m.kind] }

// Status returns the last status line.
func (m *Model) Status() string { return m.status }

func (m *Model) records() []content.Record {
	recs, _ := m.coord.Records(m.Kind())
	return recs
}

func (m *Model) selected() (content.Record, bool) {
	recs := m.records()
	if m.cursor < 0 || m.cursor >= len(recs) {
		return nil, false
	}
	return recs[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.records())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.failed = false
}

func (m *Model) setError(err error) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		m.status = "需要維護模式 (m)"
	case errors.Is(err, gate.ErrWrongSecret):
		m.status = "密碼錯誤"
	default:
		m.status = err.Error()
	}
	m.failed = true
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changeMsg:
		m.logger.Debug("console refresh", "event", msg.event.String())
		m.clampCursor()
		return m, m.waitForEvent()
	case eventsDoneMsg:
		m.events = nil
		return m, nil
	case chatDoneMsg:
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.overlay {
		case overlaySecret:
			return m.updateSecret(msg)
		case overlayForm:
			return m.updateForm(msg)
		case overlayConfirm:
			return m.updateConfirm(msg)
		case overlayInline:
			return m.updateInline(msg)
		case overlayChat:
			return m.updateChat(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.kind = (m.kind + 1) % len(content.Kinds())
		m.cursor = 0
	case "shift+tab":
		m.kind = (m.kind + len(content.Kinds()) - 1) % len(content.Kinds())
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.records())-1 {
			m.cursor++
		}
	case "m":
		return m.toggleMode()
	case "a":
		return m.openForm(form.Add)
	case "e":
		return m.openForm(form.Edit)
	case "d":
		return m.askDelete()
	case "i":
		return m.startInline()
	case "c":
		m.overlay = overlayChat
		return m, m.chat.Focus()
	}
	return m, nil
}

// --- Maintainer toggle ---

func (m *Model) toggleMode() (tea.Model, tea.Cmd) {
	if m.coord.Mode() == core.Maintainer {
		mode, _ := m.gate.Toggle(core.Maintainer, nil)
		m.coord.SetMode(mode)
		m.setStatus("已切換為訪客模式")
		return m, nil
	}
	m.overlay = overlaySecret
	m.secret.SetValue("")
	return m, m.secret.Focus()
}

func (m *Model) updateSecret(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		mode, _ := m.gate.Toggle(m.coord.Mode(), func() (string, bool) { return "", false })
		m.coord.SetMode(mode)
		m.closeSecret()
		return m, nil
	case tea.KeyEnter:
		secret := m.secret.Value()
		mode, err := m.gate.Toggle(m.coord.Mode(), func() (string, bool) { return secret, true })
		m.closeSecret()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.coord.SetMode(mode)
		m.setStatus("已進入維護模式")
		return m, nil
	}
	var cmd tea.Cmd
	m.secret, cmd = m.secret.Update(msg)
	return m, cmd
}

func (m *Model) closeSecret() {
	m.secret.Blur()
	m.secret.SetValue("")
	m.overlay = overlayNone
}

// --- Form ---

func (m *Model) openForm(mode form.Mode) (tea.Model, tea.Cmd) {
	if !m.coord.Mode().CanEdit() {
		m.setError(core.ErrForbidden)
		return m, nil
	}
	var (
		seed content.Values
		id   int64
	)
	if mode == form.Edit {
		rec, ok := m.selected()
		if !ok {
			return m, nil
		}
		seed, id = rec.Values(), rec.RecordID()
	}
	if err := m.form.Open(mode, m.Kind(), seed, id); err != nil {
		m.setError(err)
		return m, nil
	}

	fields := m.form.Fields()
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 500
		in.SetValue(m.form.Value(f.Name))
		m.inputs[i] = in
	}
	m.focus = 0
	m.overlay = overlayForm
	return m, m.inputs[0].Focus()
}

func (m *Model) save(ctx context.Context, sub form.Submission) error {
	var err error
	switch sub.Mode {
	case form.Add:
		_, err = m.coord.Add(ctx, sub.Kind, sub.Values)
	case form.Edit:
		_, err = m.coord.Edit(ctx, sub.Kind, sub.ID, sub.Values)
	}
	return err
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (i + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m *Model) cycleChoice(delta int) {
	f := m.form.Fields()[m.focus]
	opts := f.Options()
	if len(opts) == 0 {
		return
	}
	cur := 0
	for i, o := range opts {
		if o == m.form.Value(f.Name) {
			cur = i
			break
		}
	}
	next := opts[(cur+delta+len(opts))%len(opts)]
	_ = m.form.Set(f.Name, next)
	m.inputs[m.focus].SetValue(next)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.form.Fields()[m.focus]
	_, isChoice := field.Widget.(schema.Choice)

	switch msg.Type {
	case tea.KeyEsc:
		m.form.Cancel()
		m.overlay = overlayNone
		m.inputs = nil
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.focusField(m.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.focusField(m.focus - 1)
	case tea.KeyEnter:
		kind, mode := m.form.Kind(), m.form.Mode()
		if err := m.form.Confirm(m.ctx); err != nil {
			m.setError(err)
			return m, nil
		}
		m.overlay = overlayNone
		m.inputs = nil
		if mode == form.Add {
			m.setStatus("已新增 %s", kind.Label())
		} else {
			m.setStatus("已更新 %s", kind.Label())
		}
		return m, nil
	case tea.KeyLeft, tea.KeyRight:
		if isChoice {
			delta := 1
			if msg.Type == tea.KeyLeft {
				delta = -1
			}
			m.cycleChoice(delta)
			return m, nil
		}
	}
	if isChoice {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	_ = m.form.Set(field.Name, m.inputs[m.focus].Value())
	return m, cmd
}

// --- Delete ---

func (m *Model) askDelete() (tea.Model, tea.Cmd) {
	if !m.coord.Mode().CanEdit() {
		m.setError(core.ErrForbidden)
		return m, nil
	}
	rec, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.pendingID = rec.RecordID()
	m.overlay = overlayConfirm
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var yes bool
	switch msg.String() {
	case "y", "Y":
		yes = true
	case "n", "N", "esc":
	default:
		return m, nil
	}
	m.overlay = overlayNone
	deleted, err := m.coord.DeleteWith(m.ctx, m.Kind(), m.pendingID, mutation.Answer(yes))
	m.pendingID = 0
	switch {
	case err != nil:
		m.setError(err)
	case deleted:
		m.clampCursor()
		m.setStatus("已刪除")
	}
	return m, nil
}

// --- Inline ---

func (m *Model) startInline() (tea.Model, tea.Cmd) {
	fields := mutation.InlineFields(m.Kind())
	if len(fields) == 0 {
		m.setError(fmt.Errorf("%s: %w", m.Kind().Label(), core.ErrUnsupported))
		return m, nil
	}
	rec, ok := m.selected()
	if !ok {
		return m, nil
	}
	kind, id, name := m.Kind(), rec.RecordID(), fields[0]
	m.inline = inline.New(m.coord.Mode(), rec.Values()[name], func(ctx context.Context, value string) error {
		return m.coord.InlineUpdate(ctx, kind, id, name, value)
	})
	if !m.inline.Focus() {
		m.inline = nil
		m.setError(core.ErrForbidden)
		return m, nil
	}
	m.inlineField = name
	m.inlineInput.SetValue(m.inline.Text())
	m.inlineInput.CursorEnd()
	m.overlay = overlayInline
	return m, m.inlineInput.Focus()
}

func (m *Model) updateInline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.inline.Input(m.inlineInput.Value())
		changed, err := m.inline.Blur(m.ctx)
		m.inlineInput.Blur()
		m.overlay = overlayNone
		m.inline = nil
		switch {
		case err != nil:
			m.setError(err)
		case changed:
			m.setStatus("已更新 %s", m.inlineField)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.inlineInput, cmd = m.inlineInput.Update(msg)
	m.inline.Input(m.inlineInput.Value())
	return m, cmd
}

// --- Chat ---

func (m *Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.chat.Blur()
		m.overlay = overlayNone
		return m, nil
	case tea.KeyEnter:
		done := m.conv.SendAsync(m.ctx, m.chat.Value())
		if done == nil {
			return m, nil
		}
		m.chat.SetValue("")
		return m, func() tea.Msg {
			<-done
			return chatDoneMsg{}
		}
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}
