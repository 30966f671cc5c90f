package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NTPCPHARMACY/HRPC/pkg/assistant"
	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/form"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
	"github.com/NTPCPHARMACY/HRPC/pkg/schema"
)

const listHelp = "tab 切換 • ↑/↓ 選擇 • m 維護模式 • a 新增 • e 編輯 • i 快速編輯 • d 刪除 • c AI 助手 • q 離開"

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	header := m.styles.Title.Render("新北市立聯合醫院 受試者保護中心")
	if m.coord.Mode().CanEdit() {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, " ", m.styles.Badge.Render("維護中"))
	}
	b.WriteString(header + "\n\n")
	b.WriteString(m.renderTabs() + "\n\n")
	b.WriteString(m.renderList() + "\n")

	switch m.overlay {
	case overlaySecret:
		b.WriteString(m.styles.Modal.Render("請輸入維護密碼\n"+m.secret.View()) + "\n")
	case overlayForm:
		b.WriteString(m.renderForm() + "\n")
	case overlayConfirm:
		b.WriteString(m.styles.Modal.Render(mutation.DeletePrompt+" (y/n)") + "\n")
	case overlayInline:
		b.WriteString(m.styles.Modal.Render(m.styles.Label.Render(m.inlineField)+m.inlineInput.View()) + "\n")
	case overlayChat:
		b.WriteString(m.renderChat() + "\n")
	default:
		b.WriteString(m.styles.Help.Render(listHelp) + "\n")
	}

	if m.status != "" {
		style := m.styles.Status
		if m.failed {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(content.Kinds()))
	for i, k := range content.Kinds() {
		if i == m.kind {
			tabs = append(tabs, m.styles.ActiveTab.Render(k.Label()))
			continue
		}
		tabs = append(tabs, m.styles.Tab.Render(k.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderList() string {
	recs := m.records()
	if len(recs) == 0 {
		return m.styles.Help.Render("  (無資料)")
	}
	fields := schema.For(m.Kind())
	var b strings.Builder
	for i, rec := range recs {
		values := rec.Values()
		cols := make([]string, 0, len(fields))
		for _, f := range fields {
			cols = append(cols, values[f.Name])
		}
		line := strings.Join(cols, " │ ")
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> "+line) + "\n")
			continue
		}
		b.WriteString(m.styles.Row.Render(line) + "\n")
	}
	return b.String()
}

func (m *Model) renderForm() string {
	title := "新增 "
	if m.form.Mode() == form.Edit {
		title = "編輯 "
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(title+m.form.Kind().Label()) + "\n")
	for i, f := range m.form.Fields() {
		value := m.inputs[i].View()
		if _, ok := f.Widget.(schema.Choice); ok {
			value = "‹ " + m.form.Value(f.Name) + " ›"
		}
		marker := "  "
		if i == m.focus {
			marker = "> "
		}
		b.WriteString(marker + m.styles.Label.Render(f.Label) + value + "\n")
	}
	b.WriteString(m.styles.Help.Render("tab 下一欄 • ←/→ 選項 • enter 儲存 • esc 取消"))
	return m.styles.Modal.Render(b.String())
}

func (m *Model) renderChat() string {
	var b strings.Builder
	for _, msg := range m.conv.Messages() {
		if msg.Role == assistant.RoleUser {
			b.WriteString(m.styles.User.Render("您: ") + msg.Text + "\n")
			continue
		}
		b.WriteString(m.styles.Assistant.Render("助手: ") + msg.Text + "\n")
	}
	if m.conv.Loading() {
		b.WriteString(m.styles.Help.Render("思考中...") + "\n")
	}
	b.WriteString(m.chat.View())
	return m.styles.Modal.Render(b.String())
}
