package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// ContactService is the part of the contact application the TUI drives.
type ContactService interface {
	Add(ctx context.Context, name, phone, email string) (*domain.Contact, error)
	List(ctx context.Context, f domain.Filter) ([]*domain.Contact, error)
	Update(ctx context.Context, id int64, name, phone, email string) (*domain.Contact, error)
	Delete(ctx context.Context, id int64) error
}

// RunContactBook starts the full-screen contact book and blocks until the user quits.
func RunContactBook(ctx context.Context, svc ContactService) error {
	p := tea.NewProgram(NewContactBookModel(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("contact book: %w", err)
	}
	return nil
}

const (
	focusName = iota
	focusPhone
	focusEmail
	focusSearch
	focusList
	focusCount
)

var fieldFocus = map[string]int{"name": focusName, "phone": focusPhone, "email": focusEmail}

// contactsLoadedMsg carries the filter it was loaded for so late answers to
// an older search can be dropped.
type contactsLoadedMsg struct {
	filter   domain.Filter
	contacts []*domain.Contact
	err      error
}

type mutationOp string

const (
	opAdd    mutationOp = "add"
	opUpdate mutationOp = "update"
	opDelete mutationOp = "delete"
)

type mutationMsg struct {
	op  mutationOp
	err error
}

// ContactBookModel is the bubbletea model behind `contactbook tui`.
type ContactBookModel struct {
	ctx context.Context
	svc ContactService

	inputs []textinput.Model // name, phone, email
	search textinput.Model
	scope  domain.Scope

	contacts []*domain.Contact
	cursor   int
	focus    int

	editingID     int64 // 0 while adding
	pendingDelete *domain.Contact

	dark      bool
	status    string
	statusErr bool
	errField  string
	errText   string
}

func NewContactBookModel(ctx context.Context, svc ContactService) ContactBookModel {
	m := ContactBookModel{ctx: ctx, svc: svc, scope: domain.ScopeAll}
	for _, label := range []string{"Name", "Phone", "Email"} {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 128
		ti.Width = 36
		m.inputs = append(m.inputs, ti)
	}
	m.search = textinput.New()
	m.search.Placeholder = "Search contacts"
	m.search.Width = 36
	m.setFocus(focusName)
	return m
}

func (m ContactBookModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadContacts())
}

func (m ContactBookModel) filter() domain.Filter {
	return domain.Filter{Search: m.search.Value(), Scope: m.scope}
}

func (m ContactBookModel) loadContacts() tea.Cmd {
	ctx, svc, f := m.ctx, m.svc, m.filter()
	return func() tea.Msg {
		contacts, err := svc.List(ctx, f)
		return contactsLoadedMsg{filter: f, contacts: contacts, err: err}
	}
}

func (m ContactBookModel) submit() tea.Cmd {
	ctx, svc, id := m.ctx, m.svc, m.editingID
	name, phone, email := m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value()
	if id != 0 {
		return func() tea.Msg {
			_, err := svc.Update(ctx, id, name, phone, email)
			return mutationMsg{op: opUpdate, err: err}
		}
	}
	return func() tea.Msg {
		_, err := svc.Add(ctx, name, phone, email)
		return mutationMsg{op: opAdd, err: err}
	}
}

func (m ContactBookModel) deleteContact(id int64) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return mutationMsg{op: opDelete, err: svc.Delete(ctx, id)}
	}
}

func (m ContactBookModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case contactsLoadedMsg:
		if msg.filter != m.filter() {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus("Error loading contacts: "+msg.err.Error(), true)
			return m, nil
		}
		m.contacts = msg.contacts
		m.cursor = max(0, min(m.cursor, len(m.contacts)-1))
		return m, nil

	case mutationMsg:
		return m.handleMutation(msg)

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}
	return m.updateFocusedInput(msg)
}

func (m ContactBookModel) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var ve *domain.ValidationError
		if errors.As(msg.err, &ve) {
			m.errField, m.errText = ve.Field, ve.Message
			if f, ok := fieldFocus[ve.Field]; ok {
				m.setFocus(f)
			}
			m.setStatus(ve.Message, true)
			return m, nil
		}
		if msg.op == opUpdate && errors.Is(msg.err, domain.ErrNotFound) {
			m.resetForm()
			m.setStatus("Contact no longer exists.", true)
			return m, m.loadContacts()
		}
		m.setStatus(fmt.Sprintf("Error %s contact: %v", progressive(msg.op), msg.err), true)
		return m, nil
	}

	switch msg.op {
	case opAdd:
		m.resetForm()
		m.setStatus("Contact added successfully.", false)
	case opUpdate:
		m.resetForm()
		m.setStatus("Contact updated successfully.", false)
	case opDelete:
		m.setStatus("Contact deleted successfully.", false)
	}
	return m, m.loadContacts()
}

func progressive(op mutationOp) string {
	switch op {
	case opAdd:
		return "adding"
	case opUpdate:
		return "updating"
	}
	return "deleting"
}

// handleKey deals with keys that are not plain text entry.
func (m ContactBookModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := msg.String()

	if m.pendingDelete != nil {
		switch key {
		case "y", "Y", "enter":
			id := m.pendingDelete.ID
			m.pendingDelete = nil
			return m, m.deleteContact(id), true
		case "n", "N", "esc":
			m.pendingDelete = nil
			m.setStatus("Delete cancelled.", false)
		case "ctrl+c":
			return m, tea.Quit, true
		}
		return m, nil, true
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit, true
	case "ctrl+t":
		m.dark = !m.dark
		return m, nil, true
	case "ctrl+s":
		m.scope = m.scope.Next()
		return m, m.loadContacts(), true
	case "tab", "down":
		if m.focus != focusList || key == "tab" {
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil, true
		}
	case "shift+tab", "up":
		if m.focus != focusList || key == "shift+tab" {
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil, true
		}
	case "esc":
		if m.editingID != 0 {
			m.resetForm()
			m.setStatus("Edit cancelled.", false)
		}
		return m, nil, true
	}

	switch m.focus {
	case focusName, focusPhone, focusEmail:
		if key == "enter" {
			return m, m.submit(), true
		}
	case focusSearch:
		if key == "enter" {
			m.setFocus(focusList)
			return m, nil, true
		}
	case focusList:
		return m.handleListKey(key)
	}
	return m, nil, false
}

func (m ContactBookModel) handleListKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.contacts)-1 {
			m.cursor++
		}
	case "e", "enter":
		if c := m.selected(); c != nil {
			m.startEdit(c)
		}
	case "d", "delete":
		if c := m.selected(); c != nil {
			m.pendingDelete = c
		}
	case "/":
		m.setFocus(focusSearch)
	case "q":
		return m, tea.Quit, true
	}
	return m, nil, true
}

func (m ContactBookModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.focus < len(m.inputs):
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok && m.errField != "" {
			m.errField, m.errText = "", ""
		}
	case m.focus == focusSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			return m, tea.Batch(cmd, m.loadContacts())
		}
	}
	return m, cmd
}

func (m ContactBookModel) selected() *domain.Contact {
	if m.cursor < 0 || m.cursor >= len(m.contacts) {
		return nil
	}
	return m.contacts[m.cursor]
}

func (m *ContactBookModel) startEdit(c *domain.Contact) {
	m.editingID = c.ID
	m.inputs[0].SetValue(c.Name)
	m.inputs[1].SetValue(c.Phone)
	m.inputs[2].SetValue(c.Email)
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
	m.setFocus(focusName)
	m.status = ""
}

func (m *ContactBookModel) resetForm() {
	m.editingID = 0
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.errField, m.errText = "", ""
	m.setFocus(focusName)
}

func (m *ContactBookModel) setFocus(f int) {
	m.focus = f
	for i := range m.inputs {
		if i == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	if f == focusSearch {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
}

func (m *ContactBookModel) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m ContactBookModel) theme() Theme {
	if m.dark {
		return DarkTheme
	}
	return LightTheme
}

func (m ContactBookModel) View() string {
	th := m.theme()
	var sb strings.Builder

	sb.WriteString(th.Title.Render("Contact Book") + "  " + th.Subtle.Render("theme: "+th.Name) + "\n\n")
	if m.editingID != 0 {
		sb.WriteString(th.Title.Render(fmt.Sprintf("Edit Contact #%d:", m.editingID)) + "\n")
	} else {
		sb.WriteString(th.Title.Render("Enter Contact Details:") + "\n")
	}

	for i, field := range []string{"name", "phone", "email"} {
		box := th.Input
		if m.focus == i {
			box = th.Focused
		}
		sb.WriteString(box.Render(m.inputs[i].View()) + "\n")
		if m.errField == field {
			sb.WriteString(th.Error.Render("  "+m.errText) + "\n")
		}
	}

	searchBox := th.Input
	if m.focus == focusSearch {
		searchBox = th.Focused
	}
	sb.WriteString("\n" + searchBox.Render(m.search.View()) + " " + th.Subtle.Render("scope: "+m.scope.String()) + "\n\n")

	sb.WriteString(th.Title.Render("Contacts:") + "\n")
	if len(m.contacts) == 0 {
		sb.WriteString(th.Subtle.Render("  No contacts.") + "\n")
	}
	for i, c := range m.contacts {
		line := fmt.Sprintf("%s  Phone: %s | Email: %s", c.Name, c.Phone, c.Email)
		if m.focus == focusList && i == m.cursor {
			sb.WriteString(th.Selected.Render("> "+line) + "\n")
		} else {
			sb.WriteString(th.Row.Render("  "+line) + "\n")
		}
	}

	if m.pendingDelete != nil {
		sb.WriteString("\n" + th.Dialog.Render(
			"Delete Contact\n"+
				fmt.Sprintf("Are you sure you want to delete %q?\n", m.pendingDelete.Name)+
				"y: delete • n: cancel") + "\n")
	}

	if m.status != "" {
		style := th.Success
		if m.statusErr {
			style = th.Error
		}
		sb.WriteString("\n" + style.Render(m.status) + "\n")
	}

	sb.WriteString("\n" + th.Subtle.Render("tab: next field • enter: save • ctrl+s: scope • ctrl+t: theme • list: e edit, d delete, q quit") + "\n")
	return sb.String()
}
