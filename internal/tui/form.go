package tui

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/adminconsole/internal/errs"
	"github.com/jask/adminconsole/internal/users"
)

type formMode int

const (
	formAdd formMode = iota
	formEdit
)

var formFields = []struct {
	key   string
	label string
}{
	{"firstName", "First name"},
	{"lastName", "Last name"},
	{"email", "Email"},
}

type userForm struct {
	mode       formMode
	original   users.Record
	inputs     []textinput.Model
	focus      int
	errors     map[string]string
	submitting bool
}

func newUserForm(mode formMode, rec users.Record) *userForm {
	values := []string{rec.FirstName, rec.LastName, rec.Email}
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		inp := textinput.New()
		inp.Prompt = ""
		inp.Placeholder = f.label
		inp.CharLimit = 128
		inp.Width = 40
		inp.SetValue(values[i])
		if i == 0 {
			inp.Focus()
		}
		inputs[i] = inp
	}
	return &userForm{mode: mode, original: rec, inputs: inputs, errors: map[string]string{}}
}

func (f *userForm) record() users.Record {
	return users.Record{
		ID:        f.original.ID,
		FirstName: strings.TrimSpace(f.inputs[0].Value()),
		LastName:  strings.TrimSpace(f.inputs[1].Value()),
		Email:     strings.TrimSpace(f.inputs[2].Value()),
	}
}

// patch holds only the fields that differ from the loaded record.
func (f *userForm) patch() users.Patch {
	rec := f.record()
	var p users.Patch
	if rec.FirstName != f.original.FirstName {
		p.FirstName = &rec.FirstName
	}
	if rec.LastName != f.original.LastName {
		p.LastName = &rec.LastName
	}
	if rec.Email != f.original.Email {
		p.Email = &rec.Email
	}
	return p
}

func (f *userForm) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *userForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// validateUser checks required fields and the email address.
func validateUser(rec users.Record) error {
	var problems []error
	if rec.FirstName == "" {
		problems = append(problems, errs.NewValidationError("firstName", "first name is required"))
	}
	if rec.LastName == "" {
		problems = append(problems, errs.NewValidationError("lastName", "last name is required"))
	}
	switch {
	case rec.Email == "":
		problems = append(problems, errs.NewValidationError("email", "email is required"))
	default:
		addr, err := mail.ParseAddress(rec.Email)
		if err != nil || addr.Address != rec.Email {
			problems = append(problems, errs.NewValidationError("email", "email is not a valid address"))
		}
	}
	return errors.Join(problems...)
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	var joined interface{ Unwrap() []error }
	list := []error{err}
	if errors.As(err, &joined) {
		list = joined.Unwrap()
	}
	for _, e := range list {
		var ve *errs.ValidationError
		if errors.As(e, &ve) {
			out[ve.Field] = ve.Error()
		}
	}
	return out
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	switch {
	case key.Matches(m, a.keys.Cancel):
		a.form = nil
		a.status = ""
		return a, a.refresh()
	case key.Matches(m, a.keys.Submit):
		if f.submitting {
			return a, nil
		}
		return a, a.submitForm()
	case m.String() == "tab" || m.String() == "down":
		return a, f.move(1)
	case m.String() == "shift+tab" || m.String() == "up":
		return a, f.move(-1)
	}
	return a, f.updateInputs(m)
}

func (a *App) submitForm() tea.Cmd {
	f := a.form
	rec := f.record()
	if err := validateUser(rec); err != nil {
		f.errors = fieldErrors(err)
		a.setStatus("fix the highlighted fields", false)
		return nil
	}
	f.errors = map[string]string{}

	if f.mode == formEdit {
		p := f.patch()
		if p.IsEmpty() {
			a.form = nil
			a.setStatus("no changes", true)
			return a.refresh()
		}
		f.submitting = true
		return func() tea.Msg {
			if _, err := a.users.Update(a.ctx, rec.ID, p); err != nil {
				return errMsg{fmt.Errorf("update user %d: %w", rec.ID, err)}
			}
			return userSavedMsg{rec: rec}
		}
	}

	f.submitting = true
	return func() tea.Msg {
		if _, err := a.users.Create(a.ctx, rec); err != nil {
			return errMsg{fmt.Errorf("add user: %w", err)}
		}
		return userSavedMsg{created: true, rec: rec}
	}
}

func (f *userForm) view() string {
	title := "Add user"
	if f.mode == formEdit {
		title = fmt.Sprintf("Edit user %d", f.original.ID)
	}
	lines := []string{titleStyle.Render(title), ""}
	for i, field := range formFields {
		label := blurredLabel.Render(field.label)
		if i == f.focus {
			label = focusedLabel.Render(field.label)
		}
		lines = append(lines, label, f.inputs[i].View())
		if msg, ok := f.errors[field.key]; ok {
			lines = append(lines, errorStyle.Render(msg))
		}
		lines = append(lines, "")
	}
	if f.submitting {
		lines = append(lines, mutedStyle.Render("saving..."))
	}
	return strings.Join(lines, "\n")
}
