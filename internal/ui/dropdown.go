package ui

import "html/template"

type Option struct {
	Label string
	Value string
}

// Dropdown is a controlled single-selection control. It keeps no state of
// its own: Value is whatever the caller passes in, and a selection is
// reported through OnChange.
type Dropdown struct {
	Name     string
	Options  []Option
	Value    string
	OnChange func(value string)
}

func (d Dropdown) Render() (template.HTML, error) {
	return render("dropdown", d)
}

// Select reports a user selection. v is not checked against Options.
func (d Dropdown) Select(v string) {
	if d.OnChange != nil {
		d.OnChange(v)
	}
}
