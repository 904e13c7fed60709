package ui

import "html/template"

// SearchBar holds the query text until the search is submitted.
type SearchBar struct {
	Name        string
	Placeholder string
	ButtonLabel string
	OnSearch    func(query string)

	query string
}

func NewSearchBar(name, placeholder, buttonLabel string, onSearch func(string)) *SearchBar {
	return &SearchBar{Name: name, Placeholder: placeholder, ButtonLabel: buttonLabel, OnSearch: onSearch}
}

// Type replaces the current text. It never triggers a search.
func (s *SearchBar) Type(text string) {
	s.query = text
}

func (s *SearchBar) Query() string { return s.query }

// Submit runs the search with the current text. The text is kept.
func (s *SearchBar) Submit() {
	if s.OnSearch != nil {
		s.OnSearch(s.query)
	}
}

func (s *SearchBar) Render() (template.HTML, error) {
	submit, err := Button{Label: s.ButtonLabel, Variant: Primary, Type: "submit"}.Render()
	if err != nil {
		return "", err
	}
	return render("searchbar", struct {
		Name         string
		Placeholder  string
		Query        string
		SubmitButton template.HTML
	}{s.Name, s.Placeholder, s.query, submit})
}
