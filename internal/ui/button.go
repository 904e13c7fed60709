package ui

import (
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"sort"
	"strings"

	"estatehub/internal/i18n"
)

type Variant string

const (
	Primary Variant = "primary"
	Outline Variant = "outline"
	Ghost   Variant = "ghost"
)

const buttonBase = "inline-flex items-center justify-center gap-2 rounded-md px-4 py-2 text-sm font-medium disabled:opacity-50"

var variantClasses = map[Variant]string{
	Primary: "bg-blue-600 text-white hover:bg-blue-700",
	Outline: "border border-gray-300 bg-white text-gray-900 hover:bg-gray-50",
	Ghost:   "bg-transparent text-gray-700 hover:bg-gray-100",
}

var ErrInvalidAttribute = errors.New("invalid attribute name")

var attrName = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:.\-]*$`)

// Button is the base button. Attrs are forwarded onto the element as given;
// names are validated and values escaped. A "class" attribute is appended
// to the variant classes.
type Button struct {
	Label    string
	Variant  Variant
	Type     string
	Disabled bool
	Attrs    map[string]string
}

func (b Button) Render() (template.HTML, error) {
	variant := b.Variant
	if variant == "" {
		variant = Primary
	}
	classes, ok := variantClasses[variant]
	if !ok {
		return "", fmt.Errorf("unknown button variant %q", variant)
	}
	classes = buttonBase + " " + classes

	typ := b.Type
	if typ == "" {
		typ = "button"
	}

	names := make([]string, 0, len(b.Attrs))
	for name := range b.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]template.HTMLAttr, 0, len(names))
	for _, name := range names {
		if !attrName.MatchString(name) {
			return "", fmt.Errorf("%w: %q", ErrInvalidAttribute, name)
		}
		value := b.Attrs[name]
		switch strings.ToLower(name) {
		case "type", "disabled":
			continue
		case "class":
			classes += " " + value
			continue
		}
		attrs = append(attrs, template.HTMLAttr(fmt.Sprintf(`%s="%s"`, name, template.HTMLEscapeString(value))))
	}

	return render("button", struct {
		Label    string
		Type     string
		Classes  string
		Disabled bool
		Attrs    []template.HTMLAttr
	}{b.Label, typ, classes, b.Disabled, attrs})
}

// MapButton is an outline button labelled "Show on map" in the visitor's
// language.
type MapButton struct {
	Locale   i18n.Localizer
	Disabled bool
	Attrs    map[string]string
}

func (m MapButton) Button() Button {
	return Button{
		Label:    m.Locale.T("show_on_map"),
		Variant:  Outline,
		Type:     "button",
		Disabled: m.Disabled,
		Attrs:    m.Attrs,
	}
}

func (m MapButton) Render() (template.HTML, error) {
	return m.Button().Render()
}
