// Package i18n negotiates the request locale and holds the UI label catalog.
package i18n

import (
	"net/http"

	"golang.org/x/text/language"
)

// Supported lists the locales with a catalog, default first.
var Supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(Supported)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		"show_on_map":        "Show on map",
		"search_placeholder": "Search by title, city or address",
		"search":             "Search",
		"sort_newest":        "Newest first",
		"sort_price_asc":     "Price: low to high",
		"sort_price_desc":    "Price: high to low",
		"featured":           "Featured properties",
		"property_not_found": "Property not found",
		"complex_not_found":  "Complex not found",
		"back_to_properties": "Back to properties",
		"back_to_complexes":  "Back to complexes",
		"property_error":     "Something went wrong while loading this property.",
		"complex_error":      "Something went wrong while loading this complex.",
		"my_properties":      "My properties",
		"favorites":          "Saved properties",
		"add_favorite":       "Save",
		"remove_favorite":    "Remove",
		"login":              "Sign in",
		"register":           "Create account",
		"logout":             "Sign out",
		"agents":             "Agents",
		"complexes":          "Residential complexes",
		"properties":         "Properties",
		"upload_image":       "Upload photo",
		"recent_listings":    "Recent listings",
		"pending":            "Pending moderation",
		"rejected":           "Rejected",
		"reviews":            "reviews",
		"empty":              "Nothing here yet.",
	},
	language.Russian: {
		"show_on_map":        "Показать на карте",
		"search_placeholder": "Поиск по названию, городу или адресу",
		"search":             "Найти",
		"sort_newest":        "Сначала новые",
		"sort_price_asc":     "Сначала дешевле",
		"sort_price_desc":    "Сначала дороже",
		"featured":           "Избранные объекты",
		"property_not_found": "Объект не найден",
		"complex_not_found":  "Жилой комплекс не найден",
		"back_to_properties": "К списку объектов",
		"back_to_complexes":  "К списку комплексов",
		"property_error":     "Не удалось загрузить объект.",
		"complex_error":      "Не удалось загрузить жилой комплекс.",
		"my_properties":      "Мои объекты",
		"favorites":          "Сохранённые объекты",
		"add_favorite":       "Сохранить",
		"remove_favorite":    "Убрать",
		"login":              "Войти",
		"register":           "Зарегистрироваться",
		"logout":             "Выйти",
		"agents":             "Агенты",
		"complexes":          "Жилые комплексы",
		"properties":         "Объекты",
		"upload_image":       "Загрузить фото",
		"recent_listings":    "Последние объявления",
		"pending":            "На модерации",
		"rejected":           "Отклонено",
		"reviews":            "отзывов",
		"empty":              "Пока ничего нет.",
	},
}

// Localizer resolves labels for one locale.
type Localizer struct {
	tag language.Tag
}

// New picks the best supported locale for the given preferences, such as
// the raw Accept-Language header or a lang query value.
func New(prefs ...string) Localizer {
	tag, _ := language.MatchStrings(matcher, prefs...)
	base, _ := tag.Base()
	for _, t := range Supported {
		if b, _ := t.Base(); b == base {
			return Localizer{tag: t}
		}
	}
	return Localizer{tag: Supported[0]}
}

// FromRequest negotiates the locale of r. A lang cookie wins over the
// Accept-Language header.
func FromRequest(r *http.Request) Localizer {
	var prefs []string
	if c, err := r.Cookie("lang"); err == nil {
		prefs = append(prefs, c.Value)
	}
	prefs = append(prefs, r.Header.Get("Accept-Language"))
	return New(prefs...)
}

func (l Localizer) Tag() language.Tag { return l.tag }

func (l Localizer) Lang() string {
	base, _ := l.tag.Base()
	return base.String()
}

// T returns the label for key, falling back to English and then to the key.
func (l Localizer) T(key string) string {
	if s, ok := catalog[l.tag][key]; ok {
		return s
	}
	if s, ok := catalog[Supported[0]][key]; ok {
		return s
	}
	return key
}
