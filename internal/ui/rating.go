package ui

import (
	"html/template"

	"estatehub/internal/models"
)

var ratingClasses = map[models.Rating]string{
	models.RatingA:     "bg-green-100 text-green-800 border-green-300",
	models.RatingBPlus: "bg-blue-100 text-blue-800 border-blue-300",
	models.RatingB:     "bg-sky-100 text-sky-800 border-sky-300",
	models.RatingC:     "bg-yellow-100 text-yellow-800 border-yellow-300",
	models.RatingD:     "bg-red-100 text-red-800 border-red-300",
}

// RatingBadge shows a listing's letter grade. Raw strings have to go
// through models.ParseRating first.
type RatingBadge struct {
	Rating models.Rating
}

func (b RatingBadge) Classes() string {
	return ratingClasses[b.Rating]
}

func (b RatingBadge) Render() (template.HTML, error) {
	if !b.Rating.Valid() {
		return "", models.ErrInvalidRating
	}
	return render("ratingbadge", struct {
		Rating  string
		Classes string
	}{b.Rating.String(), b.Classes()})
}
