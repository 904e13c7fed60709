package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// Rating is the letter grade shown on listing cards.
type Rating string

const (
	RatingA     Rating = "A"
	RatingBPlus Rating = "B+"
	RatingB     Rating = "B"
	RatingC     Rating = "C"
	RatingD     Rating = "D"
)

// Ratings lists every valid grade, best first.
var Ratings = []Rating{RatingA, RatingBPlus, RatingB, RatingC, RatingD}

var ErrInvalidRating = errors.New("invalid rating")

// ParseRating converts external input into a Rating, rejecting anything
// outside the enumeration.
func ParseRating(s string) (Rating, error) {
	r := Rating(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return r, nil
}

func (r Rating) Valid() bool {
	switch r {
	case RatingA, RatingBPlus, RatingB, RatingC, RatingD:
		return true
	}
	return false
}

func (r Rating) String() string { return string(r) }

// Scan validates ratings as they are loaded from the database.
func (r *Rating) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidRating, value)
	}
	parsed, err := ParseRating(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Rating) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRating, string(r))
	}
	return string(r), nil
}
