package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRating(t *testing.T) {
	for _, s := range []string{"A", "B", "B+", "C", "D"} {
		r, err := ParseRating(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, r.String())
	}

	for _, s := range []string{"", "a", "A+", "E", "B-", " B"} {
		_, err := ParseRating(s)
		assert.True(t, errors.Is(err, ErrInvalidRating), "expected %q to be rejected", s)
	}
}

func TestRatingScan(t *testing.T) {
	var r Rating
	require.NoError(t, r.Scan("B+"))
	assert.Equal(t, RatingBPlus, r)

	require.NoError(t, r.Scan([]byte("D")))
	assert.Equal(t, RatingD, r)

	assert.ErrorIs(t, r.Scan("Z"), ErrInvalidRating)
	assert.ErrorIs(t, r.Scan(nil), ErrInvalidRating)
	assert.ErrorIs(t, r.Scan(42), ErrInvalidRating)
}

func TestRatingValue(t *testing.T) {
	v, err := RatingA.Value()
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	_, err = Rating("F").Value()
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestPropertyHelpers(t *testing.T) {
	p := Property{Moderated: true}
	assert.True(t, p.Published())
	assert.False(t, p.HasLocation())
	assert.Equal(t, "", p.Cover())

	p.Rejected = true
	assert.False(t, p.Published())

	p.Latitude = 55.75
	p.Images = []Image{{URL: "https://cdn.example.com/1.jpg"}, {URL: "https://cdn.example.com/2.jpg"}}
	assert.True(t, p.HasLocation())
	assert.Equal(t, "https://cdn.example.com/1.jpg", p.Cover())
}
