package models

import (
	"time"

	"gorm.io/gorm"
)

// Property is a single listing offered by an owner.
type Property struct {
	gorm.Model
	Title       string  `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"type:decimal(14,2);not null;default:0"`
	City        string  `gorm:"index"`
	Address     string
	Latitude    float64
	Longitude   float64
	Rooms       int
	AreaSqM     float64
	Rating      Rating   `gorm:"type:varchar(2);not null;default:C"`
	Moderated   bool     `gorm:"not null;default:false;index"`
	Rejected    bool     `gorm:"not null;default:false;index"`
	OwnerID     uint     `gorm:"not null;index"`
	Owner       *User    `gorm:"foreignKey:OwnerID"`
	ComplexID   *uint    `gorm:"index"`
	Complex     *Complex `gorm:"foreignKey:ComplexID"`
	Images      []Image  `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// Published reports whether the listing passed moderation.
func (p Property) Published() bool {
	return p.Moderated && !p.Rejected
}

// HasLocation reports whether the listing can be shown on a map.
func (p Property) HasLocation() bool {
	return p.Latitude != 0 || p.Longitude != 0
}

// Cover returns the first image URL, or "" when the listing has none.
func (p Property) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Image is a photo attached to exactly one property.
type Image struct {
	ID         uint   `gorm:"primarykey"`
	PropertyID uint   `gorm:"not null;index"`
	URL        string `gorm:"type:text;not null"`
	Key        string `gorm:"type:text"`
	SortOrder  int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

// Complex is a residential complex grouping several listings.
type Complex struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Address     string
	City        string     `gorm:"index"`
	Description string     `gorm:"type:text"`
	Properties  []Property `gorm:"foreignKey:ComplexID"`
}

// Favorite marks a property saved by a buyer.
type Favorite struct {
	ID         uint      `gorm:"primarykey"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_favorites_user_property"`
	PropertyID uint      `gorm:"not null;uniqueIndex:idx_favorites_user_property"`
	Property   *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}
