package models

import "gorm.io/gorm"

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// User is an account. Owners of listings are users; so are agents, whose
// extra data lives in AgentProfile.
type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Image        string
	Phone        string
	CountryCode  string        `gorm:"size:4"`
	Description  string        `gorm:"type:text"`
	Role         Role          `gorm:"type:varchar(16);not null;default:user"`
	AgentProfile *AgentProfile `gorm:"foreignKey:UserID"`
}

// AgentProfile holds licensing data for users with the agent role.
type AgentProfile struct {
	gorm.Model
	UserID          uint `gorm:"not null;uniqueIndex"`
	LicenseNumber   string
	ExperienceYears int
	Agency          string
}

// Review is a buyer's score for an agent, 1 to 5.
type Review struct {
	gorm.Model
	AgentID  uint   `gorm:"not null;index"`
	Agent    *User  `gorm:"foreignKey:AgentID"`
	AuthorID uint   `gorm:"not null;index"`
	Author   *User  `gorm:"foreignKey:AuthorID"`
	Score    int    `gorm:"not null;check:score >= 1 AND score <= 5"`
	Text     string `gorm:"type:text"`
}

// Agent is the read model shown on agent pages. It is assembled from a User,
// its AgentProfile, listings and reviews; it is not the same shape as the
// owner projection embedded in listings.
type Agent struct {
	ID              uint
	Name            string
	Image           string
	Email           string
	Phone           string
	CountryCode     string
	LicenseNumber   string
	ExperienceYears int
	Agency          string
	ListingIDs      []uint
	ReviewCount     int
	Rating          float64
}
