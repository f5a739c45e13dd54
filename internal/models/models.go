package models

import (
	"time"

	"github.com/google/uuid"
)

// CollegeByDomain maps a partner school's email domain to its display name.
// Signup is only open to addresses under one of these domains.
var CollegeByDomain = map[string]string{
	"tulane.edu": "Tulane University",
	"gsu.edu":    "Georgia State University",
}

type User struct {
	UID            uuid.UUID `gorm:"type:uuid;primaryKey"        json:"uid"`
	Username       string    `gorm:"unique;not null"             json:"username"`
	Email          string    `gorm:"unique;not null"             json:"email"`
	HashedPassword string    `gorm:"not null"                    json:"-"`
	College        string    `gorm:"not null"                    json:"college"`
	Role           string    `gorm:"not null;default:basic_user" json:"role"`
	IsVerified     bool      `gorm:"default:false"               json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Game struct {
	UID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"uid"`
	Title     string    `gorm:"not null"             json:"title"`
	GameTime  time.Time `gorm:"not null"             json:"game_time"`
	Location  string    `gorm:"not null"             json:"location"`
	BuyIn     int       `gorm:"not null"             json:"buy_in"`
	Host      string    `gorm:"not null"             json:"host"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
