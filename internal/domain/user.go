package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the digital-twin profile. Auth (registration, login) lives in a
// separate service; rows here are created on first authenticated access.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	BirthDate     *time.Time
	BirthTime     string
	BirthPlace    string
	Gender        string
	MBTI          string
	Profession    string
	CurrentStatus string
	Wishes        string

	CoinBalance int `gorm:"default:0;check:coin_balance >= 0"` // Tianji coins

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBirthData reports whether enough birth info is present to chart from.
func (u *User) HasBirthData() bool {
	return u.BirthDate != nil && u.BirthPlace != ""
}
