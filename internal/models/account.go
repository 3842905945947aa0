package models

import "time"

// Team affiliations a trainer can choose.
const (
	TeamInstinct = "instinct"
	TeamMystic   = "mystic"
	TeamValor    = "valor"
)

// Teams lists the valid team values.
var Teams = []string{TeamInstinct, TeamMystic, TeamValor}

// Account represents one Pokemon GO trainer account.
type Account struct {
	ID        string     `json:"id" gorm:"primaryKey;type:char(24)"`
	Username  string     `json:"username" gorm:"type:varchar(50);not null"`
	// The email column is sized for post-escape expansion: sanitization
	// HTML-escapes stored values, and a 100-char email of escapable
	// characters can grow up to 5x ("&" becomes "&amp;").
	Email     string     `json:"email" gorm:"uniqueIndex;type:varchar(500);not null"`
	Team      string     `json:"team" gorm:"type:varchar(16);not null"`
	Country   string     `json:"country,omitempty" gorm:"type:varchar(50)"`
	Birthday  *time.Time `json:"birthday,omitempty" gorm:"type:date"`
	Level     *int       `json:"level,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
