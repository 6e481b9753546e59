package models

import "time"

// TeamMember is a roster entry: players and management alike.
type TeamMember struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"` // "Player", "IGL", "Owner", ...
	Game         string    `json:"game" db:"game"`
	ImageURL     *string   `json:"imageUrl,omitempty" db:"image_url"`
	Instagram    *string   `json:"instagram,omitempty" db:"instagram"`
	Discord      *string   `json:"discord,omitempty" db:"discord"`
	Twitter      *string   `json:"twitter,omitempty" db:"twitter"`
	Youtube      *string   `json:"youtube,omitempty" db:"youtube"`
	Email        *string   `json:"email,omitempty" db:"email"`
	IsManagement bool      `json:"isManagement" db:"is_management"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
