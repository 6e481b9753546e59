package models

import "time"

// TournamentStatus is the closed set of tournament states. The same three
// values back the validator rule, the CHECK constraint in the schema and the
// list filter, so they cannot drift apart.
type TournamentStatus string

const (
	StatusUpcoming TournamentStatus = "upcoming"
	StatusLive     TournamentStatus = "live"
	StatusEnded    TournamentStatus = "ended"
)

func ValidTournamentStatus(s TournamentStatus) bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusEnded:
		return true
	default:
		return false
	}
}

// Tournament is a listed event on the public site.
type Tournament struct {
	ID               int              `json:"id" db:"id"`
	Title            string           `json:"title" db:"title"`
	Description      string           `json:"description" db:"description"`
	Game             string           `json:"game" db:"game"`
	Status           TournamentStatus `json:"status" db:"status"`
	StartDate        time.Time        `json:"startDate" db:"start_date"`
	PrizePool        string           `json:"prizePool" db:"prize_pool"` // free text, keeps "₹20,000" formatting
	Format           string           `json:"format" db:"format"`
	RegistrationLink *string          `json:"registrationLink,omitempty" db:"registration_link"`
	ImageURL         *string          `json:"imageUrl,omitempty" db:"image_url"`
	IsFeatured       bool             `json:"isFeatured" db:"is_featured"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
}
