package contract

import (
	"time"

	"github.com/maxesports/esports-hub/models"
)

// CreateTournamentInput is the request body for tournaments.create. Field
// names mirror the Tournament model minus the system-assigned id/createdAt.
type CreateTournamentInput struct {
	Title            string                  `json:"title" validate:"required"`
	Description      string                  `json:"description" validate:"required"`
	Game             string                  `json:"game" validate:"required"`
	Status           models.TournamentStatus `json:"status" validate:"required,oneof=upcoming live ended"`
	StartDate        time.Time               `json:"startDate" validate:"required"`
	PrizePool        string                  `json:"prizePool" validate:"required"`
	Format           string                  `json:"format" validate:"required"`
	RegistrationLink *string                 `json:"registrationLink" validate:"omitnil,omitempty,url"`
	ImageURL         *string                 `json:"imageUrl" validate:"omitnil,omitempty,url"`
	IsFeatured       bool                    `json:"isFeatured"`
}

// UpdateTournamentInput is a partial patch: nil fields are left untouched,
// non-nil fields must still satisfy the same rules as on create.
type UpdateTournamentInput struct {
	Title            *string                  `json:"title" validate:"omitnil,min=1"`
	Description      *string                  `json:"description" validate:"omitnil,min=1"`
	Game             *string                  `json:"game" validate:"omitnil,min=1"`
	Status           *models.TournamentStatus `json:"status" validate:"omitnil,oneof=upcoming live ended"`
	StartDate        *time.Time               `json:"startDate"`
	PrizePool        *string                  `json:"prizePool" validate:"omitnil,min=1"`
	Format           *string                  `json:"format" validate:"omitnil,min=1"`
	RegistrationLink *string                  `json:"registrationLink" validate:"omitnil,omitempty,url"`
	ImageURL         *string                  `json:"imageUrl" validate:"omitnil,omitempty,url"`
	IsFeatured       *bool                    `json:"isFeatured"`
}

type CreateTeamMemberInput struct {
	Name         string  `json:"name" validate:"required"`
	Role         string  `json:"role" validate:"required"`
	Game         string  `json:"game" validate:"required"`
	ImageURL     *string `json:"imageUrl" validate:"omitnil,omitempty,url"`
	Instagram    *string `json:"instagram" validate:"omitnil,omitempty,url"`
	Discord      *string `json:"discord" validate:"omitnil,omitempty,url"`
	Twitter      *string `json:"twitter" validate:"omitnil,omitempty,url"`
	Youtube      *string `json:"youtube" validate:"omitnil,omitempty,url"`
	Email        *string `json:"email" validate:"omitnil,omitempty,email"`
	IsManagement bool    `json:"isManagement"`
}

type UpdateTeamMemberInput struct {
	Name         *string `json:"name" validate:"omitnil,min=1"`
	Role         *string `json:"role" validate:"omitnil,min=1"`
	Game         *string `json:"game" validate:"omitnil,min=1"`
	ImageURL     *string `json:"imageUrl" validate:"omitnil,omitempty,url"`
	Instagram    *string `json:"instagram" validate:"omitnil,omitempty,url"`
	Discord      *string `json:"discord" validate:"omitnil,omitempty,url"`
	Twitter      *string `json:"twitter" validate:"omitnil,omitempty,url"`
	Youtube      *string `json:"youtube" validate:"omitnil,omitempty,url"`
	Email        *string `json:"email" validate:"omitnil,omitempty,email"`
	IsManagement *bool   `json:"isManagement"`
}
