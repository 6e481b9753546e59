package services

import (
	"context"
	"fmt"
	"time"

	"github.com/maxesports/esports-hub/models"
	"github.com/maxesports/esports-hub/repositories"
)

func strptr(s string) *string { return &s }

// SeedDemoTournaments inserts a handful of showcase tournaments when the
// table is empty, so a fresh deployment has something to render.
func SeedDemoTournaments(ctx context.Context, repo repositories.TournamentRepository) error {
	existing, err := repo.List(ctx, repositories.ListTournamentsFilter{})
	if err != nil {
		return fmt.Errorf("failed to check for existing tournaments: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	demo := []models.Tournament{
		{
			Title:            "MAX Winter Domination S3",
			Description:      "Competitive BGMI squad tournament featuring a ₹20,000 prize pool.",
			Game:             "BGMI",
			Status:           models.StatusEnded,
			StartDate:        time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			PrizePool:        "₹20,000",
			Format:           "Squad",
			RegistrationLink: strptr("https://forms.google.com/example"),
			IsFeatured:       false,
		},
		{
			Title:            "Max Champions League S4",
			Description:      "India's rising mobile teams compete at the highest level. Limited slots.",
			Game:             "BGMI",
			Status:           models.StatusLive,
			StartDate:        time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
			PrizePool:        "₹30,000",
			Format:           "Squad",
			RegistrationLink: strptr("https://forms.google.com/example"),
			IsFeatured:       true,
		},
		{
			Title:            "Max Weekly Clash",
			Description:      "Weekly tournament for serious squads. Register now to dominate.",
			Game:             "BGMI",
			Status:           models.StatusUpcoming,
			StartDate:        time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC),
			PrizePool:        "₹5,000",
			Format:           "Squad",
			RegistrationLink: strptr("https://forms.google.com/example"),
			IsFeatured:       true,
		},
	}

	for i := range demo {
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return fmt.Errorf("failed to seed tournament %q: %w", demo[i].Title, err)
		}
	}
	return nil
}
