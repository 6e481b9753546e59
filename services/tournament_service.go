package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maxesports/esports-hub/contract"
	"github.com/maxesports/esports-hub/models"
	"github.com/maxesports/esports-hub/repositories"
	"github.com/maxesports/esports-hub/storage"
)

type TournamentService interface {
	List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	Create(ctx context.Context, input contract.CreateTournamentInput) (*models.Tournament, error)
	Update(ctx context.Context, id int, input contract.UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
	UpdateImage(ctx context.Context, id int, contentType string, data io.Reader) (*models.Tournament, error)
	AutoUpdateStatuses(ctx context.Context) error
}

type tournamentService struct {
	repo     repositories.TournamentRepository
	uploader storage.FileUploader // nil when uploads are disabled
	notifier Notifier
	now      func() time.Time
}

func NewTournamentService(repo repositories.TournamentRepository, uploader storage.FileUploader, notifier Notifier) TournamentService {
	return &tournamentService{
		repo:     repo,
		uploader: uploader,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	if status != nil && !models.ValidTournamentStatus(*status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, *status)
	}
	return s.repo.List(ctx, repositories.ListTournamentsFilter{Status: status})
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) Create(ctx context.Context, input contract.CreateTournamentInput) (*models.Tournament, error) {
	t := &models.Tournament{
		Title:            input.Title,
		Description:      input.Description,
		Game:             input.Game,
		Status:           input.Status,
		StartDate:        input.StartDate,
		PrizePool:        input.PrizePool,
		Format:           input.Format,
		RegistrationLink: input.RegistrationLink,
		ImageURL:         input.ImageURL,
		IsFeatured:       input.IsFeatured,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.notifier.Publish(EventTournamentCreated, t)
	return t, nil
}

// Update applies a partial patch: the stored row is loaded, non-nil input
// fields are overlaid, and the full row is written back. Id and createdAt
// are never touched.
func (s *tournamentService) Update(ctx context.Context, id int, input contract.UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Game != nil {
		t.Game = *input.Game
	}
	if input.Status != nil {
		t.Status = *input.Status
	}
	if input.StartDate != nil {
		t.StartDate = *input.StartDate
	}
	if input.PrizePool != nil {
		t.PrizePool = *input.PrizePool
	}
	if input.Format != nil {
		t.Format = *input.Format
	}
	if input.RegistrationLink != nil {
		t.RegistrationLink = input.RegistrationLink
	}
	if input.ImageURL != nil {
		t.ImageURL = input.ImageURL
	}
	if input.IsFeatured != nil {
		t.IsFeatured = *input.IsFeatured
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	s.notifier.Publish(EventTournamentUpdated, t)
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Publish(EventTournamentDeleted, map[string]int{"id": id})
	return nil
}

// UpdateImage stores a new banner in object storage and persists its public
// URL on the tournament row.
func (s *tournamentService) UpdateImage(ctx context.Context, id int, contentType string, data io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}

	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, err
	}

	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/banner-%d%s", id, s.now().UnixNano(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament banner: %w", err)
	}

	t.ImageURL = &result.Location
	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	s.notifier.Publish(EventTournamentUpdated, t)
	return t, nil
}

// AutoUpdateStatuses promotes upcoming tournaments whose start date has
// passed to live. Nothing is auto-ended: the schema carries no end date, so
// ending a tournament stays an admin action.
func (s *tournamentService) AutoUpdateStatuses(ctx context.Context) error {
	upcoming := models.StatusUpcoming
	tournaments, err := s.repo.List(ctx, repositories.ListTournamentsFilter{Status: &upcoming})
	if err != nil {
		return fmt.Errorf("failed to list upcoming tournaments: %w", err)
	}

	now := s.now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := range tournaments {
		t := tournaments[i]
		if t.StartDate.After(now) {
			continue
		}
		g.Go(func() error {
			t.Status = models.StatusLive
			if err := s.repo.Update(ctx, &t); err != nil {
				// Deleted between list and update: nothing to promote.
				if errors.Is(err, repositories.ErrTournamentNotFound) {
					return nil
				}
				return err
			}
			s.notifier.Publish(EventTournamentUpdated, &t)
			return nil
		})
	}

	return g.Wait()
}

func imageExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}
}
