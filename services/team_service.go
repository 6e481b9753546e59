package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/maxesports/esports-hub/contract"
	"github.com/maxesports/esports-hub/models"
	"github.com/maxesports/esports-hub/repositories"
	"github.com/maxesports/esports-hub/storage"
)

type TeamService interface {
	List(ctx context.Context) ([]models.TeamMember, error)
	GetByID(ctx context.Context, id int) (*models.TeamMember, error)
	Create(ctx context.Context, input contract.CreateTeamMemberInput) (*models.TeamMember, error)
	Update(ctx context.Context, id int, input contract.UpdateTeamMemberInput) (*models.TeamMember, error)
	Delete(ctx context.Context, id int) error
	UpdatePhoto(ctx context.Context, id int, contentType string, data io.Reader) (*models.TeamMember, error)
}

type teamService struct {
	repo     repositories.TeamMemberRepository
	uploader storage.FileUploader
	notifier Notifier
	now      func() time.Time
}

func NewTeamService(repo repositories.TeamMemberRepository, uploader storage.FileUploader, notifier Notifier) TeamService {
	return &teamService{
		repo:     repo,
		uploader: uploader,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *teamService) List(ctx context.Context) ([]models.TeamMember, error) {
	return s.repo.List(ctx)
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.TeamMember, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *teamService) Create(ctx context.Context, input contract.CreateTeamMemberInput) (*models.TeamMember, error) {
	m := &models.TeamMember{
		Name:         input.Name,
		Role:         input.Role,
		Game:         input.Game,
		ImageURL:     input.ImageURL,
		Instagram:    input.Instagram,
		Discord:      input.Discord,
		Twitter:      input.Twitter,
		Youtube:      input.Youtube,
		Email:        input.Email,
		IsManagement: input.IsManagement,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.notifier.Publish(EventTeamMemberCreated, m)
	return m, nil
}

func (s *teamService) Update(ctx context.Context, id int, input contract.UpdateTeamMemberInput) (*models.TeamMember, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		m.Name = *input.Name
	}
	if input.Role != nil {
		m.Role = *input.Role
	}
	if input.Game != nil {
		m.Game = *input.Game
	}
	if input.ImageURL != nil {
		m.ImageURL = input.ImageURL
	}
	if input.Instagram != nil {
		m.Instagram = input.Instagram
	}
	if input.Discord != nil {
		m.Discord = input.Discord
	}
	if input.Twitter != nil {
		m.Twitter = input.Twitter
	}
	if input.Youtube != nil {
		m.Youtube = input.Youtube
	}
	if input.Email != nil {
		m.Email = input.Email
	}
	if input.IsManagement != nil {
		m.IsManagement = *input.IsManagement
	}

	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}

	s.notifier.Publish(EventTeamMemberUpdated, m)
	return m, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Publish(EventTeamMemberDeleted, map[string]int{"id": id})
	return nil
}

func (s *teamService) UpdatePhoto(ctx context.Context, id int, contentType string, data io.Reader) (*models.TeamMember, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}

	ext, err := imageExtension(contentType)
	if err != nil {
		return nil, err
	}

	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("team/%d/photo-%d%s", id, s.now().UnixNano(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team member photo: %w", err)
	}

	m.ImageURL = &result.Location
	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}

	s.notifier.Publish(EventTeamMemberUpdated, m)
	return m, nil
}
