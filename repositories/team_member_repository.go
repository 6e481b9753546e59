package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maxesports/esports-hub/models"
)

var ErrTeamMemberNotFound = errors.New("team member not found")

type TeamMemberRepository interface {
	Create(ctx context.Context, member *models.TeamMember) error
	GetByID(ctx context.Context, id int) (*models.TeamMember, error)
	List(ctx context.Context) ([]models.TeamMember, error)
	Update(ctx context.Context, member *models.TeamMember) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamMemberRepository struct {
	db *sql.DB
}

func NewPostgresTeamMemberRepository(db *sql.DB) TeamMemberRepository {
	return &postgresTeamMemberRepository{db: db}
}

const teamMemberColumns = `id, name, role, game, image_url, instagram, discord, twitter, youtube, email, is_management, created_at`

func (r *postgresTeamMemberRepository) Create(ctx context.Context, m *models.TeamMember) error {
	query := `
		INSERT INTO team_members (
			name, role, game, image_url, instagram, discord, twitter, youtube, email, is_management
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		m.Name, m.Role, m.Game, m.ImageURL, m.Instagram, m.Discord, m.Twitter, m.Youtube, m.Email, m.IsManagement,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert team member: %w", err)
	}
	return nil
}

func (r *postgresTeamMemberRepository) GetByID(ctx context.Context, id int) (*models.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE id = $1`

	m := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Role, &m.Game, &m.ImageURL, &m.Instagram,
		&m.Discord, &m.Twitter, &m.Youtube, &m.Email, &m.IsManagement, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns members in insertion order (id ascending), so the roster page
// renders people in the order the org added them.
func (r *postgresTeamMemberRepository) List(ctx context.Context) ([]models.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		if scanErr := rows.Scan(
			&m.ID, &m.Name, &m.Role, &m.Game, &m.ImageURL, &m.Instagram,
			&m.Discord, &m.Twitter, &m.Youtube, &m.Email, &m.IsManagement, &m.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *postgresTeamMemberRepository) Update(ctx context.Context, m *models.TeamMember) error {
	query := `
		UPDATE team_members SET
			name = $1,
			role = $2,
			game = $3,
			image_url = $4,
			instagram = $5,
			discord = $6,
			twitter = $7,
			youtube = $8,
			email = $9,
			is_management = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		m.Name, m.Role, m.Game, m.ImageURL, m.Instagram, m.Discord, m.Twitter, m.Youtube, m.Email, m.IsManagement,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team member %d: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrTeamMemberNotFound)
}

// Delete is idempotent, same as tournament deletion.
func (r *postgresTeamMemberRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team member %d: %w", id, err)
	}
	return nil
}
