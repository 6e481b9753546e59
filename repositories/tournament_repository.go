package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maxesports/esports-hub/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, title, description, game, status, start_date, prize_pool, format, registration_link, image_url, is_featured, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			title, description, game, status, start_date,
			prize_pool, format, registration_link, image_url, is_featured
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.Game, t.Status, t.StartDate,
		t.PrizePool, t.Format, t.RegistrationLink, t.ImageURL, t.IsFeatured,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Game, &t.Status, &t.StartDate,
		&t.PrizePool, &t.Format, &t.RegistrationLink, &t.ImageURL, &t.IsFeatured, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns tournaments ordered by start date descending, optionally
// narrowed to a single status. The id tiebreak keeps the order stable for
// tournaments starting at the same instant.
func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`

	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY start_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Game, &t.Status, &t.StartDate,
			&t.PrizePool, &t.Format, &t.RegistrationLink, &t.ImageURL, &t.IsFeatured, &t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			title = $1,
			description = $2,
			game = $3,
			status = $4,
			start_date = $5,
			prize_pool = $6,
			format = $7,
			registration_link = $8,
			image_url = $9,
			is_featured = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Game, t.Status, t.StartDate,
		t.PrizePool, t.Format, t.RegistrationLink, t.ImageURL, t.IsFeatured,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d: %w", t.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Delete is idempotent: removing an id that no longer exists is not an error.
func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return nil
}
