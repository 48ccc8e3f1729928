package tours

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contour-tours/backend/internal/models"
)

// Repository handles tour persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tours repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tourColumns = `id, name, tour_tag, capacity, list_names, organization_id, created_at, updated_at`

func scanTour(row interface{ Scan(dest ...any) error }) (*models.Tour, error) {
	var t models.Tour
	err := row.Scan(&t.ID, &t.Name, &t.TourTag, &t.Capacity, &t.ListNames, &t.OrganizationID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tour.
func (r *Repository) Create(ctx context.Context, t *models.Tour) error {
	const q = `INSERT INTO tours (id, name, tour_tag, capacity, list_names, organization_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, t.Name, t.TourTag, t.Capacity, t.ListNames, t.OrganizationID).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID returns a tour by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	return scanTour(r.pool.QueryRow(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id))
}

// ListByOrganization returns the organization's tours, newest first.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Tour, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tourColumns+` FROM tours WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Tour
	for rows.Next() {
		var t models.Tour
		if err := rows.Scan(&t.ID, &t.Name, &t.TourTag, &t.Capacity, &t.ListNames, &t.OrganizationID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update applies a partial update and returns the fresh record.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, tourTag *string, capacity *int, listNames []string) (*models.Tour, error) {
	const q = `UPDATE tours SET
			name = COALESCE($1, name),
			tour_tag = COALESCE($2, tour_tag),
			capacity = COALESCE($3, capacity),
			list_names = COALESCE($4, list_names),
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + tourColumns
	return scanTour(r.pool.QueryRow(ctx, q, name, tourTag, capacity, listNames, id))
}

// Delete removes a tour. Its slots cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	return err
}
