package organizations

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contour-tours/backend/internal/models"
)

// Repository handles organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orgColumns = `id, name, COALESCE(logo, ''), COALESCE(email_user, ''), COALESCE(email_password, ''),
	COALESCE(email_host, ''), COALESCE(email_port, 0), email_enabled, created_at, updated_at`

func scanOrganization(row interface{ Scan(dest ...any) error }) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Logo, &o.EmailUser, &o.EmailPassword,
		&o.EmailHost, &o.EmailPort, &o.EmailEnabled, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new organization. EmailPassword must already be encrypted.
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	const q = `INSERT INTO organizations (id, name, logo, email_user, email_password, email_host, email_port, email_enabled)
		VALUES (gen_random_uuid(), $1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, org.Name, org.Logo, org.EmailUser, org.EmailPassword,
		org.EmailHost, org.EmailPort, org.EmailEnabled).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

// GetByID returns an organization by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return scanOrganization(r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id))
}

// ListWithCounts returns all organizations with member and tour totals,
// newest first, for the super-admin overview.
func (r *Repository) ListWithCounts(ctx context.Context) ([]models.OrganizationWithCounts, error) {
	const q = `SELECT o.id, o.name, COALESCE(o.logo, ''), COALESCE(o.email_user, ''), COALESCE(o.email_password, ''),
			COALESCE(o.email_host, ''), COALESCE(o.email_port, 0), o.email_enabled, o.created_at, o.updated_at,
			(SELECT COUNT(*) FROM users u WHERE u.organization_id = o.id) AS user_count,
			(SELECT COUNT(*) FROM tours t WHERE t.organization_id = o.id) AS tour_count
		FROM organizations o
		ORDER BY o.created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.OrganizationWithCounts
	for rows.Next() {
		var o models.OrganizationWithCounts
		if err := rows.Scan(&o.ID, &o.Name, &o.Logo, &o.EmailUser, &o.EmailPassword,
			&o.EmailHost, &o.EmailPort, &o.EmailEnabled, &o.CreatedAt, &o.UpdatedAt,
			&o.UserCount, &o.TourCount); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateParams carries the partial organization update. Nil means "leave
// unchanged"; for EmailPassword an explicit empty string clears the stored
// value.
type UpdateParams struct {
	Name          *string
	Logo          *string
	EmailUser     *string
	EmailPassword *string // already encrypted, or "" to clear
	EmailHost     *string
	EmailPort     *int
	EmailEnabled  *bool
}

// Update applies a partial update and returns the fresh record.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Organization, error) {
	const q = `UPDATE organizations SET
			name = COALESCE($1, name),
			logo = COALESCE($2, logo),
			email_user = COALESCE($3, email_user),
			email_password = CASE WHEN $4::text IS NULL THEN email_password ELSE NULLIF($4, '') END,
			email_host = COALESCE($5, email_host),
			email_port = COALESCE($6, email_port),
			email_enabled = COALESCE($7, email_enabled),
			updated_at = NOW()
		WHERE id = $8
		RETURNING ` + orgColumns
	return scanOrganization(r.pool.QueryRow(ctx, q, p.Name, p.Logo, p.EmailUser, p.EmailPassword,
		p.EmailHost, p.EmailPort, p.EmailEnabled, id))
}

// SetLogo stores the logo object key for an organization.
func (r *Repository) SetLogo(ctx context.Context, id uuid.UUID, key string) error {
	_, err := r.pool.Exec(ctx, `UPDATE organizations SET logo = $1, updated_at = NOW() WHERE id = $2`, key, id)
	return err
}

// Delete removes an organization. Users, tours and slots cascade at the
// database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DashboardCounts returns member/tour totals plus the number of slots on the
// given date for the organization dashboard.
func (r *Repository) DashboardCounts(ctx context.Context, orgID uuid.UUID, date string) (users, tours, slotsToday int, err error) {
	const q = `SELECT
			(SELECT COUNT(*) FROM users u WHERE u.organization_id = $1),
			(SELECT COUNT(*) FROM tours t WHERE t.organization_id = $1),
			(SELECT COUNT(*) FROM tour_slots s JOIN tours t ON t.id = s.tour_id
				WHERE t.organization_id = $1 AND s.date = $2)`
	err = r.pool.QueryRow(ctx, q, orgID, date).Scan(&users, &tours, &slotsToday)
	return users, tours, slotsToday, err
}
