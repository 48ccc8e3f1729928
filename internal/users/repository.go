package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contour-tours/backend/internal/models"
)

// Repository handles user persistence. The super administrator is excluded
// from every organization-scoped query.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, password_hash, name, COALESCE(role, ''), is_super_admin, organization_id, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Role, &u.IsSuperAdmin, &u.OrganizationID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// ListByOrganization returns organization members newest first, optionally
// restricted to the given roles (the caller passes the actor's visibility
// filter). A nil filter returns every member.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID, roles []models.Role) ([]models.UserPublic, error) {
	q := `SELECT id, email, name, COALESCE(role, ''), organization_id, created_at
		FROM users WHERE organization_id = $1 AND NOT is_super_admin`
	args := []interface{}{orgID}
	if len(roles) > 0 {
		q += ` AND role = ANY($2)`
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		args = append(args, names)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.OrganizationID, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create inserts a new organization member.
func (r *Repository) Create(ctx context.Context, email, passwordHash, name string, role models.Role, orgID uuid.UUID) (*models.User, error) {
	const q = `INSERT INTO users (email, password_hash, name, role, organization_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, email, passwordHash, name, string(role), orgID))
}

// Update applies a partial name/email/role update and returns the fresh record.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, email *string, role *models.Role) (*models.User, error) {
	var roleStr *string
	if role != nil {
		s := string(*role)
		roleStr = &s
	}
	const q = `UPDATE users SET
			name = COALESCE($1, name),
			email = COALESCE($2, email),
			role = COALESCE($3, role),
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, name, email, roleStr, id))
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	return err
}

// Delete removes a user.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
