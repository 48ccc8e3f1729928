package tourslots

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contour-tours/backend/internal/models"
)

// Repository handles tour slot persistence, including the two guide join
// tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tour slots repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// slotColumns joins through tours so every slot row carries its tour name,
// tag and owning organization.
const slotColumns = `s.id, s.tour_id, s.date, s.time, s.language, s.is_private,
	s.adults, s.childs, t.name, t.tour_tag, t.organization_id, s.created_at, s.updated_at`

const slotFrom = ` FROM tour_slots s JOIN tours t ON t.id = s.tour_id`

func scanSlot(row interface{ Scan(dest ...any) error }) (*models.TourSlot, error) {
	var s models.TourSlot
	err := row.Scan(&s.ID, &s.TourID, &s.Date, &s.Time, &s.Language, &s.IsPrivate,
		&s.Adults, &s.Childs, &s.TourName, &s.TourTag, &s.OrganizationID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a single slot occurrence.
func (r *Repository) Create(ctx context.Context, s *models.TourSlot) error {
	const q = `INSERT INTO tour_slots (id, tour_id, date, time, language, is_private, adults, childs)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, s.TourID, s.Date, s.Time, s.Language, s.IsPrivate, s.Adults, s.Childs).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID returns a slot with its guide sets loaded.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.TourSlot, error) {
	s, err := scanSlot(r.pool.QueryRow(ctx, `SELECT `+slotColumns+slotFrom+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadGuides(ctx, []*models.TourSlot{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// ListByTour returns a tour's slots ordered by date then time.
func (r *Repository) ListByTour(ctx context.Context, tourID uuid.UUID) ([]*models.TourSlot, error) {
	return r.list(ctx, ` WHERE s.tour_id = $1 ORDER BY s.date, s.time`, tourID)
}

// ListByOrganizationAndDateRange returns the organization's slots whose date
// falls inside [from, to]. Each bound is optional: an empty string leaves
// that side open, and no bounds at all returns every slot. Bounds are
// inclusive; TEXT comparison is correct because dates are stored zero-padded
// YYYY-MM-DD.
func (r *Repository) ListByOrganizationAndDateRange(ctx context.Context, orgID uuid.UUID, from, to string) ([]*models.TourSlot, error) {
	where, args := slotRangeWhere(orgID, from, to)
	return r.list(ctx, where, args...)
}

// slotRangeWhere builds the organization filter with optional inclusive date
// bounds.
func slotRangeWhere(orgID uuid.UUID, from, to string) (string, []any) {
	where := ` WHERE t.organization_id = $1`
	args := []any{orgID}
	if from != "" {
		args = append(args, from)
		where += fmt.Sprintf(` AND s.date >= $%d`, len(args))
	}
	if to != "" {
		args = append(args, to)
		where += fmt.Sprintf(` AND s.date <= $%d`, len(args))
	}
	return where + ` ORDER BY s.date, s.time`, args
}

func (r *Repository) list(ctx context.Context, where string, args ...any) ([]*models.TourSlot, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+slotColumns+slotFrom+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*models.TourSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadGuides(ctx, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// loadGuides fills AvailableGuides and AssignedGuides for the given slots in
// two batch queries.
func (r *Repository) loadGuides(ctx context.Context, slots []*models.TourSlot) error {
	byID := make(map[uuid.UUID]*models.TourSlot, len(slots))
	ids := make([]uuid.UUID, 0, len(slots))
	for _, s := range slots {
		s.AvailableGuides = []models.GuideRef{}
		s.AssignedGuides = []models.GuideRef{}
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	load := func(table string, assign bool) error {
		q := fmt.Sprintf(`SELECT g.slot_id, u.id, u.name, u.email
			FROM %s g JOIN users u ON u.id = g.user_id
			WHERE g.slot_id = ANY($1)
			ORDER BY u.name, u.email`, table)
		rows, err := r.pool.Query(ctx, q, ids)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var slotID uuid.UUID
			var ref models.GuideRef
			if err := rows.Scan(&slotID, &ref.ID, &ref.Name, &ref.Email); err != nil {
				return err
			}
			s := byID[slotID]
			if assign {
				s.AssignedGuides = append(s.AssignedGuides, ref)
			} else {
				s.AvailableGuides = append(s.AvailableGuides, ref)
			}
		}
		return rows.Err()
	}

	if err := load("tour_slot_available_guides", false); err != nil {
		return err
	}
	return load("tour_slot_assigned_guides", true)
}

// Update applies a partial update and returns the fresh record with guide
// sets.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, date, slotTime, language *string, isPrivate *bool, adults, childs *int) (*models.TourSlot, error) {
	const q = `UPDATE tour_slots SET
			date = COALESCE($1, date),
			time = COALESCE($2, time),
			language = COALESCE($3, language),
			is_private = COALESCE($4, is_private),
			adults = COALESCE($5, adults),
			childs = COALESCE($6, childs),
			updated_at = NOW()
		WHERE id = $7
		RETURNING id`
	var updated uuid.UUID
	if err := r.pool.QueryRow(ctx, q, date, slotTime, language, isPrivate, adults, childs, id).Scan(&updated); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, updated)
}

// Delete removes a slot. Returns false when no slot matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tour_slots WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountMembers returns how many of the given user ids belong to the
// organization. Callers reject a guide set when the count comes back short.
func (r *Repository) CountMembers(ctx context.Context, orgID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE organization_id = $1 AND id = ANY($2)`,
		orgID, userIDs).Scan(&n)
	return n, err
}

// ReplaceAvailableGuides replaces the slot's availability set wholesale.
func (r *Repository) ReplaceAvailableGuides(ctx context.Context, slotID uuid.UUID, userIDs []uuid.UUID) error {
	return r.replaceGuides(ctx, "tour_slot_available_guides", slotID, userIDs)
}

// ReplaceAssignedGuides replaces the slot's assignment set wholesale.
func (r *Repository) ReplaceAssignedGuides(ctx context.Context, slotID uuid.UUID, userIDs []uuid.UUID) error {
	return r.replaceGuides(ctx, "tour_slot_assigned_guides", slotID, userIDs)
}

// replaceGuides swaps the whole membership in one transaction. Concurrent
// replacements on the same slot resolve last-write-wins; there is no version
// check on purpose.
func (r *Repository) replaceGuides(ctx context.Context, table string, slotID uuid.UUID, userIDs []uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE slot_id = $1`, table), slotID); err != nil {
			return err
		}
		for _, userID := range userIDs {
			if _, err := tx.Exec(ctx,
				fmt.Sprintf(`INSERT INTO %s (slot_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table),
				slotID, userID); err != nil {
				return err
			}
		}
		return nil
	})
}
