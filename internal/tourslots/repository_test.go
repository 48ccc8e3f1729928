package tourslots

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSlotRangeWhereNoBoundsReturnsAllSlots(t *testing.T) {
	orgID := uuid.New()
	where, args := slotRangeWhere(orgID, "", "")
	assert.Equal(t, ` WHERE t.organization_id = $1 ORDER BY s.date, s.time`, where)
	assert.Equal(t, []any{orgID}, args)
}

func TestSlotRangeWhereStartBoundIsOpenEnded(t *testing.T) {
	orgID := uuid.New()
	where, args := slotRangeWhere(orgID, "2025-10-15", "")
	assert.Equal(t, ` WHERE t.organization_id = $1 AND s.date >= $2 ORDER BY s.date, s.time`, where)
	assert.Equal(t, []any{orgID, "2025-10-15"}, args)
}

func TestSlotRangeWhereEndBoundIsOpenEnded(t *testing.T) {
	orgID := uuid.New()
	where, args := slotRangeWhere(orgID, "", "2025-10-21")
	assert.Equal(t, ` WHERE t.organization_id = $1 AND s.date <= $2 ORDER BY s.date, s.time`, where)
	assert.Equal(t, []any{orgID, "2025-10-21"}, args)
}

func TestSlotRangeWhereBothBoundsInclusive(t *testing.T) {
	orgID := uuid.New()
	where, args := slotRangeWhere(orgID, "2025-10-15", "2025-10-21")
	assert.Equal(t, ` WHERE t.organization_id = $1 AND s.date >= $2 AND s.date <= $3 ORDER BY s.date, s.time`, where)
	assert.Equal(t, []any{orgID, "2025-10-15", "2025-10-21"}, args)
}
