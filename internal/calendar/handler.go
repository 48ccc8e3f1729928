package calendar

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contour-tours/backend/internal/auth"
	"github.com/contour-tours/backend/internal/authz"
	"github.com/contour-tours/backend/internal/tourslots"
	"github.com/contour-tours/backend/pkg/response"
)

// Handler serves the weekly calendar for an organization.
type Handler struct {
	slots  *tourslots.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a calendar handler.
func NewHandler(slots *tourslots.Repository, logger *zap.Logger) *Handler {
	return &Handler{slots: slots, logger: logger, now: time.Now}
}

// Week handles GET /organizations/:id/calendar?date=&nav=. date anchors the
// week (defaults to today); nav is next, prev or today, applied to the
// anchor before the week is resolved.
func (h *Handler) Week(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	actor := auth.MustActor(c)
	if !authz.CanViewOrganization(actor, orgID) {
		response.Forbidden(c, "not a member of this organization")
		return
	}

	anchor := Today(h.now())
	if raw := c.Query("date"); raw != "" {
		anchor, err = time.Parse(dateLayout, raw)
		if err != nil {
			response.BadRequest(c, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	switch c.Query("nav") {
	case "":
	case "next":
		anchor = NextWeek(anchor)
	case "prev":
		anchor = PreviousWeek(anchor)
	case "today":
		anchor = Today(h.now())
	default:
		response.BadRequest(c, "invalid nav, expected next, prev or today")
		return
	}

	monday := WeekStart(anchor)
	days := WeekDays(monday)
	slots, err := h.slots.ListByOrganizationAndDateRange(c.Request.Context(), orgID, days[0], days[6])
	if err != nil {
		h.logger.Error("load calendar slots", zap.Error(err))
		response.Internal(c, "failed to load calendar")
		return
	}
	response.OK(c, BuildWeekView(monday, slots, actor.UserID))
}
