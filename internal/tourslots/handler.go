package tourslots

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contour-tours/backend/internal/auth"
	"github.com/contour-tours/backend/internal/authz"
	"github.com/contour-tours/backend/internal/models"
	"github.com/contour-tours/backend/internal/tours"
	"github.com/contour-tours/backend/pkg/response"
)

// Handler handles tour slot HTTP endpoints.
type Handler struct {
	repo      *Repository
	toursRepo *tours.Repository
	logger    *zap.Logger
}

// NewHandler creates a tour slots handler.
func NewHandler(repo *Repository, toursRepo *tours.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, toursRepo: toursRepo, logger: logger}
}

// CreateRequest is the body for POST /slots. RepeatType expands the request
// into consecutive daily occurrences.
type CreateRequest struct {
	TourID     uuid.UUID         `json:"tour_id" binding:"required"`
	Date       string            `json:"date" binding:"required"`
	Time       string            `json:"time" binding:"required"`
	Language   string            `json:"language" binding:"required"`
	IsPrivate  bool              `json:"is_private"`
	Adults     int               `json:"adults" binding:"omitempty,min=0"`
	Childs     int               `json:"childs" binding:"omitempty,min=0"`
	RepeatType models.RepeatType `json:"repeat_type"`
}

// UpdateRequest is the body for PATCH /slots/:id. Omitted fields stay
// unchanged; guide-id slices, when present, replace the whole set.
type UpdateRequest struct {
	Date              *string      `json:"date"`
	Time              *string      `json:"time"`
	Language          *string      `json:"language"`
	IsPrivate         *bool        `json:"is_private"`
	Adults            *int         `json:"adults" binding:"omitempty,min=0"`
	Childs            *int         `json:"childs" binding:"omitempty,min=0"`
	AvailableGuideIDs *[]uuid.UUID `json:"available_guide_ids"`
	AssignedGuideIDs  *[]uuid.UUID `json:"assigned_guide_ids"`
}

// availabilityOnly reports whether the request touches nothing but the
// availability set. Guides are restricted to exactly that shape.
func (r UpdateRequest) availabilityOnly() bool {
	return r.Date == nil && r.Time == nil && r.Language == nil && r.IsPrivate == nil &&
		r.Adults == nil && r.Childs == nil && r.AssignedGuideIDs == nil
}

// GuideRequest is the body for the assign/unassign endpoints.
type GuideRequest struct {
	GuideID uuid.UUID `json:"guide_id" binding:"required"`
}

// Create handles POST /slots (admin or manager of the tour's organization).
// A repeat_type of week or month creates consecutive daily slots; creation is
// sequential and stops at the first failure, keeping slots already created.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !validTime(req.Time) {
		response.BadRequest(c, "invalid time, expected HH:MM")
		return
	}

	tour, err := h.toursRepo.GetByID(c.Request.Context(), req.TourID)
	if err != nil {
		response.NotFound(c, "tour not found")
		return
	}
	if !authz.CanCreateSlot(auth.MustActor(c), tour.OrganizationID) {
		response.Forbidden(c, "not allowed to create slots in this organization")
		return
	}

	dates, err := ExpandDates(req.Date, req.RepeatType)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created := make([]*models.TourSlot, 0, len(dates))
	for _, date := range dates {
		slot := &models.TourSlot{
			TourID:    req.TourID,
			Date:      date,
			Time:      req.Time,
			Language:  req.Language,
			IsPrivate: req.IsPrivate,
			Adults:    req.Adults,
			Childs:    req.Childs,
		}
		if err := h.repo.Create(c.Request.Context(), slot); err != nil {
			h.logger.Error("create slot", zap.String("date", date), zap.Error(err))
			c.JSON(http.StatusInternalServerError, response.Body{
				Success: false,
				Kind:    response.KindInternal,
				Error:   "failed to create slot for " + date,
				Data:    gin.H{"created": len(created), "total": len(dates)},
			})
			return
		}
		slot.TourName = tour.Name
		slot.TourTag = tour.TourTag
		slot.OrganizationID = tour.OrganizationID
		slot.AvailableGuides = []models.GuideRef{}
		slot.AssignedGuides = []models.GuideRef{}
		created = append(created, slot)
	}
	response.Created(c, gin.H{"slots": created, "created": len(created), "total": len(dates)})
}

// GetByID handles GET /slots/:id.
func (h *Handler) GetByID(c *gin.Context) {
	slot, ok := h.loadSlot(c)
	if !ok {
		return
	}
	if !authz.CanViewOrganization(auth.MustActor(c), slot.OrganizationID) {
		response.Forbidden(c, "not a member of this organization")
		return
	}
	response.OK(c, slot)
}

// ListByTour handles GET /tours/:id/slots.
func (h *Handler) ListByTour(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour id")
		return
	}
	tour, err := h.toursRepo.GetByID(c.Request.Context(), tourID)
	if err != nil {
		response.NotFound(c, "tour not found")
		return
	}
	if !authz.CanViewOrganization(auth.MustActor(c), tour.OrganizationID) {
		response.Forbidden(c, "not a member of this organization")
		return
	}
	slots, err := h.repo.ListByTour(c.Request.Context(), tourID)
	if err != nil {
		h.logger.Error("list slots by tour", zap.Error(err))
		response.Internal(c, "failed to list slots")
		return
	}
	if slots == nil {
		slots = []*models.TourSlot{}
	}
	response.OK(c, slots)
}

// ListByOrganization handles GET /organizations/:id/slots. start_date and
// end_date are inclusive YYYY-MM-DD bounds, each optional: no bounds returns
// every slot of the organization, one bound leaves the other side open.
func (h *Handler) ListByOrganization(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	if !authz.CanViewOrganization(auth.MustActor(c), orgID) {
		response.Forbidden(c, "not a member of this organization")
		return
	}

	from := c.Query("start_date")
	to := c.Query("end_date")
	if from != "" && !validDate(from) {
		response.BadRequest(c, "invalid start_date, expected YYYY-MM-DD")
		return
	}
	if to != "" && !validDate(to) {
		response.BadRequest(c, "invalid end_date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.repo.ListByOrganizationAndDateRange(c.Request.Context(), orgID, from, to)
	if err != nil {
		h.logger.Error("list slots by organization", zap.Error(err))
		response.Internal(c, "failed to list slots")
		return
	}
	if slots == nil {
		slots = []*models.TourSlot{}
	}
	response.OK(c, slots)
}

// Update handles PATCH /slots/:id. Admins and managers may change any field;
// a guide of the organization may submit only available_guide_ids.
func (h *Handler) Update(c *gin.Context) {
	slot, ok := h.loadSlot(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Date != nil && !validDate(*req.Date) {
		response.BadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}
	if req.Time != nil && !validTime(*req.Time) {
		response.BadRequest(c, "invalid time, expected HH:MM")
		return
	}

	actor := auth.MustActor(c)
	if !authz.CanUpdateSlot(actor, slot.OrganizationID, req.availabilityOnly()) {
		response.Forbidden(c, "not allowed to update this slot")
		return
	}

	ctx := c.Request.Context()
	if req.AvailableGuideIDs != nil {
		if !h.guidesBelong(c, slot.OrganizationID, *req.AvailableGuideIDs) {
			return
		}
		if err := h.repo.ReplaceAvailableGuides(ctx, slot.ID, *req.AvailableGuideIDs); err != nil {
			h.logger.Error("replace available guides", zap.Error(err))
			response.Internal(c, "failed to update slot")
			return
		}
	}
	if req.AssignedGuideIDs != nil {
		if !h.guidesBelong(c, slot.OrganizationID, *req.AssignedGuideIDs) {
			return
		}
		if err := h.repo.ReplaceAssignedGuides(ctx, slot.ID, *req.AssignedGuideIDs); err != nil {
			h.logger.Error("replace assigned guides", zap.Error(err))
			response.Internal(c, "failed to update slot")
			return
		}
	}

	updated, err := h.repo.Update(ctx, slot.ID, req.Date, req.Time, req.Language, req.IsPrivate, req.Adults, req.Childs)
	if err != nil {
		h.logger.Error("update slot", zap.Error(err))
		response.Internal(c, "failed to update slot")
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /slots/:id (admin of the organization).
func (h *Handler) Delete(c *gin.Context) {
	slot, ok := h.loadSlot(c)
	if !ok {
		return
	}
	if !authz.CanDeleteSlot(auth.MustActor(c), slot.OrganizationID) {
		response.Forbidden(c, "not allowed to delete slots in this organization")
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), slot.ID)
	if err != nil {
		h.logger.Error("delete slot", zap.Error(err))
		response.Internal(c, "failed to delete slot")
		return
	}
	if !deleted {
		response.NotFound(c, "slot not found")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// ToggleAvailability handles POST /slots/:id/availability/toggle. The caller
// flips their own membership in the slot's availability set. Two concurrent
// toggles on the same slot resolve last-write-wins.
func (h *Handler) ToggleAvailability(c *gin.Context) {
	slot, ok := h.loadSlot(c)
	if !ok {
		return
	}
	actor := auth.MustActor(c)
	if !authz.CanToggleAvailability(actor, slot.OrganizationID) {
		response.Forbidden(c, "not a member of this organization")
		return
	}
	if !h.guidesBelong(c, slot.OrganizationID, []uuid.UUID{actor.UserID}) {
		return
	}

	next := toggleGuide(slot.AvailableGuides, models.GuideRef{ID: actor.UserID})
	if err := h.repo.ReplaceAvailableGuides(c.Request.Context(), slot.ID, guideIDs(next)); err != nil {
		h.logger.Error("toggle availability", zap.Error(err))
		response.Internal(c, "failed to toggle availability")
		return
	}
	h.respondWithGuides(c, slot.ID)
}

// AssignGuide handles POST /slots/:id/guides/assign (admin or manager).
// Assignment does not require the guide to have declared availability.
func (h *Handler) AssignGuide(c *gin.Context) {
	h.mutateAssignment(c, true)
}

// UnassignGuide handles POST /slots/:id/guides/unassign (admin or manager).
func (h *Handler) UnassignGuide(c *gin.Context) {
	h.mutateAssignment(c, false)
}

func (h *Handler) mutateAssignment(c *gin.Context, assign bool) {
	slot, ok := h.loadSlot(c)
	if !ok {
		return
	}
	var req GuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !authz.CanAssignGuides(auth.MustActor(c), slot.OrganizationID) {
		response.Forbidden(c, "not allowed to assign guides in this organization")
		return
	}
	if assign && !h.guidesBelong(c, slot.OrganizationID, []uuid.UUID{req.GuideID}) {
		return
	}

	var next []models.GuideRef
	if assign {
		next = addGuide(slot.AssignedGuides, models.GuideRef{ID: req.GuideID})
	} else {
		next = removeGuide(slot.AssignedGuides, req.GuideID)
	}
	if err := h.repo.ReplaceAssignedGuides(c.Request.Context(), slot.ID, guideIDs(next)); err != nil {
		h.logger.Error("mutate assignment", zap.Error(err))
		response.Internal(c, "failed to update assignment")
		return
	}
	h.respondWithGuides(c, slot.ID)
}

// loadSlot parses the :id param and loads the slot, writing the error
// response itself on failure.
func (h *Handler) loadSlot(c *gin.Context) (*models.TourSlot, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid slot id")
		return nil, false
	}
	slot, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "slot not found")
		return nil, false
	}
	return slot, true
}

// guidesBelong verifies every id is a member of the organization, answering
// BAD_REQUEST when any is not.
func (h *Handler) guidesBelong(c *gin.Context, orgID uuid.UUID, ids []uuid.UUID) bool {
	if len(ids) == 0 {
		return true
	}
	n, err := h.repo.CountMembers(c.Request.Context(), orgID, ids)
	if err != nil {
		h.logger.Error("check guide membership", zap.Error(err))
		response.Internal(c, "failed to verify guides")
		return false
	}
	if n != len(ids) {
		response.BadRequest(c, "one or more guides do not belong to this organization")
		return false
	}
	return true
}

// respondWithGuides re-reads the slot so guide-set mutations always return the
// refreshed membership.
func (h *Handler) respondWithGuides(c *gin.Context, id uuid.UUID) {
	slot, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("reload slot", zap.Error(err))
		response.Internal(c, "failed to reload slot")
		return
	}
	response.OK(c, slot)
}
