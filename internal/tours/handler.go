package tours

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/contour-tours/backend/internal/auth"
	"github.com/contour-tours/backend/internal/authz"
	"github.com/contour-tours/backend/internal/models"
	"github.com/contour-tours/backend/pkg/response"
)

// Handler handles tour HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a tours handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest is the body for POST /tours.
type CreateRequest struct {
	Name           string    `json:"name" binding:"required"`
	TourTag        string    `json:"tour_tag" binding:"required"`
	Capacity       int       `json:"capacity" binding:"required,min=1"`
	ListNames      []string  `json:"list_names" binding:"required,min=1"`
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
}

// UpdateRequest is the body for PATCH /tours/:id. Omitted fields stay
// unchanged.
type UpdateRequest struct {
	Name      *string  `json:"name" binding:"omitempty,min=1"`
	TourTag   *string  `json:"tour_tag" binding:"omitempty,min=1"`
	Capacity  *int     `json:"capacity" binding:"omitempty,min=1"`
	ListNames []string `json:"list_names" binding:"omitempty,min=1"`
}

// Create handles POST /tours (admin or manager of the organization).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := auth.MustActor(c)
	if !authz.CanCreateTour(actor, req.OrganizationID) {
		response.Forbidden(c, "not allowed to create tours in this organization")
		return
	}

	tour := &models.Tour{
		Name:           req.Name,
		TourTag:        req.TourTag,
		Capacity:       req.Capacity,
		ListNames:      req.ListNames,
		OrganizationID: req.OrganizationID,
	}
	if err := h.repo.Create(c.Request.Context(), tour); err != nil {
		if strings.Contains(err.Error(), "violates foreign key") {
			response.NotFound(c, "organization not found")
			return
		}
		h.logger.Error("create tour", zap.Error(err))
		response.Internal(c, "failed to create tour")
		return
	}
	response.Created(c, tour)
}

// GetByID handles GET /tours/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour id")
		return
	}
	tour, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "tour not found")
		return
	}
	if !authz.CanViewOrganization(auth.MustActor(c), tour.OrganizationID) {
		response.Forbidden(c, "not a member of this organization")
		return
	}
	response.OK(c, tour)
}

// ListByOrganization handles GET /organizations/:id/tours.
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
	list, err := h.repo.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("list tours", zap.Error(err))
		response.Internal(c, "failed to list tours")
		return
	}
	if list == nil {
		list = []models.Tour{}
	}
	response.OK(c, list)
}

// Update handles PATCH /tours/:id (admin or manager of the organization).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tour, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "tour not found")
		return
	}
	if !authz.CanUpdateTour(auth.MustActor(c), tour.OrganizationID) {
		response.Forbidden(c, "not allowed to update tours in this organization")
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), id, req.Name, req.TourTag, req.Capacity, req.ListNames)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "tour not found")
			return
		}
		h.logger.Error("update tour", zap.Error(err))
		response.Internal(c, "failed to update tour")
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /tours/:id (admin of the organization). Deleting a
// tour removes its slots as well.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour id")
		return
	}
	tour, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "tour not found")
		return
	}
	if !authz.CanDeleteTour(auth.MustActor(c), tour.OrganizationID) {
		response.Forbidden(c, "not allowed to delete tours in this organization")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete tour", zap.Error(err))
		response.Internal(c, "failed to delete tour")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
