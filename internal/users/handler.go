package users

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
	"github.com/contour-tours/backend/pkg/utils"
)

// Handler handles user management HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest is the body for POST /users.
type CreateRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Name           string `json:"name" binding:"required"`
	Password       string `json:"password" binding:"required,min=6"`
	Role           string `json:"role" binding:"required"`
	OrganizationID string `json:"organization_id" binding:"required,uuid"`
}

// UpdateRequest is the body for PATCH /users/:id.
type UpdateRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"`
}

// UpdatePasswordRequest is the body for PUT /users/:id/password.
type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ListByOrganization handles GET /organizations/:id/users. The result is
// filtered by the actor's role-dependent visibility, not per record.
func (h *Handler) ListByOrganization(c *gin.Context) {
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
	list, err := h.repo.ListByOrganization(c.Request.Context(), orgID, authz.VisibleRoles(actor))
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	if list == nil {
		list = []models.UserPublic{}
	}
	response.OK(c, list)
}

// Create handles POST /users (organization admin or super admin).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "role must be ADMIN, MANAGER or GUIDE")
		return
	}
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}

	actor := auth.MustActor(c)
	if !authz.CanCreateUser(actor, orgID) {
		response.Forbidden(c, "only organization admins can create users")
		return
	}

	if existing, err := h.repo.GetByEmail(c.Request.Context(), req.Email); err == nil && existing != nil {
		response.Conflict(c, "a user with this email already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	user, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.Name, models.Role(req.Role), orgID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "a user with this email already exists")
			return
		}
		if strings.Contains(err.Error(), "foreign key") {
			response.NotFound(c, "organization not found")
			return
		}
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}
	response.Created(c, user.ToPublic())
}

// Update handles PATCH /users/:id (name/email/role).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	var role *models.Role
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			response.BadRequest(c, "role must be ADMIN, MANAGER or GUIDE")
			return
		}
		r := models.Role(*req.Role)
		role = &r
	}

	target, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}

	actor := auth.MustActor(c)
	if !authz.CanUpdateUser(actor, target.ID, target.OrganizationID, role != nil) {
		response.Forbidden(c, "not allowed to update this user")
		return
	}

	if req.Email != nil && *req.Email != target.Email {
		if existing, err := h.repo.GetByEmail(c.Request.Context(), *req.Email); err == nil && existing != nil {
			response.Conflict(c, "a user with this email already exists")
			return
		}
	}

	updated, err := h.repo.Update(c.Request.Context(), id, req.Name, req.Email, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "user not found")
			return
		}
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "a user with this email already exists")
			return
		}
		h.logger.Error("update user", zap.Error(err))
		response.Internal(c, "failed to update user")
		return
	}
	response.OK(c, updated.ToPublic())
}

// UpdatePassword handles PUT /users/:id/password.
func (h *Handler) UpdatePassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	target, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	actor := auth.MustActor(c)
	if !authz.CanUpdateUserPassword(actor, target.ID, target.OrganizationID) {
		response.Forbidden(c, "not allowed to change this user's password")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	if err := h.repo.UpdatePassword(c.Request.Context(), id, hash); err != nil {
		h.logger.Error("update password", zap.Error(err))
		response.Internal(c, "failed to update password")
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// Delete handles DELETE /users/:id. Self-delete is rejected for every role,
// super admin included.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	target, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	actor := auth.MustActor(c)
	if !authz.CanDeleteUser(actor, target.ID, target.OrganizationID) {
		if actor.UserID == target.ID {
			response.Forbidden(c, "you cannot delete your own account")
			return
		}
		response.Forbidden(c, "not allowed to delete this user")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete user", zap.Error(err))
		response.Internal(c, "failed to delete user")
		return
	}
	response.NoContent(c)
}
