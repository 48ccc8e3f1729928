package organizations

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/contour-tours/backend/internal/auth"
	"github.com/contour-tours/backend/internal/authz"
	"github.com/contour-tours/backend/internal/models"
	"github.com/contour-tours/backend/pkg/response"
	"github.com/contour-tours/backend/pkg/storage"
	"github.com/contour-tours/backend/pkg/utils"
)

// Handler handles organization HTTP endpoints. All mutations are super-admin
// only; that is enforced by route middleware, and re-checked here through the
// predicate layer.
type Handler struct {
	repo      *Repository
	s3        *storage.S3
	secretKey string
	logger    *zap.Logger
}

// NewHandler creates an organizations handler. s3 may be nil when logo
// storage is not configured.
func NewHandler(repo *Repository, s3 *storage.S3, emailSecretKey string, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, s3: s3, secretKey: emailSecretKey, logger: logger}
}

// CreateRequest is the body for POST /organizations.
type CreateRequest struct {
	Name          string `json:"name" binding:"required"`
	Logo          string `json:"logo"`
	EmailUser     string `json:"email_user" binding:"omitempty,email"`
	EmailPassword string `json:"email_password"`
	EmailHost     string `json:"email_host"`
	EmailPort     int    `json:"email_port" binding:"omitempty,min=1"`
	EmailEnabled  bool   `json:"email_enabled"`
}

// UpdateRequest is the body for PATCH /organizations/:id. Omitted fields stay
// unchanged; an explicit empty email_password clears the stored credential.
type UpdateRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1"`
	Logo          *string `json:"logo"`
	EmailUser     *string `json:"email_user" binding:"omitempty,email"`
	EmailPassword *string `json:"email_password"`
	EmailHost     *string `json:"email_host"`
	EmailPort     *int    `json:"email_port" binding:"omitempty,min=1"`
	EmailEnabled  *bool   `json:"email_enabled"`
}

// orgView is the getById payload: the stored record plus, for the super
// admin only, the decrypted mailbox credential and a presigned logo URL.
type orgView struct {
	models.Organization
	EmailPasswordDecrypted string `json:"email_password_decrypted,omitempty"`
	LogoURL                string `json:"logo_url,omitempty"`
}

// List handles GET /organizations (super admin only).
func (h *Handler) List(c *gin.Context) {
	actor := auth.MustActor(c)
	if !authz.CanManageOrganizations(actor) {
		response.Forbidden(c, "super administrator only")
		return
	}
	list, err := h.repo.ListWithCounts(c.Request.Context())
	if err != nil {
		h.logger.Error("list organizations", zap.Error(err))
		response.Internal(c, "failed to list organizations")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /organizations/:id (super admin or member).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	actor := auth.MustActor(c)

	org, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	if !authz.CanViewOrganization(actor, org.ID) {
		response.Forbidden(c, "not a member of this organization")
		return
	}

	view := orgView{Organization: *org}
	if actor.IsSuperAdmin && org.EmailPassword != "" {
		view.EmailPasswordDecrypted = utils.DecryptCredential(org.EmailPassword, h.secretKey)
	}
	if h.s3 != nil && org.Logo != "" {
		if url, err := h.s3.PresignedLogoURL(c.Request.Context(), org.Logo); err == nil {
			view.LogoURL = url
		}
	}
	response.OK(c, view)
}

// Create handles POST /organizations (super admin only).
func (h *Handler) Create(c *gin.Context) {
	if !authz.CanManageOrganizations(auth.MustActor(c)) {
		response.Forbidden(c, "super administrator only")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	encrypted := ""
	if req.EmailPassword != "" {
		enc, err := utils.EncryptCredential(req.EmailPassword, h.secretKey)
		if err != nil {
			h.logger.Error("encrypt credential", zap.Error(err))
			response.Internal(c, "failed to encrypt email password")
			return
		}
		encrypted = enc
	}

	org := &models.Organization{
		Name:          strings.TrimSpace(req.Name),
		Logo:          req.Logo,
		EmailUser:     req.EmailUser,
		EmailPassword: encrypted,
		EmailHost:     req.EmailHost,
		EmailPort:     req.EmailPort,
		EmailEnabled:  req.EmailEnabled,
	}
	if org.Name == "" {
		response.BadRequest(c, "name is required")
		return
	}
	if org.EmailHost == "" {
		org.EmailHost = models.DefaultEmailHost
	}
	if org.EmailPort == 0 {
		org.EmailPort = models.DefaultEmailPort
	}

	if err := h.repo.Create(c.Request.Context(), org); err != nil {
		h.logger.Error("create organization", zap.Error(err))
		response.Internal(c, "failed to create organization")
		return
	}
	response.Created(c, org)
}

// Update handles PATCH /organizations/:id (super admin only).
func (h *Handler) Update(c *gin.Context) {
	if !authz.CanManageOrganizations(auth.MustActor(c)) {
		response.Forbidden(c, "super administrator only")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	params := UpdateParams{
		Name:         req.Name,
		Logo:         req.Logo,
		EmailUser:    req.EmailUser,
		EmailHost:    req.EmailHost,
		EmailPort:    req.EmailPort,
		EmailEnabled: req.EmailEnabled,
	}
	if req.EmailPassword != nil {
		if *req.EmailPassword == "" {
			empty := ""
			params.EmailPassword = &empty // explicit empty clears the credential
		} else {
			enc, err := utils.EncryptCredential(*req.EmailPassword, h.secretKey)
			if err != nil {
				h.logger.Error("encrypt credential", zap.Error(err))
				response.Internal(c, "failed to encrypt email password")
				return
			}
			params.EmailPassword = &enc
		}
	}

	org, err := h.repo.Update(c.Request.Context(), id, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "organization not found")
			return
		}
		h.logger.Error("update organization", zap.Error(err))
		response.Internal(c, "failed to update organization")
		return
	}
	response.OK(c, org)
}

// Delete handles DELETE /organizations/:id (super admin only). Users, tours
// and slots of the organization cascade.
func (h *Handler) Delete(c *gin.Context) {
	if !authz.CanManageOrganizations(auth.MustActor(c)) {
		response.Forbidden(c, "super administrator only")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete organization", zap.Error(err))
		response.Internal(c, "failed to delete organization")
		return
	}
	if !deleted {
		response.NotFound(c, "organization not found")
		return
	}
	response.NoContent(c)
}

// UploadLogo handles POST /organizations/:id/logo (super admin only,
// multipart field "logo"). The object key is stored on the organization.
func (h *Handler) UploadLogo(c *gin.Context) {
	if !authz.CanManageOrganizations(auth.MustActor(c)) {
		response.Forbidden(c, "super administrator only")
		return
	}
	if h.s3 == nil {
		response.BadRequest(c, "logo storage is not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "organization not found")
		return
	}

	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		response.BadRequest(c, "missing logo file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !storage.ValidLogoType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported logo file type")
		return
	}
	if header.Size > storage.MaxLogoFileSize {
		response.BadRequest(c, "logo file too large")
		return
	}

	key := storage.LogoKey(id.String(), header.Filename)
	if err := h.s3.UploadLogo(c.Request.Context(), key, contentType, file, header.Size); err != nil {
		h.logger.Error("upload logo", zap.Error(err))
		response.Internal(c, "failed to upload logo")
		return
	}
	if err := h.repo.SetLogo(c.Request.Context(), id, key); err != nil {
		h.logger.Error("store logo key", zap.Error(err))
		response.Internal(c, "failed to store logo")
		return
	}
	response.OK(c, gin.H{"logo": key})
}

// Dashboard handles GET /dashboard for organization members. The route guard
// keeps the super administrator out of this surface.
func (h *Handler) Dashboard(c *gin.Context) {
	actor := auth.MustActor(c)
	orgID := *actor.OrganizationID

	org, err := h.repo.GetByID(c.Request.Context(), orgID)
	if err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	today := time.Now().Format("2006-01-02")
	users, tours, slotsToday, err := h.repo.DashboardCounts(c.Request.Context(), orgID, today)
	if err != nil {
		h.logger.Error("dashboard counts", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	response.OK(c, gin.H{
		"organization": gin.H{"id": org.ID, "name": org.Name, "logo": org.Logo},
		"user_count":   users,
		"tour_count":   tours,
		"slots_today":  slotsToday,
		"date":         today,
	})
}
