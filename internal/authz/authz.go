// Package authz is the pure authorization predicate layer. Every role rule is
// defined here once, as a side-effect-free function over the Actor resolved
// from the session token, so each rule can be unit-tested without touching
// persistence. Handlers translate a false result into a 403.
package authz

import (
	"github.com/google/uuid"

	"github.com/contour-tours/backend/internal/models"
)

// Actor is the authenticated identity every check runs against. It carries the
// four session-gate values (user id, super-admin flag, organization id, role)
// so no predicate needs an extra lookup. OrganizationID is nil only for the
// super administrator.
type Actor struct {
	UserID         uuid.UUID
	IsSuperAdmin   bool
	OrganizationID *uuid.UUID
	Role           models.Role
}

// MemberOf reports whether the actor belongs to the given organization.
// The super administrator is not a member of any organization.
func (a Actor) MemberOf(orgID uuid.UUID) bool {
	return a.OrganizationID != nil && *a.OrganizationID == orgID
}

func (a Actor) staffOf(orgID uuid.UUID) bool {
	return a.MemberOf(orgID) && (a.Role == models.RoleAdmin || a.Role == models.RoleManager)
}

func (a Actor) adminOf(orgID uuid.UUID) bool {
	return a.MemberOf(orgID) && a.Role == models.RoleAdmin
}

// CanViewOrganization: super admin or any member of the organization.
func CanViewOrganization(a Actor, orgID uuid.UUID) bool {
	return a.IsSuperAdmin || a.MemberOf(orgID)
}

// CanManageOrganizations: organization create/update/delete and the global
// listing are super-admin only.
func CanManageOrganizations(a Actor) bool {
	return a.IsSuperAdmin
}

// CanCreateTour: ADMIN or MANAGER of the organization, or super admin.
func CanCreateTour(a Actor, orgID uuid.UUID) bool {
	return a.IsSuperAdmin || a.staffOf(orgID)
}

// CanUpdateTour follows the same rule as creation.
func CanUpdateTour(a Actor, orgID uuid.UUID) bool {
	return CanCreateTour(a, orgID)
}

// CanDeleteTour: ADMIN of the organization, or super admin.
func CanDeleteTour(a Actor, orgID uuid.UUID) bool {
	return a.IsSuperAdmin || a.adminOf(orgID)
}

// CanCreateSlot: ADMIN or MANAGER of the slot's organization, or super admin.
func CanCreateSlot(a Actor, orgID uuid.UUID) bool {
	return a.IsSuperAdmin || a.staffOf(orgID)
}

// CanUpdateSlot decides a slot update. availabilityOnly must be true when the
// request touches nothing beyond availableGuideIds; that narrow update is the
// guide self-service path and is open to any GUIDE of the organization. A
// GUIDE request carrying any other field (assignedGuideIds included) is
// rejected even if availableGuideIds is also present.
func CanUpdateSlot(a Actor, orgID uuid.UUID, availabilityOnly bool) bool {
	if a.IsSuperAdmin {
		return true
	}
	if !a.MemberOf(orgID) {
		return false
	}
	if a.Role == models.RoleGuide {
		return availabilityOnly
	}
	return a.Role == models.RoleAdmin || a.Role == models.RoleManager
}

// CanDeleteSlot: ADMIN only, or super admin.
func CanDeleteSlot(a Actor, orgID uuid.UUID) bool {
	return a.IsSuperAdmin || a.adminOf(orgID)
}

// CanAssignGuides: staff-driven assignment mutations (assign/unassign).
func CanAssignGuides(a Actor, orgID uuid.UUID) bool {
	return a.IsSuperAdmin || a.staffOf(orgID)
}

// CanToggleAvailability: any member of the slot's organization may declare or
// withdraw their own availability. The toggle mutates the caller's own
// membership in the set, so the super admin, who belongs to no organization,
// gets no bypass here.
func CanToggleAvailability(a Actor, orgID uuid.UUID) bool {
	return a.MemberOf(orgID)
}

// CanCreateUser: ADMIN of the organization, or super admin.
func CanCreateUser(a Actor, orgID uuid.UUID) bool {
	return a.IsSuperAdmin || a.adminOf(orgID)
}

// CanUpdateUser decides a name/email/role update of target. Admins of the
// target's organization and the super admin may edit anyone; other actors may
// edit only their own profile, and never their own role (changesRole).
func CanUpdateUser(a Actor, targetID uuid.UUID, targetOrgID *uuid.UUID, changesRole bool) bool {
	if a.IsSuperAdmin {
		return true
	}
	if targetOrgID != nil && a.adminOf(*targetOrgID) {
		return true
	}
	if a.UserID == targetID {
		return !changesRole
	}
	return false
}

// CanUpdateUserPassword: ADMIN of the target's organization, super admin, or
// the target themself.
func CanUpdateUserPassword(a Actor, targetID uuid.UUID, targetOrgID *uuid.UUID) bool {
	if a.IsSuperAdmin || a.UserID == targetID {
		return true
	}
	return targetOrgID != nil && a.adminOf(*targetOrgID)
}

// CanDeleteUser: ADMIN of the target's organization or super admin.
// Self-delete is forbidden for everyone, super admin included.
func CanDeleteUser(a Actor, targetID uuid.UUID, targetOrgID *uuid.UUID) bool {
	if a.UserID == targetID {
		return false
	}
	if a.IsSuperAdmin {
		return true
	}
	return targetOrgID != nil && a.adminOf(*targetOrgID)
}

// VisibleRoles returns the query-time role filter for user listings: ADMIN
// (and the super admin) see every member, MANAGER sees managers and guides,
// GUIDE sees only guides. nil means no filter.
func VisibleRoles(a Actor) []models.Role {
	if a.IsSuperAdmin {
		return nil
	}
	switch a.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleManager:
		return []models.Role{models.RoleManager, models.RoleGuide}
	default:
		return []models.Role{models.RoleGuide}
	}
}
