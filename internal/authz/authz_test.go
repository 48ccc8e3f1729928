package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/contour-tours/backend/internal/models"
)

var (
	orgX = uuid.New()
	orgY = uuid.New()
)

func actor(role models.Role, org uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), OrganizationID: &org, Role: role}
}

func superAdmin() Actor {
	return Actor{UserID: uuid.New(), IsSuperAdmin: true}
}

func TestTourPredicates(t *testing.T) {
	tests := []struct {
		name      string
		actor     Actor
		org       uuid.UUID
		create    bool
		deleteOK  bool
	}{
		{"admin own org", actor(models.RoleAdmin, orgX), orgX, true, true},
		{"manager own org", actor(models.RoleManager, orgX), orgX, true, false},
		{"guide own org", actor(models.RoleGuide, orgX), orgX, false, false},
		{"admin other org", actor(models.RoleAdmin, orgY), orgX, false, false},
		{"super admin", superAdmin(), orgX, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.create, CanCreateTour(tt.actor, tt.org))
			assert.Equal(t, tt.create, CanUpdateTour(tt.actor, tt.org))
			assert.Equal(t, tt.deleteOK, CanDeleteTour(tt.actor, tt.org))
		})
	}
}

func TestSlotUpdatePredicate(t *testing.T) {
	guide := actor(models.RoleGuide, orgX)

	// Guide may issue an availability-only update on any slot of their org.
	assert.True(t, CanUpdateSlot(guide, orgX, true))
	// The same request carrying any other field is forbidden.
	assert.False(t, CanUpdateSlot(guide, orgX, false))
	// Cross-org is forbidden either way.
	assert.False(t, CanUpdateSlot(guide, orgY, true))

	assert.True(t, CanUpdateSlot(actor(models.RoleAdmin, orgX), orgX, false))
	assert.True(t, CanUpdateSlot(actor(models.RoleManager, orgX), orgX, false))
	assert.False(t, CanUpdateSlot(actor(models.RoleManager, orgY), orgX, false))
	assert.True(t, CanUpdateSlot(superAdmin(), orgX, false))
}

func TestSlotCreateDeletePredicates(t *testing.T) {
	assert.True(t, CanCreateSlot(actor(models.RoleManager, orgX), orgX))
	assert.False(t, CanCreateSlot(actor(models.RoleGuide, orgX), orgX))
	assert.False(t, CanDeleteSlot(actor(models.RoleManager, orgX), orgX))
	assert.True(t, CanDeleteSlot(actor(models.RoleAdmin, orgX), orgX))
	assert.True(t, CanDeleteSlot(superAdmin(), orgX))
}

func TestGuideSetMutationPredicates(t *testing.T) {
	assert.True(t, CanAssignGuides(actor(models.RoleManager, orgX), orgX))
	assert.False(t, CanAssignGuides(actor(models.RoleGuide, orgX), orgX))
	assert.True(t, CanToggleAvailability(actor(models.RoleGuide, orgX), orgX))
	assert.False(t, CanToggleAvailability(actor(models.RoleGuide, orgY), orgX))
	// The super admin has no organization and cannot put themselves into an
	// availability set.
	assert.False(t, CanToggleAvailability(superAdmin(), orgX))
}

func TestUserUpdatePredicate(t *testing.T) {
	admin := actor(models.RoleAdmin, orgX)
	guide := actor(models.RoleGuide, orgX)
	other := uuid.New()

	assert.True(t, CanUpdateUser(admin, other, &orgX, true))
	assert.False(t, CanUpdateUser(admin, other, &orgY, false))
	// Non-admins may edit their own profile, but not their own role.
	assert.True(t, CanUpdateUser(guide, guide.UserID, &orgX, false))
	assert.False(t, CanUpdateUser(guide, guide.UserID, &orgX, true))
	assert.False(t, CanUpdateUser(guide, other, &orgX, false))
	assert.True(t, CanUpdateUser(superAdmin(), other, nil, true))
}

func TestSelfDeleteAlwaysForbidden(t *testing.T) {
	admin := actor(models.RoleAdmin, orgX)
	assert.False(t, CanDeleteUser(admin, admin.UserID, &orgX))

	sa := superAdmin()
	assert.False(t, CanDeleteUser(sa, sa.UserID, nil))

	assert.True(t, CanDeleteUser(admin, uuid.New(), &orgX))
	assert.True(t, CanDeleteUser(sa, uuid.New(), &orgX))
	assert.False(t, CanDeleteUser(actor(models.RoleManager, orgX), uuid.New(), &orgX))
}

func TestVisibleRoles(t *testing.T) {
	assert.Nil(t, VisibleRoles(superAdmin()))
	assert.Nil(t, VisibleRoles(actor(models.RoleAdmin, orgX)))
	assert.Equal(t, []models.Role{models.RoleManager, models.RoleGuide}, VisibleRoles(actor(models.RoleManager, orgX)))
	assert.Equal(t, []models.Role{models.RoleGuide}, VisibleRoles(actor(models.RoleGuide, orgX)))
}

func TestOrganizationPredicates(t *testing.T) {
	member := actor(models.RoleGuide, orgX)
	assert.True(t, CanViewOrganization(member, orgX))
	assert.False(t, CanViewOrganization(member, orgY))
	assert.True(t, CanViewOrganization(superAdmin(), orgX))

	assert.True(t, CanManageOrganizations(superAdmin()))
	assert.False(t, CanManageOrganizations(actor(models.RoleAdmin, orgX)))
}

func TestUserCreatePredicate(t *testing.T) {
	assert.True(t, CanCreateUser(actor(models.RoleAdmin, orgX), orgX))
	assert.False(t, CanCreateUser(actor(models.RoleManager, orgX), orgX))
	assert.False(t, CanCreateUser(actor(models.RoleAdmin, orgY), orgX))
	assert.True(t, CanCreateUser(superAdmin(), orgX))
}
