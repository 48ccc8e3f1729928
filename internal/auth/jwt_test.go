package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contour-tours/backend/internal/models"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	orgID := uuid.New()
	user := &models.User{
		ID:             uuid.New(),
		Email:          "guide@example.com",
		Role:           models.RoleGuide,
		OrganizationID: &orgID,
	}

	token, err := svc.Generate(user)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleGuide, claims.Role)
	assert.False(t, claims.IsSuperAdmin)
	require.NotNil(t, claims.OrganizationID)
	assert.Equal(t, orgID, *claims.OrganizationID)
	assert.NotEmpty(t, claims.ID, "token needs a JTI for revocation")
}

func TestSuperAdminClaims(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	user := &models.User{ID: uuid.New(), Email: "root@example.com", IsSuperAdmin: true}

	token, err := svc.Generate(user)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.IsSuperAdmin)
	assert.Nil(t, claims.OrganizationID)
	assert.Empty(t, claims.Role)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	svc := NewJWTService("test-secret", 1)

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTService("other-secret", 1)
	token, err := other.Generate(&models.User{ID: uuid.New(), Email: "x@example.com"})
	require.NoError(t, err)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestActorFromClaims(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()
	actor := ActorFromClaims(&Claims{
		UserID:         userID,
		Role:           models.RoleManager,
		OrganizationID: &orgID,
	})
	assert.Equal(t, userID, actor.UserID)
	assert.Equal(t, models.RoleManager, actor.Role)
	assert.True(t, actor.MemberOf(orgID))
	assert.False(t, actor.IsSuperAdmin)
}
