package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-backend/internal/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret"))
}

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	m := NewJWTManager("secret", "store-backend", 1)
	user := &models.User{ID: 4, UserName: "ravi", EmployeeID: "E104", Role: "admin"}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(4), claims.UserID)
	assert.Equal(t, "ravi", claims.UserName)
	assert.Equal(t, "E104", claims.EmployeeID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "store-backend", claims.Issuer)
}

func TestJWTManager_RejectsWrongSecretAndIssuer(t *testing.T) {
	user := &models.User{ID: 1, UserName: "a"}
	token, err := NewJWTManager("secret", "store-backend", 1).GenerateToken(user)
	require.NoError(t, err)

	_, err = NewJWTManager("other", "store-backend", 1).ValidateToken(token)
	assert.Error(t, err)

	_, err = NewJWTManager("secret", "someone-else", 1).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Expiry(t *testing.T) {
	m := NewJWTManager("secret", "store-backend", 1)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken(&models.User{ID: 1})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}
