package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestLogin(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	rdb, _ := testhelpers.SetupRedis(t)
	auth := NewAuthService(db, rdb, "test-secret", time.Hour, zap.NewNop())
	user := testhelpers.CreateUser(t, db)
	ctx := context.Background()

	token, err := auth.Login(ctx, strings.ToUpper(user.Email), testhelpers.TestPassword)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	auth := NewAuthService(db, nil, "test-secret", time.Hour, zap.NewNop())
	user := testhelpers.CreateUser(t, db)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", user.Email, "not-the-password"},
		{"unknown email", "nobody@example.com", testhelpers.TestPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(context.Background(), tt.email, tt.password)
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{invalidCredentialsMessage}, verr.Fields[types.NonFieldErrors])
		})
	}
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateUser(t, db)

	other := NewAuthService(db, nil, "other-secret", time.Hour, zap.NewNop())
	token, err := other.GenerateToken(user)
	require.NoError(t, err)

	auth := NewAuthService(db, nil, "test-secret", time.Hour, zap.NewNop())
	_, err = auth.ValidateToken(context.Background(), token)
	assert.Error(t, err)

	_, err = auth.ValidateToken(context.Background(), "garbage")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateUser(t, db)

	auth := NewAuthService(db, nil, "test-secret", -time.Minute, zap.NewNop())
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	_, err = auth.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	rdb, mr := testhelpers.SetupRedis(t)
	auth := NewAuthService(db, rdb, "test-secret", time.Hour, zap.NewNop())
	user := testhelpers.CreateUser(t, db)
	ctx := context.Background()

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))

	key := revokedTokenPrefix + claims.ID
	assert.True(t, mr.Exists(key))
	ttl := mr.TTL(key)
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	_, err = auth.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, types.ErrTokenRevoked)

	// Other tokens of the same user stay valid.
	second, err := auth.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, second)
	assert.NoError(t, err)

	// Once the revocation entry expires the token would be expired too.
	mr.FastForward(time.Hour)
	assert.False(t, mr.Exists(key))
}

func TestLogoutWithoutRedis(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	auth := NewAuthService(db, nil, "test-secret", time.Hour, zap.NewNop())
	user := testhelpers.CreateUser(t, db)
	ctx := context.Background()

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))
	_, err = auth.ValidateToken(ctx, token)
	assert.NoError(t, err)
}
