package service

import (
	"context"
	"testing"
	"time"

	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewPasswordResetRepository(db),
		repository.NewTransactionManager(db),
	)
}

func registerReq(username string) RegisterRequest {
	return RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		FullName: "Test User",
		Role:     model.AccountTypeCustomer,
	}
}

func TestRegister_And_Login(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)

	tokens, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, user.ID, tokens.User.ID)
}

func TestRegister_Duplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("alice"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	dup := registerReq("alice2")
	dup.Email = "alice@example.com"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Failures(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&model.User{}).Where("username = ?", "alice").Update("is_active", false).Error)
	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestRefresh_RotatesPair(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	tokens, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)

	// Access tokens must not be usable as refresh tokens.
	_, err = svc.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordReset_Flow(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@example.com"))

	var prt model.PasswordResetToken
	require.NoError(t, db.First(&prt, "email = ?", "alice@example.com").Error)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, PasswordResetConfirm{
		Token:       prt.Token,
		NewPassword: "newsecret",
	}))

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "newsecret"})
	assert.NoError(t, err)

	// Single use.
	err = svc.ConfirmPasswordReset(ctx, PasswordResetConfirm{Token: prt.Token, NewPassword: "again"})
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestPasswordReset_UnknownEmailSilent(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, "ghost@example.com"))

	var count int64
	require.NoError(t, db.Model(&model.PasswordResetToken{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPasswordReset_Expired(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@example.com"))

	require.NoError(t, db.Model(&model.PasswordResetToken{}).
		Where("email = ?", "alice@example.com").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	var prt model.PasswordResetToken
	require.NoError(t, db.First(&prt, "email = ?", "alice@example.com").Error)

	err = svc.ConfirmPasswordReset(ctx, PasswordResetConfirm{Token: prt.Token, NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
