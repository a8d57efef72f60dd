package repository

import (
	"context"
	"time"

	"github.com/ichi1107/bento-order-system/internal/model"

	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, token *model.PasswordResetToken) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return GetDB(ctx, r.db).Create(token).Error
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	var prt model.PasswordResetToken
	if err := r.db.WithContext(ctx).First(&prt, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &prt, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, token *model.PasswordResetToken) error {
	now := time.Now()
	token.UsedAt = &now
	return GetDB(ctx, r.db).Save(token).Error
}
