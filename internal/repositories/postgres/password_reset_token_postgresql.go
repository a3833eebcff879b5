package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
)

type PasswordResetTokenPostgreSQL struct {
	db *gorm.DB
}

func NewPasswordResetTokenPostgreSQL(db *gorm.DB) repositories.PasswordResetTokenRepository {
	return &PasswordResetTokenPostgreSQL{db: db}
}

func (p *PasswordResetTokenPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *PasswordResetTokenPostgreSQL) Create(ctx context.Context, tx *gorm.DB, token *models.PasswordResetToken) error {
	if err := p.getDB(tx).WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// Consume flips is_used with a conditional UPDATE and a rows-affected check,
// so two concurrent resets with the same token cannot both succeed.
func (p *PasswordResetTokenPostgreSQL) Consume(ctx context.Context, tx *gorm.DB, token string) (*models.PasswordResetToken, error) {
	db := p.getDB(tx).WithContext(ctx)

	result := db.Model(&models.PasswordResetToken{}).
		Where("token = ? AND is_used = ?", token, false).
		Update("is_used", true)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to consume reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("reset token missing or already used: %w", gorm.ErrRecordNotFound)
	}

	var consumed models.PasswordResetToken
	if err := db.First(&consumed, "token = ?", token).Error; err != nil {
		return nil, fmt.Errorf("failed to load consumed token: %w", err)
	}
	return &consumed, nil
}
