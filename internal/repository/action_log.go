package repository

import (
	"context"
	"fmt"

	"github.com/zohair-aabidi/ajenda/internal/models"
	"gorm.io/gorm"
)

const maxAuditFieldLength = 255

// ActionLogRepository defines the interface for audit record operations.
type ActionLogRepository interface {
	LogAction(ctx context.Context, entry *models.ActionLog) error
	FindByAction(ctx context.Context, action string, limit int) ([]models.ActionLog, error)
}

type actionLogRepository struct {
	db *gorm.DB
}

// NewActionLogRepository creates a new ActionLogRepository instance.
func NewActionLogRepository(db *gorm.DB) ActionLogRepository {
	return &actionLogRepository{db: db}
}

// LogAction stores entry. Caller-supplied text is truncated to the column size.
func (r *actionLogRepository) LogAction(ctx context.Context, entry *models.ActionLog) error {
	entry.Username = truncate(entry.Username, maxAuditFieldLength)
	entry.UserAgent = truncate(entry.UserAgent, maxAuditFieldLength)

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to log action %s: %w", entry.Action, err)
	}
	return nil
}

// FindByAction returns the most recent records of action, newest first.
func (r *actionLogRepository) FindByAction(ctx context.Context, action string, limit int) ([]models.ActionLog, error) {
	entries := []models.ActionLog{}
	err := r.db.WithContext(ctx).
		Where("action = ?", action).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find actions %s: %w", action, err)
	}
	return entries, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
