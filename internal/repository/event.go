package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zohair-aabidi/ajenda/internal/models"
	"gorm.io/gorm"
)

// EventRepository defines the interface for event data operations.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id int64) (*models.Event, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]models.Event, error)
	FindByOwner(ctx context.Context, userID int64) ([]models.Event, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.Event, error)
	FindByOwnerInRange(ctx context.Context, userID int64, from, to time.Time) ([]models.Event, error)
	Search(ctx context.Context, keyword string) ([]models.Event, error)
	SearchByOwner(ctx context.Context, userID int64, keyword string) ([]models.Event, error)
}

// An event overlaps [from, to] when it starts or ends inside the range, or spans it.
const overlapCondition = "((date_debut BETWEEN ? AND ?) OR (date_fin BETWEEN ? AND ?) OR (date_debut <= ? AND date_fin >= ?))"

const keywordCondition = `(LOWER(titre) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository instance.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find event by id %d: %w", id, notFound(err))
	}
	return &event, nil
}

func (r *eventRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check event id %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event id %d: %w", event.ID, err)
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event id %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete event id %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *eventRepository) FindAll(ctx context.Context) ([]models.Event, error) {
	return r.find(ctx, "failed to list events")
}

func (r *eventRepository) FindByOwner(ctx context.Context, userID int64) ([]models.Event, error) {
	return r.find(ctx, fmt.Sprintf("failed to list events of user %d", userID),
		func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) })
}

func (r *eventRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	return r.find(ctx, "failed to list events in range", inRange(from, to))
}

func (r *eventRepository) FindByOwnerInRange(ctx context.Context, userID int64, from, to time.Time) ([]models.Event, error) {
	return r.find(ctx, fmt.Sprintf("failed to list events of user %d in range", userID),
		func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) },
		inRange(from, to))
}

func (r *eventRepository) Search(ctx context.Context, keyword string) ([]models.Event, error) {
	return r.find(ctx, "failed to search events", matching(keyword))
}

func (r *eventRepository) SearchByOwner(ctx context.Context, userID int64, keyword string) ([]models.Event, error) {
	return r.find(ctx, fmt.Sprintf("failed to search events of user %d", userID),
		func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) },
		matching(keyword))
}

func (r *eventRepository) find(ctx context.Context, msg string, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := r.db.WithContext(ctx).
		Scopes(scopes...).
		Order("date_debut ASC").
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	return events, nil
}

func inRange(from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(overlapCondition, from, to, from, to, from, to)
	}
}

func matching(keyword string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(keywordCondition, pattern, pattern)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
