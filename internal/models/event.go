package models

import "time"

// Default event colors.
const (
	DefaultBackgroundColor = "#4F46E5"
	DefaultTextColor       = "#FFFFFF"
)

// Event is a calendar entry owned by a user.
type Event struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"column:titre;not null"`
	Description     string    `json:"description" gorm:"size:1000"`
	Start           time.Time `json:"start" gorm:"column:date_debut;not null;index"`
	End             time.Time `json:"end" gorm:"column:date_fin;not null;index"`
	BackgroundColor string    `json:"background_color" gorm:"column:couleur_fond"`
	TextColor       string    `json:"text_color" gorm:"column:couleur_texte"`
	Location        string    `json:"location" gorm:"column:lieu"`
	AllDay          bool      `json:"all_day" gorm:"column:est_journee_entiere;not null;default:false"`
	UserID          int64     `json:"user_id" gorm:"index;not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Event model.
func (Event) TableName() string {
	return "evenements"
}
