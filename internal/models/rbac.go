package models

// Role is a named grant (ROLE_USER, ROLE_ADMIN, ...).
type Role struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:50;not null"`
}

// TableName returns the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
