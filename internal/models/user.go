package models

// User is a marketplace participant, keyed by email. There is no credential:
// login is an upsert of this profile.
type User struct {
	Email string `gorm:"primaryKey" json:"email" validate:"required,email"`
	Role  string `gorm:"type:varchar(32)" json:"role"`
	Name  string `json:"name"`
}
