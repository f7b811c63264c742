package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleCommandant UserRole = "commandant"
)

// User is a staff member operating the dormitory.
type User struct {
	Base
	Email        string   `db:"email"`
	FirstName    string   `db:"first_name"`
	LastName     string   `db:"last_name"`
	Phone        *string  `db:"phone"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}

// Commandant links a commandant user to the building they run.
type Commandant struct {
	UserID     uuid.UUID  `db:"user_id"`
	BuildingID *uuid.UUID `db:"building_id"`
}

// Actor is the staff identity on whose behalf an operation runs.
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}
