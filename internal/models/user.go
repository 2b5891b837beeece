package models

import "time"

// Role enumerates the three account roles.
type Role string

const (
	RoleLecturer Role = "lecturer"
	RoleHOD      Role = "hod"
	RoleAdmin    Role = "admin"
)

// Department enumerates academic departments. Visiting is a staff-only
// department; courses belong to the other three.
type Department string

const (
	DepartmentIT          Department = "it"
	DepartmentAccountancy Department = "accountancy"
	DepartmentEnglish     Department = "english"
	DepartmentVisiting    Department = "visiting"
)

// Mode is the fulltime/parttime program track. A course may exist in both
// modes as separate rows sharing a course code.
type Mode string

const (
	ModeFulltime Mode = "fulltime"
	ModeParttime Mode = "parttime"
)

// User represents an account stored in the users table. Department is
// null exactly when the role is admin. Accounts start inactive unless the
// role is admin; an admin approval flips is_active.
type User struct {
	ID           string      `db:"id" json:"id"`
	FirstName    string      `db:"first_name" json:"firstName"`
	LastName     string      `db:"last_name" json:"lastName"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Role         Role        `db:"role" json:"role"`
	Department   *Department `db:"department" json:"department"`
	IsActive     bool        `db:"is_active" json:"isActive"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// UserSummary is the joined shape embedded in assignment and lesson-record
// listings.
type UserSummary struct {
	ID         string      `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Email      string      `db:"email" json:"email"`
	Role       Role        `db:"role" json:"role"`
	Department *Department `db:"department" json:"department"`
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Active *bool
	Role   *Role
}
