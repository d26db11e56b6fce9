package gym

import "time"

type EmployeeRole string

const (
	RoleManager      EmployeeRole = "MANAGER"
	RoleTrainer      EmployeeRole = "TRAINER"
	RoleReceptionist EmployeeRole = "RECEPTIONIST"
	RoleStaff        EmployeeRole = "STAFF"
)

type Gym struct {
	ID          int       `db:"id" json:"id"`
	OwnerID     int       `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	Region      string    `db:"region" json:"region"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Email       *string   `db:"email" json:"email,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Employment struct {
	ID        int          `db:"id" json:"id"`
	ProfileID int          `db:"profile_id" json:"profile_id"`
	GymID     int          `db:"gym_id" json:"gym_id"`
	Role      EmployeeRole `db:"role" json:"role"`
	IsActive  bool         `db:"is_active" json:"is_active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

type EmployeeWithProfile struct {
	Employment
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// Access describes how a profile may manage a gym: either as its owner or
// through an active employment.
type Access struct {
	Gym     *Gym          `json:"gym"`
	IsOwner bool          `json:"is_owner"`
	Role    *EmployeeRole `json:"role,omitempty"`
}

type CreateGymRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Slug        string  `json:"slug" binding:"required,min=2,max=100,slug"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Address     string  `json:"address" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Region      string  `json:"region" binding:"required"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
}

type UpdateGymRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Region      *string `json:"region"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	IsActive    *bool   `json:"is_active"`
}

type AddEmployeeRequest struct {
	Email string       `json:"email" binding:"required,email"`
	Role  EmployeeRole `json:"role" binding:"required,oneof=MANAGER TRAINER RECEPTIONIST STAFF"`
}

type UpdateEmploymentRequest struct {
	Role     *EmployeeRole `json:"role" binding:"omitempty,oneof=MANAGER TRAINER RECEPTIONIST STAFF"`
	IsActive *bool         `json:"is_active"`
}
