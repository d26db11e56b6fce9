package gym

import "context"

type Repository interface {
	CreateGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context, activeOnly bool) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetGymBySlug(ctx context.Context, slug string) (*Gym, error)
	GetGymsByOwner(ctx context.Context, ownerID int) ([]Gym, error)
	UpdateGym(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error)
	DeactivateGym(ctx context.Context, id int) error

	GetEmployment(ctx context.Context, profileID, gymID int) (*Employment, error)
	CreateEmployment(ctx context.Context, profileID, gymID int, role EmployeeRole) (*Employment, error)
	ListEmployees(ctx context.Context, gymID int) ([]EmployeeWithProfile, error)
	UpdateEmployment(ctx context.Context, employmentID int, req UpdateEmploymentRequest) (*Employment, error)
}
