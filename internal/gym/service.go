package gym

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FitnessGH/fitness-gh-backend/internal/db"
)

var (
	ErrGymNotFound        = errors.New("gym not found")
	ErrSlugTaken          = errors.New("a gym with this slug already exists")
	ErrAccessDenied       = errors.New("you do not have access to this gym")
	ErrProfileNotFound    = errors.New("no user found with this email")
	ErrAlreadyEmployed    = errors.New("user is already an employee of this gym")
	ErrEmploymentNotFound = errors.New("employment not found")
)

// ProfileDirectory resolves account emails to profile ids. Implemented by the
// account repository.
type ProfileDirectory interface {
	ProfileIDByEmail(ctx context.Context, email string) (int, error)
}

type Service interface {
	CreateGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetGymBySlug(ctx context.Context, slug string) (*Gym, error)
	GetMyGyms(ctx context.Context, ownerID int) ([]Gym, error)
	UpdateGym(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error)
	DeleteGym(ctx context.Context, id int) error

	CheckAccess(ctx context.Context, gymID, profileID int, roles ...EmployeeRole) (*Access, error)
	AddEmployee(ctx context.Context, gymID int, req AddEmployeeRequest) (*Employment, error)
	ListEmployees(ctx context.Context, gymID int) ([]EmployeeWithProfile, error)
	UpdateEmployment(ctx context.Context, gymID, employmentID int, req UpdateEmploymentRequest) (*Employment, error)
}

type service struct {
	repo     Repository
	profiles ProfileDirectory
}

func NewService(repo Repository, profiles ProfileDirectory) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
	}
}

func (s *service) CreateGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Gym, error) {
	gym, err := s.repo.CreateGym(ctx, ownerID, req)
	if err != nil {
		if db.IsUniqueViolation(err, "gyms_slug_key") {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return gym, nil
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx, true)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	gym, err := s.repo.GetGymByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}
	return gym, nil
}

func (s *service) GetGymBySlug(ctx context.Context, slug string) (*Gym, error) {
	gym, err := s.repo.GetGymBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}
	return gym, nil
}

func (s *service) GetMyGyms(ctx context.Context, ownerID int) ([]Gym, error) {
	return s.repo.GetGymsByOwner(ctx, ownerID)
}

func (s *service) UpdateGym(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error) {
	if _, err := s.GetGymByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateGym(ctx, id, req)
}

func (s *service) DeleteGym(ctx context.Context, id int) error {
	if _, err := s.GetGymByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeactivateGym(ctx, id)
}

// CheckAccess verifies that profileID may manage gymID. Owners always pass.
// Employees pass when their employment is active and, if roles are given,
// their role is one of them. Core services rely on this being called before
// they run and do not re-check.
func (s *service) CheckAccess(ctx context.Context, gymID, profileID int, roles ...EmployeeRole) (*Access, error) {
	gym, err := s.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, err
	}

	if gym.OwnerID == profileID {
		return &Access{Gym: gym, IsOwner: true}, nil
	}

	employment, err := s.repo.GetEmployment(ctx, profileID, gymID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	if !employment.IsActive {
		return nil, ErrAccessDenied
	}

	if len(roles) > 0 {
		allowed := false
		for _, role := range roles {
			if employment.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrAccessDenied
		}
	}

	return &Access{Gym: gym, Role: &employment.Role}, nil
}

func (s *service) AddEmployee(ctx context.Context, gymID int, req AddEmployeeRequest) (*Employment, error) {
	if _, err := s.GetGymByID(ctx, gymID); err != nil {
		return nil, err
	}

	profileID, err := s.profiles.ProfileIDByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	employment, err := s.repo.CreateEmployment(ctx, profileID, gymID, req.Role)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_employments_profile_gym") {
			return nil, ErrAlreadyEmployed
		}
		return nil, err
	}
	return employment, nil
}

func (s *service) ListEmployees(ctx context.Context, gymID int) ([]EmployeeWithProfile, error) {
	if _, err := s.GetGymByID(ctx, gymID); err != nil {
		return nil, err
	}
	return s.repo.ListEmployees(ctx, gymID)
}

func (s *service) UpdateEmployment(ctx context.Context, gymID, employmentID int, req UpdateEmploymentRequest) (*Employment, error) {
	employment, err := s.repo.UpdateEmployment(ctx, employmentID, req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmploymentNotFound
		}
		return nil, err
	}
	if employment.GymID != gymID {
		return nil, ErrEmploymentNotFound
	}
	return employment, nil
}
