package gym

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const gymColumns = `id, owner_id, name, slug, description, address, city, region, phone, email, is_active, created_at, updated_at`

const employmentColumns = `id, profile_id, gym_id, role, is_active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, ownerID int, req CreateGymRequest) (*Gym, error) {
	gym := &Gym{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO gyms (owner_id, name, slug, description, address, city, region, phone, email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING `+gymColumns,
		ownerID, req.Name, req.Slug, req.Description, req.Address, req.City, req.Region, req.Phone, req.Email,
	).StructScan(gym)
	if err != nil {
		return nil, err
	}
	return gym, nil
}

func (r *repository) GetAllGyms(ctx context.Context, activeOnly bool) ([]Gym, error) {
	query := `
		SELECT ` + gymColumns + `
		FROM gyms
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	gyms := []Gym{}
	if err := r.db.SelectContext(ctx, &gyms, query); err != nil {
		return nil, err
	}
	return gyms, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	gym := &Gym{}
	err := r.db.GetContext(ctx, gym, `
		SELECT `+gymColumns+`
		FROM gyms
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return gym, nil
}

func (r *repository) GetGymBySlug(ctx context.Context, slug string) (*Gym, error) {
	gym := &Gym{}
	err := r.db.GetContext(ctx, gym, `
		SELECT `+gymColumns+`
		FROM gyms
		WHERE slug = $1
	`, slug)
	if err != nil {
		return nil, err
	}
	return gym, nil
}

func (r *repository) GetGymsByOwner(ctx context.Context, ownerID int) ([]Gym, error) {
	gyms := []Gym{}
	err := r.db.SelectContext(ctx, &gyms, `
		SELECT `+gymColumns+`
		FROM gyms
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return gyms, nil
}

func (r *repository) UpdateGym(ctx context.Context, id int, req UpdateGymRequest) (*Gym, error) {
	set := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.City != nil {
		add("city", *req.City)
	}
	if req.Region != nil {
		add("region", *req.Region)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	set = append(set, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE gyms SET %s WHERE id = $%d RETURNING `+gymColumns,
		strings.Join(set, ", "), idx)
	args = append(args, id)

	gym := &Gym{}
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(gym); err != nil {
		return nil, err
	}
	return gym, nil
}

func (r *repository) DeactivateGym(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE gyms
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

func (r *repository) GetEmployment(ctx context.Context, profileID, gymID int) (*Employment, error) {
	e := &Employment{}
	err := r.db.GetContext(ctx, e, `
		SELECT `+employmentColumns+`
		FROM employments
		WHERE profile_id = $1 AND gym_id = $2
	`, profileID, gymID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) CreateEmployment(ctx context.Context, profileID, gymID int, role EmployeeRole) (*Employment, error) {
	e := &Employment{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO employments (profile_id, gym_id, role, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING `+employmentColumns,
		profileID, gymID, role,
	).StructScan(e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) ListEmployees(ctx context.Context, gymID int) ([]EmployeeWithProfile, error) {
	employees := []EmployeeWithProfile{}
	err := r.db.SelectContext(ctx, &employees, `
		SELECT e.id, e.profile_id, e.gym_id, e.role, e.is_active, e.created_at, e.updated_at,
		       up.username, up.first_name, up.last_name
		FROM employments e
		JOIN user_profiles up ON up.id = e.profile_id
		WHERE e.gym_id = $1
		ORDER BY e.created_at ASC
	`, gymID)
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *repository) UpdateEmployment(ctx context.Context, employmentID int, req UpdateEmploymentRequest) (*Employment, error) {
	set := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Role != nil {
		add("role", *req.Role)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	set = append(set, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE employments SET %s WHERE id = $%d RETURNING `+employmentColumns,
		strings.Join(set, ", "), idx)
	args = append(args, employmentID)

	e := &Employment{}
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(e); err != nil {
		return nil, err
	}
	return e, nil
}
