package gym

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

var gymCols = []string{
	"id", "owner_id", "name", "slug", "description", "address", "city", "region",
	"phone", "email", "is_active", "created_at", "updated_at",
}

var employmentCols = []string{
	"id", "profile_id", "gym_id", "role", "is_active", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dbx := sqlx.NewDb(db, "sqlmock")
	return NewRepository(dbx), mock, func() { db.Close() }
}

func TestCreateGym(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()

	mock.ExpectQuery(`INSERT INTO gyms`).
		WillReturnRows(sqlmock.NewRows(gymCols).
			AddRow(2, 1, "Iron Temple", "iron-temple", nil, "12 Oxford St", "Accra", "Greater Accra", nil, nil, true, now, now))

	gym, err := repo.CreateGym(context.Background(), 1, CreateGymRequest{
		Name:    "Iron Temple",
		Slug:    "iron-temple",
		Address: "12 Oxford St",
		City:    "Accra",
		Region:  "Greater Accra",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, gym.ID)
	assert.Equal(t, 1, gym.OwnerID)
	assert.True(t, gym.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllGyms_ActiveOnly(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .* FROM gyms\s+WHERE is_active = TRUE ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows(gymCols).
			AddRow(2, 1, "Iron Temple", "iron-temple", nil, "12 Oxford St", "Accra", "Greater Accra", nil, nil, true, now, now).
			AddRow(3, 1, "Peak Fitness", "peak-fitness", nil, "4 Ring Rd", "Kumasi", "Ashanti", nil, nil, true, now, now))

	gyms, err := repo.GetAllGyms(context.Background(), true)

	assert.NoError(t, err)
	assert.Len(t, gyms, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGymBySlug(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .* FROM gyms\s+WHERE slug = \$1`).
		WithArgs("iron-temple").
		WillReturnRows(sqlmock.NewRows(gymCols).
			AddRow(2, 1, "Iron Temple", "iron-temple", nil, "12 Oxford St", "Accra", "Greater Accra", nil, nil, true, now, now))

	gym, err := repo.GetGymBySlug(context.Background(), "iron-temple")

	assert.NoError(t, err)
	assert.Equal(t, "Iron Temple", gym.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGym_PartialSet(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()
	name := "Iron Temple Annex"

	mock.ExpectQuery(`UPDATE gyms SET name = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("Iron Temple Annex", 2).
		WillReturnRows(sqlmock.NewRows(gymCols).
			AddRow(2, 1, "Iron Temple Annex", "iron-temple", nil, "12 Oxford St", "Accra", "Greater Accra", nil, nil, true, now, now))

	gym, err := repo.UpdateGym(context.Background(), 2, UpdateGymRequest{Name: &name})

	assert.NoError(t, err)
	assert.Equal(t, "Iron Temple Annex", gym.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateGym(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec(`(?s)UPDATE gyms\s+SET is_active = FALSE`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeactivateGym(context.Background(), 2)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployment(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()

	mock.ExpectQuery(`INSERT INTO employments`).
		WithArgs(7, 2, RoleTrainer).
		WillReturnRows(sqlmock.NewRows(employmentCols).
			AddRow(3, 7, 2, "TRAINER", true, now, now))

	e, err := repo.CreateEmployment(context.Background(), 7, 2, RoleTrainer)

	assert.NoError(t, err)
	assert.Equal(t, RoleTrainer, e.Role)
	assert.True(t, e.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmployees_JoinsProfile(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()
	cols := append(append([]string{}, employmentCols...), "username", "first_name", "last_name")

	mock.ExpectQuery(`(?s)SELECT .* FROM employments e\s+JOIN user_profiles up ON up.id = e.profile_id\s+WHERE e.gym_id = \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, 7, 2, "TRAINER", true, now, now, "kwame_t", "Kwame", "Mensah"))

	employees, err := repo.ListEmployees(context.Background(), 2)

	assert.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.Equal(t, "kwame_t", employees[0].Username)
	assert.Equal(t, RoleTrainer, employees[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
