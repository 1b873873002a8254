package repositories

import (
	"context"
	"time"

	"moda-store/models"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	err := models.DB.QueryRow(
		context.Background(),
		query,
		user.Email,
		user.Password,
		user.Role,
		now,
		now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	return err
}

func (r *UserRepository) CreateProfile(profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, full_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	return models.DB.QueryRow(
		context.Background(),
		query,
		profile.UserID,
		profile.FullName,
		profile.Phone,
		now,
		now,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, password, role, created_at, updated_at FROM users WHERE email = $1`

	user := &models.User{}
	err := models.DB.QueryRow(context.Background(), query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetUserWithProfile(id int) (*models.UserWithProfile, error) {
	query := `
		SELECT
			u.id, u.email, u.role, u.created_at,
			COALESCE(up.full_name, '') as full_name,
			COALESCE(up.phone, '') as phone
		FROM users u
		LEFT JOIN user_profiles up ON u.id = up.user_id
		WHERE u.id = $1
	`

	user := &models.UserWithProfile{}
	err := models.DB.QueryRow(context.Background(), query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
		&user.FullName,
		&user.Phone,
	)

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetProfile(userID int) (*models.UserProfile, error) {
	query := `SELECT id, user_id, full_name, phone, created_at, updated_at FROM user_profiles WHERE user_id = $1`

	profile := &models.UserProfile{}
	err := models.DB.QueryRow(context.Background(), query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Phone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *UserRepository) UpdateProfile(profile *models.UserProfile) error {
	query := `UPDATE user_profiles SET full_name = $1, phone = $2, updated_at = $3 WHERE user_id = $4`
	_, err := models.DB.Exec(context.Background(), query,
		profile.FullName, profile.Phone, time.Now(), profile.UserID)
	return err
}
