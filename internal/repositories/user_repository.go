package repositories

import (
	"database/sql"
	"errors"

	intconfig "eventwave/internal/config"
	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByEmail returns the user and their password hash for credential checks.
func (r UserRepository) GetByEmail(email string) (models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := r.db().QueryRow(`
		SELECT id, COALESCE(first_name,''), COALESCE(last_name,''),
		       email, COALESCE(phone,''), COALESCE(password_hash,''),
		       COALESCE(role,'user'), COALESCE(status,'active')
		FROM users
		WHERE email = ? LIMIT 1
	`, email).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&hash,
		&u.Role,
		&u.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, "", err
	}
	return u, hash, nil
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	if id <= 0 {
		return models.User{}, domain.ValidationError{Field: "id", Msg: "user id required"}
	}
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, COALESCE(first_name,''), COALESCE(last_name,''),
		       email, COALESCE(phone,''),
		       COALESCE(role,'user'), COALESCE(status,'active')
		FROM users
		WHERE id = ? LIMIT 1
	`, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, err
	}
	return u, nil
}

func (r UserRepository) EmailExists(email string) (bool, error) {
	var count int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r UserRepository) Create(u models.User, passwordHash string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (first_name, last_name, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'user', 'active', NOW(), NOW())
	`, u.FirstName, u.LastName, u.Email, u.Phone, passwordHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
