package repositories

import (
	"database/sql"
	"errors"

	intconfig "eventwave/internal/config"
	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	intdb "eventwave/internal/db"
)

type CategoryRepository struct {
	DB *sql.DB
}

func (r CategoryRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r CategoryRepository) List() ([]models.Category, error) {
	rows, err := r.db().Query(`
		SELECT id, COALESCE(name,''), COALESCE(description,'')
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r CategoryRepository) GetByID(id int64) (models.Category, error) {
	if id <= 0 {
		return models.Category{}, domain.ValidationError{Field: "id", Msg: "category id required"}
	}
	var c models.Category
	err := r.db().QueryRow(`
		SELECT id, COALESCE(name,''), COALESCE(description,'')
		FROM categories
		WHERE id = ? LIMIT 1
	`, id).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, domain.NotFoundError{Resource: "category"}
		}
		return models.Category{}, err
	}
	return c, nil
}

func (r CategoryRepository) Create(c models.Category) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO categories (name, description, created_at)
		VALUES (?, ?, NOW())
	`, c.Name, intdb.NullIfEmpty(c.Description))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
