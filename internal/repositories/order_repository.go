package repositories

import (
	"database/sql"
	"errors"

	intconfig "eventwave/internal/config"
	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
)

type OrderRepository struct {
	DB *sql.DB
}

func (r OrderRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CreateTx inserts the confirmed order inside the same transaction that
// reserved capacity, so the two can never diverge.
func (r OrderRepository) CreateTx(tx *sql.Tx, o models.Order) error {
	_, err := tx.Exec(`
		INSERT INTO orders (id, event_id, quantity,
		                    buyer_first_name, buyer_last_name, buyer_email, buyer_phone,
		                    subtotal, service_fee, total, currency, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		o.ID,
		o.EventID,
		o.Quantity,
		o.Buyer.FirstName,
		o.Buyer.LastName,
		o.Buyer.Email,
		o.Buyer.Phone,
		o.Subtotal,
		o.ServiceFee,
		o.Total,
		o.Currency,
		o.Status,
		o.CreatedAt,
	)
	return err
}

func (r OrderRepository) GetByID(id string) (models.Order, error) {
	if id == "" {
		return models.Order{}, domain.ValidationError{Field: "id", Msg: "order id required"}
	}
	var o models.Order
	err := r.db().QueryRow(`
		SELECT id, event_id, quantity,
		       COALESCE(buyer_first_name,''), COALESCE(buyer_last_name,''),
		       COALESCE(buyer_email,''), COALESCE(buyer_phone,''),
		       subtotal, service_fee, total, COALESCE(currency,'$'),
		       COALESCE(status,''), created_at
		FROM orders
		WHERE id = ? LIMIT 1
	`, id).Scan(
		&o.ID,
		&o.EventID,
		&o.Quantity,
		&o.Buyer.FirstName,
		&o.Buyer.LastName,
		&o.Buyer.Email,
		&o.Buyer.Phone,
		&o.Subtotal,
		&o.ServiceFee,
		&o.Total,
		&o.Currency,
		&o.Status,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Order{}, domain.NotFoundError{Resource: "order"}
		}
		return models.Order{}, err
	}
	return o, nil
}

// ListByEmail powers the "my tickets" dashboard view.
func (r OrderRepository) ListByEmail(email string) ([]models.Order, error) {
	if email == "" {
		return nil, domain.ValidationError{Field: "email", Msg: "email required"}
	}
	rows, err := r.db().Query(`
		SELECT id, event_id, quantity,
		       COALESCE(buyer_first_name,''), COALESCE(buyer_last_name,''),
		       COALESCE(buyer_email,''), COALESCE(buyer_phone,''),
		       subtotal, service_fee, total, COALESCE(currency,'$'),
		       COALESCE(status,''), created_at
		FROM orders
		WHERE buyer_email = ?
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.EventID, &o.Quantity,
			&o.Buyer.FirstName, &o.Buyer.LastName, &o.Buyer.Email, &o.Buyer.Phone,
			&o.Subtotal, &o.ServiceFee, &o.Total, &o.Currency,
			&o.Status, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
