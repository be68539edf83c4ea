package repositories

import (
	"database/sql"
	"errors"

	intconfig "eventwave/internal/config"
	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	intdb "eventwave/internal/db"
)

type EventRepository struct {
	DB *sql.DB
}

func (r EventRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const eventSelect = `
	SELECT e.id,
	       COALESCE(e.title,''),
	       COALESCE(e.description,''),
	       COALESCE(e.start_date,''),
	       COALESCE(e.start_time,''),
	       COALESCE(e.venue_name,''),
	       COALESCE(e.venue_address,''),
	       e.lat,
	       e.lng,
	       e.price_amount,
	       COALESCE(e.currency,'$'),
	       COALESCE(e.category_id,0),
	       COALESCE(e.image,''),
	       COALESCE(e.capacity,0),
	       COALESCE(e.sold,0),
	       COALESCE(o.id,0),
	       COALESCE(o.name,''),
	       COALESCE(o.avatar,''),
	       COALESCE(o.description,'')
	FROM events e
	LEFT JOIN organizers o ON o.id = e.organizer_id`

func scanEvent(row interface{ Scan(dest ...any) error }) (models.Event, error) {
	var (
		ev       models.Event
		lat, lng sql.NullFloat64
	)
	err := row.Scan(
		&ev.ID,
		&ev.Title,
		&ev.Description,
		&ev.Date,
		&ev.Time,
		&ev.Location.Name,
		&ev.Location.Address,
		&lat,
		&lng,
		&ev.Price.Amount,
		&ev.Price.Currency,
		&ev.CategoryID,
		&ev.Image,
		&ev.Capacity,
		&ev.Sold,
		&ev.Organizer.ID,
		&ev.Organizer.Name,
		&ev.Organizer.Avatar,
		&ev.Organizer.Description,
	)
	if err != nil {
		return models.Event{}, err
	}
	if lat.Valid {
		ev.Location.Lat = &lat.Float64
	}
	if lng.Valid {
		ev.Location.Lng = &lng.Float64
	}
	return ev, nil
}

func (r EventRepository) List() ([]models.Event, error) {
	rows, err := r.db().Query(eventSelect + ` ORDER BY e.start_date, e.start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListUpcoming returns events starting today or later.
func (r EventRepository) ListUpcoming(today string) ([]models.Event, error) {
	rows, err := r.db().Query(eventSelect+` WHERE e.start_date >= ? ORDER BY e.start_date, e.start_time`, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r EventRepository) ListByCategory(categoryID int64) ([]models.Event, error) {
	rows, err := r.db().Query(eventSelect+` WHERE e.category_id = ? ORDER BY e.start_date, e.start_time`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r EventRepository) GetByID(id string) (models.Event, error) {
	if id == "" {
		return models.Event{}, domain.ValidationError{Field: "id", Msg: "event id required"}
	}
	ev, err := scanEvent(r.db().QueryRow(eventSelect+` WHERE e.id = ? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, domain.NotFoundError{Resource: "event"}
		}
		return models.Event{}, err
	}
	return ev, nil
}

func (r EventRepository) Create(ev models.Event) error {
	_, err := r.db().Exec(`
		INSERT INTO events (id, title, description, start_date, start_time,
		                    venue_name, venue_address, lat, lng,
		                    price_amount, currency, category_id, organizer_id,
		                    image, capacity, sold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NOW(), NOW())
	`,
		ev.ID,
		ev.Title,
		intdb.NullIfEmpty(ev.Description),
		ev.Date,
		ev.Time,
		ev.Location.Name,
		intdb.NullIfEmpty(ev.Location.Address),
		nullFloat(ev.Location.Lat),
		nullFloat(ev.Location.Lng),
		ev.Price.Amount,
		ev.Price.Currency,
		ev.CategoryID,
		ev.Organizer.ID,
		intdb.NullIfEmpty(ev.Image),
		ev.Capacity,
	)
	return err
}

// ReserveCapacityTx atomically claims quantity tickets inside tx. Capacity 0
// means unlimited. Shortfall surfaces as CapacityExceededError with the
// number of tickets still available.
func (r EventRepository) ReserveCapacityTx(tx *sql.Tx, eventID string, quantity int) error {
	res, err := tx.Exec(`
		UPDATE events
		SET sold = sold + ?, updated_at = NOW()
		WHERE id = ? AND (capacity = 0 OR capacity - sold >= ?)
	`, quantity, eventID, quantity)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var capacity, sold int
	err = tx.QueryRow(`SELECT COALESCE(capacity,0), COALESCE(sold,0) FROM events WHERE id = ? LIMIT 1`, eventID).
		Scan(&capacity, &sold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "event"}
		}
		return err
	}
	available := capacity - sold
	if available < 0 {
		available = 0
	}
	return domain.CapacityExceededError{Available: available}
}

func collectEvents(rows *sql.Rows) ([]models.Event, error) {
	out := []models.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
