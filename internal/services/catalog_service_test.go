package services

import (
	"testing"
	"time"

	"eventwave/internal/domain"
	"eventwave/internal/domain/models"
	"eventwave/internal/repositories"
	"eventwave/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestDeriveStatus(t *testing.T) {
	past := models.Event{Date: utils.FormatDate(time.Now().AddDate(0, 0, -2))}
	if got := deriveStatus(past); got != models.EventPast {
		t.Fatalf("expected past, got %q", got)
	}

	today := models.Event{Date: utils.FormatDate(time.Now())}
	if got := deriveStatus(today); got != models.EventUpcoming {
		t.Fatalf("events starting today are upcoming, got %q", got)
	}

	future := models.Event{Date: utils.FormatDate(time.Now().AddDate(0, 1, 0))}
	if got := deriveStatus(future); got != models.EventUpcoming {
		t.Fatalf("expected upcoming, got %q", got)
	}

	junk := models.Event{Date: "soon"}
	if got := deriveStatus(junk); got != models.EventUpcoming {
		t.Fatalf("unparseable dates stay visible as upcoming, got %q", got)
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc := CatalogService{}

	cases := []struct {
		name  string
		ev    models.Event
		field string
	}{
		{"missing title", models.Event{Date: "2030-05-01", Time: "19:00", Location: models.Location{Name: "X"}}, "title"},
		{"bad date", models.Event{Title: "A", Date: "May 1st", Time: "19:00", Location: models.Location{Name: "X"}}, "date"},
		{"missing venue", models.Event{Title: "A", Date: "2030-05-01", Time: "19:00"}, "location"},
		{"negative price", models.Event{
			Title: "A", Date: "2030-05-01", Time: "19:00",
			Location: models.Location{Name: "X"},
			Price:    models.Price{Amount: decimal.NewFromInt(-1)},
		}, "price"},
	}

	for _, tc := range cases {
		_, err := svc.CreateEvent(tc.ev)
		if !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateEventInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM categories").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).AddRow(2, "Music", ""))
	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	svc := CatalogService{
		Events:     repositories.EventRepository{DB: db},
		Categories: repositories.CategoryRepository{DB: db},
	}

	created, err := svc.CreateEvent(models.Event{
		Title:      "  Indie   Night ",
		Date:       "2030-05-01",
		Time:       "19:00",
		Location:   models.Location{Name: "The Venue"},
		Price:      models.Price{Amount: decimal.NewFromInt(50)},
		CategoryID: 2,
		Capacity:   100,
	})
	if err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated event id")
	}
	if created.Title != "Indie Night" {
		t.Fatalf("title not normalized, got %q", created.Title)
	}
	if created.Price.Currency != "$" {
		t.Fatalf("expected default currency, got %q", created.Price.Currency)
	}
	if created.Status != models.EventUpcoming {
		t.Fatalf("expected upcoming status, got %q", created.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
