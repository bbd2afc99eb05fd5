package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("google:1", "a@b.c", nil, nil, "google").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Upsert(context.Background(), User{ID: "google:1", Email: "a@b.c"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "email", "name", "picture", "provider", "created_at", "last_login_at"}).
		AddRow("google:1", "a@b.c", nil, "https://pic", "google", created, nil)
	mock.ExpectQuery("SELECT id, email, name, picture, provider, created_at, last_login_at").
		WithArgs("google:1").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT id, email").
		WithArgs("google:2").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	user, err := repo.GetByID(context.Background(), "google:1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Picture != "https://pic" || user.Name != "" || user.LastLoginAt != nil || !user.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user %+v", user)
	}
	if _, err := repo.GetByID(context.Background(), "google:2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
