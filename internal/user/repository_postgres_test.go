package user

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func userColumns() []string {
	return []string{"id", "email", "password", "display_name", "is_store_owner", "credits", "created_at", "updated_at"}
}

func TestPostgresGetByIDScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, email, password, display_name, is_store_owner, credits, created_at, updated_at").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "old@example.com", "hash", nil, nil, nil, nil, nil))

	repo := NewPostgresRepository(db)
	u, err := repo.GetByID(1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if u.DisplayName != nil || u.IsStoreOwner != nil || u.Credits != nil {
		t.Fatalf("null columns must stay nil: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresUpdateProfileOnlyPatchedColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET is_store_owner = \$1 WHERE id = \$2`).
		WithArgs(true, 8).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	owner := true
	if err := repo.UpdateProfile(8, ProfilePatch{IsStoreOwner: &owner}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresUpdateProfileEmptyPatchSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)
	if err := repo.UpdateProfile(8, ProfilePatch{}); err != nil {
		t.Fatalf("empty patch must be a no-op: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresDebitCreditsInsufficientBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET credits = COALESCE\(credits, 0\) - \$1`).
		WithArgs(2, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, email, password").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(5, "buyer@example.com", "hash", "Buyer", false, 1, nil, nil))

	repo := NewPostgresRepository(db)
	if err := repo.DebitCredits(5, 2); err != ErrInsufficientCredits {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresDebitCreditsUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET credits = COALESCE\(credits, 0\) - \$1`).
		WithArgs(1, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, email, password").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	repo := NewPostgresRepository(db)
	if err := repo.DebitCredits(99, 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
