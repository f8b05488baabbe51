package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newOtpRepo(t *testing.T) (sqlmock.Sqlmock, OtpRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return mock, OtpRepository{DB: db}
}

func TestUpsert_SupersedesPriorCode(t *testing.T) {
	mock, repo := newOtpRepo(t)

	mock.ExpectExec(`ON DUPLICATE KEY UPDATE`).
		WithArgs(int64(10), "123456").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Regeneration for the same booking rides the unique key.
	mock.ExpectExec(`ON DUPLICATE KEY UPDATE`).
		WithArgs(int64(10), "654321").
		WillReturnResult(sqlmock.NewResult(1, 2))

	if err := repo.Upsert(10, "123456"); err != nil {
		t.Fatalf("first upsert error: %v", err)
	}
	if err := repo.Upsert(10, "654321"); err != nil {
		t.Fatalf("second upsert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerify_OnlyUnverifiedMatchingCodeCounts(t *testing.T) {
	mock, repo := newOtpRepo(t)

	mock.ExpectExec(`UPDATE otps SET is_verified = 1`).
		WithArgs(int64(10), "123456").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE otps SET is_verified = 1`).
		WithArgs(int64(10), "123456").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Verify(10, "123456")
	if err != nil || !ok {
		t.Fatalf("first verify: ok=%t err=%v", ok, err)
	}
	ok, err = repo.Verify(10, "123456")
	if err != nil {
		t.Fatalf("second verify error: %v", err)
	}
	if ok {
		t.Fatalf("a consumed code must not verify again")
	}
}
