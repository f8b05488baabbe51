package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"homeservice/internal/domain"
	"homeservice/internal/domain/models"
)

func newPaymentRepo(t *testing.T) (sqlmock.Sqlmock, PaymentRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return mock, PaymentRepository{DB: db}
}

func testPayment(bookingID int64) models.Payment {
	return models.Payment{
		BookingID:       bookingID,
		TotalAmount:     decimal.RequireFromString("150.00"),
		AdminCommission: decimal.RequireFromString("30.00"),
		ProviderAmount:  decimal.RequireFromString("120.00"),
		Status:          models.PaymentSuccess,
		Method:          "CARD",
		TransactionID:   "txn_abc123def456",
	}
}

func settlementRows(bookingID int64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "booking_id", "total_amount", "admin_commission", "provider_amount",
		"payment_status", "payment_method", "transaction_id", "created_at", "updated_at",
	}).AddRow(1, bookingID, "150.00", "30.00", "120.00", status, "CARD", "txn_prior000000", now, now)
}

func TestRecord_FirstSettlementInserts(t *testing.T) {
	mock, repo := newPaymentRepo(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Record(testPayment(10)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecord_DuplicateKeyWithSuccessRowIsAlreadyPaid(t *testing.T) {
	mock, repo := newPaymentRepo(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery(`FROM payments`).WithArgs(int64(10)).
		WillReturnRows(settlementRows(10, "SUCCESS"))

	err := repo.Record(testPayment(10))
	if !domain.IsAlreadyPaid(err) {
		t.Fatalf("expected AlreadyPaid, got %v", err)
	}
}

func TestRecord_DuplicateKeyWithFailedRowRetriesInPlace(t *testing.T) {
	mock, repo := newPaymentRepo(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery(`FROM payments`).WithArgs(int64(10)).
		WillReturnRows(settlementRows(10, "FAILED"))
	mock.ExpectExec(`UPDATE payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Record(testPayment(10)); err != nil {
		t.Fatalf("retrying over a FAILED row must succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecord_RetryLosesToConcurrentSuccess(t *testing.T) {
	mock, repo := newPaymentRepo(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectQuery(`FROM payments`).WithArgs(int64(10)).
		WillReturnRows(settlementRows(10, "FAILED"))
	// A competing retry settled the row between the read and the update.
	mock.ExpectExec(`UPDATE payments`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Record(testPayment(10)); !domain.IsAlreadyPaid(err) {
		t.Fatalf("expected AlreadyPaid, got %v", err)
	}
}

func TestRecord_UnrelatedErrorPropagates(t *testing.T) {
	mock, repo := newPaymentRepo(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})

	err := repo.Record(testPayment(10))
	if err == nil || domain.IsAlreadyPaid(err) {
		t.Fatalf("non-duplicate errors must propagate as-is, got %v", err)
	}
}

func TestGetByBookingID_Missing(t *testing.T) {
	mock, repo := newPaymentRepo(t)

	mock.ExpectQuery(`FROM payments`).WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, found, err := repo.GetByBookingID(10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Fatalf("missing settlement must report found=false")
	}
}
