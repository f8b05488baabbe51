package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"homeservice/internal/domain"
)

func newBookingRepo(t *testing.T) (sqlmock.Sqlmock, BookingRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return mock, BookingRepository{DB: db}
}

func TestGetByID_NotFound(t *testing.T) {
	mock, repo := newBookingRepo(t)

	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetByID_NullableColumns(t *testing.T) {
	mock, repo := newBookingRepo(t)

	now := time.Now()
	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "worker_id", "service_id", "name",
			"date", "time_slot", "status", "address",
			"suggested_date", "suggested_time", "is_rated", "reached_at",
			"created_at", "updated_at",
		}).AddRow(10, 5, nil, 3, nil, "2026-09-01", "9:00 AM - 11:00 AM", "PENDING", "12 Main St",
			nil, nil, false, nil, now, now))

	b, err := repo.GetByID(10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.WorkerID != nil || b.SuggestedDate != nil || b.ReachedAt != nil {
		t.Fatalf("NULL columns must map to nil pointers: %+v", b)
	}
	if b.HasSuggestion() {
		t.Fatalf("no suggestion expected")
	}
}

func TestAssignWorker_WinnerAndLoser(t *testing.T) {
	mock, repo := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET worker_id = \?, status = \?`).
		WithArgs(int64(7), domain.StatusAssigned, int64(10), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE bookings SET worker_id = \?, status = \?`).
		WithArgs(int64(8), domain.StatusAssigned, int64(10), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.AssignWorker(10, 7)
	if err != nil || !ok {
		t.Fatalf("winner should succeed: ok=%t err=%v", ok, err)
	}
	ok, err = repo.AssignWorker(10, 8)
	if err != nil {
		t.Fatalf("loser should not error, got %v", err)
	}
	if ok {
		t.Fatalf("second assign against the same PENDING booking must lose")
	}
}

func TestMarkDelayed_IdempotentOnceLeftConfirmed(t *testing.T) {
	mock, repo := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(domain.StatusDelayed, int64(10), domain.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(domain.StatusDelayed, int64(10), domain.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if ok, err := repo.MarkDelayed(10); err != nil || !ok {
		t.Fatalf("first escalation: ok=%t err=%v", ok, err)
	}
	if ok, err := repo.MarkDelayed(10); err != nil || ok {
		t.Fatalf("second escalation must be a no-op: ok=%t err=%v", ok, err)
	}
}

func TestCancelByCustomer_GuardsOwnerAndStatus(t *testing.T) {
	mock, repo := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(domain.StatusCancelled, int64(10), int64(5), domain.StatusPending, domain.StatusAssigned).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.CancelByCustomer(10, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatalf("cancel must fail once the booking left PENDING/ASSIGNED")
	}
}

func TestAcceptSuggestion_RequiresOutstandingProposal(t *testing.T) {
	mock, repo := newBookingRepo(t)

	mock.ExpectExec(`SET date = suggested_date`).
		WithArgs(domain.StatusAssigned, int64(10), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.AcceptSuggestion(10, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatalf("accept with no outstanding proposal must affect nothing")
	}
}

func TestDelete_Missing(t *testing.T) {
	mock, repo := newBookingRepo(t)

	mock.ExpectExec(`DELETE FROM bookings`).WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(99); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
