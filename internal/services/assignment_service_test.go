package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	intconfig "homeservice/internal/config"
	"homeservice/internal/domain"
)

func newAssignmentFixture(t *testing.T) (sqlmock.Sqlmock, *captureSink, AssignmentService) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	sink := &captureSink{}
	svc := AssignmentService{Notify: testDispatcher(sink)}
	return mock, sink, svc
}

var admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func TestAssignWorker_HappyPath(t *testing.T) {
	mock, sink, svc := newAssignmentFixture(t)

	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(10)).
		WillReturnRows(bookingRow(10, 5, nil, 3, "PENDING", "2026-09-01", "9:00 AM - 11:00 AM", nil, nil))
	mock.ExpectQuery(`FROM worker_profiles\s+WHERE id =`).WithArgs(int64(7)).
		WillReturnRows(workerRow(7, 70, true))
	mock.ExpectQuery(`FROM worker_services`).WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(`UPDATE bookings SET worker_id = \?, status = \?`).
		WithArgs(int64(7), domain.StatusAssigned, int64(10), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(10)).
		WillReturnRows(bookingRow(10, 5, int64(7), 3, "ASSIGNED", "2026-09-01", "9:00 AM - 11:00 AM", nil, nil))

	booking, err := svc.Assign(admin, 10, 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if booking.Status != domain.StatusAssigned {
		t.Fatalf("status got %s want ASSIGNED", booking.Status)
	}
	if !booking.BoundTo(7) {
		t.Fatalf("worker not bound")
	}

	svc.Notify.Wait()
	msgs := sink.byTitle("New Booking Assigned")
	if len(msgs) != 1 || msgs[0].Recipient != 70 {
		t.Fatalf("worker notification wrong: %+v", msgs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignWorker_NotAdmin(t *testing.T) {
	_, _, svc := newAssignmentFixture(t)

	_, err := svc.Assign(domain.Actor{UserID: 5, Role: domain.RoleUser}, 10, 7)
	if !domain.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestAssignWorker_NotApproved(t *testing.T) {
	mock, sink, svc := newAssignmentFixture(t)

	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(10)).
		WillReturnRows(bookingRow(10, 5, nil, 3, "PENDING", "2026-09-01", "9:00 AM", nil, nil))
	mock.ExpectQuery(`FROM worker_profiles\s+WHERE id =`).WithArgs(int64(7)).
		WillReturnRows(workerRow(7, 70, false))

	_, err := svc.Assign(admin, 10, 7)
	if !domain.IsNotApproved(err) {
		t.Fatalf("expected NotApproved, got %v", err)
	}
	svc.Notify.Wait()
	if len(sink.msgs) != 0 {
		t.Fatalf("eligibility failure must not notify, got %+v", sink.msgs)
	}
}

func TestAssignWorker_NotQualified(t *testing.T) {
	mock, _, svc := newAssignmentFixture(t)

	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(10)).
		WillReturnRows(bookingRow(10, 5, nil, 3, "PENDING", "2026-09-01", "9:00 AM", nil, nil))
	mock.ExpectQuery(`FROM worker_profiles\s+WHERE id =`).WithArgs(int64(7)).
		WillReturnRows(workerRow(7, 70, true))
	mock.ExpectQuery(`FROM worker_services`).WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	_, err := svc.Assign(admin, 10, 7)
	if !domain.IsNotQualified(err) {
		t.Fatalf("expected NotQualified, got %v", err)
	}
}

func TestAssignWorker_LostRace(t *testing.T) {
	mock, sink, svc := newAssignmentFixture(t)

	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(10)).
		WillReturnRows(bookingRow(10, 5, nil, 3, "PENDING", "2026-09-01", "9:00 AM", nil, nil))
	mock.ExpectQuery(`FROM worker_profiles\s+WHERE id =`).WithArgs(int64(7)).
		WillReturnRows(workerRow(7, 70, true))
	mock.ExpectQuery(`FROM worker_services`).WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	// Another assignment won between the read and the write.
	mock.ExpectExec(`UPDATE bookings SET worker_id = \?, status = \?`).
		WithArgs(int64(7), domain.StatusAssigned, int64(10), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Assign(admin, 10, 7)
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
	svc.Notify.Wait()
	if len(sink.msgs) != 0 {
		t.Fatalf("lost race must not notify, got %+v", sink.msgs)
	}
}

func TestSetApproval_AdminOnly(t *testing.T) {
	mock, _, svc := newAssignmentFixture(t)

	if err := svc.SetApproval(domain.Actor{UserID: 5, Role: domain.RoleWorker}, 7, true); !domain.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	mock.ExpectExec(`UPDATE worker_profiles SET is_approved`).
		WithArgs(true, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := svc.SetApproval(admin, 7, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
