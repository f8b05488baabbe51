package services

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	intconfig "homeservice/internal/config"
	"homeservice/internal/domain"
)

func newOtpFixture(t *testing.T) (sqlmock.Sqlmock, *captureSink, OtpService) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	sink := &captureSink{}
	svc := OtpService{
		Notify: testDispatcher(sink),
		CodeFn: func() (string, error) { return "123456", nil },
	}
	return mock, sink, svc
}

var otpWorker = domain.Actor{UserID: 70, Role: domain.RoleWorker}

func expectBoundWorker(mock sqlmock.Sqlmock, bookingStatus string) {
	mock.ExpectQuery(`FROM worker_profiles\s+WHERE user_id =`).WithArgs(int64(70)).
		WillReturnRows(workerRow(7, 70, true))
	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(10)).
		WillReturnRows(bookingRow(10, 5, int64(7), 3, bookingStatus, "2026-09-01", "9:00 AM - 11:00 AM", nil, nil))
}

func TestGenerateOtp_MovesToInProgressAndNotifiesCustomer(t *testing.T) {
	mock, sink, svc := newOtpFixture(t)

	expectBoundWorker(mock, "REACHED")
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(domain.StatusInProgress, int64(10), int64(7), domain.StatusCompleted, domain.StatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO otps`).
		WithArgs(int64(10), "123456").
		WillReturnResult(sqlmock.NewResult(1, 1))

	otp, err := svc.Generate(otpWorker, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if otp.Code != "123456" {
		t.Fatalf("code got %q", otp.Code)
	}

	svc.Notify.Wait()
	msgs := sink.byTitle("OTP Generated for Your Service")
	if len(msgs) != 1 || msgs[0].Recipient != 5 {
		t.Fatalf("customer notification wrong: %+v", msgs)
	}
	if !strings.Contains(msgs[0].Body, "123456") {
		t.Fatalf("notification must carry the code: %q", msgs[0].Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGenerateOtp_TerminalBooking(t *testing.T) {
	mock, sink, svc := newOtpFixture(t)

	expectBoundWorker(mock, "COMPLETED")
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(domain.StatusInProgress, int64(10), int64(7), domain.StatusCompleted, domain.StatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Generate(otpWorker, 10)
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
	svc.Notify.Wait()
	if len(sink.msgs) != 0 {
		t.Fatalf("no code must be sent when issuance fails, got %+v", sink.msgs)
	}
}

func TestGenerateOtp_NotBoundWorker(t *testing.T) {
	mock, _, svc := newOtpFixture(t)

	mock.ExpectQuery(`FROM worker_profiles\s+WHERE user_id =`).WithArgs(int64(70)).
		WillReturnRows(workerRow(7, 70, true))
	mock.ExpectQuery(`WHERE b\.id =`).WithArgs(int64(10)).
		WillReturnRows(bookingRow(10, 5, int64(8), 3, "REACHED", "2026-09-01", "9:00 AM", nil, nil))

	if _, err := svc.Generate(otpWorker, 10); !domain.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestVerifyOtp_SingleUse(t *testing.T) {
	mock, _, svc := newOtpFixture(t)

	// First verify consumes the code.
	expectBoundWorker(mock, "IN_PROGRESS")
	mock.ExpectExec(`UPDATE otps SET is_verified = 1`).
		WithArgs(int64(10), "123456").
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking, err := svc.Verify(otpWorker, 10, "123456")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if booking.Status != domain.StatusInProgress {
		t.Fatalf("verify must leave the booking IN_PROGRESS, got %s", booking.Status)
	}

	// Second verify sees is_verified already set and affects no rows.
	expectBoundWorker(mock, "IN_PROGRESS")
	mock.ExpectExec(`UPDATE otps SET is_verified = 1`).
		WithArgs(int64(10), "123456").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := svc.Verify(otpWorker, 10, "123456"); !domain.IsInvalidOtp(err) {
		t.Fatalf("expected InvalidOtp on reuse, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyOtp_WrongCode(t *testing.T) {
	mock, _, svc := newOtpFixture(t)

	expectBoundWorker(mock, "IN_PROGRESS")
	mock.ExpectExec(`UPDATE otps SET is_verified = 1`).
		WithArgs(int64(10), "000000").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := svc.Verify(otpWorker, 10, "000000"); !domain.IsInvalidOtp(err) {
		t.Fatalf("expected InvalidOtp, got %v", err)
	}
}

func TestVerifyOtp_EmptyCode(t *testing.T) {
	mock, _, svc := newOtpFixture(t)

	expectBoundWorker(mock, "IN_PROGRESS")

	if _, err := svc.Verify(otpWorker, 10, ""); !domain.IsValidation(err) {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
	}
}
