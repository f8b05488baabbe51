package services

import (
	"sync"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"homeservice/internal/notify"
)

// captureSink records dispatched notifications in memory.
type captureSink struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (s *captureSink) Deliver(m notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
	return nil
}

func (s *captureSink) byTitle(title string) []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []notify.Message{}
	for _, m := range s.msgs {
		if m.Title == title {
			out = append(out, m)
		}
	}
	return out
}

func testDispatcher(sink *captureSink) *notify.Dispatcher {
	return &notify.Dispatcher{Sink: sink, Attempts: 1, BaseDelay: time.Millisecond}
}

var bookingCols = []string{
	"id", "user_id", "worker_id", "service_id", "name",
	"date", "time_slot", "status", "address",
	"suggested_date", "suggested_time", "is_rated", "reached_at",
	"created_at", "updated_at",
}

// bookingRow builds a single-booking result set. workerID and the
// suggestion fields take nil for NULL.
func bookingRow(id, userID int64, workerID any, serviceID int64, status, date, slot string, suggestedDate, suggestedTime any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingCols).
		AddRow(id, userID, workerID, serviceID, "Deep Cleaning", date, slot, status, "12 Main St",
			suggestedDate, suggestedTime, false, nil, now, now)
}

func workerRow(id, userID int64, approved bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "role", "specialty", "is_approved"}).
		AddRow(id, userID, "WORKER", "cleaning", approved)
}

func adminRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}
