package services

import (
	"fmt"
	"time"

	"homeservice/internal/domain/models"
	"homeservice/internal/notify"
	"homeservice/internal/repositories"
	"homeservice/internal/utils"
)

// DelayGrace is how long past the scheduled start a confirmed worker may
// be before the booking escalates to DELAYED.
const DelayGrace = 15 * time.Minute

// DelayService is the periodic sweep over CONFIRMED bookings. It runs on a
// timer, not in any request path, and re-derives eligibility from the
// store each run, which makes it safe to re-run at any time.
type DelayService struct {
	BookingRepo  repositories.BookingRepository
	IdentityRepo repositories.IdentityRepository
	Notify       *notify.Dispatcher
	Location     *time.Location
	NowFn        func() time.Time
	RequestID    string
}

func (s DelayService) notifier() *notify.Dispatcher {
	if s.Notify != nil {
		return s.Notify
	}
	return notify.Shared()
}

func (s DelayService) now() time.Time {
	if s.NowFn != nil {
		return s.NowFn()
	}
	return time.Now()
}

func (s DelayService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// Sweep escalates every overdue CONFIRMED booking to DELAYED and notifies
// the admins. One booking's bad data never aborts the rest: failures are
// logged, collected in skipped, and the sweep moves on.
func (s DelayService) Sweep() (int, []int64, error) {
	candidates, err := s.BookingRepo.ListConfirmedWithWorker()
	if err != nil {
		return 0, nil, err
	}

	now := s.now()
	cutoffCount := 0
	skipped := []int64{}

	for _, b := range candidates {
		start, err := utils.ParseSlotStart(b.Date, b.TimeSlot, s.location())
		if err != nil {
			utils.LogEventError(s.RequestID, "delay", "sweep",
				fmt.Sprintf("booking_id=%d unparseable schedule: %v", b.ID, err))
			skipped = append(skipped, b.ID)
			continue
		}
		if !now.After(start.Add(DelayGrace)) {
			continue
		}

		ok, err := s.BookingRepo.MarkDelayed(b.ID)
		if err != nil {
			utils.LogEventError(s.RequestID, "delay", "sweep",
				fmt.Sprintf("booking_id=%d escalation failed: %v", b.ID, err))
			skipped = append(skipped, b.ID)
			continue
		}
		if !ok {
			// Raced with another transition; no longer a candidate.
			continue
		}

		cutoffCount++
		s.notifyAdmins(b)
	}

	utils.LogEvent(s.RequestID, "delay", "sweep",
		fmt.Sprintf("checked=%d delayed=%d skipped=%d", len(candidates), cutoffCount, len(skipped)))
	return cutoffCount, skipped, nil
}

func (s DelayService) notifyAdmins(b models.Booking) {
	admins, err := s.IdentityRepo.ListAdmins()
	if err != nil {
		utils.LogEventError(s.RequestID, "delay", "notify_admins", "admin lookup failed: "+err.Error())
		return
	}
	s.notifier().Fanout(s.RequestID, admins,
		"Booking Delayed - Worker Did Not Reach On Time",
		fmt.Sprintf("Worker did not reach on time for booking #%d (%s). Service is delayed.", b.ID, b.ServiceName),
		models.NotifySystem)
}
