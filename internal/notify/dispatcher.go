// Package notify dispatches delivery requests to the notification sink off
// the critical path. State transitions commit first; delivery is
// best-effort with bounded retry and never rolls a transition back.
package notify

import (
	"fmt"
	"sync"
	"time"

	"homeservice/internal/repositories"
	"homeservice/internal/utils"
)

// Message is the sink delivery payload. RequestID only ties retry logs
// back to the triggering request; it is not delivered.
type Message struct {
	Recipient int64
	Title     string
	Body      string
	Category  string
	RequestID string
}

// Sink accepts delivery requests and delivers them independently.
type Sink interface {
	Deliver(msg Message) error
}

// RecordSink persists messages as notification records. It stands in for
// the external delivery service in this deployment.
type RecordSink struct {
	Repo repositories.NotificationRepository
}

func (s RecordSink) Deliver(msg Message) error {
	return s.Repo.Insert(msg.Recipient, msg.Title, msg.Body, msg.Category)
}

// Dispatcher retries failed deliveries with exponential backoff, then logs
// and drops. Attempts and BaseDelay default to 3 and 60s.
type Dispatcher struct {
	Sink      Sink
	Attempts  int
	BaseDelay time.Duration

	wg sync.WaitGroup
}

func (d *Dispatcher) attempts() int {
	if d.Attempts > 0 {
		return d.Attempts
	}
	return 3
}

func (d *Dispatcher) baseDelay() time.Duration {
	if d.BaseDelay > 0 {
		return d.BaseDelay
	}
	return 60 * time.Second
}

// Dispatch queues one delivery. It returns immediately; the caller's
// transition is already durable by the time this runs.
func (d *Dispatcher) Dispatch(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliverWithRetry(msg)
	}()
}

// Fanout dispatches the same payload to every recipient.
func (d *Dispatcher) Fanout(requestID string, recipients []int64, title, body, category string) {
	for _, rcpt := range recipients {
		d.Dispatch(Message{Recipient: rcpt, Title: title, Body: body, Category: category, RequestID: requestID})
	}
}

func (d *Dispatcher) deliverWithRetry(msg Message) {
	delay := d.baseDelay()
	var lastErr error
	for attempt := 1; attempt <= d.attempts(); attempt++ {
		if lastErr = d.Sink.Deliver(msg); lastErr == nil {
			return
		}
		utils.LogEventError(msg.RequestID, "notify", "deliver",
			fmt.Sprintf("attempt %d/%d for recipient %d failed: %v", attempt, d.attempts(), msg.Recipient, lastErr))
		if attempt < d.attempts() {
			time.Sleep(delay)
			delay *= 2
		}
	}
	utils.LogEventError(msg.RequestID, "notify", "drop",
		fmt.Sprintf("giving up on notification for recipient %d: %v", msg.Recipient, lastErr))
}

// Wait blocks until in-flight deliveries finish. Used on shutdown and in
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

var (
	shared   *Dispatcher
	sharedMu sync.Mutex
)

// Setup installs the process-wide dispatcher built in main.
func Setup(d *Dispatcher) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = d
}

// Shared returns the process-wide dispatcher, creating a default one over
// the record sink when main has not installed any.
func Shared() *Dispatcher {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = &Dispatcher{Sink: RecordSink{}}
	}
	return shared
}
