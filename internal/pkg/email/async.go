package email

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AsyncMailer hands each email to a goroutine so a slow SMTP server never
// holds up the request that triggered it. Sends outlive the request context
// but are bounded by timeout. Send methods always return nil; failures are logged.
type AsyncMailer struct {
	next    Mailer
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ Mailer = (*AsyncMailer)(nil)

func NewAsyncMailer(next Mailer, timeout time.Duration) *AsyncMailer {
	return &AsyncMailer{next: next, timeout: timeout}
}

func (m *AsyncMailer) SendTaskAssigned(ctx context.Context, to string, data TaskAssignedData) error {
	m.dispatch(ctx, "task_assigned", to, func(ctx context.Context) error {
		return m.next.SendTaskAssigned(ctx, to, data)
	})
	return nil
}

func (m *AsyncMailer) SendLeaveDecision(ctx context.Context, to string, data LeaveDecisionData) error {
	m.dispatch(ctx, "leave_decision", to, func(ctx context.Context) error {
		return m.next.SendLeaveDecision(ctx, to, data)
	})
	return nil
}

func (m *AsyncMailer) dispatch(ctx context.Context, template, to string, send func(context.Context) error) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		if err := send(sendCtx); err != nil {
			slog.Warn("failed to send email", "template", template, "to", to, "error", err)
		}
	}()
}

// Wait blocks until in-flight sends finish or ctx is done.
func (m *AsyncMailer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
