package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type stubMailer struct {
	failures int
	calls    int
	last     Message
	err      error
}

func (s *stubMailer) Send(ctx context.Context, msg Message) error {
	s.calls++
	s.last = msg
	if s.err != nil {
		return s.err
	}
	if s.calls <= s.failures {
		return errors.New("smtp timeout")
	}
	return nil
}

func reminderData() ReminderData {
	return ReminderData{
		FullName:         "Jordan Blake",
		Amount:           decimal.RequireFromString("150.00"),
		RemainingBalance: decimal.RequireFromString("1350.00"),
		WeeksRemaining:   9,
		PaymentURL:       "https://pay.example/plink_123",
		DashboardURL:     "https://www.elevate.training/apprentice",
	}
}

func TestSendWeeklyReminderRendersFields(t *testing.T) {
	mailer := &stubMailer{}
	svc, err := NewService(mailer, 3)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if err := svc.SendWeeklyReminder(context.Background(), "student@example.com", reminderData()); err != nil {
		t.Fatalf("SendWeeklyReminder returned error: %v", err)
	}
	if mailer.last.To != "student@example.com" {
		t.Fatalf("unexpected recipient %q", mailer.last.To)
	}
	if mailer.last.Subject != weeklyReminderSubject {
		t.Fatalf("unexpected subject %q", mailer.last.Subject)
	}
	for _, want := range []string{"Jordan Blake", "$150.00", "$1350.00", ">9<", "https://pay.example/plink_123", "https://www.elevate.training/apprentice"} {
		if !strings.Contains(mailer.last.HTML, want) {
			t.Errorf("rendered body missing %q", want)
		}
	}
}

func TestSendWeeklyReminderRetriesTransientFailures(t *testing.T) {
	mailer := &stubMailer{failures: 2}
	svc, _ := NewService(mailer, 3)

	if err := svc.SendWeeklyReminder(context.Background(), "student@example.com", reminderData()); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if mailer.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", mailer.calls)
	}
}

func TestSendWeeklyReminderBoundedRetries(t *testing.T) {
	mailer := &stubMailer{err: errors.New("relay down")}
	svc, _ := NewService(mailer, 3)

	if err := svc.SendWeeklyReminder(context.Background(), "student@example.com", reminderData()); err == nil {
		t.Fatalf("expected error after exhausting attempts")
	}
	if mailer.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", mailer.calls)
	}
}

func TestSendWeeklyReminderRequiresRecipient(t *testing.T) {
	svc, _ := NewService(&stubMailer{}, 3)
	if err := svc.SendWeeklyReminder(context.Background(), "  ", reminderData()); err == nil {
		t.Fatalf("expected validation error for empty recipient")
	}
}
