package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	pkgerrors "github.com/elevate-hq/elevate-backend/pkg/errors"
)

const (
	defaultMaxAttempts = 3
	retryBackoff       = 500 * time.Millisecond
)

// Service sends templated notifications with bounded retries.
type Service interface {
	SendWeeklyReminder(ctx context.Context, to string, data ReminderData) error
}

type service struct {
	mailer      Mailer
	maxAttempts int
}

// NewService builds the notification service. Attempts below 1 fall back to
// the 3-attempt default.
func NewService(mailer Mailer, maxAttempts int) (Service, error) {
	if mailer == nil {
		return nil, errors.New("mailer required")
	}
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	return &service{mailer: mailer, maxAttempts: maxAttempts}, nil
}

func (s *service) SendWeeklyReminder(ctx context.Context, to string, data ReminderData) error {
	if strings.TrimSpace(to) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient address required")
	}

	html, err := renderWeeklyReminder(data)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render reminder")
	}
	msg := Message{To: to, Subject: weeklyReminderSubject, HTML: html}

	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewConstant(retryBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if sendErr := s.mailer.Send(ctx, msg); sendErr != nil {
			return retry.RetryableError(sendErr)
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send weekly reminder")
	}
	return nil
}
