package notifications

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

// ReminderData feeds the weekly payment reminder template.
type ReminderData struct {
	FullName         string
	Amount           decimal.Decimal
	RemainingBalance decimal.Decimal
	WeeksRemaining   int
	PaymentURL       string
	DashboardURL     string
}

const weeklyReminderSubject = "Weekly tuition payment reminder"

var weeklyReminderTmpl = template.Must(template.New("weekly_reminder").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #1a1a1a;">
  <p>Hi {{.FullName}},</p>
  <p>Your weekly tuition payment of <strong>${{.Amount.StringFixed 2}}</strong> is due.</p>
  <table cellpadding="4">
    <tr><td>Remaining balance</td><td><strong>${{.RemainingBalance.StringFixed 2}}</strong></td></tr>
    <tr><td>Weeks remaining</td><td>{{.WeeksRemaining}}</td></tr>
  </table>
  <p><a href="{{.PaymentURL}}">Pay now</a></p>
  <p>You can review your plan any time on your <a href="{{.DashboardURL}}">apprentice dashboard</a>.</p>
  <p>Elevate Training</p>
</body>
</html>`))

func renderWeeklyReminder(data ReminderData) (string, error) {
	var buf bytes.Buffer
	if err := weeklyReminderTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render weekly reminder: %w", err)
	}
	return buf.String(), nil
}
