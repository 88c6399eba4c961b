package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Afrawles/teamdash/internal/report"
)

// sender is the part of gomail the mailer needs; tests substitute a fake.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends per-member contribution summaries over SMTP. All messages go
// out under one shared sender address in the From header.
type Mailer struct {
	dialer sender
	from   string
	log    *slog.Logger
}

func NewMailer(host string, port int, username, password, from string, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		log:    log,
	}
}

// NewMailerWithSender wires a custom transport. Used by tests.
func NewMailerWithSender(s sender, from string, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}
	return &Mailer{dialer: s, from: from, log: log}
}

// Send delivers one message.
func (m *Mailer) Send(recipient, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send to %s: %w", recipient, err)
	}
	return nil
}

// SendSummaries mails each selected roster member their weekly summary.
// Failures are collected per recipient; one bounce never aborts the batch.
// Members without a mapped address, and requested names that match no roster
// row, are reported the same way.
func (m *Mailer) SendSummaries(week report.YearWeek, summary report.Summary, roster *report.Roster, target int, recipients []string) map[string]error {
	failures := make(map[string]error)

	selected := make(map[string]bool, len(recipients))
	for _, r := range recipients {
		if fold := strings.ToLower(strings.TrimSpace(r)); fold != "" {
			selected[fold] = true
		}
	}

	matched := make(map[string]bool, len(selected))
	for _, row := range summary.Rows {
		fold := strings.ToLower(row.Member)
		if len(selected) > 0 && !selected[fold] {
			continue
		}
		matched[fold] = true

		addr, ok := roster.Email(fold)
		if !ok {
			failures[row.Member] = fmt.Errorf("no email mapping for %s", row.Member)
			continue
		}

		subject := fmt.Sprintf("Your Weekly Contribution Summary - %s", week)
		body := summaryBody(row, week, target)
		if err := m.Send(addr, subject, body); err != nil {
			m.log.Warn("summary email failed", "member", row.Member, "error", err)
			failures[row.Member] = err
			continue
		}
		m.log.Info("summary email sent", "member", row.Member, "to", addr)
	}

	for name := range selected {
		if !matched[name] {
			failures[name] = fmt.Errorf("no roster member named %q", name)
		}
	}

	return failures
}

func summaryBody(row report.MemberSummary, week report.YearWeek, target int) string {
	first := row.Member
	if i := strings.IndexByte(first, ' '); i > 0 {
		first = first[:i]
	}
	return fmt.Sprintf(
		"Hi %s,\n\nHere is your performance summary for week %s:\n\n"+
			"- Your Net Contributions: %d\n"+
			"- Activities Needed to Meet Target (%d): %d\n\n"+
			"Thank you!\nTeam Management",
		first, week, row.Net, target, row.Needed,
	)
}
