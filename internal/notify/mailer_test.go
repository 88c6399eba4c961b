package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/Afrawles/teamdash/internal/report"
)

type fakeSender struct {
	sent    []*gomail.Message
	failFor map[string]bool
}

func (f *fakeSender) DialAndSend(msgs ...*gomail.Message) error {
	for _, m := range msgs {
		to := m.GetHeader("To")
		if len(to) > 0 && f.failFor[to[0]] {
			return fmt.Errorf("mailbox rejected")
		}
		f.sent = append(f.sent, m)
	}
	return nil
}

func weeklySummary() (report.YearWeek, report.Summary, *report.Roster) {
	week := report.YearWeek{Year: 2025, Week: 29}
	roster := report.NewRoster([]string{"Jane Doe", "Raj Kumar", "Ana Silva"}, "example.com", nil)
	summary := report.Summary{Rows: []report.MemberSummary{
		{Member: "Jane Doe", Counts: report.Counts{Gross: 5, Exempted: 1, Net: 4}, Needed: 11},
		{Member: "Raj Kumar", Counts: report.Counts{Net: 15}, Needed: 0},
		{Member: "Ana Silva", Needed: 15},
	}}
	return week, summary, roster
}

func TestSendSummariesToEveryone(t *testing.T) {
	t.Parallel()

	week, summary, roster := weeklySummary()
	fake := &fakeSender{}
	m := NewMailerWithSender(fake, "team@example.com", nil)

	failures := m.SendSummaries(week, summary, roster, 15, nil)
	assert.Empty(t, failures)
	require.Len(t, fake.sent, 3, "empty recipient list means the whole roster")

	first := fake.sent[0]
	assert.Equal(t, []string{"team@example.com"}, first.GetHeader("From"))
	assert.Equal(t, []string{"jane.doe@example.com"}, first.GetHeader("To"))
	assert.Equal(t, []string{"Your Weekly Contribution Summary - 2025-W29"}, first.GetHeader("Subject"))
}

func TestSendSummariesSelectedRecipients(t *testing.T) {
	t.Parallel()

	week, summary, roster := weeklySummary()
	fake := &fakeSender{}
	m := NewMailerWithSender(fake, "team@example.com", nil)

	failures := m.SendSummaries(week, summary, roster, 15, []string{" Raj Kumar "})
	assert.Empty(t, failures)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"raj.kumar@example.com"}, fake.sent[0].GetHeader("To"))
}

func TestSendSummariesFailureIsolation(t *testing.T) {
	t.Parallel()

	week, summary, roster := weeklySummary()
	fake := &fakeSender{failFor: map[string]bool{"raj.kumar@example.com": true}}
	m := NewMailerWithSender(fake, "team@example.com", nil)

	failures := m.SendSummaries(week, summary, roster, 15, nil)
	require.Len(t, failures, 1, "one bounce never aborts the batch")
	assert.Contains(t, failures, "Raj Kumar")
	assert.Len(t, fake.sent, 2)
}

func TestSendSummariesUnknownRecipient(t *testing.T) {
	t.Parallel()

	week, summary, roster := weeklySummary()
	fake := &fakeSender{}
	m := NewMailerWithSender(fake, "team@example.com", nil)

	failures := m.SendSummaries(week, summary, roster, 15, []string{"Jane Doe", "Typo Name"})
	require.Len(t, failures, 1, "a name that matches no roster row is reported, not dropped")
	assert.ErrorContains(t, failures["typo name"], "no roster member")
	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"jane.doe@example.com"}, fake.sent[0].GetHeader("To"))
}

func TestSendSummariesMissingAddress(t *testing.T) {
	t.Parallel()

	week := report.YearWeek{Year: 2025, Week: 29}
	roster := report.NewRoster([]string{"Jane Doe"}, "", nil)
	summary := report.Summary{Rows: []report.MemberSummary{{Member: "Jane Doe", Needed: 15}}}

	fake := &fakeSender{}
	m := NewMailerWithSender(fake, "team@example.com", nil)

	failures := m.SendSummaries(week, summary, roster, 15, nil)
	require.Contains(t, failures, "Jane Doe")
	assert.ErrorContains(t, failures["Jane Doe"], "no email mapping")
	assert.Empty(t, fake.sent)
}

func TestSummaryBody(t *testing.T) {
	t.Parallel()

	body := summaryBody(report.MemberSummary{
		Member: "Jane Doe",
		Counts: report.Counts{Net: 4},
		Needed: 11,
	}, report.YearWeek{Year: 2025, Week: 29}, 15)

	assert.Contains(t, body, "Hi Jane,")
	assert.Contains(t, body, "Your Net Contributions: 4")
	assert.Contains(t, body, "Target (15): 11")
}
