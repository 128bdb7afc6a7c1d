package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
)

type stubDigests struct {
	userID string
	period models.Period
	err    error
}

func (s *stubDigests) BuildDigest(_ context.Context, userID string, period models.Period) (models.Digest, error) {
	s.userID, s.period = userID, period
	return models.Digest{
		Period:  period,
		Start:   time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
		MilkKg:  420,
		Profit:  1000,
		SalesKg: 400,
	}, s.err
}

type stubBills struct{ bills []models.Notification }

func (s stubBills) Notifications(context.Context, string) ([]models.Notification, error) {
	return s.bills, nil
}

type recordingMessenger struct{ messages []string }

func (m *recordingMessenger) SendOutbound(_ context.Context, req models.OutboundMessage) error {
	m.messages = append(m.messages, req.Message)
	return nil
}

func (m *recordingMessenger) NotifyManager(_ context.Context, message string) error {
	m.messages = append(m.messages, message)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{DefaultUserID: "farm"},
		Reporting: config.ReportingConfig{
			DigestSchedule:       "0 20 * * 5",
			NotificationSchedule: "0 9 * * *",
			Timezone:             "UTC",
		},
	}
}

func TestSendWeeklyDigest(t *testing.T) {
	digests := &stubDigests{}
	messenger := &recordingMessenger{}
	s, err := NewScheduler(testConfig(), digests, stubBills{}, messenger, nil)
	require.NoError(t, err)

	require.NoError(t, s.SendWeeklyDigest(context.Background()))

	assert.Equal(t, "farm", digests.userID)
	assert.Equal(t, models.PeriodWeekly, digests.period)
	require.Len(t, messenger.messages, 1)
	assert.Contains(t, messenger.messages[0], "Weekly farm summary (2025-06-06 to 2025-06-13)")
}

func TestSendWeeklyDigest_BuildFailure(t *testing.T) {
	messenger := &recordingMessenger{}
	s, err := NewScheduler(testConfig(), &stubDigests{err: errors.New("db down")}, stubBills{}, messenger, nil)
	require.NoError(t, err)

	assert.Error(t, s.SendWeeklyDigest(context.Background()))
	assert.Empty(t, messenger.messages)
}

func TestSendUnpaidBills(t *testing.T) {
	messenger := &recordingMessenger{}
	s, err := NewScheduler(testConfig(), &stubDigests{}, stubBills{}, messenger, nil)
	require.NoError(t, err)

	require.NoError(t, s.SendUnpaidBills(context.Background()))
	assert.Empty(t, messenger.messages, "nothing to report")

	s.bills = stubBills{bills: []models.Notification{{Message: "Ali has not yet paid the bill of Rs. 55.00"}}}
	require.NoError(t, s.SendUnpaidBills(context.Background()))
	require.Len(t, messenger.messages, 1)
	assert.Contains(t, messenger.messages[0], "Unpaid bills (1)")
}

func TestNewScheduler_BadTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Reporting.Timezone = "Mars/Olympus"
	_, err := NewScheduler(cfg, &stubDigests{}, stubBills{}, &recordingMessenger{}, nil)
	assert.Error(t, err)
}

func TestStartAndStop(t *testing.T) {
	s, err := NewScheduler(testConfig(), &stubDigests{}, stubBills{}, &recordingMessenger{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()

	cfg := testConfig()
	cfg.Reporting.DigestSchedule = "not a schedule"
	bad, err := NewScheduler(cfg, &stubDigests{}, stubBills{}, &recordingMessenger{}, nil)
	require.NoError(t, err)
	assert.Error(t, bad.Start())
}
