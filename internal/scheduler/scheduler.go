package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/service/reporting"
	"github.com/mamadbah2/dairy/internal/service/whatsapp"
)

const jobTimeout = 2 * time.Minute

// DigestBuilder produces the periodic farm summary.
type DigestBuilder interface {
	BuildDigest(ctx context.Context, userID string, period models.Period) (models.Digest, error)
}

// BillSource reports the unpaid bills of a user.
type BillSource interface {
	Notifications(ctx context.Context, userID string) ([]models.Notification, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	digests   DigestBuilder
	bills     BillSource
	messenger whatsapp.MessagingService
	cfg       config.Config
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.Config, digests DigestBuilder, bills BillSource, messenger whatsapp.MessagingService, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Reporting.Location()
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		digests:   digests,
		bills:     bills,
		messenger: messenger,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("digest_schedule", s.cfg.Reporting.DigestSchedule),
		zap.String("notification_schedule", s.cfg.Reporting.NotificationSchedule),
		zap.String("timezone", s.cfg.Reporting.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.DigestSchedule, s.job("weekly digest", s.SendWeeklyDigest)); err != nil {
		return fmt.Errorf("schedule weekly digest: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.Reporting.NotificationSchedule, s.job("unpaid bill scan", s.SendUnpaidBills)); err != nil {
		return fmt.Errorf("schedule unpaid bill scan: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) job(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.logger.Info("running scheduled job", zap.String("job", name))
		if err := run(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job finished", zap.String("job", name))
	}
}

// SendWeeklyDigest builds the weekly summary of the default farm user and
// sends it to the manager.
func (s *Scheduler) SendWeeklyDigest(ctx context.Context) error {
	digest, err := s.digests.BuildDigest(ctx, s.cfg.Server.DefaultUserID, models.PeriodWeekly)
	if err != nil {
		return fmt.Errorf("build weekly digest: %w", err)
	}
	if err := s.messenger.NotifyManager(ctx, reporting.FormatDigest(digest)); err != nil {
		return fmt.Errorf("send weekly digest: %w", err)
	}
	return nil
}

// SendUnpaidBills pushes the current unpaid bill list to the manager. Nothing
// is sent when every bill is settled.
func (s *Scheduler) SendUnpaidBills(ctx context.Context) error {
	bills, err := s.bills.Notifications(ctx, s.cfg.Server.DefaultUserID)
	if err != nil {
		return fmt.Errorf("derive unpaid bills: %w", err)
	}
	if len(bills) == 0 {
		s.logger.Debug("no unpaid bills")
		return nil
	}
	if err := s.messenger.NotifyManager(ctx, whatsapp.FormatUnpaidBills(bills)); err != nil {
		return fmt.Errorf("send unpaid bills: %w", err)
	}
	return nil
}
